package monolearn

import "errors"

// Sentinel errors for the taxonomy described in spec.md §7. Wrap with
// fmt.Errorf("...: %w", ErrX) at the call site and test with
// errors.Is.
var (
	// ErrStateVersionMismatch: a persisted file's version does not
	// match DATA_VERSION, or its N disagrees with the in-memory N.
	// Fatal to this load; the caller may start fresh.
	ErrStateVersionMismatch = errors.New("monolearn: state version mismatch")

	// ErrStateCorrupt: decompression or JSON parse failure. Fatal to
	// load; in-memory state remains the empty default.
	ErrStateCorrupt = errors.New("monolearn: state corrupt")

	// ErrOracleFailure: the user predicate returned an error.
	// Propagated to the caller after a best-effort Save.
	ErrOracleFailure = errors.New("monolearn: oracle failure")

	// ErrSolverInfeasible: the SAT/MILP solver reported a result that
	// should have been satisfiable by construction — a caller bug or
	// a constraint mis-encoding.
	ErrSolverInfeasible = errors.New("monolearn: solver infeasible")

	// ErrInterrupted: learning was interrupted via the cancellation
	// path described in spec.md §5.
	ErrInterrupted = errors.New("monolearn: interrupted")
)
