package monolearn

import (
	"context"
	"fmt"
)

// Lit is a signed reference to a model variable: either a ground
// variable x_i or a cardinality auxiliary xsum[k] (spec.md §4.4).
// ConstraintModel implementations are responsible for mapping a Lit's
// name to whatever native representation their backend uses.
type Lit struct {
	name string
	neg  bool
}

// Negate returns the complementary literal.
func (l Lit) Negate() Lit { return Lit{name: l.name, neg: !l.neg} }

// Name returns the underlying variable name, ignoring sign.
func (l Lit) Name() string { return l.name }

// Negated reports whether this literal is a negation of its
// variable.
func (l Lit) Negated() bool { return l.neg }

func xVarName(i int) string    { return fmt.Sprintf("x%d", i) }
func xsumVarName(k int) string { return fmt.Sprintf("xsum%d", k) }

// Assignment maps variable names to their boolean value in a
// satisfying solution.
type Assignment map[string]bool

// True reports whether ground variable i is true in the assignment.
func (a Assignment) True(i int) bool { return a[xVarName(i)] }

// Vector extracts the SparseSet of ground indices set true in the
// assignment, out of n ground variables.
func (a Assignment) Vector(n int) SparseSet {
	elems := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if a.True(i) {
			elems = append(elems, i)
		}
	}
	return NewSparseSet(elems...)
}

// ConstraintModel is the shared seeding contract behind the two
// mutually exclusive SAT/MILP backends described in spec.md §4.4,
// re-architected per spec.md §9's design note as two adaptors behind
// one interface instead of a shared base class.
type ConstraintModel interface {
	// N returns the ground-set size this model was built over.
	N() int

	// XVar returns the literal for ground variable 0<=i<N.
	XVar(i int) Lit

	// ExcludeSub bans every subset of v: asserts at least one
	// variable outside v is true ("exclude-sub", spec.md §4.4).
	ExcludeSub(v SparseSet) error

	// ExcludeSuper bans every superset of v: asserts at least one
	// variable inside v is false ("exclude-super", spec.md §4.4).
	ExcludeSuper(v SparseSet) error

	// CardinalityGEQ returns the literal xsum[k]: true iff at least k
	// of the ground variables are true. xsum[0] is always true; a k
	// outside [0,N] is rejected with an error.
	CardinalityGEQ(k int) (Lit, error)

	// Solve runs the solver with the given literals asserted true as
	// assumptions (spec.md §6's "solve with a list of assumption
	// literals"). ok is false for UNSAT; a non-nil err indicates a
	// backend failure distinct from UNSAT.
	Solve(ctx context.Context, assumptions []Lit) (assignment Assignment, ok bool, err error)
}
