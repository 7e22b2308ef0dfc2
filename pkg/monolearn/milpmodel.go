package monolearn

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// MILPModel is a reference ConstraintModel backed by a gonum constraint
// matrix and a branch-and-bound search, offered as an alternative to
// SATModel for ground sets small enough that a dedicated SAT solver is
// overkill. Each accumulated constraint is a row over the ground
// variables with relation "row . x >= rhs" (spec.md §4.4's exclude-sub,
// exclude-super, and cardinality constraints are all of this shape).
type MILPModel struct {
	n    int
	rows []mat.Vector
	rhs  []float64

	cardBuilt bool
}

// NewMILPModel constructs an empty MILPModel over n ground variables.
func NewMILPModel(n int) *MILPModel {
	return &MILPModel{n: n}
}

func (m *MILPModel) N() int { return m.n }

func (m *MILPModel) XVar(i int) Lit { return Lit{name: xVarName(i)} }

func (m *MILPModel) addRow(coeffs []float64, rhs float64) {
	m.rows = append(m.rows, mat.NewVecDense(m.n, coeffs))
	m.rhs = append(m.rhs, rhs)
}

// ExcludeSub asserts sum_{i not in v} x_i >= 1.
func (m *MILPModel) ExcludeSub(v SparseSet) error {
	full := FullSet(m.n)
	outside := full.Difference(v)
	if outside.Len() == 0 {
		return fmt.Errorf("%w: exclude-sub of the full ground set is unsatisfiable by construction", ErrSolverInfeasible)
	}
	coeffs := make([]float64, m.n)
	outside.ForEach(func(i int) { coeffs[i] = 1 })
	m.addRow(coeffs, 1)
	return nil
}

// ExcludeSuper asserts sum_{i in v} (1 - x_i) >= 1, i.e.
// -sum_{i in v} x_i >= 1 - |v|.
func (m *MILPModel) ExcludeSuper(v SparseSet) error {
	if v.Len() == 0 {
		return fmt.Errorf("%w: exclude-super of the empty set is unsatisfiable by construction", ErrSolverInfeasible)
	}
	coeffs := make([]float64, m.n)
	v.ForEach(func(i int) { coeffs[i] = -1 })
	m.addRow(coeffs, float64(1-v.Len()))
	return nil
}

// CardinalityGEQ returns a literal standing for "sum x_i >= k". Unlike
// SATModel, the MILP backend needs no auxiliary variable: the
// assumption mechanism below recognizes the reserved xsum name and
// turns it directly into a row bound instead of a fixed literal.
func (m *MILPModel) CardinalityGEQ(k int) (Lit, error) {
	if k < 0 || k > m.n {
		return Lit{}, fmt.Errorf("monolearn: cardinality level %d out of range [0,%d]", k, m.n)
	}
	return Lit{name: xsumVarName(k)}, nil
}

func isCardinalityLit(name string) (k int, ok bool) {
	if _, err := fmt.Sscanf(name, "xsum%d", &k); err == nil {
		return k, true
	}
	return 0, false
}

// Solve performs a depth-first branch-and-bound search over the
// Boolean hypercube, pruning a branch as soon as any row can no longer
// reach its rhs (the remaining unassigned coordinates can contribute
// at most their positive coefficients). Assumptions fix ground
// variables true (or false, for a negated literal), or translate a
// cardinality literal into an added row for the duration of this call.
// A context cancelled before a solution is found is reported as its
// error, not as UNSAT.
func (m *MILPModel) Solve(ctx context.Context, assumptions []Lit) (Assignment, bool, error) {
	rows := append([]mat.Vector(nil), m.rows...)
	rhs := append([]float64(nil), m.rhs...)
	fixed := make(map[int]bool, len(assumptions))

	for _, a := range assumptions {
		if k, ok := isCardinalityLit(a.name); ok {
			if a.neg {
				// NOT(sum >= k) == sum <= k-1 == -sum >= -(k-1).
				coeffs := make([]float64, m.n)
				for i := range coeffs {
					coeffs[i] = -1
				}
				rows = append(rows, mat.NewVecDense(m.n, coeffs))
				rhs = append(rhs, float64(1-k))
				continue
			}
			coeffs := make([]float64, m.n)
			for i := range coeffs {
				coeffs[i] = 1
			}
			rows = append(rows, mat.NewVecDense(m.n, coeffs))
			rhs = append(rhs, float64(k))
			continue
		}
		var idx int
		if _, err := fmt.Sscanf(a.name, "x%d", &idx); err != nil {
			return nil, false, fmt.Errorf("monolearn: unrecognized assumption literal %q", a.name)
		}
		fixed[idx] = !a.neg
	}

	assign := make([]int, m.n) // 0=unset, 1=true, -1=false
	for i, v := range fixed {
		if v {
			assign[i] = 1
		} else {
			assign[i] = -1
		}
	}

	var search func(pos int) (Assignment, bool)
	search = func(pos int) (Assignment, bool) {
		if ctx.Err() != nil {
			return nil, false
		}
		if !feasible(rows, rhs, assign, pos, m.n) {
			return nil, false
		}
		if pos == m.n {
			out := make(Assignment, m.n)
			for i := 0; i < m.n; i++ {
				out[xVarName(i)] = assign[i] == 1
			}
			return out, true
		}
		if assign[pos] != 0 {
			return search(pos + 1)
		}
		for _, v := range []int{1, -1} {
			assign[pos] = v
			if a, ok := search(pos + 1); ok {
				return a, true
			}
		}
		assign[pos] = 0
		return nil, false
	}

	if ctx.Err() != nil {
		return nil, false, ctx.Err()
	}
	a, ok := search(0)
	if !ok && ctx.Err() != nil {
		return nil, false, ctx.Err()
	}
	return a, ok, nil
}

// feasible reports whether every row can still reach its rhs given the
// assignment made so far (assign[i]==0 means unassigned, free to
// become its best-case contribution for this bound check).
func feasible(rows []mat.Vector, rhs []float64, assign []int, pos, n int) bool {
	for r, row := range rows {
		sum := 0.0
		for i := 0; i < n; i++ {
			c := row.AtVec(i)
			switch {
			case assign[i] == 1:
				sum += c
			case assign[i] == -1:
				// contributes 0
			default:
				// unassigned: optimistic bound uses the positive
				// coefficients only
				if c > 0 {
					sum += c
				}
			}
		}
		if sum < rhs[r] {
			return false
		}
	}
	return true
}
