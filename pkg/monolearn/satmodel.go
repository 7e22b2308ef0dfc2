package monolearn

import (
	"context"
	"fmt"

	"github.com/crillab/gophersat/bf"
)

// SATModel is a ConstraintModel backed by gophersat's bf package (the
// real third-party SAT solver vendored for reference under
// _examples/DoOR-Team-gophersat). It reconstructs a fresh solver on
// every Solve call from the accumulated clause set plus the current
// assumptions, which is acceptable because spec.md's Non-goals
// explicitly rule out incremental recomputation on constraint
// *removal* -- clauses here are only ever added, never dropped, so
// rebuilding from the full accumulated set on each solve is simply
// how this particular backend implements "seed once, solve many."
type SATModel struct {
	n       int
	clauses []bf.Formula // flat "Or of literals" clauses, ANDed together

	cardBuilt bool
	xsumLit   []Lit // xsumLit[k] for k in [0,n], the literal CardinalityGEQ(k) hands out
}

// NewSATModel constructs an empty SATModel over n ground variables.
func NewSATModel(n int) *SATModel {
	return &SATModel{n: n}
}

func (m *SATModel) N() int { return m.n }

func (m *SATModel) XVar(i int) Lit { return Lit{name: xVarName(i)} }

func litFormula(l Lit) bf.Formula {
	v := bf.Var(l.name)
	if l.neg {
		return bf.Not(v)
	}
	return v
}

// addClause adds a single "at least one of these literals" clause.
func (m *SATModel) addClause(lits ...Lit) {
	fs := make([]bf.Formula, len(lits))
	for i, l := range lits {
		fs[i] = litFormula(l)
	}
	m.clauses = append(m.clauses, bf.Or(fs...))
}

// ExcludeSub bans every subset of v: at least one variable outside v
// must be true (spec.md §4.4).
func (m *SATModel) ExcludeSub(v SparseSet) error {
	full := FullSet(m.n)
	outside := full.Difference(v)
	if outside.Len() == 0 {
		return fmt.Errorf("%w: exclude-sub of the full ground set is unsatisfiable by construction", ErrSolverInfeasible)
	}
	lits := make([]Lit, 0, outside.Len())
	outside.ForEach(func(i int) { lits = append(lits, m.XVar(i)) })
	m.addClause(lits...)
	return nil
}

// ExcludeSuper bans every superset of v: at least one variable inside
// v must be false (spec.md §4.4).
func (m *SATModel) ExcludeSuper(v SparseSet) error {
	if v.Len() == 0 {
		return fmt.Errorf("%w: exclude-super of the empty set is unsatisfiable by construction", ErrSolverInfeasible)
	}
	lits := make([]Lit, 0, v.Len())
	v.ForEach(func(i int) { lits = append(lits, m.XVar(i).Negate()) })
	m.addClause(lits...)
	return nil
}

// CardinalityGEQ returns xsum[k], building the full sequential
// counter network (spec.md §4.4) on first use.
func (m *SATModel) CardinalityGEQ(k int) (Lit, error) {
	if k < 0 || k > m.n {
		return Lit{}, fmt.Errorf("monolearn: cardinality level %d out of range [0,%d]", k, m.n)
	}
	if !m.cardBuilt {
		m.buildCardinality()
	}
	return m.xsumLit[k], nil
}

// buildCardinality lays down a standard Sinz sequential-counter
// encoding: register(i,k) means "at least k of x_0..x_i are true."
// Every register is a freshly named variable tied to its definition
// with hand-expanded Tseitin clauses (flat Or-of-literals only),
// since the bf CNF translator does not memoize shared subformulas
// across an arbitrarily nested circuit (confirmed by reading
// cnfRec in the vendored gophersat/bf source).
func (m *SATModel) buildCardinality() {
	m.cardBuilt = true
	n := m.n
	if n == 0 {
		// No ground variables: xsum[0] is vacuously true, pinned down
		// by a unit clause rather than left as a free variable.
		zero := Lit{name: xsumVarName(0)}
		m.addClause(zero)
		m.xsumLit = []Lit{zero}
		return
	}

	reg := make([][]Lit, n) // reg[i][k-1] for k in [1, i+1]
	regName := func(i, k int) string { return fmt.Sprintf("reg_%d_%d", i, k) }

	defineIff := func(a Lit, rhs []Lit, isAnd bool) {
		// a <-> AND(rhs): (a -> r_i) for each r_i, plus
		// (r_1 & ... & r_m -> a).
		//
		// a <-> OR(rhs): (r_i -> a) for each r_i, plus
		// (a -> r_1 | ... | r_m).
		if isAnd {
			for _, r := range rhs {
				m.addClause(a.Negate(), r)
			}
		} else {
			for _, r := range rhs {
				m.addClause(r.Negate(), a)
			}
		}
		other := make([]Lit, len(rhs)+1)
		for i, r := range rhs {
			if isAnd {
				other[i] = r.Negate()
			} else {
				other[i] = r
			}
		}
		if isAnd {
			other[len(rhs)] = a
		} else {
			other[len(rhs)] = a.Negate()
		}
		m.addClause(other...)
	}

	for i := 0; i < n; i++ {
		xi := m.XVar(i)
		maxK := i + 1
		reg[i] = make([]Lit, maxK)
		for k := 1; k <= maxK; k++ {
			name := regName(i, k)
			a := Lit{name: name}
			switch {
			case i == 0 && k == 1:
				// R(0,1) is just x_0; alias rather than mint a
				// redundant variable.
				reg[i][k-1] = xi
				continue
			case k == 1:
				defineIff(a, []Lit{reg[i-1][0], xi}, false)
			case k == i+1:
				and := Lit{name: name + "_and"}
				defineIff(and, []Lit{reg[i-1][k-2], xi}, true)
				reg[i][k-1] = and
				continue
			default:
				and := Lit{name: name + "_and"}
				defineIff(and, []Lit{reg[i-1][k-2], xi}, true)
				defineIff(a, []Lit{reg[i-1][k-1], and}, false)
			}
			reg[i][k-1] = a
		}
	}

	m.xsumLit = make([]Lit, n+1)
	zero := Lit{name: xsumVarName(0)}
	m.addClause(zero)
	m.xsumLit[0] = zero
	for k := 1; k <= n; k++ {
		m.xsumLit[k] = reg[n-1][k-1]
	}
}

// Solve rebuilds a fresh bf.Formula from the accumulated clauses plus
// the assumption literals (as unit clauses) and calls gophersat.
func (m *SATModel) Solve(ctx context.Context, assumptions []Lit) (Assignment, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	all := make([]bf.Formula, 0, len(m.clauses)+len(assumptions))
	all = append(all, m.clauses...)
	for _, a := range assumptions {
		all = append(all, litFormula(a))
	}
	if len(all) == 0 {
		return Assignment{}, true, nil
	}

	sat, model, err := bf.Solve(bf.And(all...))
	if err != nil {
		return nil, false, fmt.Errorf("monolearn: gophersat solve: %w", err)
	}
	if !sat {
		return nil, false, nil
	}
	out := make(Assignment, len(model))
	for name, v := range model {
		out[name] = v
	}
	return out, true, nil
}
