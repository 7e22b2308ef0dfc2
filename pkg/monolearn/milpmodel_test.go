package monolearn

import (
	"context"
	"errors"
	"testing"
)

var _ ConstraintModel = (*MILPModel)(nil)

func TestMILPModelExcludeSubOfFullSetErrors(t *testing.T) {
	m := NewMILPModel(2)
	err := m.ExcludeSub(FullSet(2))
	if !errors.Is(err, ErrSolverInfeasible) {
		t.Fatalf("ExcludeSub(full) error = %v, want ErrSolverInfeasible", err)
	}
}

func TestMILPModelExcludeSuperOfEmptySetErrors(t *testing.T) {
	m := NewMILPModel(2)
	err := m.ExcludeSuper(EmptySet())
	if !errors.Is(err, ErrSolverInfeasible) {
		t.Fatalf("ExcludeSuper(empty) error = %v, want ErrSolverInfeasible", err)
	}
}

func TestMILPModelSolveWithNoConstraintsIsTriviallySat(t *testing.T) {
	m := NewMILPModel(3)
	_, ok, err := m.Solve(context.Background(), nil)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !ok {
		t.Fatalf("an unconstrained model must be satisfiable")
	}
}

func TestMILPModelExcludeSuperBansBothTrue(t *testing.T) {
	m := NewMILPModel(2)
	if err := m.ExcludeSuper(NewSparseSet(0, 1)); err != nil {
		t.Fatalf("ExcludeSuper: %v", err)
	}

	_, ok, err := m.Solve(context.Background(), []Lit{m.XVar(0), m.XVar(1)})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if ok {
		t.Fatalf("forcing both x0 and x1 true should be infeasible after ExcludeSuper({0,1})")
	}

	a, ok, err := m.Solve(context.Background(), []Lit{m.XVar(0)})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !ok {
		t.Fatalf("forcing only x0 true should remain feasible")
	}
	if !a.True(0) {
		t.Fatalf("satisfying assignment must honor the x0 assumption")
	}
}

func TestMILPModelExcludeSubBansFullComplementFalse(t *testing.T) {
	m := NewMILPModel(2)
	if err := m.ExcludeSub(NewSparseSet(0)); err != nil {
		t.Fatalf("ExcludeSub: %v", err)
	}
	_, ok, err := m.Solve(context.Background(), []Lit{m.XVar(1).Negate()})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if ok {
		t.Fatalf("forcing x1 false should be infeasible after ExcludeSub({0})")
	}
}

func TestMILPModelCardinalityForcesFullSet(t *testing.T) {
	const n = 3
	m := NewMILPModel(n)
	lit, err := m.CardinalityGEQ(n)
	if err != nil {
		t.Fatalf("CardinalityGEQ(%d): %v", n, err)
	}

	a, ok, err := m.Solve(context.Background(), []Lit{lit})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !ok {
		t.Fatalf("xsum[N] asserted true must be feasible via the all-true assignment")
	}
	if !a.Vector(n).Equal(FullSet(n)) {
		t.Fatalf("Vector = %v, want the full ground set %v", a.Vector(n), FullSet(n))
	}
}

func TestMILPModelCardinalityNegatedForcesLowWeight(t *testing.T) {
	const n = 3
	m := NewMILPModel(n)
	lit, err := m.CardinalityGEQ(1)
	if err != nil {
		t.Fatalf("CardinalityGEQ(1): %v", err)
	}

	a, ok, err := m.Solve(context.Background(), []Lit{lit.Negate()})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !ok {
		t.Fatalf("negating xsum[1] should still be feasible via the empty assignment")
	}
	if a.Vector(n).Len() != 0 {
		t.Fatalf("Vector = %v, want the empty set (not xsum[1] means weight 0)", a.Vector(n))
	}
}

func TestMILPModelIsCardinalityLit(t *testing.T) {
	k, ok := isCardinalityLit(xsumVarName(2))
	if !ok || k != 2 {
		t.Fatalf("isCardinalityLit(%q) = (%d, %v), want (2, true)", xsumVarName(2), k, ok)
	}
	if _, ok := isCardinalityLit("x2"); ok {
		t.Fatalf("isCardinalityLit(%q) should not match a ground-variable name", "x2")
	}
}

func TestMILPModelSolveRespectsCancellation(t *testing.T) {
	m := NewMILPModel(2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := m.Solve(ctx, nil)
	if err == nil {
		t.Fatalf("Solve on a cancelled context must return an error")
	}
}
