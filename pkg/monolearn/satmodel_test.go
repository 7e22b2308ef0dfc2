package monolearn

import (
	"context"
	"errors"
	"testing"
)

var _ ConstraintModel = (*SATModel)(nil)

func TestSATModelExcludeSubOfFullSetErrors(t *testing.T) {
	m := NewSATModel(2)
	err := m.ExcludeSub(FullSet(2))
	if !errors.Is(err, ErrSolverInfeasible) {
		t.Fatalf("ExcludeSub(full) error = %v, want ErrSolverInfeasible", err)
	}
}

func TestSATModelExcludeSuperOfEmptySetErrors(t *testing.T) {
	m := NewSATModel(2)
	err := m.ExcludeSuper(EmptySet())
	if !errors.Is(err, ErrSolverInfeasible) {
		t.Fatalf("ExcludeSuper(empty) error = %v, want ErrSolverInfeasible", err)
	}
}

func TestSATModelSolveWithNoConstraintsIsTriviallySat(t *testing.T) {
	m := NewSATModel(3)
	_, ok, err := m.Solve(context.Background(), nil)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !ok {
		t.Fatalf("an unconstrained model must be satisfiable")
	}
}

func TestSATModelExcludeSuperBansBothTrue(t *testing.T) {
	m := NewSATModel(2)
	if err := m.ExcludeSuper(NewSparseSet(0, 1)); err != nil {
		t.Fatalf("ExcludeSuper: %v", err)
	}

	_, ok, err := m.Solve(context.Background(), []Lit{m.XVar(0), m.XVar(1)})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if ok {
		t.Fatalf("forcing both x0 and x1 true should be UNSAT after ExcludeSuper({0,1})")
	}

	a, ok, err := m.Solve(context.Background(), []Lit{m.XVar(0)})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !ok {
		t.Fatalf("forcing only x0 true should remain SAT")
	}
	if !a.True(0) {
		t.Fatalf("satisfying assignment must honor the x0 assumption")
	}
}

func TestSATModelExcludeSubBansFullComplementFalse(t *testing.T) {
	m := NewSATModel(2)
	if err := m.ExcludeSub(NewSparseSet(0)); err != nil {
		t.Fatalf("ExcludeSub: %v", err)
	}
	// ExcludeSub({0}) bans subsets of {0}: x1 must always be true.
	_, ok, err := m.Solve(context.Background(), []Lit{m.XVar(1).Negate()})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if ok {
		t.Fatalf("forcing x1 false should be UNSAT after ExcludeSub({0})")
	}
}

func TestSATModelCardinalityForcesFullSet(t *testing.T) {
	const n = 3
	m := NewSATModel(n)
	lit, err := m.CardinalityGEQ(n)
	if err != nil {
		t.Fatalf("CardinalityGEQ(%d): %v", n, err)
	}

	a, ok, err := m.Solve(context.Background(), []Lit{lit})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !ok {
		t.Fatalf("xsum[N] asserted true must be satisfiable by the all-true assignment")
	}
	if !a.Vector(n).Equal(FullSet(n)) {
		t.Fatalf("Vector = %v, want the full ground set %v", a.Vector(n), FullSet(n))
	}
}

func TestSATModelCardinalityNegatedForcesLowWeight(t *testing.T) {
	const n = 3
	m := NewSATModel(n)
	lit, err := m.CardinalityGEQ(1)
	if err != nil {
		t.Fatalf("CardinalityGEQ(1): %v", err)
	}

	a, ok, err := m.Solve(context.Background(), []Lit{lit.Negate()})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !ok {
		t.Fatalf("negating xsum[1] should still be satisfiable by the empty assignment")
	}
	if a.Vector(n).Len() != 0 {
		t.Fatalf("Vector = %v, want the empty set (not xsum[1] means weight 0)", a.Vector(n))
	}
}

func TestSATModelCardinalityOutOfRange(t *testing.T) {
	m := NewSATModel(2)
	if _, err := m.CardinalityGEQ(3); err == nil {
		t.Fatalf("expected an error for a cardinality level above N")
	}
	if _, err := m.CardinalityGEQ(-1); err == nil {
		t.Fatalf("expected an error for a negative cardinality level")
	}
}

func TestSATModelSolveRespectsCancellation(t *testing.T) {
	m := NewSATModel(2)
	if err := m.ExcludeSuper(NewSparseSet(0, 1)); err != nil {
		t.Fatalf("ExcludeSuper: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := m.Solve(ctx, nil)
	if err == nil {
		t.Fatalf("Solve on a cancelled context must return an error")
	}
}
