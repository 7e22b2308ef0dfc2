package monolearn

import (
	"context"
	"errors"
	"testing"
)

func TestGainanovSATMinCardinality(t *testing.T) {
	const n = 4
	knowledge, err := NewLowerSetLearn(n, "")
	if err != nil {
		t.Fatalf("NewLowerSetLearn: %v", err)
	}
	oracle := NewOracle(func(v SparseSet) bool { return v.Len() <= 2 })
	lm := NewLearnModule(knowledge, oracle)
	if err := lm.SeedModel(); err != nil {
		t.Fatalf("SeedModel: %v", err)
	}

	model := NewSATModel(n)
	learner := NewGainanovSAT(lm, model, SenseMin)

	complete, err := learner.Learn(context.Background())
	if err != nil {
		t.Fatalf("Learn: %v", err)
	}
	if !complete {
		t.Fatalf("expected the learner to exhaust a finite ground set")
	}

	// |v|<=2 over N=4: the unique maximal lower vectors are every
	// weight-2 subset (6 of them); the unique minimal upper vectors
	// are every weight-3 subset (4 of them).
	if got := knowledge.NLower(); got != 6 {
		t.Fatalf("NLower() = %d, want 6", got)
	}
	if got := knowledge.NUpper(); got != 4 {
		t.Fatalf("NUpper() = %d, want 4", got)
	}

	knowledge.IterLower(func(v SparseSet) {
		if v.Len() != 2 {
			t.Errorf("recorded lower vector %v has weight %d, want 2", v, v.Len())
		}
	})
	knowledge.IterUpper(func(v SparseSet) {
		if v.Len() != 3 {
			t.Errorf("recorded upper vector %v has weight %d, want 3", v, v.Len())
		}
	})
}

func TestGainanovSATMaxCardinality(t *testing.T) {
	const n = 4
	knowledge, err := NewLowerSetLearn(n, "")
	if err != nil {
		t.Fatalf("NewLowerSetLearn: %v", err)
	}
	oracle := NewOracle(func(v SparseSet) bool { return v.Len() <= 2 })
	lm := NewLearnModule(knowledge, oracle)
	if err := lm.SeedModel(); err != nil {
		t.Fatalf("SeedModel: %v", err)
	}

	model := NewSATModel(n)
	learner := NewGainanovSAT(lm, model, SenseMax)

	complete, err := learner.Learn(context.Background())
	if err != nil {
		t.Fatalf("Learn: %v", err)
	}
	if !complete {
		t.Fatalf("expected the learner to exhaust a finite ground set")
	}
	if got := knowledge.NLower(); got != 6 {
		t.Fatalf("NLower() = %d, want 6 (sense should not change the learned antichains)", got)
	}
	if got := knowledge.NUpper(); got != 4 {
		t.Fatalf("NUpper() = %d, want 4", got)
	}
}

func TestGainanovSATAlreadyExhausted(t *testing.T) {
	const n = 2
	knowledge, err := NewLowerSetLearn(n, "")
	if err != nil {
		t.Fatalf("NewLowerSetLearn: %v", err)
	}
	// Seed every prime directly so the model has nothing left to find:
	// the only lower vector is {} and the only upper vector is the
	// complement of nothing -- i.e. everything non-empty is upper.
	knowledge.AddLower(EmptySet(), nil, true)
	knowledge.AddUpper(NewSparseSet(0), nil, true)
	knowledge.AddUpper(NewSparseSet(1), nil, true)

	oracle := NewOracle(func(v SparseSet) bool { return v.Len() == 0 })
	lm := NewLearnModule(knowledge, oracle)
	model := NewSATModel(n)
	lm.InitModel(model)
	if err := lm.SeedModel(); err != nil {
		t.Fatalf("SeedModel: %v", err)
	}

	learner := NewGainanovSAT(lm, model, SenseMin)

	complete, err := learner.Learn(context.Background())
	if err != nil {
		t.Fatalf("Learn: %v", err)
	}
	if !complete {
		t.Fatalf("expected an already-fully-seeded model to report complete immediately")
	}
	if oracle.NQueries() != 0 {
		t.Fatalf("NQueries() = %d, want 0 (nothing left to discover)", oracle.NQueries())
	}
}

func TestGainanovSATRespectsCancellation(t *testing.T) {
	const n = 6
	knowledge, err := NewLowerSetLearn(n, "")
	if err != nil {
		t.Fatalf("NewLowerSetLearn: %v", err)
	}
	oracle := NewOracle(func(v SparseSet) bool { return v.Len() <= 3 })
	lm := NewLearnModule(knowledge, oracle)
	if err := lm.SeedModel(); err != nil {
		t.Fatalf("SeedModel: %v", err)
	}

	model := NewSATModel(n)
	learner := NewGainanovSAT(lm, model, SenseMin)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = learner.Learn(ctx)
	if !errors.Is(err, ErrInterrupted) {
		t.Fatalf("Learn on a cancelled context should return ErrInterrupted, got: %v", err)
	}
}
