package monolearn

import (
	"errors"
	"testing"
)

func TestOracleMemoizesCalls(t *testing.T) {
	calls := 0
	o := NewOracle(func(v SparseSet) bool {
		calls++
		return v.Len() <= 1
	})

	v := NewSparseSet(0)
	for i := 0; i < 3; i++ {
		isLower, _, err := o.Query(v)
		if err != nil {
			t.Fatalf("Query: %v", err)
		}
		if !isLower {
			t.Fatalf("expected %v to be lower", v)
		}
	}
	if calls != 1 {
		t.Fatalf("predicate called %d times, want 1 (memoized)", calls)
	}
	if o.NCalls() != 3 {
		t.Fatalf("NCalls() = %d, want 3", o.NCalls())
	}
	if o.NQueries() != 1 {
		t.Fatalf("NQueries() = %d, want 1", o.NQueries())
	}
}

func TestOracleLevelCacheShortCircuits(t *testing.T) {
	calls := 0
	o := NewOracle(func(v SparseSet) bool {
		calls++
		return v.Len() <= 1
	})
	o.DisableCache()

	v := NewSparseSet(0, 1)
	o.LowerCache().Add(v, NoMeta{})
	o.LowerCache().SetRange(0, 2)

	isLower, _, err := o.Query(v)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if !isLower {
		t.Fatalf("expected level-cache hit to report lower")
	}
	if calls != 0 {
		t.Fatalf("predicate should not have been called, called %d times", calls)
	}
}

func TestOracleUpperCacheShortCircuits(t *testing.T) {
	calls := 0
	o := NewOracle(func(v SparseSet) bool {
		calls++
		return false
	})
	o.DisableCache()

	v := NewSparseSet(0, 1)
	o.UpperCache().Add(v, NoMeta{})
	o.UpperCache().SetRange(0, 2)

	isLower, _, err := o.Query(v)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if isLower {
		t.Fatalf("expected upper-cache hit to report not-lower")
	}
	if calls != 0 {
		t.Fatalf("predicate should not have been called, called %d times", calls)
	}
}

func TestOracleWrapsPredicateError(t *testing.T) {
	boom := errors.New("boom")
	o := NewOracleFunc(func(v SparseSet) (bool, Meta, error) {
		return false, nil, boom
	})

	_, _, err := o.Query(EmptySet())
	if !errors.Is(err, ErrOracleFailure) {
		t.Fatalf("Query error = %v, want wrapped ErrOracleFailure", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("Query error does not wrap the original predicate error")
	}
}

func TestOracleResetClearsCachesNotCounters(t *testing.T) {
	o := NewOracle(func(v SparseSet) bool { return true })
	v := NewSparseSet(0)
	if _, _, err := o.Query(v); err != nil {
		t.Fatalf("Query: %v", err)
	}
	o.Reset()
	if o.NCalls() != 1 || o.NQueries() != 1 {
		t.Fatalf("Reset must not clear counters, got calls=%d queries=%d", o.NCalls(), o.NQueries())
	}
	if _, _, err := o.Query(v); err != nil {
		t.Fatalf("Query: %v", err)
	}
	if o.NQueries() != 2 {
		t.Fatalf("after Reset the main cache must be cleared, predicate should be re-invoked; NQueries()=%d", o.NQueries())
	}
}

func TestOracleBoundedCache(t *testing.T) {
	calls := 0
	o := NewOracle(func(v SparseSet) bool {
		calls++
		return true
	}, WithCacheSize(16))

	v := NewSparseSet(1, 2)
	for i := 0; i < 5; i++ {
		if _, _, err := o.Query(v); err != nil {
			t.Fatalf("Query: %v", err)
		}
	}
	if calls != 1 {
		t.Fatalf("bounded cache should still memoize, predicate called %d times", calls)
	}
}
