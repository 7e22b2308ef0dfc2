package monolearn

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// LevelLearn classifies every vector at consecutive Hamming weights,
// starting from the empty set upward and/or the full set downward
// (spec.md §4.6). It never builds a constraint model: each candidate
// is generated directly from the previous level's neighbors and
// filtered by a compatibility count before the oracle is consulted, so
// the cost stays polynomial in the level count instead of exponential
// in N.
type LevelLearn struct {
	lm *LearnModule

	levelsLower int
	levelsUpper int

	log *zap.SugaredLogger
}

// LevelLearnOption configures a LevelLearn at construction time.
type LevelLearnOption func(*LevelLearn)

// WithLevelLearnLogger attaches a structured logger.
func WithLevelLearnLogger(l *zap.SugaredLogger) LevelLearnOption {
	return func(ll *LevelLearn) { ll.log = l }
}

// NewLevelLearn constructs a LevelLearn that explores up to
// levelsLower consecutive weights from the bottom and/or down to
// levelsUpper consecutive weights from the top. A zero value for
// either disables that direction (spec.md §4.6).
func NewLevelLearn(lm *LearnModule, levelsLower, levelsUpper int, opts ...LevelLearnOption) *LevelLearn {
	ll := &LevelLearn{
		lm:          lm,
		levelsLower: levelsLower,
		levelsUpper: levelsUpper,
		log:         zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(ll)
	}
	return ll
}

// Learn runs the configured directions through the shared LearnModule
// save-on-error wrapper.
func (ll *LevelLearn) Learn(ctx context.Context) (bool, error) {
	return ll.lm.Learn(ctx, "LevelLearn", func(ctx context.Context) (bool, error) {
		if ll.levelsLower > 0 {
			if err := ll.learnLower(ctx, ll.levelsLower-1); err != nil {
				return false, err
			}
		}
		if ll.levelsUpper > 0 {
			if err := ll.learnUpper(ctx, ll.lm.N()-ll.levelsUpper+1); err != nil {
				return false, err
			}
		}
		return false, nil
	})
}

// learnLower classifies every vector at weights 0..upTo by
// breadth-first expansion of the lower-side level cache (spec.md
// §4.6).
func (ll *LevelLearn) learnLower(ctx context.Context, upTo int) error {
	cache := ll.lm.Oracle().LowerCache()

	lo, hi, ok := cache.Range()
	current := -1
	if ok {
		if lo != 0 {
			return fmt.Errorf("monolearn: lower cache range does not start at 0")
		}
		current = hi
	}

	if current < 0 {
		empty := EmptySet()
		isLower, meta, err := ll.lm.CallOracle(empty)
		if err != nil {
			return err
		}
		if isLower {
			ll.lm.Knowledge().SetMeta(empty, meta)
			cache.Add(empty, meta)
		}
		cache.SetRange(0, 0)
		current = 0
	}

	if cache.Has(EmptySet()) != Present {
		ll.log.Warn("0-vector is not in lower set, trivial set")
		return nil
	}

	n := ll.lm.N()
	for level := current + 1; level <= upTo; level++ {
		if err := checkCtx(ctx); err != nil {
			return err
		}
		ll.log.Infof("generating support, height=%d/%d", level, upTo)

		toCheck := NewSparseSetMap[int]()
		cache.IterWeight(level-1, func(prev SparseSet) {
			for _, up := range prev.NeighborsUp(n) {
				c, _ := toCheck.Get(up)
				toCheck.Set(up, c+1)
			}
		})

		type candidate struct {
			vec SparseSet
			cnt int
		}
		var candidates []candidate
		toCheck.Each(func(vec SparseSet, cnt int) {
			candidates = append(candidates, candidate{vec, cnt})
		})

		nGood, nTotal := 0, 0
		for _, c := range candidates {
			if c.cnt != level {
				continue
			}
			nTotal++
			isLower, meta, err := ll.lm.CallOracle(c.vec)
			if err != nil {
				return err
			}
			if isLower {
				ll.lm.Knowledge().SetMeta(c.vec, meta)
				cache.Add(c.vec, meta)
				nGood++
			} else {
				ll.lm.Knowledge().AddUpper(c.vec, meta, true)
			}
		}

		ll.log.Infof("generated support, height=%d/%d: lower %d/%d compatible", level, upTo, nGood, nTotal)
		cache.SetRange(0, level)

		if nGood == 0 {
			ll.log.Warnf("exhausted lower at level %d/%d", level, upTo)
			break
		}
	}
	return nil
}

// learnUpper is the mirror image of learnLower, working down from the
// full set.
func (ll *LevelLearn) learnUpper(ctx context.Context, downTo int) error {
	cache := ll.lm.Oracle().UpperCache()
	n := ll.lm.N()

	lo, hi, ok := cache.Range()
	current := n + 1
	if ok {
		if hi != n {
			return fmt.Errorf("monolearn: upper cache range does not end at N")
		}
		current = lo
	}

	if current > n {
		full := FullSet(n)
		isLower, meta, err := ll.lm.CallOracle(full)
		if err != nil {
			return err
		}
		if !isLower {
			ll.lm.Knowledge().SetMeta(full, meta)
			cache.Add(full, meta)
		}
		cache.SetRange(n, n)
		current = n
	}

	if cache.Has(FullSet(n)) != Present {
		ll.log.Warn("full-vector is not in the upper set, trivial set")
		return nil
	}

	for level := current - 1; level >= downTo; level-- {
		if err := checkCtx(ctx); err != nil {
			return err
		}
		ll.log.Infof("generating support, height=%d to %d", level, downTo)

		toCheck := NewSparseSetMap[int]()
		cache.IterWeight(level+1, func(prev SparseSet) {
			for _, down := range prev.NeighborsDown() {
				c, _ := toCheck.Get(down)
				toCheck.Set(down, c+1)
			}
		})

		type candidate struct {
			vec SparseSet
			cnt int
		}
		var candidates []candidate
		toCheck.Each(func(vec SparseSet, cnt int) {
			candidates = append(candidates, candidate{vec, cnt})
		})

		nGood, nTotal := 0, 0
		for _, c := range candidates {
			if c.cnt != n-level {
				continue
			}
			nTotal++
			isLower, meta, err := ll.lm.CallOracle(c.vec)
			if err != nil {
				return err
			}
			if !isLower {
				ll.lm.Knowledge().SetMeta(c.vec, meta)
				cache.Add(c.vec, meta)
				nGood++
			} else {
				ll.lm.Knowledge().AddLower(c.vec, meta, true)
			}
		}

		ll.log.Infof("generated support, height=%d to %d: upper %d/%d compatible", level, downTo, nGood, nTotal)
		cache.SetRange(level, n)

		if nGood == 0 {
			ll.log.Warnf("exhausted upper at level %d (to %d)", level, downTo)
			break
		}
	}
	return nil
}
