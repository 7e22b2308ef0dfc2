package monolearn

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// PredicateFunc classifies a vector, returning whether it is lower
// (true) or upper (false), optional metadata, and an error if the
// underlying user predicate failed. This is the oracle contract
// consumed per spec.md §6.
type PredicateFunc func(v SparseSet) (isLower bool, meta Meta, err error)

type oracleResult struct {
	isLower bool
	meta    Meta
}

// Oracle wraps a user predicate, memoizing results and consulting
// level caches before ever calling the predicate (spec.md §4.1).
type Oracle struct {
	lowerCache *LevelCache
	upperCache *LevelCache

	mainCache    *SparseSetMap[oracleResult] // nil when cache is disabled
	boundedCache *lru.Cache[string, oracleResult]

	pred PredicateFunc

	nCalls   int
	nQueries int

	log *zap.SugaredLogger
}

// OracleOption configures an Oracle at construction time.
type OracleOption func(*Oracle)

// WithCacheSize swaps the unbounded main cache for a bounded LRU of
// the given capacity, grounded on pl1189-go-spacemesh's use of
// hashicorp/golang-lru for its own bounded caches. Useful for
// long-running GainanovSAT sessions over large N.
func WithCacheSize(n int) OracleOption {
	return func(o *Oracle) {
		c, err := lru.New[string, oracleResult](n)
		if err != nil {
			// n <= 0; fall back to the unbounded default rather than
			// construct a broken oracle.
			return
		}
		o.boundedCache = c
		o.mainCache = nil
	}
}

// WithLogger attaches a structured logger. Defaults to a no-op
// logger (design note in spec.md §9: pass in a logging handle rather
// than reach for a process-wide singleton).
func WithLogger(l *zap.SugaredLogger) OracleOption {
	return func(o *Oracle) { o.log = l }
}

func newOracle(pred PredicateFunc, opts ...OracleOption) *Oracle {
	o := &Oracle{
		lowerCache: NewLevelCache(),
		upperCache: NewLevelCache(),
		mainCache:  NewSparseSetMap[oracleResult](),
		pred:       pred,
		log:        zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// NewOracle wraps a bare bool predicate; metadata defaults to the
// unknown sentinel NoMeta{}.
func NewOracle(pred func(v SparseSet) bool, opts ...OracleOption) *Oracle {
	return newOracle(func(v SparseSet) (bool, Meta, error) {
		return pred(v), NoMeta{}, nil
	}, opts...)
}

// NewOracleWithMeta wraps a predicate that also returns metadata.
func NewOracleWithMeta(pred func(v SparseSet) (bool, Meta), opts ...OracleOption) *Oracle {
	return newOracle(func(v SparseSet) (bool, Meta, error) {
		isLower, meta := pred(v)
		return isLower, meta, nil
	}, opts...)
}

// NewOracleFunc wraps the full PredicateFunc signature, including
// error propagation (spec.md §7's OracleFailure).
func NewOracleFunc(pred PredicateFunc, opts ...OracleOption) *Oracle {
	return newOracle(pred, opts...)
}

// LowerCache returns the oracle's lower-side level cache.
func (o *Oracle) LowerCache() *LevelCache { return o.lowerCache }

// UpperCache returns the oracle's upper-side level cache.
func (o *Oracle) UpperCache() *LevelCache { return o.upperCache }

// NCalls returns the number of times Query has been invoked,
// regardless of whether it hit a cache.
func (o *Oracle) NCalls() int { return o.nCalls }

// NQueries returns the number of times the underlying user predicate
// was actually invoked.
func (o *Oracle) NQueries() int { return o.nQueries }

// DisableCache turns off the main classification cache; level caches
// are unaffected.
func (o *Oracle) DisableCache() {
	o.mainCache = nil
	o.boundedCache = nil
}

// Reset clears both level caches and the main cache, but keeps
// counters.
func (o *Oracle) Reset() {
	o.lowerCache = NewLevelCache()
	o.upperCache = NewLevelCache()
	if o.boundedCache != nil {
		o.boundedCache.Purge()
	} else if o.mainCache != nil {
		o.mainCache = NewSparseSetMap[oracleResult]()
	}
}

func (o *Oracle) lookupCache(v SparseSet) (oracleResult, bool) {
	if o.boundedCache != nil {
		return o.boundedCache.Get(v.key())
	}
	if o.mainCache != nil {
		return o.mainCache.Get(v)
	}
	return oracleResult{}, false
}

func (o *Oracle) storeCache(v SparseSet, r oracleResult) {
	if o.boundedCache != nil {
		o.boundedCache.Add(v.key(), r)
		return
	}
	if o.mainCache != nil {
		o.mainCache.Set(v, r)
	}
}

// Query classifies v, following the resolution order of spec.md
// §4.1: main cache, then lower level cache, then upper level cache,
// then the user predicate. Every call increments NCalls; only a
// predicate invocation increments NQueries.
func (o *Oracle) Query(v SparseSet) (isLower bool, meta Meta, err error) {
	o.nCalls++

	if cached, ok := o.lookupCache(v); ok {
		return cached.isLower, cached.meta, nil
	}

	if o.lowerCache.Has(v) == Present {
		return true, o.lowerCache.Meta(v), nil
	}
	if o.upperCache.Has(v) == Present {
		return false, o.upperCache.Meta(v), nil
	}

	o.nQueries++
	isLower, meta, err = o.pred(v)
	if err != nil {
		return false, nil, fmt.Errorf("%w: %v", ErrOracleFailure, err)
	}
	if meta == nil {
		meta = NoMeta{}
	}
	o.storeCache(v, oracleResult{isLower: isLower, meta: meta})
	o.log.Debugw("oracle query", "vec", v.String(), "isLower", isLower)
	return isLower, meta, nil
}
