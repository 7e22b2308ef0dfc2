package monolearn

import (
	"errors"
	"os"
	"sort"

	"go.uber.org/zap"
)

// LowerSetLearn is the knowledge base shared by every learner: the
// accepted lower and upper antichains, completion flags, per-vector
// metadata, and persistence (spec.md §3).
type LowerSetLearn struct {
	n int

	lower *SparseSetSet
	upper *SparseSetSet

	isCompleteLower bool
	isCompleteUpper bool

	meta *SparseSetMap[Meta]

	extraPrec *ExtraPrec

	file  string
	dirty bool

	log *zap.SugaredLogger
}

// KnowledgeOption configures a LowerSetLearn at construction time.
type KnowledgeOption func(*LowerSetLearn)

// WithExtraPrec installs an ExtraPrec abstraction; every inserted
// lower vector is stored in expanded form and every inserted upper
// vector in reduced form (spec.md §3).
func WithExtraPrec(e *ExtraPrec) KnowledgeOption {
	return func(k *LowerSetLearn) { k.extraPrec = e }
}

// WithKnowledgeLogger attaches a structured logger.
func WithKnowledgeLogger(l *zap.SugaredLogger) KnowledgeOption {
	return func(k *LowerSetLearn) { k.log = l }
}

// NewLowerSetLearn constructs a knowledge base over a ground set of
// size n. If file is non-empty and already exists on disk, prior
// state is loaded immediately (spec.md §2: "loading prior state if a
// file is given").
func NewLowerSetLearn(n int, file string, opts ...KnowledgeOption) (*LowerSetLearn, error) {
	k := &LowerSetLearn{
		n:     n,
		lower: NewSparseSetSet(),
		upper: NewSparseSetSet(),
		meta:  NewSparseSetMap[Meta](),
		file:  file,
		log:   zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(k)
	}
	if file != "" {
		if err := k.Load(); err != nil {
			return nil, err
		}
	}
	return k, nil
}

// N returns the ground-set size.
func (k *LowerSetLearn) N() int { return k.n }

// ExtraPrec returns the installed abstraction, or nil.
func (k *LowerSetLearn) ExtraPrec() *ExtraPrec { return k.extraPrec }

// IsComplete reports whether both sides are marked complete.
func (k *LowerSetLearn) IsComplete() bool {
	return k.isCompleteLower && k.isCompleteUpper
}

// IsCompleteLower reports the lower-side completion flag.
func (k *LowerSetLearn) IsCompleteLower() bool { return k.isCompleteLower }

// IsCompleteUpper reports the upper-side completion flag.
func (k *LowerSetLearn) IsCompleteUpper() bool { return k.isCompleteUpper }

// SetComplete marks both sides complete. Idempotent.
func (k *LowerSetLearn) SetComplete() {
	k.SetCompleteLower()
	k.SetCompleteUpper()
}

// SetCompleteLower marks the lower side complete. Idempotent.
func (k *LowerSetLearn) SetCompleteLower() {
	if !k.isCompleteLower {
		k.isCompleteLower = true
		k.dirty = true
	}
}

// SetCompleteUpper marks the upper side complete. Idempotent.
func (k *LowerSetLearn) SetCompleteUpper() {
	if !k.isCompleteUpper {
		k.isCompleteUpper = true
		k.dirty = true
	}
}

// IsKnownLower reports membership in the stored lower antichain only
// (not the oracle's level caches -- those are asked separately,
// spec.md §4.2).
func (k *LowerSetLearn) IsKnownLower(v SparseSet) bool {
	if k.extraPrec != nil {
		v = k.extraPrec.Expand(v)
	}
	return k.lower.Has(v)
}

// IsKnownUpper reports membership in the stored upper antichain only.
func (k *LowerSetLearn) IsKnownUpper(v SparseSet) bool {
	if k.extraPrec != nil {
		v = k.extraPrec.Reduce(v)
	}
	return k.upper.Has(v)
}

// AddLower records v as a lower vector. If ExtraPrec is installed, v
// is first expanded to its canonical lower-closure form. isPrime is
// informational only (spec.md §4.2: the caller, not this method, is
// responsible for the "stored vectors are prime" invariant).
func (k *LowerSetLearn) AddLower(v SparseSet, meta Meta, isPrime bool) {
	if k.extraPrec != nil {
		v = k.extraPrec.Expand(v)
	}
	if k.lower.Has(v) {
		return
	}
	k.dirty = true
	if meta != nil {
		k.meta.Set(v, meta)
	}
	k.lower.Add(v)
}

// AddUpper records v as an upper vector, symmetric to AddLower with
// Reduce in place of Expand.
func (k *LowerSetLearn) AddUpper(v SparseSet, meta Meta, isPrime bool) {
	if k.extraPrec != nil {
		v = k.extraPrec.Reduce(v)
	}
	if k.upper.Has(v) {
		return
	}
	k.dirty = true
	if meta != nil {
		k.meta.Set(v, meta)
	}
	k.upper.Add(v)
}

// IterLower calls f for every stored lower vector.
func (k *LowerSetLearn) IterLower(f func(v SparseSet)) { k.lower.Each(f) }

// IterUpper calls f for every stored upper vector.
func (k *LowerSetLearn) IterUpper(f func(v SparseSet)) { k.upper.Each(f) }

// NLower returns the number of stored lower vectors.
func (k *LowerSetLearn) NLower() int { return k.lower.Len() }

// NUpper returns the number of stored upper vectors.
func (k *LowerSetLearn) NUpper() int { return k.upper.Len() }

// MetaFor returns the metadata recorded for v, if any.
func (k *LowerSetLearn) MetaFor(v SparseSet) (Meta, bool) { return k.meta.Get(v) }

// SetMeta records meta for v directly, used by LevelLearn for
// vectors it puts in the oracle's level caches (lower ones in
// learnLower, upper ones in learnUpper) without adding them to either
// antichain (spec.md §4.6).
func (k *LowerSetLearn) SetMeta(v SparseSet, meta Meta) {
	if meta != nil {
		k.meta.Set(v, meta)
	}
}

// Clean drops metadata entries for vectors no longer present in
// either antichain (supplemented from the original's
// LowerSetLearn.clean).
func (k *LowerSetLearn) Clean() {
	keep := NewSparseSetMap[Meta]()
	k.meta.Each(func(v SparseSet, m Meta) {
		if k.lower.Has(v) || k.upper.Has(v) {
			keep.Set(v, m)
		}
	})
	k.meta = keep
}

// LogInfo logs a per-weight size histogram for each antichain,
// mirroring the original's log_info (Counter(len(v) for v in s)).
func (k *LowerSetLearn) LogInfo() {
	logSide := func(name string, s *SparseSetSet) {
		hist := map[int]int{}
		s.Each(func(v SparseSet) { hist[v.Len()]++ })
		weights := make([]int, 0, len(hist))
		for w := range hist {
			weights = append(weights, w)
		}
		sort.Ints(weights)
		k.log.Infow("antichain size", "side", name, "total", s.Len(), "byWeight", weights, "hist", hist)
	}
	logSide("lower", k.lower)
	logSide("upper", k.upper)
	if k.isCompleteLower {
		k.log.Info("system is complete for lower")
	}
	if k.isCompleteUpper {
		k.log.Info("system is complete for upper")
	}
}

// Save persists the knowledge base to its configured file, a no-op
// if there is no configured file or nothing has changed since the
// last save.
func (k *LowerSetLearn) Save() error {
	if k.file == "" || !k.dirty {
		k.LogInfo()
		return nil
	}
	if err := k.saveToFile(k.file); err != nil {
		return err
	}
	k.dirty = false
	k.LogInfo()
	return nil
}

// Load reads the knowledge base from its configured file, a no-op if
// no file is configured or the file does not exist yet (spec.md §2:
// "loading prior state if a file is given").
func (k *LowerSetLearn) Load() error {
	if k.file == "" {
		return nil
	}
	if _, err := os.Stat(k.file); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := k.loadFromFile(k.file); err != nil {
		return err
	}
	k.dirty = false
	k.LogInfo()
	return nil
}

func (k *LowerSetLearn) saveToFile(path string) error {
	lower := make([]SparseSet, 0, k.lower.Len())
	k.lower.Each(func(v SparseSet) { lower = append(lower, v) })
	upper := make([]SparseSet, 0, k.upper.Len())
	k.upper.Each(func(v SparseSet) { upper = append(upper, v) })

	return saveToFile(path, stateTuple{
		Version:         dataVersion,
		Lower:           lower,
		Upper:           upper,
		IsCompleteLower: k.isCompleteLower,
		IsCompleteUpper: k.isCompleteUpper,
		Meta:            k.meta,
		N:               k.n,
	})
}

func (k *LowerSetLearn) loadFromFile(path string) error {
	state, err := loadFromFile(path)
	if err != nil {
		return err
	}
	if state.N != k.n {
		return ErrStateVersionMismatch
	}
	k.lower = NewSparseSetSet()
	for _, v := range state.Lower {
		k.lower.Add(v)
	}
	k.upper = NewSparseSetSet()
	for _, v := range state.Upper {
		k.upper.Add(v)
	}
	k.isCompleteLower = state.IsCompleteLower
	k.isCompleteUpper = state.IsCompleteUpper
	k.meta = state.Meta
	return nil
}
