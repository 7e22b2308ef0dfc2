package monolearn

import (
	"context"
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/lowerset/monolearn/internal/stats"
)

// checkCtx wraps a cancelled/expired context as ErrInterrupted (spec.md
// §7): learning loops check this between oracle calls and model
// solves so a cancellation lands mid-loop rather than mid-call.
func checkCtx(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrInterrupted, err)
	}
	return nil
}

// LearnFunc is a learner's subtype-specific learning loop (LevelLearn's
// or GainanovSAT's own search), returning whether the knowledge base
// was proven complete by the time it returns.
type LearnFunc func(ctx context.Context) (complete bool, err error)

// LearnModule holds the state and helper operations shared by every
// concrete learner (spec.md §4.5): the oracle, the knowledge base, the
// seeded constraint model, and the two randomized walks that reduce or
// lift a candidate vector to a prime.
type LearnModule struct {
	n int

	knowledge *LowerSetLearn
	oracle    *Oracle
	model     ConstraintModel

	useExtraPrec  bool
	forceComplete bool

	itr    int
	nUpper int
	nLower int

	stats *stats.Registry
	log   *zap.SugaredLogger
}

// LearnModuleOption configures a LearnModule at construction time.
type LearnModuleOption func(*LearnModule)

// WithForceLearnComplete skips the "already complete" short-circuit,
// useful for tests that want to re-run a learner against a knowledge
// base that was already marked complete.
func WithForceLearnComplete() LearnModuleOption {
	return func(lm *LearnModule) { lm.forceComplete = true }
}

// WithLearnLogger attaches a structured logger.
func WithLearnLogger(l *zap.SugaredLogger) LearnModuleOption {
	return func(lm *LearnModule) { lm.log = l }
}

// NewLearnModule wires a learner against a knowledge base and an
// oracle (spec.md §4.5's init(system, oracle)).
func NewLearnModule(knowledge *LowerSetLearn, oracle *Oracle, opts ...LearnModuleOption) *LearnModule {
	lm := &LearnModule{
		n:            knowledge.N(),
		knowledge:    knowledge,
		oracle:       oracle,
		useExtraPrec: knowledge.ExtraPrec() != nil,
		stats:        stats.NewRegistry(),
		log:          zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(lm)
	}
	return lm
}

// N returns the ground-set size.
func (lm *LearnModule) N() int { return lm.n }

// Knowledge returns the wired knowledge base.
func (lm *LearnModule) Knowledge() *LowerSetLearn { return lm.knowledge }

// Oracle returns the wired oracle.
func (lm *LearnModule) Oracle() *Oracle { return lm.oracle }

// Stats returns the per-call-site timing registry, for callers that
// want to report it.
func (lm *LearnModule) Stats() *stats.Registry { return lm.stats }

// InitModel installs the constraint model a learner will seed and
// solve against. Call SeedModel after installing; NewGainanovSAT
// installs its model this way but does not seed it.
func (lm *LearnModule) InitModel(model ConstraintModel) {
	lm.model = model
}

// SeedModel adds an exclude-sub clause for every known lower vector
// and an exclude-super clause for every known upper vector, mirroring
// sat_init/milp_init's "init" pass (spec.md §4.4).
func (lm *LearnModule) SeedModel() error {
	var seedErr error
	lm.knowledge.IterUpper(func(v SparseSet) {
		if seedErr != nil {
			return
		}
		seedErr = lm.ModelExcludeSuper(v)
	})
	if seedErr != nil {
		return seedErr
	}
	lm.knowledge.IterLower(func(v SparseSet) {
		if seedErr != nil {
			return
		}
		seedErr = lm.ModelExcludeSub(v)
	})
	return seedErr
}

// ModelExcludeSub bans subsets of vec in the constraint model,
// expanding vec through ExtraPrec first when one is installed.
func (lm *LearnModule) ModelExcludeSub(vec SparseSet) error {
	if lm.useExtraPrec {
		vec = lm.knowledge.ExtraPrec().Expand(vec)
	}
	return lm.model.ExcludeSub(vec)
}

// ModelExcludeSuper bans supersets of vec in the constraint model,
// reducing vec through ExtraPrec first when one is installed.
func (lm *LearnModule) ModelExcludeSuper(vec SparseSet) error {
	if lm.useExtraPrec {
		vec = lm.knowledge.ExtraPrec().Reduce(vec)
	}
	return lm.model.ExcludeSuper(vec)
}

// Query classifies vec, reducing it through ExtraPrec first when one
// is installed (spec.md §4.5).
func (lm *LearnModule) Query(vec SparseSet) (bool, Meta, error) {
	defer lm.stats.Track("query")()
	if lm.useExtraPrec {
		vec = lm.knowledge.ExtraPrec().Reduce(vec)
	}
	return lm.CallOracle(vec)
}

// CallOracle classifies vec directly, with no ExtraPrec transform.
func (lm *LearnModule) CallOracle(vec SparseSet) (bool, Meta, error) {
	defer lm.stats.Track("call_oracle")()
	return lm.oracle.Query(vec)
}

// Learn is the save-on-error wrapper shared by every concrete learner
// (spec.md §4.5's learn(safe=True)): it skips re-running a learner
// against an already-complete system, logs before and after, and
// saves the knowledge base both on a clean finish and on an error from
// run.
func (lm *LearnModule) Learn(ctx context.Context, name string, run LearnFunc) (bool, error) {
	if lm.knowledge.IsComplete() && !lm.forceComplete {
		lm.log.Info("skipping learning - already marked complete")
		return true, nil
	}

	lm.log.Infof("=== %s ===", name)
	lm.log.Info("starting, stat:")
	lm.knowledge.LogInfo()

	complete, err := run(ctx)
	if err != nil {
		lm.log.Errorw("learning error, saving", "error", err)
		if saveErr := lm.knowledge.Save(); saveErr != nil {
			lm.log.Errorw("save after learning error also failed", "error", saveErr)
		}
		return false, err
	}

	lm.log.Info("finished, stat:")
	if saveErr := lm.knowledge.Save(); saveErr != nil {
		return complete, saveErr
	}
	return complete, nil
}

// shuffledElements returns a shuffled copy of vec's members, used by
// LearnDown/LearnUp so the walk doesn't always probe indices in the
// same order (spec.md §4.5).
func shuffledElements(vec SparseSet) []int32 {
	elems := append([]int32(nil), vec.Elements()...)
	rand.Shuffle(len(elems), func(i, j int) { elems[i], elems[j] = elems[j], elems[i] })
	return elems
}

// LearnDown reduces an upper vector to a minimal ("prime") one by
// trying to drop each of its elements in random order, keeping a drop
// only when the resulting vector is still classified upper (spec.md
// §4.5). The result is recorded as a new prime upper vector and its
// supersets are excluded from future model solutions.
func (lm *LearnModule) LearnDown(ctx context.Context, vec SparseSet, meta Meta) error {
	defer lm.stats.Track("learn_down")()
	if lm.knowledge.IsKnownUpper(vec) {
		return nil
	}

	for _, i := range shuffledElements(vec) {
		if err := checkCtx(ctx); err != nil {
			return err
		}
		newVec := vec.Without(int(i))
		if lm.knowledge.IsKnownUpper(newVec) {
			return fmt.Errorf("%w: learn_down: dropping an element of a known upper vector produced another known upper vector", ErrOracleFailure)
		}
		if lm.knowledge.IsKnownLower(newVec) {
			continue
		}
		isLower, newMeta, err := lm.Query(newVec)
		if err != nil {
			return err
		}
		if isLower {
			continue
		}
		vec = newVec
		meta = newMeta
	}

	if lm.knowledge.IsKnownLower(vec) || lm.knowledge.IsKnownUpper(vec) {
		return fmt.Errorf("%w: learn_down: reduced vector is already classified", ErrOracleFailure)
	}
	lm.knowledge.AddUpper(vec, meta, true)
	return lm.ModelExcludeSuper(vec)
}

// LearnUp lifts a lower vector to a maximal ("prime") one by trying to
// add each absent ground index in random order, keeping an addition
// only when the resulting vector is still classified lower (spec.md
// §4.5). The result is recorded as a new prime lower vector and its
// subsets are excluded from future model solutions.
func (lm *LearnModule) LearnUp(ctx context.Context, vec SparseSet, meta Meta) error {
	defer lm.stats.Track("learn_up")()
	if lm.knowledge.IsKnownLower(vec) {
		return nil
	}

	full := FullSet(lm.n)
	for _, i := range shuffledElements(full.Difference(vec)) {
		if err := checkCtx(ctx); err != nil {
			return err
		}
		newVec := vec.With(int(i))
		if lm.knowledge.IsKnownLower(newVec) {
			return fmt.Errorf("%w: learn_up: adding an element to a known lower vector produced another known lower vector", ErrOracleFailure)
		}
		if lm.knowledge.IsKnownUpper(newVec) {
			continue
		}
		isLower, newMeta, err := lm.Query(newVec)
		if err != nil {
			return err
		}
		if !isLower {
			continue
		}
		vec = newVec
		meta = newMeta
	}

	if lm.knowledge.IsKnownLower(vec) || lm.knowledge.IsKnownUpper(vec) {
		return fmt.Errorf("%w: learn_up: lifted vector is already classified", ErrOracleFailure)
	}
	lm.knowledge.AddLower(vec, meta, true)
	return lm.ModelExcludeSub(vec)
}
