package monolearn

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Sense selects which direction GainanovSAT pushes the cardinality
// level while searching for new unknown vectors (spec.md §4.7).
type Sense int

const (
	// SenseNone never moves the level: a single unconstrained solve is
	// attempted and the search stops once it turns UNSAT.
	SenseNone Sense = iota
	// SenseMin starts at level 0 and increases on exhaustion, biasing
	// discovery toward small vectors.
	SenseMin
	// SenseMax starts at level N and decreases on exhaustion, biasing
	// discovery toward large vectors.
	SenseMax
)

// GainanovSAT drives the search for new unknown vectors through a
// constraint model seeded with every known classification, repeatedly
// solving under cardinality-level assumptions and handing each
// satisfying vector to learnUnknown, which either records it directly
// or walks it to a prime (spec.md §4.7).
type GainanovSAT struct {
	lm    *LearnModule
	model ConstraintModel

	sense      Sense
	saveRate   int
	limit      int // 0 means unbounded
	startLevel int
	hasStart   bool

	level int

	log *zap.SugaredLogger
}

// GainanovSATOption configures a GainanovSAT at construction time.
type GainanovSATOption func(*GainanovSAT)

// WithSaveRate saves the knowledge base every n iterations instead of
// only at the end. n<=0 disables the periodic save.
func WithSaveRate(n int) GainanovSATOption {
	return func(g *GainanovSAT) { g.saveRate = n }
}

// WithLimit bounds the number of outer-loop iterations. 0 means
// unbounded (run to completion).
func WithLimit(n int) GainanovSATOption {
	return func(g *GainanovSAT) { g.limit = n }
}

// WithStartLevel overrides the initial cardinality level instead of
// the sense's default (0 for min, N for max).
func WithStartLevel(level int) GainanovSATOption {
	return func(g *GainanovSAT) { g.startLevel = level; g.hasStart = true }
}

// WithGainanovLogger attaches a structured logger.
func WithGainanovLogger(l *zap.SugaredLogger) GainanovSATOption {
	return func(g *GainanovSAT) { g.log = l }
}

// NewGainanovSAT constructs a GainanovSAT learner over the given
// LearnModule and constraint model, installing the model on lm with
// InitModel. It does not seed the model; a caller with prior knowledge
// seeds it with LearnModule.SeedModel after installing it.
func NewGainanovSAT(lm *LearnModule, model ConstraintModel, sense Sense, opts ...GainanovSATOption) *GainanovSAT {
	g := &GainanovSAT{
		lm:       lm,
		model:    model,
		sense:    sense,
		saveRate: 100,
		log:      zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(g)
	}
	lm.InitModel(model)
	return g
}

// Learn runs the outer loop through the shared LearnModule
// save-on-error wrapper.
func (g *GainanovSAT) Learn(ctx context.Context) (bool, error) {
	return g.lm.Learn(ctx, "GainanovSAT", g.run)
}

func (g *GainanovSAT) run(ctx context.Context) (bool, error) {
	n := g.lm.N()
	doOpt := g.sense != SenseNone

	if doOpt {
		if err := checkCtx(ctx); err != nil {
			return false, err
		}
		_, ok, err := g.model.Solve(ctx, nil)
		if err != nil {
			return false, err
		}
		if !ok {
			g.log.Info("already exhausted, exiting")
			return true, nil
		}

		switch {
		case g.hasStart:
			g.level = g.startLevel
		case g.sense == SenseMin:
			g.level = 0
		case g.sense == SenseMax:
			g.level = n
		}
		if g.level < 0 || g.level > n {
			return false, fmt.Errorf("monolearn: start level %d out of range [0,%d]", g.level, n)
		}
		g.log.Infof("starting at level %d", g.level)
	}

	itr := 0
	for g.limit == 0 || itr < g.limit {
		if err := checkCtx(ctx); err != nil {
			return false, err
		}
		if itr > 0 && g.saveRate > 0 && itr%g.saveRate == 0 {
			if err := g.lm.Knowledge().Save(); err != nil {
				return false, err
			}
		}
		itr++

		vec, found, err := g.findNewUnknown(ctx, doOpt)
		if err != nil {
			return false, err
		}
		if !found {
			g.log.Info("system is completed, saving")
			return true, nil
		}

		if err := g.learnUnknown(ctx, vec); err != nil {
			return false, err
		}
	}
	return false, nil
}

// findNewUnknown solves the model under the current level's
// assumptions, advancing the level on UNSAT until either a new vector
// is found or the whole model is exhausted (spec.md §4.7).
func (g *GainanovSAT) findNewUnknown(ctx context.Context, doOpt bool) (SparseSet, bool, error) {
	n := g.lm.N()
	for {
		if err := checkCtx(ctx); err != nil {
			return SparseSet{}, false, err
		}

		var assum []Lit
		switch g.sense {
		case SenseMin:
			for k := g.level + 1; k <= n; k++ {
				lit, err := g.model.CardinalityGEQ(k)
				if err != nil {
					return SparseSet{}, false, err
				}
				assum = append(assum, lit.Negate())
			}
		case SenseMax:
			for k := 0; k <= g.level; k++ {
				lit, err := g.model.CardinalityGEQ(k)
				if err != nil {
					return SparseSet{}, false, err
				}
				assum = append(assum, lit)
			}
		}

		assignment, ok, err := g.model.Solve(ctx, assum)
		if err != nil {
			return SparseSet{}, false, err
		}
		if ok {
			vec := assignment.Vector(n)
			if doOpt && vec.Len() != g.level {
				return SparseSet{}, false, fmt.Errorf("monolearn: start level set incorrectly? got weight %d, want %d", vec.Len(), g.level)
			}
			return vec, true, nil
		}

		if !doOpt {
			return SparseSet{}, false, nil
		}

		switch g.sense {
		case SenseMin:
			g.level++
			if g.level > n {
				g.log.Info("no new unknowns")
				return SparseSet{}, false, nil
			}
			g.log.Infof("increasing level to %d", g.level)
		case SenseMax:
			g.level--
			if g.level < 0 {
				g.log.Info("no new unknowns")
				return SparseSet{}, false, nil
			}
			g.log.Infof("decreasing level to %d", g.level)
		}

		_, ok, err = g.model.Solve(ctx, nil)
		if err != nil {
			return SparseSet{}, false, err
		}
		if !ok {
			g.log.Infof("exhausted from level %d", g.level)
			return SparseSet{}, false, nil
		}
	}
}

// learnUnknown classifies vec and either fast-paths the classification
// directly into the model (when the sense already favors that side)
// or hands it to the reduce/lift walk to find a prime vector (spec.md
// §4.7).
func (g *GainanovSAT) learnUnknown(ctx context.Context, vec SparseSet) error {
	isLower, meta, err := g.lm.Query(vec)
	if err != nil {
		return err
	}

	if isLower {
		g.lm.nLower++
		if g.sense == SenseMax {
			g.log.Debugf("fast lower: wt %d", vec.Len())
			g.lm.Knowledge().AddLower(vec, meta, false)
			return g.lm.ModelExcludeSub(vec)
		}
		return g.lm.LearnUp(ctx, vec, meta)
	}

	g.lm.nUpper++
	if g.sense == SenseMin {
		g.log.Debugf("fast upper: wt %d", vec.Len())
		g.lm.Knowledge().AddUpper(vec, meta, false)
		return g.lm.ModelExcludeSuper(vec)
	}
	return g.lm.LearnDown(ctx, vec, meta)
}
