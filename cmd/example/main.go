// Package main demonstrates basic monolearn usage patterns.
package main

import (
	"context"
	"fmt"

	"github.com/lowerset/monolearn/pkg/monolearn"
)

func main() {
	fmt.Println("=== monolearn Examples ===")
	fmt.Println()

	cardinalityViaGainanovSAT()
	independentSetsOfACycle()
	levelLearnSmallN()
}

// cardinalityViaGainanovSAT learns the monotone predicate "|v| <= 2"
// over a 4-element ground set by driving GainanovSAT toward minimum
// weight, so every newly discovered upper vector is recorded with the
// cheap fast-path instead of a full reduce walk; lower vectors are
// still lifted to a prime by the walk.
func cardinalityViaGainanovSAT() {
	fmt.Println("1. Cardinality predicate via GainanovSAT (sense=min):")

	const n = 4
	oracle := monolearn.NewOracle(func(v monolearn.SparseSet) bool {
		return v.Len() <= 2
	})

	knowledge, err := monolearn.NewLowerSetLearn(n, "")
	if err != nil {
		fmt.Printf("   error: %v\n", err)
		return
	}

	lm := monolearn.NewLearnModule(knowledge, oracle)
	if err := lm.SeedModel(); err != nil {
		fmt.Printf("   seed error: %v\n", err)
		return
	}

	model := monolearn.NewSATModel(n)
	learner := monolearn.NewGainanovSAT(lm, model, monolearn.SenseMin)

	complete, err := learner.Learn(context.Background())
	if err != nil {
		fmt.Printf("   learn error: %v\n", err)
		return
	}

	fmt.Printf("   complete=%v lower=%d upper=%d oracle calls=%d\n",
		complete, knowledge.NLower(), knowledge.NUpper(), oracle.NQueries())
	fmt.Println()
}

// independentSetsOfACycle learns the predicate "v is an independent
// set of the 5-cycle 0-1-2-3-4-0" via GainanovSAT toward maximum
// weight.
func independentSetsOfACycle() {
	fmt.Println("2. Independent sets of a 5-cycle via GainanovSAT (sense=max):")

	const n = 5
	edges := [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 0}}

	oracle := monolearn.NewOracle(func(v monolearn.SparseSet) bool {
		for _, e := range edges {
			if v.Has(e[0]) && v.Has(e[1]) {
				return false
			}
		}
		return true
	})

	knowledge, err := monolearn.NewLowerSetLearn(n, "")
	if err != nil {
		fmt.Printf("   error: %v\n", err)
		return
	}

	lm := monolearn.NewLearnModule(knowledge, oracle)
	if err := lm.SeedModel(); err != nil {
		fmt.Printf("   seed error: %v\n", err)
		return
	}

	model := monolearn.NewSATModel(n)
	learner := monolearn.NewGainanovSAT(lm, model, monolearn.SenseMax)

	complete, err := learner.Learn(context.Background())
	if err != nil {
		fmt.Printf("   learn error: %v\n", err)
		return
	}

	fmt.Printf("   complete=%v lower=%d upper=%d oracle calls=%d\n",
		complete, knowledge.NLower(), knowledge.NUpper(), oracle.NQueries())
	fmt.Println()
}

// levelLearnSmallN exhaustively classifies every vector of weight
// <= 1 over a 3-element ground set without ever building a constraint
// model.
func levelLearnSmallN() {
	fmt.Println("3. Exhaustive low-weight classification via LevelLearn:")

	const n = 3
	oracle := monolearn.NewOracle(func(v monolearn.SparseSet) bool {
		return v.Len() <= 1
	})

	knowledge, err := monolearn.NewLowerSetLearn(n, "")
	if err != nil {
		fmt.Printf("   error: %v\n", err)
		return
	}

	lm := monolearn.NewLearnModule(knowledge, oracle)
	learner := monolearn.NewLevelLearn(lm, 2, 0)

	complete, err := learner.Learn(context.Background())
	if err != nil {
		fmt.Printf("   learn error: %v\n", err)
		return
	}

	fmt.Printf("   complete=%v lower=%d upper=%d oracle calls=%d\n",
		complete, knowledge.NLower(), knowledge.NUpper(), oracle.NQueries())
	fmt.Println()
}
