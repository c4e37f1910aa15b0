package engine

import (
	"context"
	"fmt"

	"github.com/piwi3910/RollCut/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.CutSettings
}

// ComparisonResult holds the plan and computed statistics for a single
// scenario. Err is set when the scenario failed to produce a plan.
type ComparisonResult struct {
	Scenario     ComparisonScenario
	Plan         model.CutPlan
	RollsUsed    int
	WastePercent float64
	Err          error
}

// CompareScenarios runs optimization for each scenario on the same order
// book and returns the results in scenario order.
func CompareScenarios(ctx context.Context, scenarios []ComparisonScenario, book *model.OrderBook) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		plan, err := New(scenario.Settings).Optimize(ctx, book)
		if err != nil {
			results = append(results, ComparisonResult{Scenario: scenario, Err: err})
			continue
		}
		results = append(results, ComparisonResult{
			Scenario:     scenario,
			Plan:         plan,
			RollsUsed:    len(plan.Rolls),
			WastePercent: 100.0 - plan.Efficiency(),
		})
	}

	return results
}

// BuildDefaultScenarios generates a set of comparison scenarios based on
// the current settings: every algorithm, plus a tighter tolerance for
// column generation.
func BuildDefaultScenarios(baseSettings model.CutSettings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:     "Current Settings",
			Settings: baseSettings,
		},
	}

	for _, algo := range []model.Algorithm{
		model.AlgorithmColumnGeneration,
		model.AlgorithmFirstFitDecreasing,
		model.AlgorithmGenetic,
	} {
		if algo == baseSettings.Algorithm {
			continue
		}
		alt := baseSettings
		alt.Algorithm = algo
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Algorithm %s", algo),
			Settings: alt,
		})
	}

	if baseSettings.Algorithm == model.AlgorithmColumnGeneration && baseSettings.Epsilon > 1e-9 {
		tight := baseSettings
		tight.Epsilon = 1e-9
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "Tolerance 1e-9",
			Settings: tight,
		})
	}

	return scenarios
}
