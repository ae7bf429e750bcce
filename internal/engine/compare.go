package engine

import (
	"fmt"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/piwi3910/TilePack/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.PackSettings
}

// ComparisonResult holds the packing result and computed statistics
// for a single scenario.
type ComparisonResult struct {
	Scenario   ComparisonScenario
	Result     model.AtlasResult
	TotalArea  int
	Efficiency float64
	WastedArea int
	Err        error // Set when the scenario could not be packed
}

// CompareScenarios packs the tiles once per scenario and returns the results
// in scenario order. Scenarios run concurrently since each packing is
// independent. A failing scenario is reported in its result rather than
// aborting the others.
func CompareScenarios(scenarios []ComparisonScenario, tiles []model.Tile, logger *log.Logger) []ComparisonResult {
	if logger == nil {
		logger = log.Default()
	}
	results := make([]ComparisonResult, len(scenarios))

	var g errgroup.Group
	for i, scenario := range scenarios {
		g.Go(func() error {
			opt := New(scenario.Settings, logger.With("scenario", scenario.Name))
			result, err := opt.Optimize(tiles)
			if err != nil {
				results[i] = ComparisonResult{Scenario: scenario, Err: err}
				return nil
			}
			results[i] = ComparisonResult{
				Scenario:   scenario,
				Result:     result,
				TotalArea:  result.TotalArea(),
				Efficiency: result.Efficiency(),
				WastedArea: result.TotalArea() - result.UsedArea(),
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// BuildDefaultScenarios generates a set of comparison scenarios based on
// the current settings, varying key parameters to show what-if alternatives.
func BuildDefaultScenarios(baseSettings model.PackSettings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:     "Current Settings",
			Settings: baseSettings,
		},
	}

	// Scenario: No padding
	if baseSettings.Padding > 0 {
		noPad := baseSettings
		noPad.Padding = 0
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "No Padding",
			Settings: noPad,
		})
	}

	// Scenario: Doubled padding (or 1px if none set)
	wide := baseSettings
	wide.Padding = baseSettings.Padding * 2
	if wide.Padding == 0 {
		wide.Padding = 1
	}
	scenarios = append(scenarios, ComparisonScenario{
		Name:     fmt.Sprintf("Padding %dpx", wide.Padding),
		Settings: wide,
	})

	// Scenario: Toggle power-of-two rounding
	pot := baseSettings
	pot.PowerOfTwo = !baseSettings.PowerOfTwo
	name := "Power of Two"
	if !pot.PowerOfTwo {
		name = "Exact Size"
	}
	scenarios = append(scenarios, ComparisonScenario{
		Name:     name,
		Settings: pot,
	})

	return scenarios
}
