// Package sim implements the discrete-tick build-order simulation: the
// shared stockpile and income model, live execution units, the task queue,
// the scheduler contract and the engine that drives them.
package sim

import "math"

// Harvest rates in resources per worker per tick, and the per-base
// saturation tiers they apply to.
const (
	optimalPerBase   = 9  // workers mining at the full rate per base
	saturatedPerBase = 27 // workers contributing anything at all per base
	workersPerGeyser = 3

	optimalMineralRate   = 65.0 / 60.0
	saturatedMineralRate = 55.0 / 60.0
	gasRatePerGeyser     = 309.0 / 60.0
)

// IncomeRate is the stockpile gain per tick.
type IncomeRate struct {
	Minerals float64
	Gas      float64
}

// Income computes the per-tick income for a census of completed units. Three
// workers per gas structure are committed to geysers; the rest mine
// minerals, spread evenly across bases. Each base pays the optimal rate for
// its first nine miners, the reduced rate for the next eighteen, and nothing
// beyond saturation. A census with no bases yields no income at all.
func Income(bases, gasStructures, workers int) IncomeRate {
	if bases <= 0 {
		return IncomeRate{}
	}
	miners := workers - workersPerGeyser*gasStructures
	if miners < 0 {
		miners = 0
	}
	perBase := float64(miners) / float64(bases)
	optimal := math.Min(perBase, optimalPerBase)
	reduced := math.Min(math.Max(perBase-optimalPerBase, 0), saturatedPerBase-optimalPerBase)
	return IncomeRate{
		Minerals: float64(bases) * (optimal*optimalMineralRate + reduced*saturatedMineralRate),
		Gas:      float64(gasStructures) * gasRatePerGeyser,
	}
}
