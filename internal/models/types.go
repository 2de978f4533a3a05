package models

// UnitType describes one buildable entity: what it costs, how long its
// production occupies a producer, and what must already exist on the map
// before production can start.
type UnitType struct {
	Name        string
	MineralCost float64
	GasCost     float64
	// SupplyDelta is positive for supply consumers (a worker uses 1) and
	// negative for providers (a supply structure grants 8). Positive deltas
	// are debited at dispatch, negative ones credited at completion.
	SupplyDelta int
	// BuildDuration is the number of ticks the producer stays busy.
	BuildDuration int
	// ProducedBy names the type whose idle instance must carry out the
	// production. Empty only for types that exist solely in initial rosters.
	ProducedBy string
	// Requires lists types that must have at least one completed instance
	// before production can start. Existence checks only, nothing is consumed.
	Requires []string
}

// Roles names the catalog entries that play economy-wide parts. Schedulers
// and the income census key off these instead of hardcoded type names.
type Roles struct {
	Worker          string
	Base            string
	SupplyStructure string
	GasStructure    string
}
