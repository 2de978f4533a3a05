package models

// DefaultCatalog returns the built-in Protoss-flavored catalog.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog([]UnitType{
		{Name: "Probe", MineralCost: 50, SupplyDelta: 1, BuildDuration: 12, ProducedBy: "Nexus"},
		{Name: "Pylon", MineralCost: 100, SupplyDelta: -8, BuildDuration: 25, ProducedBy: "Probe"},
		{Name: "Nexus", MineralCost: 400, SupplyDelta: -9, BuildDuration: 77, ProducedBy: "Probe"},
		{Name: "Assimilator", MineralCost: 75, BuildDuration: 30, ProducedBy: "Probe"},
		{Name: "Gateway", MineralCost: 150, BuildDuration: 38, ProducedBy: "Probe", Requires: []string{"Pylon"}},
		{Name: "CyberneticsCore", MineralCost: 150, BuildDuration: 50, ProducedBy: "Probe", Requires: []string{"Gateway"}},
		{Name: "Zealot", MineralCost: 100, SupplyDelta: 2, BuildDuration: 20, ProducedBy: "Gateway"},
		{Name: "Stalker", MineralCost: 125, GasCost: 50, SupplyDelta: 2, BuildDuration: 42, ProducedBy: "Gateway", Requires: []string{"CyberneticsCore"}},
	}, Roles{
		Worker:          "Probe",
		Base:            "Nexus",
		SupplyStructure: "Pylon",
		GasStructure:    "Assimilator",
	})
	if err != nil {
		panic("BUG: default catalog invalid: " + err.Error())
	}
	return c
}

// DefaultRoster returns the standard starting position: one base and four
// workers.
func DefaultRoster() []string {
	return []string{"Nexus", "Probe", "Probe", "Probe", "Probe"}
}
