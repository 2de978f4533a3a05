// Package loader reads catalogs and scenarios from JSON data files.
package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/napolitain/buildorder/internal/models"
)

// UnitJSON is the JSON shape of one catalog entry.
type UnitJSON struct {
	Minerals   float64  `json:"minerals"`
	Gas        float64  `json:"gas,omitempty"`
	Supply     int      `json:"supply,omitempty"`
	Duration   int      `json:"duration"`
	ProducedBy string   `json:"produced_by,omitempty"`
	Requires   []string `json:"requires,omitempty"`
}

// RolesJSON is the JSON shape of the economy role bindings.
type RolesJSON struct {
	Worker          string `json:"worker"`
	Base            string `json:"base"`
	SupplyStructure string `json:"supply_structure"`
	GasStructure    string `json:"gas_structure"`
}

// LoadCatalog builds a catalog from units.json and roles.json in dataDir.
func LoadCatalog(dataDir string) (*models.Catalog, error) {
	data, err := os.ReadFile(filepath.Join(dataDir, "units.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to read units.json: %w", err)
	}

	var rawUnits map[string]UnitJSON
	if err := json.Unmarshal(data, &rawUnits); err != nil {
		return nil, fmt.Errorf("failed to parse units.json: %w", err)
	}

	types := make([]models.UnitType, 0, len(rawUnits))
	for name, raw := range rawUnits {
		types = append(types, models.UnitType{
			Name:          name,
			MineralCost:   raw.Minerals,
			GasCost:       raw.Gas,
			SupplyDelta:   raw.Supply,
			BuildDuration: raw.Duration,
			ProducedBy:    raw.ProducedBy,
			Requires:      raw.Requires,
		})
	}

	roles, err := loadRoles(dataDir)
	if err != nil {
		return nil, err
	}

	catalog, err := models.NewCatalog(types, roles)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return catalog, nil
}

func loadRoles(dataDir string) (models.Roles, error) {
	data, err := os.ReadFile(filepath.Join(dataDir, "roles.json"))
	if err != nil {
		return models.Roles{}, fmt.Errorf("failed to read roles.json: %w", err)
	}

	var raw RolesJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return models.Roles{}, fmt.Errorf("failed to parse roles.json: %w", err)
	}

	return models.Roles{
		Worker:          raw.Worker,
		Base:            raw.Base,
		SupplyStructure: raw.SupplyStructure,
		GasStructure:    raw.GasStructure,
	}, nil
}

// Scenario is a named build order with an optional starting roster.
type Scenario struct {
	Name       string   `json:"name"`
	Roster     []string `json:"roster,omitempty"`
	BuildOrder []string `json:"build_order"`
}

// LoadScenario reads one scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}

	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario %s: %w", filepath.Base(path), err)
	}
	if len(s.BuildOrder) == 0 {
		return nil, fmt.Errorf("scenario %s has an empty build order", filepath.Base(path))
	}
	if s.Name == "" {
		s.Name = filepath.Base(path)
	}
	return &s, nil
}
