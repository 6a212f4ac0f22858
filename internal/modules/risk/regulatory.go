package risk

import (
	"encoding/json"
	"fmt"

	"github.com/aequitas-re/dealengine/pkg/embedded"
)

// Jurisdiction holds the static regulatory reference data for one state
// or city.
type Jurisdiction struct {
	HasRentControl    bool    `json:"has_rent_control"`
	RPSScore          float64 `json:"rps_score"` // regulatory pressure, 0-5
	PoliticalRisk     string  `json:"political_risk"`
	PolicyUncertainty string  `json:"policy_uncertainty"`
}

// JurisdictionTable resolves a (state, city) pair to regulatory reference
// data. City entries override state entries; unknown locations fall back
// to the national default.
type JurisdictionTable struct {
	Default Jurisdiction            `json:"default"`
	States  map[string]Jurisdiction `json:"states"`
	Cities  map[string]Jurisdiction `json:"cities"`
}

// LoadJurisdictionTable parses the embedded regulatory reference data.
func LoadJurisdictionTable() (*JurisdictionTable, error) {
	raw, err := embedded.ReadData("regulatory.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read regulatory data: %w", err)
	}
	var table JurisdictionTable
	if err := json.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("failed to parse regulatory data: %w", err)
	}
	return &table, nil
}

// Lookup resolves the most specific jurisdiction for a location.
func (t *JurisdictionTable) Lookup(state, city string) Jurisdiction {
	if city != "" {
		if j, ok := t.Cities[city]; ok {
			return j
		}
	}
	if state != "" {
		if j, ok := t.States[state]; ok {
			return j
		}
	}
	return t.Default
}
