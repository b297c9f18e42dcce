package dataimport

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed seed.json
var seedJSON []byte

// SeedComponent is one component row of the baseline dataset.
type SeedComponent struct {
	Name               string  `json:"name"`
	PartNumber         string  `json:"partNumber"`
	CurrentStockQty    float64 `json:"currentStockQty"`
	MonthlyRequiredQty float64 `json:"monthlyRequiredQty"`
}

// SeedPcbRow references a seed component by part number.
type SeedPcbRow struct {
	PartNumber           string  `json:"partNumber"`
	QuantityPerComponent float64 `json:"quantityPerComponent"`
}

// SeedPcb is one PCB mapping of the baseline dataset.
type SeedPcb struct {
	Name       string       `json:"name"`
	Components []SeedPcbRow `json:"components"`
}

// SeedData is the embedded baseline dataset a bulk import replaces the
// inventory with.
type SeedData struct {
	Components []SeedComponent `json:"components"`
	Pcbs       []SeedPcb       `json:"pcbs"`
}

// LoadSeed parses the embedded dataset and checks its internal references.
func LoadSeed() (*SeedData, error) {
	var seed SeedData
	if err := json.Unmarshal(seedJSON, &seed); err != nil {
		return nil, fmt.Errorf("parse embedded seed: %w", err)
	}

	known := make(map[string]struct{}, len(seed.Components))
	for _, c := range seed.Components {
		known[c.PartNumber] = struct{}{}
	}
	for _, pcb := range seed.Pcbs {
		for _, row := range pcb.Components {
			if _, ok := known[row.PartNumber]; !ok {
				return nil, fmt.Errorf("seed pcb %q references unknown part number %q", pcb.Name, row.PartNumber)
			}
		}
	}
	return &seed, nil
}
