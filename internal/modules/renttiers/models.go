// Package renttiers classifies predicted rents into market deciles (D1-D10)
// against geography and bedroom-specific threshold tables.
//
// Classification uses the hedonic model's predicted rent rather than
// observed rent, which removes selection bias from the tiering.
package renttiers

import "fmt"

// ThresholdTable holds the ten ascending decile cut points for one
// (geography, bedrooms, data year) market.
type ThresholdTable struct {
	Geography  string      `json:"geography"`
	Bedrooms   int         `json:"bedrooms"`
	DataYear   int         `json:"data_year"`
	Thresholds [10]float64 `json:"thresholds"` // d1..d10, ascending
}

// Validate checks that thresholds ascend; classification assumes this.
func (t ThresholdTable) Validate() error {
	for i := 1; i < len(t.Thresholds); i++ {
		if t.Thresholds[i] < t.Thresholds[i-1] {
			return fmt.Errorf("thresholds not ascending for %s/%dBR: d%d %.2f < d%d %.2f",
				t.Geography, t.Bedrooms, i+1, t.Thresholds[i], i, t.Thresholds[i-1])
		}
	}
	return nil
}

// Threshold source markers. "default" means the hardcoded research table
// was used because no database thresholds existed for the geography.
const (
	SourceDatabase = "database"
	SourceDefault  = "default"
)

// Classification is the decile result for one predicted rent.
type Classification struct {
	NationalDecile     int            `json:"national_decile"`
	RegionalDecile     int            `json:"regional_decile"`
	TierLabel          string         `json:"tier_label"` // "D1".."D10"
	Percentile         float64        `json:"percentile"`
	RentValue          float64        `json:"rent_value"`
	Geography          string         `json:"geography"`
	ComparisonToMedian float64        `json:"comparison_to_median"`
	ThresholdSource    string         `json:"threshold_source"`
	Interpretation     Interpretation `json:"interpretation"`
}

// Interpretation is the static research record attached to each decile.
type Interpretation struct {
	Category             string `json:"category"`
	ExpectedReturnRange  string `json:"expected_return_range"`
	RiskProfile          string `json:"risk_profile"`
	ArbitrageOpportunity string `json:"arbitrage_opportunity"`
	TenantProfile        string `json:"tenant_profile"`
	ColorCode            string `json:"color_code"`
}
