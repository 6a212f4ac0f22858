// Package benchmarks provides read access to the per-decile, per-geography
// research benchmark ranges every calculation engine calibrates against.
package benchmarks

import "fmt"

// Row holds the benchmark ranges for one (rent decile, geography) pair.
// All yield/gain/return values are annual percentages.
type Row struct {
	RentDecile         int     `json:"rent_decile"`
	Geography          string  `json:"geography"`
	NetYieldMin        float64 `json:"net_yield_min"`
	NetYieldMax        float64 `json:"net_yield_max"`
	CapitalGainMin     float64 `json:"capital_gain_min"`
	CapitalGainMax     float64 `json:"capital_gain_max"`
	TotalReturnMin     float64 `json:"total_return_min"`
	TotalReturnMax     float64 `json:"total_return_max"`
	MaintenanceCostPct float64 `json:"maintenance_cost_pct"`
	TurnoverCostPct    float64 `json:"turnover_cost_pct"`
	DefaultCostPct     float64 `json:"default_cost_pct"`
	SystematicRiskBeta float64 `json:"systematic_risk_beta"`
	CashFlowVolatility float64 `json:"cash_flow_volatility"`
}

// Validate checks the row's internal invariants: decile in range and
// min <= max for every range pair.
func (r Row) Validate() error {
	if r.RentDecile < 1 || r.RentDecile > 10 {
		return fmt.Errorf("rent_decile %d out of range [1,10]", r.RentDecile)
	}
	if r.Geography == "" {
		return fmt.Errorf("geography is required")
	}
	pairs := []struct {
		name     string
		min, max float64
	}{
		{"net_yield", r.NetYieldMin, r.NetYieldMax},
		{"capital_gain", r.CapitalGainMin, r.CapitalGainMax},
		{"total_return", r.TotalReturnMin, r.TotalReturnMax},
	}
	for _, p := range pairs {
		if p.min > p.max {
			return fmt.Errorf("%s range inverted for D%d (%s): min %.2f > max %.2f",
				p.name, r.RentDecile, r.Geography, p.min, p.max)
		}
	}
	return nil
}
