// Package yields computes gross yield, the operating cost decomposition and
// net yield for a deal, calibrated against the decile benchmark tables.
package yields

// Cost source markers for observability of the default fallback.
const (
	SourceBenchmark = "benchmark"
	SourceDefault   = "default"
)

// CostComponents decomposes operating costs as percentages of annual rent.
type CostComponents struct {
	MaintenanceCostPct float64 `json:"maintenance_cost_pct"`
	PropertyTaxPct     float64 `json:"property_tax_pct"`
	TurnoverCostPct    float64 `json:"turnover_cost_pct"`
	DefaultCostPct     float64 `json:"default_cost_pct"`
	ManagementCostPct  float64 `json:"management_cost_pct"`
	TotalCostPct       float64 `json:"total_cost_pct"`
	// Source records whether decile costs came from a benchmark row or the
	// hardcoded default tables.
	Source string `json:"benchmark_source"`
}

// Breakdown is the complete yield analysis for a deal.
type Breakdown struct {
	GrossYield      float64        `json:"gross_yield"`
	CostComponents  CostComponents `json:"cost_components"`
	NetYield        float64        `json:"net_yield"`
	AnnualRent      float64        `json:"annual_rent"`
	PropertyValue   float64        `json:"property_value"`
	NumUnits        int            `json:"num_units"`
	VacancyAdjusted bool           `json:"vacancy_adjusted"`
}

// Comparison positions a calculated net yield against the benchmark range
// for its decile. Position is "Below", "Within", "Above" or "Unknown" when
// no benchmark row exists.
type Comparison struct {
	BenchmarkMin      *float64 `json:"benchmark_min"`
	BenchmarkMax      *float64 `json:"benchmark_max"`
	Calculated        float64  `json:"calculated"`
	Position          string   `json:"position"`
	PercentileInRange *float64 `json:"percentile_in_range"`
}

// ValidationResult carries plausibility warnings for a yield value.
type ValidationResult struct {
	IsValid    bool     `json:"is_valid"`
	YieldValue float64  `json:"yield_value"`
	Warnings   []string `json:"warnings"`
}
