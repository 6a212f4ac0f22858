// Package returns combines net yield and capital appreciation into total
// return figures, with and without leverage.
package returns

import (
	"github.com/aequitas-re/dealengine/internal/modules/appreciation"
	"github.com/aequitas-re/dealengine/internal/modules/yields"
)

// Financing defaults applied when a deal leaves its terms unspecified.
const (
	DefaultCostOfDebt = 6.5  // percent
	DefaultLTV        = 0.75 // 25% down payment
)

// Analysis is the complete total return picture for a deal.
type Analysis struct {
	NetYield             float64     `json:"net_yield"`
	CapitalGainYield     float64     `json:"capital_gain_yield"`
	TotalReturnUnlevered float64     `json:"total_return_unlevered"`
	CostOfDebt           float64     `json:"cost_of_debt"`
	LTV                  float64     `json:"ltv"`
	TotalReturnLevered   float64     `json:"total_return_levered"`
	LeverageEffect       float64     `json:"leverage_effect"`
	HoldingPeriod        int         `json:"holding_period"`
	BenchmarkComparison  *Comparison `json:"benchmark_comparison"`
	Components           Components  `json:"components"`
}

// Components carries the underlying analyses the totals were built from.
type Components struct {
	YieldAnalysis        *yields.Breakdown             `json:"yield_analysis"`
	AppreciationAnalysis *appreciation.ValueProjection `json:"appreciation_analysis"`
}

// Comparison positions an unlevered total return against the benchmark
// range for its decile.
type Comparison struct {
	BenchmarkMin      *float64 `json:"benchmark_min"`
	BenchmarkMax      *float64 `json:"benchmark_max"`
	Calculated        float64  `json:"calculated"`
	Position          string   `json:"position"`
	PercentileInRange *float64 `json:"percentile_in_range"`
}

// Scenario adjusts yield and appreciation assumptions for sensitivity runs.
type Scenario struct {
	YieldAdjustment        float64 `json:"yield_adjustment"`
	AppreciationAdjustment float64 `json:"appreciation_adjustment"`
}

// ScenarioResult is the recomputed return set for one scenario.
type ScenarioResult struct {
	NetYield             float64 `json:"net_yield"`
	CapitalGainYield     float64 `json:"capital_gain_yield"`
	TotalReturnUnlevered float64 `json:"total_return_unlevered"`
	TotalReturnLevered   float64 `json:"total_return_levered"`
}

// ValidationResult carries plausibility warnings for a return pair.
type ValidationResult struct {
	IsValid              bool     `json:"is_valid"`
	Warnings             []string `json:"warnings"`
	TotalReturnUnlevered float64  `json:"total_return_unlevered"`
	TotalReturnLevered   float64  `json:"total_return_levered"`
}
