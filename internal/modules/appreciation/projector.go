// Package appreciation projects property values and NOI forward using
// decile-indexed annual rates with age adjustments.
package appreciation

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aequitas-re/dealengine/internal/domain"
	"github.com/aequitas-re/dealengine/internal/modules/benchmarks"
	"github.com/aequitas-re/dealengine/pkg/formulas"
)

// Rate source markers for observability of the default fallback.
const (
	SourceBenchmark = "benchmark"
	SourceDefault   = "default"
)

// ValueProjection is the compound value forecast for one property.
type ValueProjection struct {
	CurrentValue               float64  `json:"current_value"`
	ProjectedValueYr1          float64  `json:"projected_value_yr1"`
	ProjectedValueYr5          float64  `json:"projected_value_yr5"`
	ProjectedValueYr10         float64  `json:"projected_value_yr10"`
	ProjectedValueCustom       *float64 `json:"projected_value_custom,omitempty"`
	YearsProjected             int      `json:"years_projected"`
	AnnualizedAppreciationRate float64  `json:"annualized_appreciation_rate"`
	TotalAppreciationPct       float64  `json:"total_appreciation_pct"`
	AppreciationRangeMin       float64  `json:"appreciation_range_min"`
	AppreciationRangeMax       float64  `json:"appreciation_range_max"`
	RateSource                 string   `json:"rate_source"`
}

// NOIProjection is the compound NOI forecast for one property.
type NOIProjection struct {
	CurrentNOI         float64  `json:"current_noi"`
	ProjectedNOIYr1    float64  `json:"projected_noi_yr1"`
	ProjectedNOIYr5    float64  `json:"projected_noi_yr5"`
	ProjectedNOIYr10   float64  `json:"projected_noi_yr10"`
	ProjectedNOICustom *float64 `json:"projected_noi_custom,omitempty"`
	AnnualGrowthRate   float64  `json:"annual_growth_rate"`
	BaseGrowth         float64  `json:"base_growth"`
	AgeAdjustment      float64  `json:"age_adjustment"`
	TierAdjustment     float64  `json:"tier_adjustment"`
	YearsProjected     int      `json:"years_projected"`
}

// ExitValue is the cap-rate-derived sale value analysis.
type ExitValue struct {
	CurrentValue      float64 `json:"current_value"`
	NOIAtExit         float64 `json:"noi_at_exit"`
	ExitCapRate       float64 `json:"exit_cap_rate"` // percent
	ExitValue         float64 `json:"exit_value"`
	TotalAppreciation float64 `json:"total_appreciation"`
	AppreciationPct   float64 `json:"appreciation_pct"`
}

// Comparison positions an appreciation rate against the benchmark
// capital-gain range for its decile.
type Comparison struct {
	BenchmarkMin      *float64 `json:"benchmark_min"`
	BenchmarkMax      *float64 `json:"benchmark_max"`
	Calculated        float64  `json:"calculated"`
	Position          string   `json:"position"`
	PercentileInRange *float64 `json:"percentile_in_range"`
}

// BenchmarkSource supplies benchmark rows by (decile, geography).
type BenchmarkSource interface {
	Get(decile int, geography string) (*benchmarks.Row, error)
}

// Projector computes appreciation forecasts.
type Projector struct {
	benchmarks BenchmarkSource
	log        zerolog.Logger
}

// NewProjector creates a projector over a benchmark source.
func NewProjector(source BenchmarkSource, log zerolog.Logger) *Projector {
	return &Projector{benchmarks: source, log: log.With().Str("engine", "appreciation").Logger()}
}

// defaultAppreciationRates holds the research midpoint annual appreciation
// per decile. Appreciation falls as rent rises; counterintuitive but
// research-proven.
var defaultAppreciationRates = [10]float64{3.25, 3.04, 2.66, 2.34, 2.11, 1.79, 1.69, 1.48, 1.23, 0.93}

// ProjectFutureValue compounds current value forward at the decile's annual
// appreciation rate, reporting the 1/5/10-year marks plus the requested
// horizon.
func (p *Projector) ProjectFutureValue(currentValue float64, rentDecile, years int, geography string) (*ValueProjection, error) {
	if currentValue <= 0 {
		return nil, &domain.InvalidInputError{Field: "current_value", Reason: "must be positive"}
	}
	if rentDecile < 1 || rentDecile > 10 {
		return nil, &domain.InvalidInputError{Field: "rent_decile", Reason: "must be in [1,10]"}
	}
	if years <= 0 {
		return nil, &domain.InvalidInputError{Field: "years", Reason: "must be positive"}
	}

	row, err := p.benchmarks.Get(rentDecile, geography)
	if err != nil {
		return nil, fmt.Errorf("failed to look up benchmark appreciation: %w", err)
	}

	var annualRate, rangeMin, rangeMax float64
	source := SourceBenchmark
	if row != nil {
		rangeMin = row.CapitalGainMin
		rangeMax = row.CapitalGainMax
		annualRate = formulas.Midpoint(rangeMin, rangeMax)
	} else {
		annualRate = defaultAppreciationRates[rentDecile-1]
		rangeMin = annualRate - 1.0
		rangeMax = annualRate + 1.0
		source = SourceDefault
		p.log.Warn().
			Int("rent_decile", rentDecile).
			Str("geography", geography).
			Msg("No benchmark row, using default appreciation rate")
	}

	projectedCustom := formulas.Compound(currentValue, annualRate, years)

	projection := &ValueProjection{
		CurrentValue:               formulas.Round2(currentValue),
		ProjectedValueYr1:          formulas.Round2(formulas.Compound(currentValue, annualRate, 1)),
		ProjectedValueYr5:          formulas.Round2(formulas.Compound(currentValue, annualRate, 5)),
		ProjectedValueYr10:         formulas.Round2(formulas.Compound(currentValue, annualRate, 10)),
		YearsProjected:             years,
		AnnualizedAppreciationRate: formulas.Round2(annualRate),
		TotalAppreciationPct:       formulas.Round2((projectedCustom - currentValue) / currentValue * 100),
		AppreciationRangeMin:       formulas.Round2(rangeMin),
		AppreciationRangeMax:       formulas.Round2(rangeMax),
		RateSource:                 source,
	}
	if years != 10 {
		rounded := formulas.Round2(projectedCustom)
		projection.ProjectedValueCustom = &rounded
	}

	return projection, nil
}

// ProjectNOIGrowth compounds NOI forward. Older properties grow faster from
// a low base; low-rent tiers grow slightly faster than high-rent tiers.
func (p *Projector) ProjectNOIGrowth(currentNOI float64, rentDecile, propertyAge, years int) (*NOIProjection, error) {
	if currentNOI < 0 {
		return nil, &domain.InvalidInputError{Field: "current_noi", Reason: "must not be negative"}
	}
	if years <= 0 {
		return nil, &domain.InvalidInputError{Field: "years", Reason: "must be positive"}
	}

	baseGrowth := 2.0

	var ageAdjustment float64
	switch {
	case propertyAge > 50:
		ageAdjustment = 0.5
	case propertyAge > 30:
		ageAdjustment = 0.2
	}

	var tierAdjustment float64
	switch {
	case rentDecile <= 3:
		tierAdjustment = 0.3
	case rentDecile <= 7:
		tierAdjustment = 0.0
	default:
		tierAdjustment = -0.2
	}

	annualGrowthRate := baseGrowth + ageAdjustment + tierAdjustment
	projectedCustom := formulas.Compound(currentNOI, annualGrowthRate, years)

	projection := &NOIProjection{
		CurrentNOI:       formulas.Round2(currentNOI),
		ProjectedNOIYr1:  formulas.Round2(formulas.Compound(currentNOI, annualGrowthRate, 1)),
		ProjectedNOIYr5:  formulas.Round2(formulas.Compound(currentNOI, annualGrowthRate, 5)),
		ProjectedNOIYr10: formulas.Round2(formulas.Compound(currentNOI, annualGrowthRate, 10)),
		AnnualGrowthRate: formulas.Round2(annualGrowthRate),
		BaseGrowth:       baseGrowth,
		AgeAdjustment:    ageAdjustment,
		TierAdjustment:   tierAdjustment,
		YearsProjected:   years,
	}
	if years != 10 {
		rounded := formulas.Round2(projectedCustom)
		projection.ProjectedNOICustom = &rounded
	}

	return projection, nil
}

// ApplyAgingAdjustment reduces an appreciation rate for depreciation:
// 0.05% per decade of age, averaged over the holding period.
func (p *Projector) ApplyAgingAdjustment(baseAppreciation float64, propertyAge, yearsToProject int) float64 {
	agePenalty := float64(propertyAge) / 10 * 0.05
	futureAgePenalty := float64(yearsToProject) / 10 * 0.05
	totalAdjustment := (agePenalty + futureAgePenalty) / 2

	return formulas.Round2(baseAppreciation - totalAdjustment)
}

// CalculateExitValue derives the sale price from projected NOI and an exit
// cap rate. exitCapRate is a decimal (0.06 for 6%).
func (p *Projector) CalculateExitValue(currentValue, noiAtExit, exitCapRate float64) (*ExitValue, error) {
	if exitCapRate <= 0 {
		return nil, &domain.InvalidInputError{Field: "exit_cap_rate", Reason: "must be positive"}
	}
	if currentValue <= 0 {
		return nil, &domain.InvalidInputError{Field: "current_value", Reason: "must be positive"}
	}

	exitValue := noiAtExit / exitCapRate
	totalAppreciation := exitValue - currentValue

	return &ExitValue{
		CurrentValue:      formulas.Round2(currentValue),
		NOIAtExit:         formulas.Round2(noiAtExit),
		ExitCapRate:       formulas.Round2(exitCapRate * 100),
		ExitValue:         formulas.Round2(exitValue),
		TotalAppreciation: formulas.Round2(totalAppreciation),
		AppreciationPct:   formulas.Round2(totalAppreciation / currentValue * 100),
	}, nil
}

// CompareToBenchmark positions an appreciation rate within its decile's
// benchmark capital-gain range.
func (p *Projector) CompareToBenchmark(calculatedGain float64, rentDecile int, geography string) (*Comparison, error) {
	row, err := p.benchmarks.Get(rentDecile, geography)
	if err != nil {
		return nil, fmt.Errorf("failed to look up benchmark range: %w", err)
	}
	if row == nil {
		return &Comparison{Calculated: calculatedGain, Position: "Unknown"}, nil
	}

	var position string
	var percentile float64
	switch {
	case calculatedGain < row.CapitalGainMin:
		position = "Below"
		percentile = 0.0
	case calculatedGain > row.CapitalGainMax:
		position = "Above"
		percentile = 100.0
	default:
		position = "Within"
		rangeSize := row.CapitalGainMax - row.CapitalGainMin
		if rangeSize > 0 {
			percentile = (calculatedGain - row.CapitalGainMin) / rangeSize * 100
		} else {
			percentile = 50.0
		}
	}

	percentile = formulas.Round2(percentile)
	return &Comparison{
		BenchmarkMin:      &row.CapitalGainMin,
		BenchmarkMax:      &row.CapitalGainMax,
		Calculated:        calculatedGain,
		Position:          position,
		PercentileInRange: &percentile,
	}, nil
}
