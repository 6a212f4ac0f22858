package yields

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aequitas-re/dealengine/internal/domain"
	"github.com/aequitas-re/dealengine/internal/modules/benchmarks"
	"github.com/aequitas-re/dealengine/pkg/formulas"
)

// BenchmarkSource supplies benchmark rows by (decile, geography).
type BenchmarkSource interface {
	Get(decile int, geography string) (*benchmarks.Row, error)
}

// Calculator computes yield breakdowns for deals.
type Calculator struct {
	benchmarks BenchmarkSource
	log        zerolog.Logger
}

// NewCalculator creates a yield calculator over a benchmark source.
func NewCalculator(source BenchmarkSource, log zerolog.Logger) *Calculator {
	return &Calculator{benchmarks: source, log: log.With().Str("engine", "yields").Logger()}
}

// Default per-decile cost tables from US market research, used when no
// benchmark row exists. Maintenance and default costs fall as rent rises.
var (
	defaultMaintenancePct = [10]float64{1.5, 1.4, 1.3, 1.2, 1.1, 1.0, 0.9, 0.8, 0.7, 0.6}
	defaultTurnoverPct    = [10]float64{2.5, 2.4, 2.3, 2.2, 2.1, 2.0, 1.9, 1.8, 1.8, 1.8}
	defaultDefaultPct     = [10]float64{0.9, 0.9, 0.8, 0.8, 0.7, 0.7, 0.6, 0.6, 0.5, 0.5}
)

// propertyTaxRate is the US average annual property tax as a fraction of
// property value.
const propertyTaxRate = 0.011

// GrossYield computes annual rent over property value as a percentage,
// rounded to 2 decimals.
func (c *Calculator) GrossYield(annualRent, propertyValue float64) (float64, error) {
	if propertyValue <= 0 {
		return 0, &domain.InvalidInputError{Field: "property_value", Reason: "must be positive"}
	}
	return formulas.Round2(annualRent / propertyValue * 100), nil
}

// managementCostPct reflects management scale economies by unit count.
func managementCostPct(numUnits int) float64 {
	switch {
	case numUnits >= 10:
		return 4.0
	case numUnits >= 2:
		return 5.0
	default:
		return 6.5
	}
}

// CostComponents derives all five operating cost percentages for a decile.
// propertyValue and annualRent enable the exact property tax calculation;
// when either is absent a decile-banded estimate is used instead.
func (c *Calculator) CostComponents(rentDecile, numUnits int, propertyValue, annualRent *float64, geography string) (*CostComponents, error) {
	if rentDecile < 1 || rentDecile > 10 {
		return nil, &domain.InvalidInputError{Field: "rent_decile", Reason: "must be in [1,10]"}
	}

	costs := &CostComponents{}

	row, err := c.benchmarks.Get(rentDecile, geography)
	if err != nil {
		return nil, fmt.Errorf("failed to look up benchmark costs: %w", err)
	}
	if row != nil {
		costs.MaintenanceCostPct = row.MaintenanceCostPct
		costs.TurnoverCostPct = row.TurnoverCostPct
		costs.DefaultCostPct = row.DefaultCostPct
		costs.Source = SourceBenchmark
	} else {
		costs.MaintenanceCostPct = defaultMaintenancePct[rentDecile-1]
		costs.TurnoverCostPct = defaultTurnoverPct[rentDecile-1]
		costs.DefaultCostPct = defaultDefaultPct[rentDecile-1]
		costs.Source = SourceDefault
		c.log.Warn().
			Int("rent_decile", rentDecile).
			Str("geography", geography).
			Msg("No benchmark row, using default cost tables")
	}

	// Property tax burden relative to rent varies inversely with rent level
	if propertyValue != nil && annualRent != nil && *annualRent > 0 {
		costs.PropertyTaxPct = *propertyValue * propertyTaxRate / *annualRent * 100
	} else if rentDecile <= 5 {
		costs.PropertyTaxPct = 1.5
	} else {
		costs.PropertyTaxPct = 1.0
	}

	costs.ManagementCostPct = managementCostPct(numUnits)

	costs.TotalCostPct = costs.MaintenanceCostPct + costs.PropertyTaxPct +
		costs.TurnoverCostPct + costs.DefaultCostPct + costs.ManagementCostPct

	// Round at the boundary only
	costs.MaintenanceCostPct = formulas.Round2(costs.MaintenanceCostPct)
	costs.PropertyTaxPct = formulas.Round2(costs.PropertyTaxPct)
	costs.TurnoverCostPct = formulas.Round2(costs.TurnoverCostPct)
	costs.DefaultCostPct = formulas.Round2(costs.DefaultCostPct)
	costs.ManagementCostPct = formulas.Round2(costs.ManagementCostPct)
	costs.TotalCostPct = formulas.Round2(costs.TotalCostPct)

	return costs, nil
}

// NetYield subtracts total costs from gross yield.
func (c *Calculator) NetYield(grossYield float64, costs CostComponents) float64 {
	return formulas.Round2(grossYield - costs.TotalCostPct)
}

// CalculateForDeal produces the complete yield breakdown for a deal using
// its vacancy-adjusted effective rent.
func (c *Calculator) CalculateForDeal(deal domain.Deal, rentDecile int) (*Breakdown, error) {
	if deal.PurchasePrice <= 0 {
		return nil, &domain.InvalidInputError{Field: "purchase_price", Reason: "must be positive"}
	}

	annualRent := deal.EffectiveAnnualRent()
	numUnits := deal.NumUnits
	if numUnits < 1 {
		numUnits = 1
	}

	grossYield, err := c.GrossYield(annualRent, deal.PurchasePrice)
	if err != nil {
		return nil, err
	}

	costs, err := c.CostComponents(rentDecile, numUnits, &deal.PurchasePrice, &annualRent, deal.Geography)
	if err != nil {
		return nil, err
	}

	return &Breakdown{
		GrossYield:      grossYield,
		CostComponents:  *costs,
		NetYield:        c.NetYield(grossYield, *costs),
		AnnualRent:      formulas.Round2(annualRent),
		PropertyValue:   deal.PurchasePrice,
		NumUnits:        numUnits,
		VacancyAdjusted: true,
	}, nil
}

// ValidateYield flags yields outside plausible residential bounds.
// Warnings are advisory; they never interrupt computation.
func (c *Calculator) ValidateYield(yieldValue float64, yieldType string) ValidationResult {
	warnings := []string{}

	if yieldType == "gross" {
		if yieldValue < 2.0 {
			warnings = append(warnings, "Unusually low gross yield (<2%). Check rent or property value.")
		} else if yieldValue > 15.0 {
			warnings = append(warnings, "Unusually high gross yield (>15%). Verify property value is correct.")
		}
	} else {
		if yieldValue < 0.0 {
			warnings = append(warnings, "Negative net yield - property loses money. Review cost assumptions.")
		} else if yieldValue < 1.0 {
			warnings = append(warnings, "Very low net yield (<1%). Property may not be financially viable.")
		} else if yieldValue > 12.0 {
			warnings = append(warnings, "Unusually high net yield (>12%). Verify calculations.")
		}
	}

	return ValidationResult{
		IsValid:    len(warnings) == 0,
		YieldValue: yieldValue,
		Warnings:   warnings,
	}
}

// CompareToBenchmark positions a net yield within its decile's benchmark
// range. Position is "Unknown" when no benchmark row exists.
func (c *Calculator) CompareToBenchmark(netYield float64, rentDecile int, geography string) (*Comparison, error) {
	row, err := c.benchmarks.Get(rentDecile, geography)
	if err != nil {
		return nil, fmt.Errorf("failed to look up benchmark range: %w", err)
	}
	if row == nil {
		return &Comparison{Calculated: netYield, Position: "Unknown"}, nil
	}

	var position string
	var percentile float64
	switch {
	case netYield < row.NetYieldMin:
		position = "Below"
		percentile = 0.0
	case netYield > row.NetYieldMax:
		position = "Above"
		percentile = 100.0
	default:
		position = "Within"
		rangeSize := row.NetYieldMax - row.NetYieldMin
		if rangeSize > 0 {
			percentile = (netYield - row.NetYieldMin) / rangeSize * 100
		} else {
			percentile = 50.0
		}
	}

	percentile = formulas.Round2(percentile)
	return &Comparison{
		BenchmarkMin:      &row.NetYieldMin,
		BenchmarkMax:      &row.NetYieldMax,
		Calculated:        netYield,
		Position:          position,
		PercentileInRange: &percentile,
	}, nil
}
