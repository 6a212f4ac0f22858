package returns

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aequitas-re/dealengine/internal/domain"
	"github.com/aequitas-re/dealengine/internal/modules/appreciation"
	"github.com/aequitas-re/dealengine/internal/modules/benchmarks"
	"github.com/aequitas-re/dealengine/internal/modules/yields"
	"github.com/aequitas-re/dealengine/pkg/formulas"
)

// BenchmarkSource supplies benchmark rows by (decile, geography).
type BenchmarkSource interface {
	Get(decile int, geography string) (*benchmarks.Row, error)
}

// YieldSource produces the yield breakdown for a deal.
type YieldSource interface {
	CalculateForDeal(deal domain.Deal, rentDecile int) (*yields.Breakdown, error)
}

// AppreciationSource projects property value over a holding period.
type AppreciationSource interface {
	ProjectFutureValue(currentValue float64, rentDecile, years int, geography string) (*appreciation.ValueProjection, error)
}

// Calculator derives total returns from yield and appreciation analyses.
type Calculator struct {
	yields       YieldSource
	appreciation AppreciationSource
	benchmarks   BenchmarkSource
	log          zerolog.Logger
}

// NewCalculator creates a total return calculator over its component engines.
func NewCalculator(yieldSource YieldSource, appreciationSource AppreciationSource, benchmarkSource BenchmarkSource, log zerolog.Logger) *Calculator {
	return &Calculator{
		yields:       yieldSource,
		appreciation: appreciationSource,
		benchmarks:   benchmarkSource,
		log:          log.With().Str("engine", "returns").Logger(),
	}
}

// UnleveredReturn is net yield plus capital gain yield.
func (c *Calculator) UnleveredReturn(netYield, capitalGainYield float64) float64 {
	return formulas.Round2(netYield + capitalGainYield)
}

// LeveredReturn amplifies the unlevered return by the leverage multiplier:
// unlevered + (unlevered - cost of debt) x ltv / (1 - ltv).
// An LTV of zero or below means no leverage.
func (c *Calculator) LeveredReturn(unleveredReturn, costOfDebt, ltv float64) (float64, error) {
	if ltv >= 1.0 {
		return 0, &domain.InvalidLeverageError{LTV: ltv}
	}
	if ltv <= 0 {
		return unleveredReturn, nil
	}

	spread := unleveredReturn - costOfDebt
	leverageMultiplier := ltv / (1 - ltv)

	return formulas.Round2(unleveredReturn + spread*leverageMultiplier), nil
}

// CalculateForDeal runs the full total return analysis for a deal:
// yields, appreciation, unlevered and levered returns and the benchmark
// comparison. Unspecified financing terms fall back to market defaults.
func (c *Calculator) CalculateForDeal(deal domain.Deal, rentDecile, holdingPeriod int) (*Analysis, error) {
	if holdingPeriod <= 0 {
		holdingPeriod = 10
	}

	yieldAnalysis, err := c.yields.CalculateForDeal(deal, rentDecile)
	if err != nil {
		return nil, fmt.Errorf("yield analysis failed: %w", err)
	}

	appreciationAnalysis, err := c.appreciation.ProjectFutureValue(deal.PurchasePrice, rentDecile, holdingPeriod, deal.Geography)
	if err != nil {
		return nil, fmt.Errorf("appreciation projection failed: %w", err)
	}

	netYield := yieldAnalysis.NetYield
	capitalGainYield := appreciationAnalysis.AnnualizedAppreciationRate
	unlevered := c.UnleveredReturn(netYield, capitalGainYield)

	costOfDebt := deal.CostOfDebt
	if costOfDebt == 0 {
		costOfDebt = DefaultCostOfDebt
	}
	ltv := deal.LTV
	if ltv == 0 {
		ltv = DefaultLTV
	}

	levered, err := c.LeveredReturn(unlevered, costOfDebt, ltv)
	if err != nil {
		return nil, err
	}

	comparison, err := c.CompareToBenchmark(unlevered, rentDecile, deal.Geography)
	if err != nil {
		return nil, err
	}

	return &Analysis{
		NetYield:             netYield,
		CapitalGainYield:     capitalGainYield,
		TotalReturnUnlevered: unlevered,
		CostOfDebt:           costOfDebt,
		LTV:                  formulas.Round3(ltv),
		TotalReturnLevered:   levered,
		LeverageEffect:       formulas.Round2(levered - unlevered),
		HoldingPeriod:        holdingPeriod,
		BenchmarkComparison:  comparison,
		Components: Components{
			YieldAnalysis:        yieldAnalysis,
			AppreciationAnalysis: appreciationAnalysis,
		},
	}, nil
}

// CompareToBenchmark positions an unlevered total return within its
// decile's benchmark range.
func (c *Calculator) CompareToBenchmark(totalReturnUnlevered float64, rentDecile int, geography string) (*Comparison, error) {
	row, err := c.benchmarks.Get(rentDecile, geography)
	if err != nil {
		return nil, fmt.Errorf("failed to look up benchmark range: %w", err)
	}
	if row == nil {
		return &Comparison{Calculated: totalReturnUnlevered, Position: "Unknown"}, nil
	}

	var position string
	var percentile float64
	switch {
	case totalReturnUnlevered < row.TotalReturnMin:
		position = "Below"
		percentile = 0.0
	case totalReturnUnlevered > row.TotalReturnMax:
		position = "Above"
		percentile = 100.0
	default:
		position = "Within"
		rangeSize := row.TotalReturnMax - row.TotalReturnMin
		if rangeSize > 0 {
			percentile = (totalReturnUnlevered - row.TotalReturnMin) / rangeSize * 100
		} else {
			percentile = 50.0
		}
	}

	percentile = formulas.Round2(percentile)
	return &Comparison{
		BenchmarkMin:      &row.TotalReturnMin,
		BenchmarkMax:      &row.TotalReturnMax,
		Calculated:        totalReturnUnlevered,
		Position:          position,
		PercentileInRange: &percentile,
	}, nil
}

// EquityMultiple is total cash received over initial equity invested.
func (c *Calculator) EquityMultiple(initialEquity, totalCashFlows, exitProceeds float64) (float64, error) {
	if initialEquity <= 0 {
		return 0, &domain.InvalidInputError{Field: "initial_equity", Reason: "must be positive"}
	}
	return formulas.Round2((totalCashFlows + exitProceeds) / initialEquity), nil
}

// CashOnCashReturn is annual pre-tax cash flow over initial equity, as a
// percentage.
func (c *Calculator) CashOnCashReturn(annualCashFlow, initialEquity float64) (float64, error) {
	if initialEquity <= 0 {
		return 0, &domain.InvalidInputError{Field: "initial_equity", Reason: "must be positive"}
	}
	return formulas.Round2(annualCashFlow / initialEquity * 100), nil
}

// SensitivityAnalysis recomputes returns under each scenario's yield and
// appreciation adjustments, holding financing terms fixed.
func (c *Calculator) SensitivityAnalysis(deal domain.Deal, rentDecile int, scenarios map[string]Scenario) (map[string]ScenarioResult, error) {
	base, err := c.CalculateForDeal(deal, rentDecile, 10)
	if err != nil {
		return nil, err
	}

	results := make(map[string]ScenarioResult, len(scenarios))
	for name, scenario := range scenarios {
		adjustedNetYield := base.NetYield + scenario.YieldAdjustment
		adjustedCapitalGain := base.CapitalGainYield + scenario.AppreciationAdjustment

		adjustedUnlevered := c.UnleveredReturn(adjustedNetYield, adjustedCapitalGain)
		adjustedLevered, err := c.LeveredReturn(adjustedUnlevered, base.CostOfDebt, base.LTV)
		if err != nil {
			return nil, err
		}

		results[name] = ScenarioResult{
			NetYield:             formulas.Round2(adjustedNetYield),
			CapitalGainYield:     formulas.Round2(adjustedCapitalGain),
			TotalReturnUnlevered: adjustedUnlevered,
			TotalReturnLevered:   adjustedLevered,
		}
	}

	return results, nil
}

// ValidateReturns flags return figures outside plausible bounds and
// misalignments with the decile research pattern. Warnings are advisory.
func (c *Calculator) ValidateReturns(totalReturnUnlevered, totalReturnLevered float64, rentDecile int) ValidationResult {
	warnings := []string{}

	if totalReturnUnlevered < 0 {
		warnings = append(warnings, "Negative unlevered return - property destroys value")
	} else if totalReturnUnlevered < 3.0 {
		warnings = append(warnings, "Very low unlevered return (<3%) - below risk-free rate")
	} else if totalReturnUnlevered > 20.0 {
		warnings = append(warnings, "Unusually high unlevered return (>20%) - verify assumptions")
	}

	if totalReturnLevered < totalReturnUnlevered-5.0 {
		warnings = append(warnings, "Negative leverage - debt cost exceeds property returns")
	}

	// Low-rent tiers should outperform, high-rent tiers lag
	if rentDecile <= 3 && totalReturnUnlevered < 5.0 {
		warnings = append(warnings, fmt.Sprintf("Low return for D%d property. Research shows D1-D3 average 8-11%%", rentDecile))
	} else if rentDecile >= 8 && totalReturnUnlevered > 10.0 {
		warnings = append(warnings, fmt.Sprintf("High return for D%d property. Research shows D8-D10 average 3-7%%", rentDecile))
	}

	return ValidationResult{
		IsValid:              len(warnings) == 0,
		Warnings:             warnings,
		TotalReturnUnlevered: totalReturnUnlevered,
		TotalReturnLevered:   totalReturnLevered,
	}
}
