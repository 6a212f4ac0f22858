package returns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aequitas-re/dealengine/internal/domain"
	"github.com/aequitas-re/dealengine/internal/modules/appreciation"
	"github.com/aequitas-re/dealengine/internal/modules/benchmarks"
	"github.com/aequitas-re/dealengine/internal/modules/yields"
	testhelpers "github.com/aequitas-re/dealengine/internal/testing"
)

func newSeededReturnsCalculator(t *testing.T) (*Calculator, func()) {
	t.Helper()
	db, cleanup := testhelpers.NewTestDB(t, "reference")
	repo := benchmarks.NewRepository(db.Conn(), testhelpers.NewTestLogger())
	_, err := repo.SeedFromEmbedded()
	require.NoError(t, err)

	log := testhelpers.NewTestLogger()
	calc := NewCalculator(
		yields.NewCalculator(repo, log),
		appreciation.NewProjector(repo, log),
		repo,
		log,
	)
	return calc, cleanup
}

func TestUnleveredReturn(t *testing.T) {
	calc, cleanup := newSeededReturnsCalculator(t)
	defer cleanup()

	assert.Equal(t, 7.7, calc.UnleveredReturn(4.5, 3.2))
	assert.Equal(t, -1.3, calc.UnleveredReturn(1.2, -2.5))
}

func TestLeveredReturnGoldenScenario(t *testing.T) {
	calc, cleanup := newSeededReturnsCalculator(t)
	defer cleanup()

	// 7.7 + (7.7 - 6.5) x 0.75/0.25 = 11.3
	levered, err := calc.LeveredReturn(7.7, 6.5, 0.75)
	require.NoError(t, err)
	assert.Equal(t, 11.3, levered)
}

func TestLeveredReturnNoLeverage(t *testing.T) {
	calc, cleanup := newSeededReturnsCalculator(t)
	defer cleanup()

	levered, err := calc.LeveredReturn(7.7, 6.5, 0)
	require.NoError(t, err)
	assert.Equal(t, 7.7, levered)
}

func TestLeveredReturnRejectsFullLeverage(t *testing.T) {
	calc, cleanup := newSeededReturnsCalculator(t)
	defer cleanup()

	_, err := calc.LeveredReturn(7.7, 6.5, 1.0)
	require.Error(t, err)
	assert.True(t, domain.IsInvalidLeverage(err))

	_, err = calc.LeveredReturn(7.7, 6.5, 1.2)
	assert.Error(t, err)
}

func TestLeveredReturnNegativeSpread(t *testing.T) {
	calc, cleanup := newSeededReturnsCalculator(t)
	defer cleanup()

	// Debt costs more than the property returns; leverage hurts
	levered, err := calc.LeveredReturn(5.0, 7.0, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 3.0, levered)
}

func TestCalculateForDealConsistency(t *testing.T) {
	calc, cleanup := newSeededReturnsCalculator(t)
	defer cleanup()

	deal := domain.Deal{
		PurchasePrice: 1200000,
		MonthlyRent:   domain.Float64Ptr(8000),
		NumUnits:      1,
		CostOfDebt:    6.5,
		LTV:           0.5,
		Geography:     "US",
	}

	analysis, err := calc.CalculateForDeal(deal, 5, 10)
	require.NoError(t, err)

	require.NotNil(t, analysis.Components.YieldAnalysis)
	require.NotNil(t, analysis.Components.AppreciationAnalysis)

	// D5 US capital gain midpoint: (0.48 + 3.74) / 2 = 2.11
	assert.InDelta(t, 2.11, analysis.CapitalGainYield, 0.001)
	assert.Equal(t, analysis.Components.YieldAnalysis.NetYield, analysis.NetYield)
	assert.InDelta(t, analysis.NetYield+analysis.CapitalGainYield, analysis.TotalReturnUnlevered, 0.005)

	// LTV 0.5 doubles the spread over cost of debt
	unlevered := analysis.TotalReturnUnlevered
	assert.InDelta(t, unlevered+(unlevered-6.5), analysis.TotalReturnLevered, 0.005)
	assert.InDelta(t, analysis.TotalReturnLevered-unlevered, analysis.LeverageEffect, 0.005)

	assert.Equal(t, 10, analysis.HoldingPeriod)
	require.NotNil(t, analysis.BenchmarkComparison)
	assert.NotEqual(t, "Unknown", analysis.BenchmarkComparison.Position)
}

func TestCalculateForDealFinancingDefaults(t *testing.T) {
	calc, cleanup := newSeededReturnsCalculator(t)
	defer cleanup()

	deal := domain.Deal{
		PurchasePrice: 800000,
		MonthlyRent:   domain.Float64Ptr(5500),
		NumUnits:      2,
		Geography:     "US",
	}

	analysis, err := calc.CalculateForDeal(deal, 3, 0)
	require.NoError(t, err)

	assert.Equal(t, 6.5, analysis.CostOfDebt)
	assert.Equal(t, 0.75, analysis.LTV)
	assert.Equal(t, 10, analysis.HoldingPeriod)
}

func TestCompareToBenchmark(t *testing.T) {
	calc, cleanup := newSeededReturnsCalculator(t)
	defer cleanup()

	// D1 US total return range is [4.53, 11.19]
	comparison, err := calc.CompareToBenchmark(7.86, 1, "US")
	require.NoError(t, err)
	assert.Equal(t, "Within", comparison.Position)
	assert.InDelta(t, 50.0, *comparison.PercentileInRange, 0.1)

	comparison, err = calc.CompareToBenchmark(4.0, 1, "US")
	require.NoError(t, err)
	assert.Equal(t, "Below", comparison.Position)
	assert.Equal(t, 0.0, *comparison.PercentileInRange)

	comparison, err = calc.CompareToBenchmark(12.0, 1, "US")
	require.NoError(t, err)
	assert.Equal(t, "Above", comparison.Position)
	assert.Equal(t, 100.0, *comparison.PercentileInRange)

	comparison, err = calc.CompareToBenchmark(7.0, 1, "Atlantis")
	require.NoError(t, err)
	assert.Equal(t, "Unknown", comparison.Position)
	assert.Nil(t, comparison.BenchmarkMin)
}

func TestEquityMultiple(t *testing.T) {
	calc, cleanup := newSeededReturnsCalculator(t)
	defer cleanup()

	multiple, err := calc.EquityMultiple(300000, 150000, 600000)
	require.NoError(t, err)
	assert.Equal(t, 2.5, multiple)

	_, err = calc.EquityMultiple(0, 150000, 600000)
	require.Error(t, err)
	assert.True(t, domain.IsInvalidInput(err))
}

func TestCashOnCashReturn(t *testing.T) {
	calc, cleanup := newSeededReturnsCalculator(t)
	defer cleanup()

	coc, err := calc.CashOnCashReturn(24000, 300000)
	require.NoError(t, err)
	assert.Equal(t, 8.0, coc)

	_, err = calc.CashOnCashReturn(24000, -1)
	require.Error(t, err)
	assert.True(t, domain.IsInvalidInput(err))
}

func TestSensitivityAnalysis(t *testing.T) {
	calc, cleanup := newSeededReturnsCalculator(t)
	defer cleanup()

	deal := domain.Deal{
		PurchasePrice: 1200000,
		MonthlyRent:   domain.Float64Ptr(8000),
		NumUnits:      1,
		CostOfDebt:    6.5,
		LTV:           0.5,
		Geography:     "US",
	}

	scenarios := map[string]Scenario{
		"base":        {},
		"optimistic":  {YieldAdjustment: 0.5, AppreciationAdjustment: 1.0},
		"pessimistic": {YieldAdjustment: -0.5, AppreciationAdjustment: -1.0},
	}

	results, err := calc.SensitivityAnalysis(deal, 5, scenarios)
	require.NoError(t, err)
	require.Len(t, results, 3)

	base := results["base"]
	optimistic := results["optimistic"]
	pessimistic := results["pessimistic"]

	assert.InDelta(t, base.TotalReturnUnlevered+1.5, optimistic.TotalReturnUnlevered, 0.011)
	assert.InDelta(t, base.TotalReturnUnlevered-1.5, pessimistic.TotalReturnUnlevered, 0.011)
	assert.Greater(t, optimistic.TotalReturnLevered, base.TotalReturnLevered)
	assert.Less(t, pessimistic.TotalReturnLevered, base.TotalReturnLevered)
}

func TestValidateReturnsBands(t *testing.T) {
	calc, cleanup := newSeededReturnsCalculator(t)
	defer cleanup()

	assert.True(t, calc.ValidateReturns(7.7, 11.3, 5).IsValid)

	result := calc.ValidateReturns(-1.0, 2.0, 5)
	assert.False(t, result.IsValid)
	assert.Contains(t, result.Warnings[0], "destroys value")

	result = calc.ValidateReturns(2.0, 3.0, 5)
	assert.Contains(t, result.Warnings[0], "below risk-free rate")

	result = calc.ValidateReturns(22.0, 30.0, 5)
	assert.Contains(t, result.Warnings[0], "verify assumptions")

	result = calc.ValidateReturns(8.0, 2.0, 5)
	assert.Contains(t, result.Warnings[0], "Negative leverage")
}

func TestValidateReturnsDecileAlignment(t *testing.T) {
	calc, cleanup := newSeededReturnsCalculator(t)
	defer cleanup()

	result := calc.ValidateReturns(4.0, 6.0, 2)
	assert.False(t, result.IsValid)
	assert.Contains(t, result.Warnings[0], "D1-D3 average 8-11%")

	result = calc.ValidateReturns(12.0, 15.0, 9)
	assert.False(t, result.IsValid)
	assert.Contains(t, result.Warnings[0], "D8-D10 average 3-7%")

	// Mid-tier returns carry no decile expectation
	assert.True(t, calc.ValidateReturns(6.0, 8.0, 5).IsValid)
}
