package deals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aequitas-re/dealengine/internal/domain"
	"github.com/aequitas-re/dealengine/internal/modules/appreciation"
	"github.com/aequitas-re/dealengine/internal/modules/arbitrage"
	"github.com/aequitas-re/dealengine/internal/modules/benchmarks"
	"github.com/aequitas-re/dealengine/internal/modules/hedonic"
	"github.com/aequitas-re/dealengine/internal/modules/renttiers"
	"github.com/aequitas-re/dealengine/internal/modules/returns"
	"github.com/aequitas-re/dealengine/internal/modules/risk"
	"github.com/aequitas-re/dealengine/internal/modules/yields"
	testhelpers "github.com/aequitas-re/dealengine/internal/testing"
)

const testModelVersion = "us_national_v1"

func newAnalyzer(t *testing.T) (*Analyzer, func()) {
	t.Helper()
	db, cleanup := testhelpers.NewTestDB(t, "reference")
	log := testhelpers.NewTestLogger()

	benchRepo := benchmarks.NewRepository(db.Conn(), log)
	_, err := benchRepo.SeedFromEmbedded()
	require.NoError(t, err)

	coefRepo := hedonic.NewRepository(db.Conn(), log)
	_, err = coefRepo.SeedFromEmbedded()
	require.NoError(t, err)

	tierRepo := renttiers.NewRepository(db.Conn(), log)
	_, err = tierRepo.SeedFromEmbedded()
	require.NoError(t, err)

	riskEngine, err := risk.NewEngine(benchRepo, log)
	require.NoError(t, err)

	engines := Engines{
		Predictor:  hedonic.NewPredictor(coefRepo, 2025, log),
		Classifier: renttiers.NewClassifier(tierRepo, log),
		Returns: returns.NewCalculator(
			yields.NewCalculator(benchRepo, log),
			appreciation.NewProjector(benchRepo, log),
			benchRepo,
			log,
		),
		Risk:      riskEngine,
		Arbitrage: arbitrage.NewEngine(log),
	}

	return NewAnalyzer(engines, testModelVersion, 10, log), cleanup
}

func testDeal() domain.Deal {
	return domain.Deal{
		Property: domain.PropertyCharacteristics{
			SquareFootage: domain.Float64Ptr(1200),
			Bedrooms:      domain.Float64Ptr(2),
			Bathrooms:     domain.Float64Ptr(1),
			YearBuilt:     domain.IntPtr(1995),
			PropertyType:  domain.PropertyTypeMultifamily,
		},
		PurchasePrice: 150000,
		MonthlyRent:   domain.Float64Ptr(1000),
		NumUnits:      1,
		CostOfDebt:    6.5,
		LTV:           0.75,
		Geography:     "US",
		State:         "TX",
	}
}

func TestAnalyzeFullPipeline(t *testing.T) {
	analyzer, cleanup := newAnalyzer(t)
	defer cleanup()

	analysis, err := analyzer.Analyze(testDeal())
	require.NoError(t, err)

	assert.NotEmpty(t, analysis.ID)
	assert.False(t, analysis.CreatedAt.IsZero())
	assert.Equal(t, testModelVersion, analysis.ModelVersion)
	assert.Equal(t, 10, analysis.HoldingPeriod)

	// 1200sqft 2BR/1BA 1995 multifamily at reference year 2025
	require.NotNil(t, analysis.RentPrediction)
	assert.InDelta(t, 897.85, analysis.RentPrediction.PredictedRent, 0.01)

	// $897.85 sits in the third national 2BR band
	require.NotNil(t, analysis.Classification)
	assert.Equal(t, 3, analysis.RentDecile)
	assert.Equal(t, "D3", analysis.Classification.TierLabel)

	require.NotNil(t, analysis.Returns)
	require.NotNil(t, analysis.Returns.Components.YieldAnalysis)
	require.NotNil(t, analysis.Returns.Components.AppreciationAnalysis)
	require.NotNil(t, analysis.Risk)
	require.NotNil(t, analysis.Risk.Composite)
	require.NotNil(t, analysis.Arbitrage)
	assert.Equal(t, 3, analysis.Arbitrage.RentDecile)
}

func TestAnalyzeWithoutObservedRent(t *testing.T) {
	analyzer, cleanup := newAnalyzer(t)
	defer cleanup()

	deal := testDeal()
	deal.MonthlyRent = nil

	analysis, err := analyzer.Analyze(deal)
	require.NoError(t, err)

	// Cash flows fall back to the predicted rent, and the caller is told
	assert.Contains(t, analysis.Warnings, "No observed rent; analysis uses the predicted fundamental rent.")
	assert.Greater(t, analysis.Returns.Components.YieldAnalysis.AnnualRent, 0.0)
	// The input deal is echoed unmodified
	assert.Nil(t, analysis.Deal.MonthlyRent)
}

func TestAnalyzeRequiresPredictableProperty(t *testing.T) {
	analyzer, cleanup := newAnalyzer(t)
	defer cleanup()

	deal := testDeal()
	deal.Property.SquareFootage = nil
	deal.Property.Bedrooms = nil

	_, err := analyzer.Analyze(deal)
	require.Error(t, err)
	assert.True(t, domain.IsMissingField(err))
}

func TestAnalyzeCollectsValidationWarnings(t *testing.T) {
	analyzer, cleanup := newAnalyzer(t)
	defer cleanup()

	// Tax burden on this price/rent ratio drives the net yield negative,
	// which the return validator flags
	analysis, err := analyzer.Analyze(testDeal())
	require.NoError(t, err)
	assert.NotEmpty(t, analysis.Warnings)
}

func TestCacheKeyDeterministic(t *testing.T) {
	deal := testDeal()

	key1 := CacheKey(deal, testModelVersion)
	key2 := CacheKey(deal, testModelVersion)
	assert.Equal(t, key1, key2)
	assert.Len(t, key1, 64)

	deal.PurchasePrice = 160000
	assert.NotEqual(t, key1, CacheKey(deal, testModelVersion))
	assert.NotEqual(t, key1, CacheKey(testDeal(), "other_model"))
}
