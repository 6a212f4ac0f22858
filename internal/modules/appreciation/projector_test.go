package appreciation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aequitas-re/dealengine/internal/domain"
	"github.com/aequitas-re/dealengine/internal/modules/benchmarks"
	testhelpers "github.com/aequitas-re/dealengine/internal/testing"
)

func newSeededProjector(t *testing.T) (*Projector, func()) {
	t.Helper()
	db, cleanup := testhelpers.NewTestDB(t, "reference")
	repo := benchmarks.NewRepository(db.Conn(), testhelpers.NewTestLogger())
	_, err := repo.SeedFromEmbedded()
	require.NoError(t, err)
	return NewProjector(repo, testhelpers.NewTestLogger()), cleanup
}

func TestProjectFutureValueFromBenchmark(t *testing.T) {
	projector, cleanup := newSeededProjector(t)
	defer cleanup()

	// D1 US midpoint: (0.99 + 5.50) / 2 = 3.245
	projection, err := projector.ProjectFutureValue(1000000, 1, 10, "US")
	require.NoError(t, err)

	assert.Equal(t, SourceBenchmark, projection.RateSource)
	assert.InDelta(t, 3.245, projection.AnnualizedAppreciationRate, 0.01)
	assert.InDelta(t, 0.99, projection.AppreciationRangeMin, 0.001)
	assert.InDelta(t, 5.50, projection.AppreciationRangeMax, 0.001)

	rate := 3.245 / 100
	assert.InDelta(t, 1000000*(1+rate), projection.ProjectedValueYr1, 0.5)
	assert.InDelta(t, 1000000*math.Pow(1+rate, 5), projection.ProjectedValueYr5, 0.5)
	assert.InDelta(t, 1000000*math.Pow(1+rate, 10), projection.ProjectedValueYr10, 0.5)
	// Custom horizon equals 10 years, so no separate custom value
	assert.Nil(t, projection.ProjectedValueCustom)
}

func TestProjectFutureValueCustomHorizon(t *testing.T) {
	projector, cleanup := newSeededProjector(t)
	defer cleanup()

	projection, err := projector.ProjectFutureValue(500000, 5, 7, "US")
	require.NoError(t, err)
	require.NotNil(t, projection.ProjectedValueCustom)

	// D5 US midpoint: (0.48 + 3.74) / 2 = 2.11
	rate := 2.11 / 100
	assert.InDelta(t, 500000*math.Pow(1+rate, 7), *projection.ProjectedValueCustom, 0.5)
	assert.Equal(t, 7, projection.YearsProjected)
}

func TestProjectFutureValueDefaultRates(t *testing.T) {
	projector, cleanup := newSeededProjector(t)
	defer cleanup()

	projection, err := projector.ProjectFutureValue(1000000, 10, 10, "Atlantis")
	require.NoError(t, err)

	assert.Equal(t, SourceDefault, projection.RateSource)
	assert.InDelta(t, 0.93, projection.AnnualizedAppreciationRate, 0.001)
	assert.InDelta(t, -0.07, projection.AppreciationRangeMin, 0.001)
	assert.InDelta(t, 1.93, projection.AppreciationRangeMax, 0.001)
}

func TestProjectFutureValueInputValidation(t *testing.T) {
	projector, cleanup := newSeededProjector(t)
	defer cleanup()

	_, err := projector.ProjectFutureValue(0, 1, 10, "US")
	assert.True(t, domain.IsInvalidInput(err))
	_, err = projector.ProjectFutureValue(1000, 0, 10, "US")
	assert.True(t, domain.IsInvalidInput(err))
	_, err = projector.ProjectFutureValue(1000, 1, 0, "US")
	assert.True(t, domain.IsInvalidInput(err))
}

func TestProjectNOIGrowthAdjustments(t *testing.T) {
	projector, cleanup := newSeededProjector(t)
	defer cleanup()

	// Old property in a low tier: 2.0 + 0.5 + 0.3 = 2.8
	projection, err := projector.ProjectNOIGrowth(50000, 2, 60, 10)
	require.NoError(t, err)
	assert.InDelta(t, 2.8, projection.AnnualGrowthRate, 0.001)
	assert.Equal(t, 0.5, projection.AgeAdjustment)
	assert.Equal(t, 0.3, projection.TierAdjustment)

	// Mid-age, mid-tier: 2.0 + 0.2 + 0.0 = 2.2
	projection, err = projector.ProjectNOIGrowth(50000, 5, 40, 10)
	require.NoError(t, err)
	assert.InDelta(t, 2.2, projection.AnnualGrowthRate, 0.001)

	// New property in a high tier: 2.0 + 0.0 - 0.2 = 1.8
	projection, err = projector.ProjectNOIGrowth(50000, 9, 10, 10)
	require.NoError(t, err)
	assert.InDelta(t, 1.8, projection.AnnualGrowthRate, 0.001)
}

func TestProjectNOIGrowthCompounds(t *testing.T) {
	projector, cleanup := newSeededProjector(t)
	defer cleanup()

	projection, err := projector.ProjectNOIGrowth(100000, 5, 10, 5)
	require.NoError(t, err)

	// 2.0% growth for 5 years
	assert.InDelta(t, 100000*math.Pow(1.02, 5), *projection.ProjectedNOICustom, 0.5)
	assert.InDelta(t, 102000, projection.ProjectedNOIYr1, 0.5)
}

func TestApplyAgingAdjustment(t *testing.T) {
	projector, cleanup := newSeededProjector(t)
	defer cleanup()

	// 40 years old, 10 year hold: (0.2 + 0.05) / 2 = 0.125 penalty
	adjusted := projector.ApplyAgingAdjustment(3.0, 40, 10)
	assert.InDelta(t, 2.88, adjusted, 0.01)

	// New property barely penalized
	adjusted = projector.ApplyAgingAdjustment(3.0, 0, 10)
	assert.InDelta(t, 2.98, adjusted, 0.01)
}

func TestCalculateExitValue(t *testing.T) {
	projector, cleanup := newSeededProjector(t)
	defer cleanup()

	result, err := projector.CalculateExitValue(1000000, 72000, 0.06)
	require.NoError(t, err)

	assert.InDelta(t, 1200000, result.ExitValue, 0.01)
	assert.InDelta(t, 200000, result.TotalAppreciation, 0.01)
	assert.InDelta(t, 20.0, result.AppreciationPct, 0.01)
	assert.InDelta(t, 6.0, result.ExitCapRate, 0.001)
}

func TestCalculateExitValueRejectsBadCapRate(t *testing.T) {
	projector, cleanup := newSeededProjector(t)
	defer cleanup()

	_, err := projector.CalculateExitValue(1000000, 72000, 0)
	require.Error(t, err)
	assert.True(t, domain.IsInvalidInput(err))

	_, err = projector.CalculateExitValue(1000000, 72000, -0.05)
	assert.Error(t, err)
}

func TestCompareToBenchmark(t *testing.T) {
	projector, cleanup := newSeededProjector(t)
	defer cleanup()

	// D1 US capital gain range is [0.99, 5.50]
	comparison, err := projector.CompareToBenchmark(3.245, 1, "US")
	require.NoError(t, err)
	assert.Equal(t, "Within", comparison.Position)
	assert.InDelta(t, 50.0, *comparison.PercentileInRange, 0.1)

	comparison, err = projector.CompareToBenchmark(0.5, 1, "US")
	require.NoError(t, err)
	assert.Equal(t, "Below", comparison.Position)

	comparison, err = projector.CompareToBenchmark(6.0, 1, "US")
	require.NoError(t, err)
	assert.Equal(t, "Above", comparison.Position)

	comparison, err = projector.CompareToBenchmark(3.0, 1, "Atlantis")
	require.NoError(t, err)
	assert.Equal(t, "Unknown", comparison.Position)
}
