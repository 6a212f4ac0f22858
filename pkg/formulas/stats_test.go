package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.InDelta(t, 2.0, Mean([]float64{1, 2, 3}), 0.0001)
}

func TestStdDev(t *testing.T) {
	assert.Equal(t, 0.0, StdDev([]float64{5}))
	assert.InDelta(t, 1.0, StdDev([]float64{1, 2, 3}), 0.0001)
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 0.0, Median(nil))
	assert.InDelta(t, 2.0, Median([]float64{3, 1, 2}), 0.0001)

	// Input must not be reordered
	values := []float64{3, 1, 2}
	Median(values)
	assert.Equal(t, []float64{3, 1, 2}, values)
}

func TestRSquaredPerfectFit(t *testing.T) {
	observed := []float64{1, 2, 3, 4}
	assert.InDelta(t, 1.0, RSquared(observed, observed), 0.0001)
}

func TestRSquaredNoVariance(t *testing.T) {
	assert.Equal(t, 0.0, RSquared([]float64{1, 2}, []float64{5, 5}))
}

func TestRMSE(t *testing.T) {
	assert.InDelta(t, 1.0, RMSE([]float64{2, 4}, []float64{1, 3}), 0.0001)
	assert.Equal(t, 0.0, RMSE([]float64{1}, []float64{1, 2}))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-5, 0, 100))
	assert.Equal(t, 100.0, Clamp(150, 0, 100))
	assert.Equal(t, 42.0, Clamp(42, 0, 100))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 7.2, Round2(7.2001))
	assert.Equal(t, 7.21, Round2(7.205))
}

func TestCompound(t *testing.T) {
	// 1000 at 10% for 2 years
	assert.InDelta(t, 1210.0, Compound(1000, 10, 2), 0.0001)
	assert.Equal(t, 1000.0, Compound(1000, 5, 0))
}
