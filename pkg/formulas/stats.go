// Package formulas provides shared numeric helpers for the analytics engines.
package formulas

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Mean returns the arithmetic mean of values, 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// StdDev returns the sample standard deviation of values, 0 when fewer
// than two values are supplied.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	return stat.StdDev(values, nil)
}

// Median returns the median of values, 0 for an empty slice.
// The input slice is not modified.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return stat.Quantile(0.5, stat.Empirical, sorted, nil)
}

// RSquared returns the coefficient of determination between predicted and
// observed values. Returns 0 when the observed series has no variance.
func RSquared(predicted, observed []float64) float64 {
	if len(predicted) != len(observed) || len(observed) == 0 {
		return 0
	}
	if stat.Variance(observed, nil) == 0 {
		return 0
	}
	return stat.RSquaredFrom(predicted, observed, nil)
}

// RMSE returns the root mean squared error between predicted and observed
// values.
func RMSE(predicted, observed []float64) float64 {
	if len(predicted) != len(observed) || len(observed) == 0 {
		return 0
	}
	var sum float64
	for i := range predicted {
		d := predicted[i] - observed[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(predicted)))
}

// Clamp bounds v to the inclusive range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Midpoint returns the midpoint of a [min, max] range.
func Midpoint(min, max float64) float64 {
	return (min + max) / 2
}

// Round2 rounds to 2 decimal places. Used at result boundaries only,
// never on intermediate values.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round3 rounds to 3 decimal places.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// Compound grows base at ratePct percent per year for the given number of
// years.
func Compound(base, ratePct float64, years int) float64 {
	return base * math.Pow(1+ratePct/100, float64(years))
}
