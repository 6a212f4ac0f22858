package renttiers

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/aequitas-re/dealengine/internal/domain"
)

// ThresholdSource supplies decile threshold tables by market.
type ThresholdSource interface {
	Get(geography string, bedrooms, year *int) (*ThresholdTable, error)
}

// Classifier maps predicted rents to deciles with national/regional
// precedence and graceful fallback to the hardcoded default table.
type Classifier struct {
	source ThresholdSource
	log    zerolog.Logger
}

// NewClassifier creates a classifier over a threshold source.
func NewClassifier(source ThresholdSource, log zerolog.Logger) *Classifier {
	return &Classifier{source: source, log: log.With().Str("engine", "renttiers").Logger()}
}

// defaultNationalThresholds returns the hardcoded 2BR base table scaled by
// the bedroom multiplier. Used when no database thresholds exist for a
// geography; a deliberate degrade-gracefully policy, flagged in the result.
func defaultNationalThresholds(bedrooms *int) [10]float64 {
	multiplier := 1.0 // 2BR baseline
	if bedrooms != nil {
		switch {
		case *bedrooms <= 1:
			multiplier = 0.7
		case *bedrooms == 3:
			multiplier = 1.3
		case *bedrooms >= 4:
			multiplier = 1.6
		}
	}

	base := [10]float64{600, 800, 1000, 1200, 1400, 1700, 2000, 2400, 3000, 4500}
	for i := range base {
		base[i] = math.Round(base[i]*multiplier*100) / 100
	}
	return base
}

// classifyInGeography resolves the threshold table for one geography and
// walks it ascending; the first threshold at or above the rent wins.
func (c *Classifier) classifyInGeography(predictedRent float64, geography string, bedrooms, year *int) (decile int, percentile float64, thresholds [10]float64, source string, err error) {
	table, err := c.source.Get(geography, bedrooms, year)
	if err != nil {
		return 0, 0, thresholds, "", err
	}

	if table != nil {
		thresholds = table.Thresholds
		source = SourceDatabase
	} else if geography == "national" {
		thresholds = defaultNationalThresholds(bedrooms)
		source = SourceDefault
		c.log.Warn().
			Str("geography", geography).
			Msg("No threshold table found, using default national estimates")
	} else {
		// Regional thresholds absent; caller falls back to national
		return 0, 0, thresholds, "", domain.ErrNoBenchmarkData
	}

	decile = 10
	percentile = 95.0
	for i, threshold := range thresholds {
		if predictedRent <= threshold {
			decile = i + 1
			percentile = float64(i)*10 + 5 // midpoint of the decile band
			break
		}
	}

	return decile, percentile, thresholds, source, nil
}

// Classify maps a predicted rent into its decile.
//
// The national classification is always computed; when geography names a
// specific market, a regional classification is attempted and silently
// falls back to the national result if the market has no thresholds.
func (c *Classifier) Classify(predictedRent float64, geography string, bedrooms, year *int) (*Classification, error) {
	if predictedRent <= 0 {
		return nil, &domain.InvalidInputError{Field: "predicted_rent", Reason: "must be positive"}
	}
	if geography == "" {
		geography = "national"
	}

	nationalDecile, nationalPercentile, nationalThresholds, nationalSource, err := c.classifyInGeography(predictedRent, "national", bedrooms, year)
	if err != nil {
		return nil, fmt.Errorf("national classification failed: %w", err)
	}

	primaryDecile := nationalDecile
	primaryPercentile := nationalPercentile
	primaryThresholds := nationalThresholds
	primarySource := nationalSource
	regionalDecile := nationalDecile

	if geography != "national" {
		decile, percentile, thresholds, source, err := c.classifyInGeography(predictedRent, geography, bedrooms, year)
		switch {
		case err == domain.ErrNoBenchmarkData:
			// Regional data absent, keep the national result
			c.log.Debug().Str("geography", geography).Msg("Regional thresholds unavailable, using national")
		case err != nil:
			return nil, fmt.Errorf("regional classification failed: %w", err)
		default:
			regionalDecile = decile
			primaryDecile = decile
			primaryPercentile = percentile
			primaryThresholds = thresholds
			primarySource = source
		}
	}

	// Compare against the median (d5) threshold of whichever table was
	// actually used
	comparisonToMedian := 0.0
	if median := primaryThresholds[4]; median > 0 {
		comparisonToMedian = math.Round((predictedRent-median)/median*1000) / 10
	}

	return &Classification{
		NationalDecile:     nationalDecile,
		RegionalDecile:     regionalDecile,
		TierLabel:          fmt.Sprintf("D%d", primaryDecile),
		Percentile:         primaryPercentile,
		RentValue:          predictedRent,
		Geography:          geography,
		ComparisonToMedian: comparisonToMedian,
		ThresholdSource:    primarySource,
		Interpretation:     TierInterpretation(primaryDecile),
	}, nil
}
