package hedonic

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aequitas-re/dealengine/internal/domain"
	"github.com/aequitas-re/dealengine/pkg/formulas"
)

// CoefficientSource supplies coefficient sets by model version.
type CoefficientSource interface {
	Get(modelVersion string) (*Coefficients, error)
}

// Predictor evaluates the hedonic model. Coefficient sets are cached per
// version after first load; the cache is never invalidated during process
// lifetime, so concurrent first-loads are harmless (last write wins with
// identical data).
type Predictor struct {
	source CoefficientSource
	log    zerolog.Logger

	// referenceYear anchors age calculation; zero means "current year".
	referenceYear int

	mu    sync.RWMutex
	cache map[string]*Coefficients
}

// NewPredictor creates a predictor over a coefficient source. Pass a
// non-zero referenceYear to make age calculation deterministic (tests).
func NewPredictor(source CoefficientSource, referenceYear int, log zerolog.Logger) *Predictor {
	return &Predictor{
		source:        source,
		log:           log.With().Str("engine", "hedonic").Logger(),
		referenceYear: referenceYear,
		cache:         make(map[string]*Coefficients),
	}
}

func (p *Predictor) year() int {
	if p.referenceYear != 0 {
		return p.referenceYear
	}
	return time.Now().Year()
}

// coefficients returns the cached coefficient set for a version, loading it
// from the source on first use.
func (p *Predictor) coefficients(modelVersion string) (*Coefficients, error) {
	p.mu.RLock()
	c, ok := p.cache[modelVersion]
	p.mu.RUnlock()
	if ok {
		return c, nil
	}

	c, err := p.source.Get(modelVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to load model %s: %w", modelVersion, err)
	}
	if c == nil {
		return nil, &domain.InvalidInputError{Field: "model_version", Reason: fmt.Sprintf("unknown model %q", modelVersion)}
	}

	p.mu.Lock()
	p.cache[modelVersion] = c
	p.mu.Unlock()

	return c, nil
}

// Predict evaluates the hedonic model for a property and returns the
// fundamental rent with a per-variable contribution breakdown.
//
// Returns *domain.MissingFieldError when square_footage, bedrooms or
// bathrooms are absent, and *domain.InvalidInputError for an unknown model
// version or non-positive required values.
func (p *Predictor) Predict(property domain.PropertyCharacteristics, modelVersion string) (*Prediction, error) {
	var missing []string
	if property.SquareFootage == nil {
		missing = append(missing, "square_footage")
	}
	if property.Bedrooms == nil {
		missing = append(missing, "bedrooms")
	}
	if property.Bathrooms == nil {
		missing = append(missing, "bathrooms")
	}
	if len(missing) > 0 {
		return nil, &domain.MissingFieldError{Fields: missing}
	}
	if *property.SquareFootage <= 0 {
		return nil, &domain.InvalidInputError{Field: "square_footage", Reason: "must be positive"}
	}

	c, err := p.coefficients(modelVersion)
	if err != nil {
		return nil, err
	}

	age := property.Age(p.year())

	logRent := c.Intercept
	components := map[string]float64{"intercept": c.Intercept}

	// Square footage enters linearly, not in log space, in this model
	sqftContribution := c.Sqft * *property.SquareFootage
	logRent += sqftContribution
	components["square_footage"] = sqftContribution

	bedroomsContribution := c.Bedrooms * *property.Bedrooms
	logRent += bedroomsContribution
	components["bedrooms"] = bedroomsContribution

	bathroomsContribution := c.Bathrooms * *property.Bathrooms
	logRent += bathroomsContribution
	components["bathrooms"] = bathroomsContribution

	ageContribution := c.Age * age
	logRent += ageContribution
	components["age"] = ageContribution

	if c.AgeSquared != nil {
		ageSqContribution := *c.AgeSquared * age * age
		logRent += ageSqContribution
		components["age_squared"] = ageSqContribution
	}

	// Property type offset relative to the single-family baseline
	propertyTypeContribution := 0.0
	propertyType := string(property.PropertyType)
	switch {
	case strings.Contains(propertyType, "multifamily"), strings.Contains(propertyType, "apartment"):
		propertyTypeContribution = c.PropertyTypeMultifamily
	case strings.Contains(propertyType, "condo"):
		propertyTypeContribution = c.PropertyTypeCondo
	}
	logRent += propertyTypeContribution
	components["property_type"] = propertyTypeContribution

	// EPC offset relative to the grade-D baseline; grades without a
	// coefficient contribute nothing
	if property.EPCScore != "" {
		if offset, ok := c.EPCOffsets[strings.ToLower(property.EPCScore)]; ok {
			logRent += offset
			components["epc_score"] = offset
		}
	}

	predictedRent := math.Exp(logRent)

	p.log.Debug().
		Str("model", modelVersion).
		Float64("predicted_rent", predictedRent).
		Float64("log_rent", logRent).
		Msg("Predicted fundamental rent")

	return &Prediction{
		PredictedRent: formulas.Round2(predictedRent),
		LogRent:       math.Round(logRent*10000) / 10000,
		Confidence:    math.Round(c.RSquared*1000) / 10,
		ModelVersion:  modelVersion,
		Components:    components,
	}, nil
}

// ValidationResult annotates a prediction with plausibility warnings.
// Warnings never interrupt computation.
type ValidationResult struct {
	IsValid      bool     `json:"is_valid"`
	DeviationPct *float64 `json:"deviation_pct,omitempty"`
	Warnings     []string `json:"warnings"`
}

// ValidatePrediction flags implausible predictions and, when an observed
// rent is available, large deviations from it.
func (p *Predictor) ValidatePrediction(predictedRent float64, observedRent *float64) ValidationResult {
	warnings := []string{}

	if predictedRent < 300 {
		warnings = append(warnings, "Predicted rent unusually low (<$300/month). Check property characteristics.")
	} else if predictedRent > 10000 {
		warnings = append(warnings, "Predicted rent unusually high (>$10,000/month). May be luxury property.")
	}

	var deviationPct *float64
	if observedRent != nil && *observedRent > 0 {
		deviation := (predictedRent - *observedRent) / *observedRent * 100
		rounded := math.Round(deviation*10) / 10
		deviationPct = &rounded

		if math.Abs(deviation) > 50 {
			warnings = append(warnings, fmt.Sprintf("Large deviation from observed rent (%+.1f%%).", deviation))
		} else if math.Abs(deviation) > 30 {
			warnings = append(warnings, fmt.Sprintf("Moderate deviation from observed rent (%+.1f%%).", deviation))
		}
	}

	return ValidationResult{
		IsValid:      len(warnings) == 0,
		DeviationPct: deviationPct,
		Warnings:     warnings,
	}
}
