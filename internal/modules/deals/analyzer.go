// Package deals orchestrates the full analysis pipeline for one deal:
// hedonic rent prediction, decile classification, yields, appreciation,
// total returns, risk and arbitrage, assembled into a single record.
package deals

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aequitas-re/dealengine/internal/domain"
	"github.com/aequitas-re/dealengine/internal/modules/arbitrage"
	"github.com/aequitas-re/dealengine/internal/modules/hedonic"
	"github.com/aequitas-re/dealengine/internal/modules/renttiers"
	"github.com/aequitas-re/dealengine/internal/modules/returns"
	"github.com/aequitas-re/dealengine/internal/modules/risk"
)

// Engines bundles the calculation engines the analyzer drives.
type Engines struct {
	Predictor  *hedonic.Predictor
	Classifier *renttiers.Classifier
	Returns    *returns.Calculator
	Risk       *risk.Engine
	Arbitrage  *arbitrage.Engine
}

// Analysis is the complete serializable result for one deal.
type Analysis struct {
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	ModelVersion  string    `json:"model_version"`
	HoldingPeriod int       `json:"holding_period"`

	Deal       domain.Deal `json:"deal"`
	RentDecile int         `json:"rent_decile"`

	RentPrediction *hedonic.Prediction       `json:"rent_prediction"`
	RentValidation hedonic.ValidationResult  `json:"rent_validation"`
	Classification *renttiers.Classification `json:"classification"`
	Returns        *returns.Analysis         `json:"returns"`
	Risk           *risk.Assessment          `json:"risk"`
	Arbitrage      *arbitrage.Analysis       `json:"arbitrage"`

	Warnings []string `json:"warnings"`
}

// Analyzer runs the analysis pipeline.
type Analyzer struct {
	engines       Engines
	modelVersion  string
	holdingPeriod int
	log           zerolog.Logger
}

// NewAnalyzer creates an analyzer. holdingPeriod <= 0 defaults to 10 years.
func NewAnalyzer(engines Engines, modelVersion string, holdingPeriod int, log zerolog.Logger) *Analyzer {
	if holdingPeriod <= 0 {
		holdingPeriod = 10
	}
	return &Analyzer{
		engines:       engines,
		modelVersion:  modelVersion,
		holdingPeriod: holdingPeriod,
		log:           log.With().Str("engine", "analyzer").Logger(),
	}
}

// Analyze runs the full pipeline for one deal. The predicted fundamental
// rent, not the observed rent, drives decile classification to avoid
// selection bias; observed rent still drives the cash flow figures.
func (a *Analyzer) Analyze(deal domain.Deal) (*Analysis, error) {
	prediction, err := a.engines.Predictor.Predict(deal.Property, a.modelVersion)
	if err != nil {
		return nil, fmt.Errorf("rent prediction failed: %w", err)
	}

	warnings := []string{}
	rentValidation := a.engines.Predictor.ValidatePrediction(prediction.PredictedRent, deal.MonthlyRent)
	warnings = append(warnings, rentValidation.Warnings...)

	var bedrooms *int
	if deal.Property.Bedrooms != nil {
		b := int(*deal.Property.Bedrooms)
		bedrooms = &b
	}
	classification, err := a.engines.Classifier.Classify(prediction.PredictedRent, deal.Geography, bedrooms, nil)
	if err != nil {
		return nil, fmt.Errorf("rent tier classification failed: %w", err)
	}
	decile := classification.RegionalDecile

	// A deal with no observed rent is analyzed at the model's rent
	cashDeal := deal
	if cashDeal.MonthlyRent == nil {
		cashDeal.MonthlyRent = &prediction.PredictedRent
		warnings = append(warnings, "No observed rent; analysis uses the predicted fundamental rent.")
	}

	returnAnalysis, err := a.engines.Returns.CalculateForDeal(cashDeal, decile, a.holdingPeriod)
	if err != nil {
		return nil, fmt.Errorf("return analysis failed: %w", err)
	}
	returnValidation := a.engines.Returns.ValidateReturns(
		returnAnalysis.TotalReturnUnlevered, returnAnalysis.TotalReturnLevered, decile)
	warnings = append(warnings, returnValidation.Warnings...)

	riskAssessment, err := a.engines.Risk.AssessDeal(cashDeal, decile)
	if err != nil {
		return nil, fmt.Errorf("risk assessment failed: %w", err)
	}

	arbitrageAnalysis, err := a.engines.Arbitrage.AssessDeal(cashDeal, decile)
	if err != nil {
		return nil, fmt.Errorf("arbitrage assessment failed: %w", err)
	}

	a.log.Info().
		Int("rent_decile", decile).
		Float64("predicted_rent", prediction.PredictedRent).
		Float64("total_return_levered", returnAnalysis.TotalReturnLevered).
		Float64("composite_risk", riskAssessment.Composite.CompositeRiskScore).
		Msg("Deal analysis complete")

	return &Analysis{
		ID:             uuid.New().String(),
		CreatedAt:      time.Now().UTC(),
		ModelVersion:   a.modelVersion,
		HoldingPeriod:  a.holdingPeriod,
		Deal:           deal,
		RentDecile:     decile,
		RentPrediction: prediction,
		RentValidation: rentValidation,
		Classification: classification,
		Returns:        returnAnalysis,
		Risk:           riskAssessment,
		Arbitrage:      arbitrageAnalysis,
		Warnings:       warnings,
	}, nil
}

// CacheKey derives a deterministic snapshot key for a deal under a given
// model version. Identical inputs always produce the same key.
func CacheKey(deal domain.Deal, modelVersion string) string {
	payload, _ := json.Marshal(deal)
	sum := sha256.Sum256(append(payload, []byte(modelVersion)...))
	return hex.EncodeToString(sum[:])
}
