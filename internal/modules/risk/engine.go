package risk

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aequitas-re/dealengine/internal/domain"
	"github.com/aequitas-re/dealengine/internal/modules/benchmarks"
	"github.com/aequitas-re/dealengine/pkg/formulas"
)

// Source markers for observability of the default fallback.
const (
	SourceBenchmark = "benchmark"
	SourceDefault   = "default"
)

// BenchmarkSource supplies benchmark rows by (decile, geography).
type BenchmarkSource interface {
	Get(decile int, geography string) (*benchmarks.Row, error)
}

// Engine computes the three risk dimensions and their composite.
type Engine struct {
	benchmarks BenchmarkSource
	regulatory *JurisdictionTable
	log        zerolog.Logger
}

// NewEngine creates a risk engine over a benchmark source, loading the
// embedded jurisdiction table.
func NewEngine(source BenchmarkSource, log zerolog.Logger) (*Engine, error) {
	table, err := LoadJurisdictionTable()
	if err != nil {
		return nil, err
	}
	return &Engine{
		benchmarks: source,
		regulatory: table,
		log:        log.With().Str("engine", "risk").Logger(),
	}, nil
}

// Default per-decile GDP betas and cash flow volatility from US research,
// used when no benchmark row exists. Low-rent deciles are counter-cyclical.
var (
	defaultBetaGDP    = [10]float64{-0.19, -0.15, -0.10, -0.05, 0.00, 0.02, 0.03, 0.04, 0.04, 0.04}
	defaultVolatility = [10]float64{7.5, 7.8, 8.0, 7.9, 7.5, 7.2, 7.0, 6.8, 6.5, 6.0}
)

// Systematic score normalization bounds: betas observed in [-0.25, 0.05],
// volatility in [4, 12] percent.
const (
	betaFloor  = -0.25
	betaSpan   = 0.30
	volFloor   = 4.0
	volSpan    = 8.0
	betaWeight = 0.7
	volWeight  = 0.3
)

// SystematicRisk scores a decile's market correlation. Position within the
// observed beta range dominates; cash flow volatility contributes the rest.
func (e *Engine) SystematicRisk(rentDecile int, geography string) (*SystematicRisk, error) {
	if rentDecile < 1 || rentDecile > 10 {
		return nil, &domain.InvalidInputError{Field: "rent_decile", Reason: "must be in [1,10]"}
	}

	row, err := e.benchmarks.Get(rentDecile, geography)
	if err != nil {
		return nil, fmt.Errorf("failed to look up benchmark betas: %w", err)
	}

	var betaGDP, volatility float64
	source := SourceBenchmark
	if row != nil {
		betaGDP = row.SystematicRiskBeta
		volatility = row.CashFlowVolatility
	} else {
		betaGDP = defaultBetaGDP[rentDecile-1]
		volatility = defaultVolatility[rentDecile-1]
		source = SourceDefault
		e.log.Warn().
			Int("rent_decile", rentDecile).
			Str("geography", geography).
			Msg("No benchmark row, using default beta and volatility")
	}

	betaScore := formulas.Clamp((betaGDP-betaFloor)/betaSpan, 0, 1) * 100
	volScore := formulas.Clamp((volatility-volFloor)/volSpan, 0, 1) * 100
	score := formulas.Round2(betaWeight*betaScore + volWeight*volScore)

	// Residential rent betas to equities run higher than to GDP
	betaStocks := formulas.Round2(0.40 + 1.2*betaGDP)

	var cyclicality string
	switch {
	case betaGDP < -0.05:
		cyclicality = "Counter-cyclical"
	case betaGDP < 0.02:
		cyclicality = "Acyclical"
	default:
		cyclicality = "Pro-cyclical"
	}

	var interpretation string
	switch {
	case score < 35:
		interpretation = "Low market correlation. Cash flows hold up through downturns."
	case score < 55:
		interpretation = "Moderate market correlation. Some cyclical exposure."
	default:
		interpretation = "High market correlation. Returns move with the business cycle."
	}

	return &SystematicRisk{
		BetaGDP:             betaGDP,
		BetaStocks:          betaStocks,
		CashFlowVolatility:  volatility,
		CashFlowCyclicality: cyclicality,
		SystematicRiskScore: score,
		Source:              source,
		Interpretation:      interpretation,
	}, nil
}

// RegulatoryRisk scores jurisdiction exposure. amiPercentage is the local
// rent as a share of area median income programs, when known; rentLevel
// stands in for it otherwise (low rents overlap AMI program territory).
func (e *Engine) RegulatoryRisk(state, city string, rentLevel float64, amiPercentage *float64) *RegulatoryRisk {
	j := e.regulatory.Lookup(state, city)

	score := j.RPSScore * 8 // RPS 0-5 maps to 0-40
	if j.HasRentControl {
		score += 15
	}
	switch j.PoliticalRisk {
	case "High":
		score += 10
	case "Moderate":
		score += 5
	}

	var amiRisk string
	switch {
	case amiPercentage != nil && *amiPercentage <= 60:
		amiRisk = "High"
		score += 10
	case amiPercentage != nil && *amiPercentage <= 80:
		amiRisk = "Moderate"
		score += 5
	case amiPercentage != nil:
		amiRisk = "Low"
	case rentLevel > 0 && rentLevel < 1000:
		amiRisk = "Moderate"
		score += 5
	default:
		amiRisk = "Low"
	}

	score = formulas.Round2(formulas.Clamp(score, 0, 100))

	var interpretation string
	switch {
	case score < 25:
		interpretation = "Light regulatory environment."
	case score < 50:
		interpretation = "Moderate regulatory pressure. Monitor policy changes."
	default:
		interpretation = "Heavy regulatory environment. Rent growth may be capped."
	}

	return &RegulatoryRisk{
		HasRentControl:      j.HasRentControl,
		RPSScore:            j.RPSScore,
		PoliticalRisk:       j.PoliticalRisk,
		PolicyUncertainty:   j.PolicyUncertainty,
		AMIRisk:             amiRisk,
		RegulatoryRiskScore: score,
		Interpretation:      interpretation,
	}
}

// IdiosyncraticRisk scores property-specific exposure. concentrationPct is
// the share of the portfolio in this asset when known; occupancyRate
// defaults to 95 percent.
func (e *Engine) IdiosyncraticRisk(propertyAge int, condition string, numUnits int, concentrationPct, occupancyRate *float64) *IdiosyncraticRisk {
	var ageScore float64
	switch {
	case propertyAge < 10:
		ageScore = 0
	case propertyAge < 30:
		ageScore = 5
	case propertyAge < 50:
		ageScore = 10
	case propertyAge < 75:
		ageScore = 15
	default:
		ageScore = 20
	}

	var conditionScore float64
	switch condition {
	case ConditionExcellent:
		conditionScore = 0
	case ConditionFair:
		conditionScore = 15
	case ConditionPoor:
		conditionScore = 25
	default: // Good, or unreported
		conditionScore = 5
	}

	var concentrationScore float64
	if concentrationPct != nil {
		concentrationScore = formulas.Clamp(*concentrationPct*0.3, 0, 30)
	} else {
		switch {
		case numUnits <= 1:
			concentrationScore = 25
		case numUnits < 5:
			concentrationScore = 18
		case numUnits < 10:
			concentrationScore = 12
		case numUnits < 20:
			concentrationScore = 8
		default:
			concentrationScore = 5
		}
	}

	occupancy := 95.0
	if occupancyRate != nil {
		occupancy = *occupancyRate
	}
	var occupancyScore float64
	switch {
	case occupancy >= 95:
		occupancyScore = 0
	case occupancy >= 90:
		occupancyScore = 5
	case occupancy >= 80:
		occupancyScore = 10
	default:
		occupancyScore = 15
	}

	var diversificationScore float64
	switch {
	case numUnits <= 1:
		diversificationScore = 10
	case numUnits < 5:
		diversificationScore = 8
	case numUnits < 10:
		diversificationScore = 5
	case numUnits < 20:
		diversificationScore = 2
	default:
		diversificationScore = 0
	}

	total := formulas.Clamp(ageScore+conditionScore+concentrationScore+occupancyScore+diversificationScore, 0, 100)

	var interpretation string
	switch {
	case total < 20:
		interpretation = "Low property-specific risk."
	case total < 40:
		interpretation = "Moderate property-specific risk."
	default:
		interpretation = "High property-specific risk. Underwrite carefully."
	}

	return &IdiosyncraticRisk{
		AgeRiskScore:             ageScore,
		ConditionRiskScore:       conditionScore,
		ConcentrationRiskScore:   formulas.Round2(concentrationScore),
		OccupancyRiskScore:       occupancyScore,
		DiversificationRiskScore: diversificationScore,
		IdiosyncraticRiskScore:   formulas.Round2(total),
		Interpretation:           interpretation,
	}
}

// Composite weights: systematic dominates, the rest split evenly.
const (
	systematicWeight    = 0.40
	regulatoryWeight    = 0.30
	idiosyncraticWeight = 0.30
)

// expectedCompositeRange is the research expectation per decile band.
func expectedCompositeRange(rentDecile int) (float64, float64) {
	switch {
	case rentDecile <= 2:
		return 25, 40
	case rentDecile <= 4:
		return 30, 45
	case rentDecile <= 7:
		return 40, 55
	default:
		return 50, 75
	}
}

// CompositeRisk blends the three sub-scores 40/30/30 and validates the
// result against the per-decile research expectation.
func (e *Engine) CompositeRisk(systematic *SystematicRisk, regulatory *RegulatoryRisk, idiosyncratic *IdiosyncraticRisk, rentDecile int) *CompositeRisk {
	composite := formulas.Clamp(
		systematicWeight*systematic.SystematicRiskScore+
			regulatoryWeight*regulatory.RegulatoryRiskScore+
			idiosyncraticWeight*idiosyncratic.IdiosyncraticRiskScore,
		0, 100)
	composite = formulas.Round2(composite)

	level := riskLevel(composite)

	expMin, expMax := expectedCompositeRange(rentDecile)
	expectedLevel := fmt.Sprintf("%s (%.0f-%.0f)", riskLevel((expMin+expMax)/2), expMin, expMax)

	validation := fmt.Sprintf("Within expected range (%.0f-%.0f)", expMin, expMax)
	if composite < expMin || composite > expMax {
		validation = fmt.Sprintf("Outside expected range (%.0f-%.0f)", expMin, expMax)
	}

	var interpretation string
	switch level {
	case "Low":
		interpretation = "Low overall risk profile."
	case "Moderate":
		interpretation = "Moderate overall risk. Standard underwriting applies."
	case "High":
		interpretation = "Elevated risk. Price in a larger margin of safety."
	default:
		interpretation = "Very high risk. Suitable only for specialist operators."
	}

	return &CompositeRisk{
		Components: CompositeComponents{
			SystematicScore:    systematic.SystematicRiskScore,
			RegulatoryScore:    regulatory.RegulatoryRiskScore,
			IdiosyncraticScore: idiosyncratic.IdiosyncraticRiskScore,
		},
		CompositeRiskScore:   composite,
		CompositeRiskLevel:   level,
		ExpectedRiskLevel:    expectedLevel,
		ValidationVsResearch: validation,
		Interpretation:       interpretation,
	}
}

func riskLevel(score float64) string {
	switch {
	case score < 30:
		return "Low"
	case score < 50:
		return "Moderate"
	case score < 70:
		return "High"
	default:
		return "Very High"
	}
}

// conditionFromEPC maps an energy grade to a condition category when no
// explicit condition is reported.
func conditionFromEPC(epc string) string {
	switch epc {
	case "A", "B":
		return ConditionExcellent
	case "C", "D":
		return ConditionGood
	case "E":
		return ConditionFair
	case "F", "G":
		return ConditionPoor
	default:
		return ConditionGood
	}
}

// AssessDeal runs all three dimensions plus the composite for one deal.
func (e *Engine) AssessDeal(deal domain.Deal, rentDecile int) (*Assessment, error) {
	systematic, err := e.SystematicRisk(rentDecile, deal.Geography)
	if err != nil {
		return nil, err
	}

	var rentLevel float64
	if deal.MonthlyRent != nil {
		rentLevel = *deal.MonthlyRent
	}
	regulatory := e.RegulatoryRisk(deal.State, deal.City, rentLevel, nil)

	age := int(deal.Property.Age(time.Now().Year()))
	vacancy := domain.DefaultVacancyRate
	if deal.VacancyRate != nil {
		vacancy = *deal.VacancyRate
	}
	occupancy := (1 - vacancy) * 100
	idiosyncratic := e.IdiosyncraticRisk(age, conditionFromEPC(deal.Property.EPCScore), deal.NumUnits, nil, &occupancy)

	composite := e.CompositeRisk(systematic, regulatory, idiosyncratic, rentDecile)

	return &Assessment{
		Systematic:    systematic,
		Regulatory:    regulatory,
		Idiosyncratic: idiosyncratic,
		Composite:     composite,
	}, nil
}
