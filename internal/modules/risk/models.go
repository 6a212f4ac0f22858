// Package risk scores deals on three dimensions: systematic (market
// correlation), regulatory (jurisdiction) and idiosyncratic (property
// specific), combined into a weighted composite.
package risk

// SystematicRisk measures exposure to market-wide cycles for a decile.
type SystematicRisk struct {
	BetaGDP             float64 `json:"beta_gdp"`
	BetaStocks          float64 `json:"beta_stocks"`
	CashFlowVolatility  float64 `json:"cash_flow_volatility"`
	CashFlowCyclicality string  `json:"cash_flow_cyclicality"`
	SystematicRiskScore float64 `json:"systematic_risk_score"`
	// Source records whether beta/volatility came from a benchmark row
	// or the hardcoded default tables.
	Source         string `json:"benchmark_source"`
	Interpretation string `json:"interpretation"`
}

// RegulatoryRisk measures jurisdiction exposure for a deal's location.
type RegulatoryRisk struct {
	HasRentControl      bool    `json:"has_rent_control"`
	RPSScore            float64 `json:"rps_score"`
	PoliticalRisk       string  `json:"political_risk"`
	PolicyUncertainty   string  `json:"policy_uncertainty"`
	AMIRisk             string  `json:"ami_risk"`
	RegulatoryRiskScore float64 `json:"regulatory_risk_score"`
	Interpretation      string  `json:"interpretation"`
}

// IdiosyncraticRisk measures property-specific exposure.
type IdiosyncraticRisk struct {
	AgeRiskScore             float64 `json:"age_risk_score"`
	ConditionRiskScore       float64 `json:"condition_risk_score"`
	ConcentrationRiskScore   float64 `json:"concentration_risk_score"`
	OccupancyRiskScore       float64 `json:"occupancy_risk_score"`
	DiversificationRiskScore float64 `json:"diversification_risk_score"`
	IdiosyncraticRiskScore   float64 `json:"idiosyncratic_risk_score"`
	Interpretation           string  `json:"interpretation"`
}

// CompositeComponents echoes the three sub-scores that fed the composite.
type CompositeComponents struct {
	SystematicScore    float64 `json:"systematic_score"`
	RegulatoryScore    float64 `json:"regulatory_score"`
	IdiosyncraticScore float64 `json:"idiosyncratic_score"`
}

// CompositeRisk is the weighted overall risk picture, validated against
// the per-decile research expectation.
type CompositeRisk struct {
	Components           CompositeComponents `json:"components"`
	CompositeRiskScore   float64             `json:"composite_risk_score"`
	CompositeRiskLevel   string              `json:"composite_risk_level"`
	ExpectedRiskLevel    string              `json:"expected_risk_level"`
	ValidationVsResearch string              `json:"validation_vs_research"`
	Interpretation       string              `json:"interpretation"`
}

// Assessment bundles all four risk results for one deal.
type Assessment struct {
	Systematic    *SystematicRisk    `json:"systematic"`
	Regulatory    *RegulatoryRisk    `json:"regulatory"`
	Idiosyncratic *IdiosyncraticRisk `json:"idiosyncratic"`
	Composite     *CompositeRisk     `json:"composite"`
}

// Property condition categories for idiosyncratic scoring.
const (
	ConditionExcellent = "Excellent"
	ConditionGood      = "Good"
	ConditionFair      = "Fair"
	ConditionPoor      = "Poor"
)
