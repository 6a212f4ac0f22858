// Package arbitrage scores the market inefficiencies that let low-rent
// properties trade below fair value: constrained renters, institutional
// avoidance and the medium-landlord operating sweet spot.
package arbitrage

// RenterComponents breaks down the renter constraint score.
type RenterComponents struct {
	RentBurdenScore  float64 `json:"rent_burden_score"`
	DownPaymentScore float64 `json:"down_payment_score"`
	BuyVsRentScore   float64 `json:"buy_vs_rent_score"`
	CreditScore      float64 `json:"credit_score"`
}

// RenterConstraints measures how locked-in the tenant base is. Higher
// scores mean tenants cannot easily leave for homeownership.
type RenterConstraints struct {
	RentBurdenPct          float64          `json:"rent_burden_pct"`
	CanAffordDownPayment   bool             `json:"can_afford_down_payment"`
	YearsToSaveDownPayment float64          `json:"years_to_save_down_payment"` // 999 = effectively never
	BuyingVsRentingRatio   float64          `json:"buying_vs_renting_ratio"`
	CreditAccess           string           `json:"credit_access"`
	RenterConstraintScore  float64          `json:"renter_constraint_score"`
	Interpretation         string           `json:"interpretation"`
	Components             RenterComponents `json:"components"`
}

// InstitutionalComponents breaks down the institutional constraint score.
type InstitutionalComponents struct {
	DealSizeScore   float64 `json:"deal_size_score"`
	StigmaScore     float64 `json:"stigma_score"`
	ManagementScore float64 `json:"management_score"`
	LiquidityScore  float64 `json:"liquidity_score"`
	ESGScore        float64 `json:"esg_score"`
}

// InstitutionalConstraints measures the barriers keeping institutional
// capital out of a segment. Higher scores mean less competition.
type InstitutionalConstraints struct {
	DealSizeBarrier              bool                    `json:"deal_size_barrier"`
	StigmaBarrier                bool                    `json:"stigma_barrier"`
	ManagementIntensity          string                  `json:"management_intensity"`
	LiquidityConcern             string                  `json:"liquidity_concern"`
	InstitutionalConstraintScore float64                 `json:"institutional_constraint_score"`
	Interpretation               string                  `json:"interpretation"`
	Components                   InstitutionalComponents `json:"components"`
}

// MediumLandlordComponents breaks down the medium landlord fit score.
type MediumLandlordComponents struct {
	ScaleScore           float64 `json:"scale_score"`
	ManagementMatchScore float64 `json:"management_match_score"`
	KnowledgeScore       float64 `json:"knowledge_score"`
	CapitalScore         float64 `json:"capital_score"`
	ConcentrationScore   float64 `json:"concentration_score"`
}

// MediumLandlordFit measures operational fit for 10-50 unit operators.
// Lower scores mean a better fit.
type MediumLandlordFit struct {
	EconomiesOfScale              bool                     `json:"economies_of_scale"`
	OptimalSizeRange              bool                     `json:"optimal_size_range"`
	ManagementCapability          string                   `json:"management_capability"`
	LocalKnowledgeAdvantage       bool                     `json:"local_knowledge_advantage"`
	MediumLandlordConstraintScore float64                  `json:"medium_landlord_constraint_score"`
	Interpretation                string                   `json:"interpretation"`
	Components                    MediumLandlordComponents `json:"components"`
}

// OpportunityComponents echoes the inputs the opportunity score blended.
type OpportunityComponents struct {
	RenterConstraintScore        float64 `json:"renter_constraint_score"`
	InstitutionalConstraintScore float64 `json:"institutional_constraint_score"`
	MediumLandlordFitScore       float64 `json:"medium_landlord_fit_score"` // inverted for display
	OpportunityFromBarriers      float64 `json:"opportunity_from_barriers"`
	OpportunityFromFit           float64 `json:"opportunity_from_fit"`
}

// Opportunity is the blended arbitrage opportunity picture.
type Opportunity struct {
	ArbitrageOpportunityScore float64               `json:"arbitrage_opportunity_score"`
	OpportunityLevel          string                `json:"opportunity_level"`
	RecommendedInvestorType   string                `json:"recommended_investor_type"`
	KeyAdvantages             []string              `json:"key_advantages"`
	Interpretation            string                `json:"interpretation"`
	Components                OpportunityComponents `json:"components"`
}

// Summary is the condensed view carried into the deal analysis record.
type Summary struct {
	OpportunityScore    float64  `json:"opportunity_score"`
	OpportunityLevel    string   `json:"opportunity_level"`
	RecommendedInvestor string   `json:"recommended_investor"`
	KeyAdvantages       []string `json:"key_advantages"`
}

// Analysis bundles the full arbitrage assessment for one deal.
type Analysis struct {
	RentDecile               int                       `json:"rent_decile"`
	RenterConstraints        *RenterConstraints        `json:"renter_constraints"`
	InstitutionalConstraints *InstitutionalConstraints `json:"institutional_constraints"`
	MediumLandlordFit        *MediumLandlordFit        `json:"medium_landlord_fit"`
	ArbitrageOpportunity     *Opportunity              `json:"arbitrage_opportunity"`
	Summary                  Summary                   `json:"summary"`
}
