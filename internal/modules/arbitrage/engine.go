package arbitrage

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aequitas-re/dealengine/internal/domain"
	"github.com/aequitas-re/dealengine/pkg/formulas"
)

// Engine scores the three limits to arbitrage and their composite. All
// methods are pure functions of their inputs.
type Engine struct {
	log zerolog.Logger
}

// NewEngine creates an arbitrage engine.
func NewEngine(log zerolog.Logger) *Engine {
	return &Engine{log: log.With().Str("engine", "arbitrage").Logger()}
}

// Renter constraint model assumptions.
const (
	targetRentBurden    = 0.30 // rent as share of income
	downPaymentFraction = 0.20
	savingsRate         = 0.10
	defaultPriceToRent  = 15.0
	yearsNever          = 999.0
)

// AssessRenterConstraints measures how locked-in the tenant base is.
// Median income is reverse-engineered from rent when not supplied;
// rentDecile 0 means unknown and skips the credit access test.
func (e *Engine) AssessRenterConstraints(monthlyRent float64, medianIncome, priceToRentRatio *float64, rentDecile int) (*RenterConstraints, error) {
	if monthlyRent <= 0 {
		return nil, &domain.InvalidInputError{Field: "monthly_rent", Reason: "must be positive"}
	}

	annualRent := monthlyRent * 12
	income := annualRent / targetRentBurden
	if medianIncome != nil && *medianIncome > 0 {
		income = *medianIncome
	}

	rentBurdenPct := annualRent / income * 100
	var rentBurdenScore float64
	switch {
	case rentBurdenPct < 25:
		rentBurdenScore = 5.0
	case rentBurdenPct < 30:
		rentBurdenScore = 10.0
	case rentBurdenPct < 35:
		rentBurdenScore = 20.0
	default:
		rentBurdenScore = 30.0
	}

	priceToRent := defaultPriceToRent
	if priceToRentRatio != nil && *priceToRentRatio > 0 {
		priceToRent = *priceToRentRatio
	}

	downPaymentNeeded := annualRent * priceToRent * downPaymentFraction
	annualSavings := (income - annualRent) * savingsRate
	yearsToSave := yearsNever
	if annualSavings > 0 {
		yearsToSave = downPaymentNeeded / annualSavings
	}
	canAfford := yearsToSave < 5

	var downPaymentScore float64
	switch {
	case yearsToSave < 3:
		downPaymentScore = 0.0
	case yearsToSave < 5:
		downPaymentScore = 5.0
	case yearsToSave < 10:
		downPaymentScore = 15.0
	default:
		downPaymentScore = 25.0
	}

	// Higher price-to-rent means renting is the cheaper option
	var buyVsRentScore float64
	switch {
	case priceToRent < 12:
		buyVsRentScore = 0.0
	case priceToRent < 15:
		buyVsRentScore = 5.0
	case priceToRent < 18:
		buyVsRentScore = 10.0
	case priceToRent < 22:
		buyVsRentScore = 15.0
	default:
		buyVsRentScore = 20.0
	}

	// Credit access proxied by decile: low-rent tenants face tighter credit
	creditAccess := "Unknown"
	var creditScore float64
	switch {
	case rentDecile == 0:
	case rentDecile <= 3:
		creditAccess = "Limited"
		creditScore = 25.0
	case rentDecile <= 7:
		creditAccess = "Moderate"
		creditScore = 12.5
	default:
		creditAccess = "Good"
	}

	score := formulas.Clamp(rentBurdenScore+downPaymentScore+buyVsRentScore+creditScore, 0, 100)

	var interpretation string
	switch {
	case score > 70:
		interpretation = "Very high renter constraints - tenants cannot easily transition to homeownership"
	case score > 50:
		interpretation = "High renter constraints - tenants unlikely to leave for ownership"
	case score > 30:
		interpretation = "Moderate renter constraints - some tenants may transition to ownership"
	default:
		interpretation = "Low renter constraints - tenants can afford to buy"
	}

	if yearsToSave < yearsNever {
		yearsToSave = formulas.Round2(yearsToSave)
	}

	return &RenterConstraints{
		RentBurdenPct:          formulas.Round2(rentBurdenPct),
		CanAffordDownPayment:   canAfford,
		YearsToSaveDownPayment: yearsToSave,
		BuyingVsRentingRatio:   priceToRent,
		CreditAccess:           creditAccess,
		RenterConstraintScore:  formulas.Round2(score),
		Interpretation:         interpretation,
		Components: RenterComponents{
			RentBurdenScore:  rentBurdenScore,
			DownPaymentScore: downPaymentScore,
			BuyVsRentScore:   buyVsRentScore,
			CreditScore:      creditScore,
		},
	}, nil
}

// AssessInstitutionalConstraints measures the barriers keeping
// institutional capital out: minimum deal size, low-rent stigma,
// management intensity, liquidity and ESG screening.
func (e *Engine) AssessInstitutionalConstraints(rentDecile int, propertyValue float64, numUnits int, liquidityScore *float64) (*InstitutionalConstraints, error) {
	if rentDecile < 1 || rentDecile > 10 {
		return nil, &domain.InvalidInputError{Field: "rent_decile", Reason: "must be in [1,10]"}
	}

	dealSizeBarrier := propertyValue < 10_000_000
	var dealSizeScore float64
	switch {
	case propertyValue >= 50_000_000:
		dealSizeScore = 0.0
	case propertyValue >= 10_000_000:
		dealSizeScore = 10.0
	case propertyValue >= 5_000_000:
		dealSizeScore = 20.0
	default:
		dealSizeScore = 30.0
	}

	stigmaBarrier := rentDecile <= 4
	var stigmaScore float64
	switch {
	case rentDecile <= 2:
		stigmaScore = 30.0
	case rentDecile <= 4:
		stigmaScore = 20.0
	case rentDecile <= 7:
		stigmaScore = 10.0
	}

	var managementIntensity string
	var managementScore float64
	switch {
	case rentDecile <= 3:
		managementIntensity = "High"
		managementScore = 20.0
	case rentDecile <= 7:
		managementIntensity = "Moderate"
		managementScore = 10.0
	default:
		managementIntensity = "Low"
	}

	var liquidityConcern string
	var liquidityConcernScore float64
	if liquidityScore != nil {
		liquidityConcernScore = (100 - *liquidityScore) * 0.15
		switch {
		case *liquidityScore < 30:
			liquidityConcern = "High"
		case *liquidityScore < 60:
			liquidityConcern = "Moderate"
		default:
			liquidityConcern = "Low"
		}
	} else {
		switch {
		case rentDecile <= 3 && numUnits < 20:
			liquidityConcern = "High"
			liquidityConcernScore = 15.0
		case rentDecile <= 5 || numUnits < 10:
			liquidityConcern = "Moderate"
			liquidityConcernScore = 10.0
		default:
			liquidityConcern = "Low"
			liquidityConcernScore = 5.0
		}
	}

	var esgScore float64
	if rentDecile <= 2 {
		esgScore = 5.0
	}

	score := formulas.Clamp(dealSizeScore+stigmaScore+managementScore+liquidityConcernScore+esgScore, 0, 100)

	var interpretation string
	switch {
	case score > 70:
		interpretation = "Very high institutional barriers - institutions systematically avoid this segment"
	case score > 50:
		interpretation = "High institutional barriers - creates opportunity for medium landlords"
	case score > 30:
		interpretation = "Moderate institutional barriers - some institutional interest"
	default:
		interpretation = "Low institutional barriers - competitive institutional market"
	}

	return &InstitutionalConstraints{
		DealSizeBarrier:              dealSizeBarrier,
		StigmaBarrier:                stigmaBarrier,
		ManagementIntensity:          managementIntensity,
		LiquidityConcern:             liquidityConcern,
		InstitutionalConstraintScore: formulas.Round2(score),
		Interpretation:               interpretation,
		Components: InstitutionalComponents{
			DealSizeScore:   dealSizeScore,
			StigmaScore:     stigmaScore,
			ManagementScore: managementScore,
			LiquidityScore:  formulas.Round2(liquidityConcernScore),
			ESGScore:        esgScore,
		},
	}, nil
}

// AssessMediumLandlordFit measures operational fit for 10-50 unit
// operators; lower scores mean a better fit.
func (e *Engine) AssessMediumLandlordFit(rentDecile, numUnits int, propertyValue float64, geographicConcentration *float64) (*MediumLandlordFit, error) {
	if rentDecile < 1 || rentDecile > 10 {
		return nil, &domain.InvalidInputError{Field: "rent_decile", Reason: "must be in [1,10]"}
	}

	economiesOfScale := numUnits >= 10
	var scaleScore float64
	optimalSizeRange := false
	switch {
	case numUnits >= 10 && numUnits <= 50:
		optimalSizeRange = true
	case numUnits >= 5 && numUnits < 10:
		scaleScore = 10.0
	case numUnits > 50 && numUnits <= 100:
		scaleScore = 15.0
	default:
		scaleScore = 25.0
	}

	// Hands-on management pays off most in low-rent tiers
	var managementCapability string
	var managementMatchScore float64
	switch {
	case rentDecile <= 4:
		managementCapability = "High"
	case rentDecile <= 7:
		managementCapability = "Moderate"
		managementMatchScore = 10.0
	default:
		managementCapability = "Low"
		managementMatchScore = 20.0
	}

	localKnowledgeAdvantage := true
	var knowledgeScore float64
	switch {
	case rentDecile <= 3:
	case rentDecile <= 6:
		knowledgeScore = 5.0
	default:
		localKnowledgeAdvantage = false
		knowledgeScore = 15.0
	}

	var capitalScore float64
	switch {
	case propertyValue == 0:
		capitalScore = 10.0
	case propertyValue >= 500_000 && propertyValue <= 5_000_000:
		capitalScore = 0.0
	case propertyValue < 500_000:
		capitalScore = 5.0
	case propertyValue <= 10_000_000:
		capitalScore = 10.0
	default:
		capitalScore = 25.0
	}

	// Local concentration is acceptable for an operator with market expertise
	concentrationScore := 2.5
	if geographicConcentration != nil {
		if *geographicConcentration > 80 {
			concentrationScore = 5.0
		} else {
			concentrationScore = 0.0
		}
	}

	score := formulas.Clamp(scaleScore+managementMatchScore+knowledgeScore+capitalScore+concentrationScore, 0, 100)

	var interpretation string
	switch {
	case score < 20:
		interpretation = "Excellent fit for medium landlords - all factors align"
	case score < 40:
		interpretation = "Good fit for medium landlords - most factors favorable"
	case score < 60:
		interpretation = "Moderate fit for medium landlords - mixed factors"
	default:
		interpretation = "Poor fit for medium landlords - better suited for others"
	}

	return &MediumLandlordFit{
		EconomiesOfScale:              economiesOfScale,
		OptimalSizeRange:              optimalSizeRange,
		ManagementCapability:          managementCapability,
		LocalKnowledgeAdvantage:       localKnowledgeAdvantage,
		MediumLandlordConstraintScore: formulas.Round2(score),
		Interpretation:                interpretation,
		Components: MediumLandlordComponents{
			ScaleScore:           scaleScore,
			ManagementMatchScore: managementMatchScore,
			KnowledgeScore:       knowledgeScore,
			CapitalScore:         capitalScore,
			ConcentrationScore:   concentrationScore,
		},
	}, nil
}

// Opportunity blend weights: barriers create the opportunity, medium
// landlord fit determines who can capture it.
const (
	renterWeight        = 0.35
	institutionalWeight = 0.35
	fitWeight           = 0.30
)

// CalculateOpportunity blends the three sub-scores into the overall
// arbitrage opportunity and recommends the investor type positioned to
// capture it.
func (e *Engine) CalculateOpportunity(renter *RenterConstraints, institutional *InstitutionalConstraints, mediumLandlord *MediumLandlordFit, rentDecile int) *Opportunity {
	renterScore := renter.RenterConstraintScore
	institutionalScore := institutional.InstitutionalConstraintScore
	mlScore := mediumLandlord.MediumLandlordConstraintScore

	fromBarriers := renterScore*renterWeight + institutionalScore*institutionalWeight
	fromFit := (100 - mlScore) * fitWeight
	score := formulas.Clamp(fromBarriers+fromFit, 0, 100)

	var level string
	switch {
	case score > 75:
		level = "Very High"
	case score > 60:
		level = "High"
	case score > 40:
		level = "Moderate"
	default:
		level = "Low"
	}

	var investorType string
	switch {
	case mlScore < 30 && institutionalScore > 50:
		investorType = "Medium Landlord (10-50 units)"
	case institutionalScore < 40:
		investorType = "Institutional Investor"
	case mlScore < 50:
		investorType = "Small-Medium Landlord (5-20 units)"
	default:
		investorType = "Individual Investor (1-4 units)"
	}

	advantages := []string{}
	if renterScore > 60 {
		advantages = append(advantages, "Stable tenant base (high renter constraints)")
	}
	if institutionalScore > 60 {
		advantages = append(advantages, "Limited institutional competition")
	}
	if mlScore < 30 {
		advantages = append(advantages, "Optimal scale for medium landlords")
	}
	if rentDecile <= 3 {
		advantages = append(advantages, "Research-validated return premium (D1-D3 outperform by 2-4%/year)")
	}

	var interpretation string
	switch {
	case score > 75:
		interpretation = fmt.Sprintf("Significant arbitrage opportunity in D%d. Market inefficiencies create excess return potential for sophisticated operators.", rentDecile)
	case score > 60:
		interpretation = fmt.Sprintf("Strong arbitrage opportunity in D%d. Barriers to competition allow for above-market returns.", rentDecile)
	case score > 40:
		interpretation = fmt.Sprintf("Moderate arbitrage opportunity in D%d. Some competitive advantages but also challenges.", rentDecile)
	default:
		interpretation = fmt.Sprintf("Limited arbitrage opportunity in D%d. Efficient market with strong competition.", rentDecile)
	}

	return &Opportunity{
		ArbitrageOpportunityScore: formulas.Round2(score),
		OpportunityLevel:          level,
		RecommendedInvestorType:   investorType,
		KeyAdvantages:             advantages,
		Interpretation:            interpretation,
		Components: OpportunityComponents{
			RenterConstraintScore:        renterScore,
			InstitutionalConstraintScore: institutionalScore,
			MediumLandlordFitScore:       formulas.Round2(100 - mlScore),
			OpportunityFromBarriers:      formulas.Round2(fromBarriers),
			OpportunityFromFit:           formulas.Round2(fromFit),
		},
	}
}

// AssessDeal runs the complete arbitrage analysis for one deal.
func (e *Engine) AssessDeal(deal domain.Deal, rentDecile int) (*Analysis, error) {
	if deal.MonthlyRent == nil {
		return nil, &domain.MissingFieldError{Fields: []string{"monthly_rent"}}
	}
	numUnits := deal.NumUnits
	if numUnits < 1 {
		numUnits = 1
	}

	renter, err := e.AssessRenterConstraints(*deal.MonthlyRent, nil, nil, rentDecile)
	if err != nil {
		return nil, err
	}
	institutional, err := e.AssessInstitutionalConstraints(rentDecile, deal.PurchasePrice, numUnits, nil)
	if err != nil {
		return nil, err
	}
	mediumLandlord, err := e.AssessMediumLandlordFit(rentDecile, numUnits, deal.PurchasePrice, nil)
	if err != nil {
		return nil, err
	}

	opportunity := e.CalculateOpportunity(renter, institutional, mediumLandlord, rentDecile)

	return &Analysis{
		RentDecile:               rentDecile,
		RenterConstraints:        renter,
		InstitutionalConstraints: institutional,
		MediumLandlordFit:        mediumLandlord,
		ArbitrageOpportunity:     opportunity,
		Summary: Summary{
			OpportunityScore:    opportunity.ArbitrageOpportunityScore,
			OpportunityLevel:    opportunity.OpportunityLevel,
			RecommendedInvestor: opportunity.RecommendedInvestorType,
			KeyAdvantages:       opportunity.KeyAdvantages,
		},
	}, nil
}
