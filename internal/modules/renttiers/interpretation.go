package renttiers

// tierInterpretations reproduces the published decile research table
// verbatim. Static reference data, not computed.
var tierInterpretations = map[int]Interpretation{
	1: {
		Category:             "Very Low Rent (Bottom 10%)",
		ExpectedReturnRange:  "4.53-11.19% total return (US)",
		RiskProfile:          "Lower systematic risk than higher deciles",
		ArbitrageOpportunity: "High - institutions typically avoid",
		TenantProfile:        "Low income, may have debt indicators but similar payment rates",
		ColorCode:            "#22c55e",
	},
	2: {
		Category:             "Low Rent (10th-20th percentile)",
		ExpectedReturnRange:  "4.35-11.03% total return (US)",
		RiskProfile:          "Lower systematic risk",
		ArbitrageOpportunity: "High",
		TenantProfile:        "Low income",
		ColorCode:            "#22c55e",
	},
	3: {
		Category:             "Below Median Rent (20th-30th percentile)",
		ExpectedReturnRange:  "3.94-10.41% total return (US)",
		RiskProfile:          "Lower systematic risk",
		ArbitrageOpportunity: "Moderate to High",
		TenantProfile:        "Below median income",
		ColorCode:            "#84cc16",
	},
	4: {
		Category:             "Below Median Rent (30th-40th percentile)",
		ExpectedReturnRange:  "3.70-9.79% total return (US)",
		RiskProfile:          "Moderate risk",
		ArbitrageOpportunity: "Moderate",
		TenantProfile:        "Below median income",
		ColorCode:            "#eab308",
	},
	5: {
		Category:             "Median Rent (40th-50th percentile)",
		ExpectedReturnRange:  "3.42-9.32% total return (US)",
		RiskProfile:          "Moderate risk",
		ArbitrageOpportunity: "Moderate",
		TenantProfile:        "Median income",
		ColorCode:            "#eab308",
	},
	6: {
		Category:             "Above Median Rent (50th-60th percentile)",
		ExpectedReturnRange:  "3.21-8.60% total return (US)",
		RiskProfile:          "Moderate risk",
		ArbitrageOpportunity: "Low to Moderate",
		TenantProfile:        "Above median income",
		ColorCode:            "#f59e0b",
	},
	7: {
		Category:             "Above Median Rent (60th-70th percentile)",
		ExpectedReturnRange:  "3.19-8.22% total return (US)",
		RiskProfile:          "Moderate to higher risk",
		ArbitrageOpportunity: "Low",
		TenantProfile:        "Above median income",
		ColorCode:            "#f59e0b",
	},
	8: {
		Category:             "High Rent (70th-80th percentile)",
		ExpectedReturnRange:  "3.01-7.76% total return (US)",
		RiskProfile:          "Higher systematic risk",
		ArbitrageOpportunity: "Low",
		TenantProfile:        "Higher income",
		ColorCode:            "#ef4444",
	},
	9: {
		Category:             "High Rent (80th-90th percentile)",
		ExpectedReturnRange:  "2.84-7.24% total return (US)",
		RiskProfile:          "Higher systematic risk",
		ArbitrageOpportunity: "Very Low",
		TenantProfile:        "Higher income",
		ColorCode:            "#ef4444",
	},
	10: {
		Category:             "Very High Rent (Top 10%)",
		ExpectedReturnRange:  "2.56-7.04% total return (US)",
		RiskProfile:          "Highest systematic risk, lowest returns",
		ArbitrageOpportunity: "None - institutional competition",
		TenantProfile:        "High income",
		ColorCode:            "#dc2626",
	},
}

// TierInterpretation returns the research interpretation for a decile.
func TierInterpretation(decile int) Interpretation {
	if interp, ok := tierInterpretations[decile]; ok {
		return interp
	}
	return Interpretation{
		Category:             "Unknown",
		ExpectedReturnRange:  "N/A",
		RiskProfile:          "Unknown",
		ArbitrageOpportunity: "Unknown",
		TenantProfile:        "Unknown",
		ColorCode:            "#6b7280",
	}
}
