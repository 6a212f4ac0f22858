package domain

// Deal carries the financial terms of a prospective acquisition alongside
// the property itself. This is the input record the orchestrator consumes;
// persistence of deals lives outside this module.
type Deal struct {
	Property PropertyCharacteristics `json:"property"`

	PurchasePrice float64  `json:"purchase_price"`
	MonthlyRent   *float64 `json:"monthly_rent,omitempty"` // observed rent, if any
	OtherIncome   float64  `json:"other_monthly_income,omitempty"`
	NumUnits      int      `json:"num_units"`
	VacancyRate   *float64 `json:"vacancy_rate,omitempty"` // fraction, defaults to 0.05

	CostOfDebt float64 `json:"cost_of_debt"` // annual rate, percent
	LTV        float64 `json:"ltv"`          // loan-to-value, [0,1)

	Geography string `json:"geography"` // benchmark geography, e.g. "US"
	State     string `json:"state,omitempty"`
	City      string `json:"city,omitempty"`
}

// DefaultVacancyRate applies when a deal does not specify one.
const DefaultVacancyRate = 0.05

// EffectiveAnnualRent returns gross scheduled income adjusted for vacancy:
// (monthly rent + other income) x 12 x units x (1 - vacancy).
func (d Deal) EffectiveAnnualRent() float64 {
	if d.MonthlyRent == nil {
		return 0
	}
	units := d.NumUnits
	if units < 1 {
		units = 1
	}
	vacancy := DefaultVacancyRate
	if d.VacancyRate != nil {
		vacancy = *d.VacancyRate
	}
	return (*d.MonthlyRent + d.OtherIncome) * 12 * float64(units) * (1 - vacancy)
}
