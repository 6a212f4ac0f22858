// Package domain holds the immutable value records shared by the
// analytics engines. Optional numeric inputs use pointers so that
// "absent" is distinguishable from zero.
package domain

// PropertyType enumerates the property categories the hedonic model
// distinguishes. Anything else contributes nothing to the prediction.
type PropertyType string

const (
	PropertyTypeSingleFamily PropertyType = "single_family"
	PropertyTypeMultifamily  PropertyType = "multifamily"
	PropertyTypeApartment    PropertyType = "apartment"
	PropertyTypeCondo        PropertyType = "condo"
	PropertyTypeOther        PropertyType = "other"
)

// PropertyCharacteristics describes a property for rent prediction and
// downstream analysis. SquareFootage, Bedrooms and Bathrooms are required
// for prediction; everything else degrades gracefully when absent.
type PropertyCharacteristics struct {
	SquareFootage *float64     `json:"square_footage,omitempty"`
	Bedrooms      *float64     `json:"bedrooms,omitempty"`
	Bathrooms     *float64     `json:"bathrooms,omitempty"` // may be fractional (e.g. 1.5)
	YearBuilt     *int         `json:"year_built,omitempty"`
	PropertyType  PropertyType `json:"property_type,omitempty"`
	EPCScore      string       `json:"epc_score,omitempty"` // energy grade A-F
	Zipcode       string       `json:"zipcode,omitempty"`
}

// Age returns the property age relative to referenceYear. Missing
// year_built defaults to age 30.
func (p PropertyCharacteristics) Age(referenceYear int) float64 {
	if p.YearBuilt == nil {
		return 30
	}
	age := float64(referenceYear - *p.YearBuilt)
	if age < 0 {
		return 0
	}
	return age
}

// Float64Ptr is a convenience constructor for optional numeric fields.
func Float64Ptr(v float64) *float64 { return &v }

// IntPtr is a convenience constructor for optional integer fields.
func IntPtr(v int) *int { return &v }
