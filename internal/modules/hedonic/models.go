// Package hedonic implements the log-linear rent prediction model. The
// predicted ("fundamental") rent feeds decile classification downstream,
// replacing observed rent to avoid selection bias.
package hedonic

import "fmt"

// Coefficients is a versioned hedonic model coefficient set. Treated as
// read-only reference data once loaded.
type Coefficients struct {
	ModelVersion string  `json:"model_version"`
	Intercept    float64 `json:"intercept"`
	Sqft         float64 `json:"coef_sqft"`
	Bedrooms     float64 `json:"coef_bedrooms"`
	Bathrooms    float64 `json:"coef_bathrooms"`
	Age          float64 `json:"coef_age"`
	// AgeSquared is optional; older model versions omit the quadratic term.
	AgeSquared              *float64           `json:"coef_age_squared,omitempty"`
	PropertyTypeMultifamily float64            `json:"coef_property_type_multifamily"`
	PropertyTypeCondo       float64            `json:"coef_property_type_condo"`
	// EPCOffsets maps a lowercase energy grade (a-f) to its offset relative
	// to the grade-D baseline. Missing grades contribute nothing.
	EPCOffsets map[string]float64 `json:"epc_offsets"`
	RSquared   float64            `json:"r_squared"`
	RMSE       float64            `json:"rmse"`
	SampleSize int                `json:"sample_size"`
}

// Validate checks the coefficient set is usable for prediction.
func (c Coefficients) Validate() error {
	if c.ModelVersion == "" {
		return fmt.Errorf("model_version is required")
	}
	if c.RSquared < 0 || c.RSquared > 1 {
		return fmt.Errorf("r_squared %.4f out of range [0,1]", c.RSquared)
	}
	return nil
}

// Prediction is the output of a single rent prediction.
type Prediction struct {
	PredictedRent float64            `json:"predicted_rent"`
	LogRent       float64            `json:"log_rent"`
	Confidence    float64            `json:"confidence"` // r_squared x 100
	ModelVersion  string             `json:"model_version"`
	Components    map[string]float64 `json:"components"`
}
