package hedonic

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/aequitas-re/dealengine/internal/domain"
	"github.com/aequitas-re/dealengine/pkg/formulas"
)

// Observation pairs an observed monthly rent with the property it was
// observed on. Used to fit new coefficient sets from listing data.
type Observation struct {
	Rent     float64
	Property domain.PropertyCharacteristics
}

// Feature order in the design matrix. Intercept is column 0.
const numFeatures = 7

// Calibrate fits the log-linear hedonic model to observations by ordinary
// least squares and returns a new coefficient set under modelVersion.
// referenceYear anchors the age feature, matching prediction semantics.
//
// At least numFeatures+1 observations with positive rents and complete
// required fields are needed; otherwise an InvalidInputError is returned.
func Calibrate(observations []Observation, modelVersion string, referenceYear int) (*Coefficients, error) {
	if modelVersion == "" {
		return nil, &domain.InvalidInputError{Field: "model_version", Reason: "must not be empty"}
	}

	type row struct {
		features [numFeatures]float64
		logRent  float64
	}

	var rows []row
	for _, obs := range observations {
		p := obs.Property
		if obs.Rent <= 0 || p.SquareFootage == nil || p.Bedrooms == nil || p.Bathrooms == nil {
			continue
		}
		age := p.Age(referenceYear)

		var isMulti, isCondo float64
		switch p.PropertyType {
		case domain.PropertyTypeMultifamily, domain.PropertyTypeApartment:
			isMulti = 1
		case domain.PropertyTypeCondo:
			isCondo = 1
		}

		rows = append(rows, row{
			features: [numFeatures]float64{1, *p.SquareFootage, *p.Bedrooms, *p.Bathrooms, age, isMulti, isCondo},
			logRent:  math.Log(obs.Rent),
		})
	}

	if len(rows) <= numFeatures {
		return nil, &domain.InvalidInputError{
			Field:  "observations",
			Reason: fmt.Sprintf("need more than %d complete observations, got %d", numFeatures, len(rows)),
		}
	}

	x := mat.NewDense(len(rows), numFeatures, nil)
	y := mat.NewVecDense(len(rows), nil)
	for i, r := range rows {
		x.SetRow(i, r.features[:])
		y.SetVec(i, r.logRent)
	}

	// Solve X beta = y in the least-squares sense via QR
	var qr mat.QR
	qr.Factorize(x)
	beta := mat.NewVecDense(numFeatures, nil)
	if err := qr.SolveVecTo(beta, false, y); err != nil {
		return nil, fmt.Errorf("failed to solve least squares system: %w", err)
	}

	// Fit quality on the training set
	predicted := make([]float64, len(rows))
	observed := make([]float64, len(rows))
	for i, r := range rows {
		var fit float64
		for j := 0; j < numFeatures; j++ {
			fit += beta.AtVec(j) * r.features[j]
		}
		predicted[i] = fit
		observed[i] = r.logRent
	}

	return &Coefficients{
		ModelVersion:            modelVersion,
		Intercept:               beta.AtVec(0),
		Sqft:                    beta.AtVec(1),
		Bedrooms:                beta.AtVec(2),
		Bathrooms:               beta.AtVec(3),
		Age:                     beta.AtVec(4),
		PropertyTypeMultifamily: beta.AtVec(5),
		PropertyTypeCondo:       beta.AtVec(6),
		EPCOffsets:              map[string]float64{},
		RSquared:                formulas.Clamp(formulas.RSquared(predicted, observed), 0, 1),
		RMSE:                    formulas.RMSE(predicted, observed),
		SampleSize:              len(rows),
	}, nil
}
