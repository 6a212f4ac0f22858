package hedonic

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aequitas-re/dealengine/pkg/embedded"
)

// Repository persists hedonic coefficient sets in the reference database.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new hedonic coefficient repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{db: db, log: log.With().Str("repository", "hedonic").Logger()}
}

// Get returns the coefficient set for a model version.
// Returns nil, nil when the version does not exist.
func (r *Repository) Get(modelVersion string) (*Coefficients, error) {
	query := `SELECT model_version, intercept, coef_sqft, coef_bedrooms, coef_bathrooms,
		coef_age, coef_age_squared, coef_property_type_multifamily,
		coef_property_type_condo, epc_offsets, r_squared, rmse, sample_size
		FROM hedonic_coefficients WHERE model_version = ?`

	c := &Coefficients{}
	var ageSquared sql.NullFloat64
	var epcJSON string
	err := r.db.QueryRow(query, modelVersion).Scan(
		&c.ModelVersion, &c.Intercept, &c.Sqft, &c.Bedrooms, &c.Bathrooms,
		&c.Age, &ageSquared, &c.PropertyTypeMultifamily,
		&c.PropertyTypeCondo, &epcJSON, &c.RSquared, &c.RMSE, &c.SampleSize,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get coefficients %s: %w", modelVersion, err)
	}

	if ageSquared.Valid {
		c.AgeSquared = &ageSquared.Float64
	}
	if err := json.Unmarshal([]byte(epcJSON), &c.EPCOffsets); err != nil {
		return nil, fmt.Errorf("failed to parse epc_offsets for %s: %w", modelVersion, err)
	}

	return c, nil
}

// Save inserts or replaces a coefficient set.
func (r *Repository) Save(c Coefficients) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid coefficient set: %w", err)
	}

	epcOffsets := c.EPCOffsets
	if epcOffsets == nil {
		epcOffsets = map[string]float64{}
	}
	epcJSON, err := json.Marshal(epcOffsets)
	if err != nil {
		return fmt.Errorf("failed to marshal epc_offsets: %w", err)
	}

	var ageSquared interface{}
	if c.AgeSquared != nil {
		ageSquared = *c.AgeSquared
	}

	_, err = r.db.Exec(`INSERT OR REPLACE INTO hedonic_coefficients
		(model_version, intercept, coef_sqft, coef_bedrooms, coef_bathrooms,
		 coef_age, coef_age_squared, coef_property_type_multifamily,
		 coef_property_type_condo, epc_offsets, r_squared, rmse, sample_size)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ModelVersion, c.Intercept, c.Sqft, c.Bedrooms, c.Bathrooms,
		c.Age, ageSquared, c.PropertyTypeMultifamily,
		c.PropertyTypeCondo, string(epcJSON), c.RSquared, c.RMSE, c.SampleSize,
	)
	if err != nil {
		return fmt.Errorf("failed to save coefficients %s: %w", c.ModelVersion, err)
	}

	return nil
}

// SeedFromEmbedded loads the embedded coefficient sets into the reference
// database. Existing versions are replaced.
func (r *Repository) SeedFromEmbedded() (int, error) {
	data, err := embedded.ReadData("hedonic_coefficients.json")
	if err != nil {
		return 0, fmt.Errorf("failed to read embedded coefficients: %w", err)
	}

	var sets []Coefficients
	if err := json.Unmarshal(data, &sets); err != nil {
		return 0, fmt.Errorf("failed to parse embedded coefficients: %w", err)
	}

	for _, c := range sets {
		if err := r.Save(c); err != nil {
			return 0, fmt.Errorf("failed to seed coefficients %s: %w", c.ModelVersion, err)
		}
	}

	r.log.Info().Int("models", len(sets)).Msg("Seeded hedonic coefficient sets")
	return len(sets), nil
}
