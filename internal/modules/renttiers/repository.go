package renttiers

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aequitas-re/dealengine/pkg/embedded"
)

// Repository provides decile threshold table lookups over the reference
// database.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new threshold repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{db: db, log: log.With().Str("repository", "renttiers").Logger()}
}

// Get returns the threshold table for a market. bedrooms and year are
// optional filters; when multiple years match, the most recent wins.
// Returns nil, nil when no table exists.
func (r *Repository) Get(geography string, bedrooms, year *int) (*ThresholdTable, error) {
	query := `SELECT geography, bedrooms, data_year,
		d1, d2, d3, d4, d5, d6, d7, d8, d9, d10
		FROM rent_decile_thresholds WHERE geography = ?`
	args := []interface{}{geography}

	if bedrooms != nil {
		query += " AND bedrooms = ?"
		args = append(args, *bedrooms)
	}
	if year != nil {
		query += " AND data_year = ?"
		args = append(args, *year)
	}
	query += " ORDER BY data_year DESC LIMIT 1"

	t := &ThresholdTable{}
	err := r.db.QueryRow(query, args...).Scan(
		&t.Geography, &t.Bedrooms, &t.DataYear,
		&t.Thresholds[0], &t.Thresholds[1], &t.Thresholds[2], &t.Thresholds[3],
		&t.Thresholds[4], &t.Thresholds[5], &t.Thresholds[6], &t.Thresholds[7],
		&t.Thresholds[8], &t.Thresholds[9],
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get thresholds for %s: %w", geography, err)
	}

	return t, nil
}

// Upsert inserts or replaces a threshold table after validating ordering.
func (r *Repository) Upsert(t ThresholdTable) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("invalid threshold table: %w", err)
	}

	_, err := r.db.Exec(`INSERT OR REPLACE INTO rent_decile_thresholds
		(geography, bedrooms, data_year, d1, d2, d3, d4, d5, d6, d7, d8, d9, d10)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Geography, t.Bedrooms, t.DataYear,
		t.Thresholds[0], t.Thresholds[1], t.Thresholds[2], t.Thresholds[3],
		t.Thresholds[4], t.Thresholds[5], t.Thresholds[6], t.Thresholds[7],
		t.Thresholds[8], t.Thresholds[9],
	)
	if err != nil {
		return fmt.Errorf("failed to upsert thresholds for %s/%dBR: %w", t.Geography, t.Bedrooms, err)
	}

	return nil
}

// SeedFromEmbedded loads the embedded national threshold tables.
func (r *Repository) SeedFromEmbedded() (int, error) {
	data, err := embedded.ReadData("rent_thresholds.json")
	if err != nil {
		return 0, fmt.Errorf("failed to read embedded thresholds: %w", err)
	}

	var tables []ThresholdTable
	if err := json.Unmarshal(data, &tables); err != nil {
		return 0, fmt.Errorf("failed to parse embedded thresholds: %w", err)
	}

	for _, t := range tables {
		if err := r.Upsert(t); err != nil {
			return 0, fmt.Errorf("failed to seed thresholds: %w", err)
		}
	}

	r.log.Info().Int("tables", len(tables)).Msg("Seeded rent decile thresholds")
	return len(tables), nil
}
