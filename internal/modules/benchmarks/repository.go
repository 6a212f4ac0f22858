package benchmarks

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aequitas-re/dealengine/internal/database"
	"github.com/aequitas-re/dealengine/pkg/embedded"
)

// Repository provides benchmark row lookups over the reference database.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new benchmark repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{db: db, log: log.With().Str("repository", "benchmarks").Logger()}
}

const rowColumns = `rent_decile, geography, net_yield_min, net_yield_max,
	capital_gain_min, capital_gain_max, total_return_min, total_return_max,
	maintenance_cost_pct, turnover_cost_pct, default_cost_pct,
	systematic_risk_beta, cash_flow_volatility`

// Get returns the benchmark row for a (decile, geography) pair.
// Returns nil, nil when no row exists - callers fall back to defaults.
func (r *Repository) Get(decile int, geography string) (*Row, error) {
	query := fmt.Sprintf(`SELECT %s FROM decile_benchmarks WHERE rent_decile = ? AND geography = ?`, rowColumns)

	row := &Row{}
	err := r.db.QueryRow(query, decile, geography).Scan(
		&row.RentDecile, &row.Geography,
		&row.NetYieldMin, &row.NetYieldMax,
		&row.CapitalGainMin, &row.CapitalGainMax,
		&row.TotalReturnMin, &row.TotalReturnMax,
		&row.MaintenanceCostPct, &row.TurnoverCostPct, &row.DefaultCostPct,
		&row.SystematicRiskBeta, &row.CashFlowVolatility,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get benchmark D%d (%s): %w", decile, geography, err)
	}

	return row, nil
}

// ListByGeography returns all benchmark rows for a geography ordered by decile.
func (r *Repository) ListByGeography(geography string) ([]Row, error) {
	query := fmt.Sprintf(`SELECT %s FROM decile_benchmarks WHERE geography = ? ORDER BY rent_decile`, rowColumns)

	rows, err := r.db.Query(query, geography)
	if err != nil {
		return nil, fmt.Errorf("failed to list benchmarks for %s: %w", geography, err)
	}
	defer rows.Close()

	var result []Row
	for rows.Next() {
		var row Row
		if err := rows.Scan(
			&row.RentDecile, &row.Geography,
			&row.NetYieldMin, &row.NetYieldMax,
			&row.CapitalGainMin, &row.CapitalGainMax,
			&row.TotalReturnMin, &row.TotalReturnMax,
			&row.MaintenanceCostPct, &row.TurnoverCostPct, &row.DefaultCostPct,
			&row.SystematicRiskBeta, &row.CashFlowVolatility,
		); err != nil {
			return nil, fmt.Errorf("failed to scan benchmark row: %w", err)
		}
		result = append(result, row)
	}

	return result, rows.Err()
}

// Upsert inserts or replaces a benchmark row after validating it.
func (r *Repository) Upsert(row Row) error {
	if err := row.Validate(); err != nil {
		return fmt.Errorf("invalid benchmark row: %w", err)
	}

	query := fmt.Sprintf(`INSERT OR REPLACE INTO decile_benchmarks (%s)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, rowColumns)

	_, err := r.db.Exec(query,
		row.RentDecile, row.Geography,
		row.NetYieldMin, row.NetYieldMax,
		row.CapitalGainMin, row.CapitalGainMax,
		row.TotalReturnMin, row.TotalReturnMax,
		row.MaintenanceCostPct, row.TurnoverCostPct, row.DefaultCostPct,
		row.SystematicRiskBeta, row.CashFlowVolatility,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert benchmark D%d (%s): %w", row.RentDecile, row.Geography, err)
	}

	return nil
}

// SeedFromEmbedded loads the embedded benchmark dataset into the reference
// database. Existing rows are replaced, so re-seeding is idempotent.
func (r *Repository) SeedFromEmbedded() (int, error) {
	data, err := embedded.ReadData("benchmarks.json")
	if err != nil {
		return 0, fmt.Errorf("failed to read embedded benchmarks: %w", err)
	}

	var seedRows []Row
	if err := json.Unmarshal(data, &seedRows); err != nil {
		return 0, fmt.Errorf("failed to parse embedded benchmarks: %w", err)
	}

	err = database.WithTransaction(r.db, func(tx *sql.Tx) error {
		query := fmt.Sprintf(`INSERT OR REPLACE INTO decile_benchmarks (%s)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, rowColumns)
		for _, row := range seedRows {
			if err := row.Validate(); err != nil {
				return fmt.Errorf("invalid seed row: %w", err)
			}
			if _, err := tx.Exec(query,
				row.RentDecile, row.Geography,
				row.NetYieldMin, row.NetYieldMax,
				row.CapitalGainMin, row.CapitalGainMax,
				row.TotalReturnMin, row.TotalReturnMax,
				row.MaintenanceCostPct, row.TurnoverCostPct, row.DefaultCostPct,
				row.SystematicRiskBeta, row.CashFlowVolatility,
			); err != nil {
				return fmt.Errorf("failed to seed benchmark D%d (%s): %w", row.RentDecile, row.Geography, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	r.log.Info().Int("rows", len(seedRows)).Msg("Seeded benchmark reference data")
	return len(seedRows), nil
}
