// Package refcache provides persistent caching of deal analysis snapshots.
// Snapshots are stored as msgpack blobs with expiration timestamps so
// repeated analyses of an unchanged deal skip the full pipeline.
package refcache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// DefaultSnapshotTTL is how long an analysis snapshot stays fresh. The
// underlying benchmark data changes rarely, so a day is conservative.
const DefaultSnapshotTTL = 24 * time.Hour

// Store caches analysis snapshots in the cache database.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewStore creates a snapshot store.
func NewStore(db *sql.DB, log zerolog.Logger) *Store {
	return &Store{db: db, log: log.With().Str("component", "refcache").Logger()}
}

// Store saves a snapshot with expiration = now + ttl, replacing any
// previous snapshot under the same key.
func (s *Store) Store(key string, v interface{}, ttl time.Duration) error {
	blob, err := msgpack.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	expiresAt := time.Now().Add(ttl).Unix()

	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO analysis_snapshots (key, data, expires_at) VALUES (?, ?, ?)",
		key, blob, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}
	return nil
}

// GetIfFresh decodes the snapshot into out only if it has not expired.
// Returns false when the key is absent or stale.
func (s *Store) GetIfFresh(key string, out interface{}) (bool, error) {
	return s.get(key, out, true)
}

// Get decodes the snapshot into out regardless of expiration. Stale data
// is better than recomputing when the caller only needs a preview.
func (s *Store) Get(key string, out interface{}) (bool, error) {
	return s.get(key, out, false)
}

func (s *Store) get(key string, out interface{}, freshOnly bool) (bool, error) {
	query := "SELECT data FROM analysis_snapshots WHERE key = ?"
	args := []interface{}{key}
	if freshOnly {
		query += " AND expires_at > ?"
		args = append(args, time.Now().Unix())
	}

	var blob []byte
	err := s.db.QueryRow(query, args...).Scan(&blob)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read snapshot: %w", err)
	}

	if err := msgpack.Unmarshal(blob, out); err != nil {
		return false, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return true, nil
}

// Delete removes one snapshot.
func (s *Store) Delete(key string) error {
	_, err := s.db.Exec("DELETE FROM analysis_snapshots WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

// DeleteExpired removes all stale snapshots and returns how many went.
func (s *Store) DeleteExpired() (int64, error) {
	result, err := s.db.Exec("DELETE FROM analysis_snapshots WHERE expires_at < ?", time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired snapshots: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted snapshots: %w", err)
	}
	if deleted > 0 {
		s.log.Debug().Int64("deleted", deleted).Msg("Swept expired snapshots")
	}
	return deleted, nil
}
