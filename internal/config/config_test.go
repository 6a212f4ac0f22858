package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DEALENGINE_DATA_DIR", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "US", cfg.DefaultGeography)
	assert.Equal(t, "us_national_v1", cfg.ModelVersion)
	assert.Equal(t, 10, cfg.HoldingPeriod)
	assert.Equal(t, 24*time.Hour, cfg.SnapshotTTL)
	assert.False(t, cfg.DisableSnapshots)
	assert.True(t, filepath.IsAbs(cfg.DataDir))
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DEALENGINE_DATA_DIR", t.TempDir())
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("HEDONIC_MODEL_VERSION", "eu_v2")
	t.Setenv("HOLDING_PERIOD_YEARS", "7")
	t.Setenv("SNAPSHOT_TTL_HOURS", "2")
	t.Setenv("DISABLE_SNAPSHOTS", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "eu_v2", cfg.ModelVersion)
	assert.Equal(t, 7, cfg.HoldingPeriod)
	assert.Equal(t, 2*time.Hour, cfg.SnapshotTTL)
	assert.True(t, cfg.DisableSnapshots)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := &Config{ModelVersion: "", HoldingPeriod: 10}
	assert.Error(t, cfg.Validate())

	cfg = &Config{ModelVersion: "v1", HoldingPeriod: 0}
	assert.Error(t, cfg.Validate())
}

func TestDBPaths(t *testing.T) {
	cfg := &Config{DataDir: "/var/lib/dealengine"}
	assert.Equal(t, "/var/lib/dealengine/reference.db", cfg.ReferenceDBPath())
	assert.Equal(t, "/var/lib/dealengine/cache.db", cfg.CacheDBPath())
}
