package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvOnlyDefaults(t *testing.T) {
	cfg, err := Load("", true)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.HTTPAddr)
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, 30, cfg.Latest.DefaultDaysRange)
	assert.Equal(t, 200, cfg.Latest.PageSize)
	assert.Equal(t, 10*time.Minute, cfg.Spectrum.CacheTTL)
	assert.Equal(t, "data/test/mock_DB.csv", cfg.Ingest.MockCatalogue)
	assert.False(t, cfg.Cron.Enabled)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("TOM_SERVER_HTTP_ADDR", ":9090")
	t.Setenv("TOM_DB_DRIVER", "sqlite")

	cfg, err := Load("", true)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.HTTPAddr)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	raw := []byte("ingest:\n  test_dir: /srv/tides/test\nlatest:\n  default_days_range: 7\n")
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	cfg, err := Load(path, false)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Latest.DefaultDaysRange)
	assert.Equal(t, "/srv/tides/test/mock_DB.csv", cfg.Ingest.MockCatalogue)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), false)
	require.Error(t, err)
}
