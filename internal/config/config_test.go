package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults without a config file", func(t *testing.T) {
		cfg, err := LoadConfig(t.TempDir())
		require.NoError(t, err)

		assert.Equal(t, "0.0.0.0:8080", cfg.ServerAddress)
		assert.Equal(t, "file", cfg.DataSource)
		assert.Equal(t, "ZCTA5CE10", cfg.ZipProperty)
		assert.Equal(t, "PantryMap.csv", cfg.PantryClientsFile)
		assert.Equal(t, int64(1<<20), cfg.DriveChunkSize)
		assert.Equal(t, 30*time.Minute, cfg.CacheTTL)
		assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	})

	t.Run("values from app.env", func(t *testing.T) {
		dir := t.TempDir()
		content := "SERVER_ADDRESS=127.0.0.1:9000\nDATA_SOURCE=drive\nCACHE_TTL=5m\nZIP_PROPERTY=ZCTA5CE20\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, "app.env"), []byte(content), 0o644))

		cfg, err := LoadConfig(dir)
		require.NoError(t, err)

		assert.Equal(t, "127.0.0.1:9000", cfg.ServerAddress)
		assert.Equal(t, "drive", cfg.DataSource)
		assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
		assert.Equal(t, "ZCTA5CE20", cfg.ZipProperty)
		assert.Equal(t, "erie_survey_zips.geojson", cfg.BoundariesFile)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "app.env"), []byte("DATA_DIR=from_file\n"), 0o644))
		t.Setenv("DATA_DIR", "from_env")

		cfg, err := LoadConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, "from_env", cfg.DataDir)
	})
}
