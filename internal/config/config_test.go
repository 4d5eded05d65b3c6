package config

import (
	"os"
	"path/filepath"
	"testing"

	"churnboard/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"CONFIG_FILE", "PORT", "GIN_MODE", "DATA_SOURCE", "DISPLAY_LIMIT",
		"HISTOGRAM_BINS", "OPS_PORT", "OPS_ENABLED", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultSource, cfg.Data.Source)
	assert.Equal(t, 50, cfg.Data.DisplayLimit)
	assert.Equal(t, 30, cfg.Data.HistogramBins)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.True(t, cfg.Ops.Enabled)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATA_SOURCE", "/data/customers.xlsx")
	t.Setenv("PORT", "9000")
	t.Setenv("OPS_ENABLED", "false")
	t.Setenv("DISPLAY_LIMIT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/customers.xlsx", cfg.Data.Source)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.False(t, cfg.Ops.Enabled)
	assert.Equal(t, 50, cfg.Data.DisplayLimit, "unparseable values fall back to the default")
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "churnboard.yaml")
	content := `
server:
  port: "7000"
data:
  source: from-file.csv
  histogram_bins: 10
ops:
  enabled: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7100")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "from-file.csv", cfg.Data.Source)
	assert.Equal(t, 10, cfg.Data.HistogramBins)
	assert.Equal(t, "7100", cfg.Server.Port)
	assert.False(t, cfg.Ops.Enabled)
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, errors.CodeFileAccess, errors.GetCode(err))
}

func TestLoadRejectsNonPositiveBins(t *testing.T) {
	clearEnv(t)
	t.Setenv("HISTOGRAM_BINS", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestLoadLogLevel(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)

	t.Setenv("LOG_LEVEL", "chatty")
	_, err = Load()
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}
