package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fasalmitra/agroadvisor/config"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, 100, cfg.Model.NEstimators)
	assert.Equal(t, 15, cfg.Model.MaxDepth)
	assert.Equal(t, 5, cfg.Model.MinSamplesSplit)
	assert.Equal(t, int64(42), cfg.Model.RandomState)

	assert.Equal(t, 2000.0, cfg.Economics.PricePerQuintal)
	assert.Equal(t, 0.02, cfg.Economics.FertilizerCostPerKg)
	assert.Equal(t, 0.5, cfg.Economics.PesticideCostPerKg)
	assert.Equal(t, 5000.0, cfg.Economics.OverheadPerHectare)

	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agroadvisor.yaml")
	content := []byte(`
model:
  n_estimators: 25
economics:
  price_per_quintal: 1800
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.Model.NEstimators)
	assert.Equal(t, 1800.0, cfg.Economics.PricePerQuintal)
	// Unspecified keys keep their defaults.
	assert.Equal(t, 15, cfg.Model.MaxDepth)
	assert.Equal(t, 0.5, cfg.Economics.PesticideCostPerKg)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("AGROADVISOR_MODEL_N_ESTIMATORS", "7")
	t.Setenv("AGROADVISOR_LOG_LEVEL", "debug")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Model.NEstimators)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")

	cfg := config.Default()
	cfg.Model.NEstimators = 50
	require.NoError(t, cfg.Save(path))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 50, loaded.Model.NEstimators)
	assert.Equal(t, cfg.Economics, loaded.Economics)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
