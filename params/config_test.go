package params

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uhyunpark/hyperswap/pkg/app/core/amm"
)

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ENGINE_RATIO_CONVENTION", "b_over_a")
	t.Setenv("ENGINE_DEFAULT_TOLERANCE", "0.25")
	t.Setenv("JOURNAL_PATH", "/tmp/journal")
	t.Setenv("METRICS_NAMESPACE", "swapper")
	t.Setenv("ENGINE_DIRECT_ROUTE", "true")

	cfg := LoadFromEnv(filepath.Join(t.TempDir(), "missing.env"))
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, amm.RatioBOverA, cfg.Engine.RatioConvention)
	assert.Equal(t, 0.25, cfg.Engine.DefaultTolerance)
	assert.Equal(t, "/tmp/journal", cfg.Journal.Path)
	assert.Equal(t, "swapper", cfg.Metrics.Namespace)
	assert.True(t, cfg.Engine.DirectRoute)
}

func TestLoadFromEnvKeepsDefaultsOnBadValues(t *testing.T) {
	t.Setenv("ENGINE_RATIO_CONVENTION", "diagonal")
	t.Setenv("ENGINE_DEFAULT_TOLERANCE", "-1")
	t.Setenv("ENGINE_DIRECT_ROUTE", "sometimes")

	cfg := LoadFromEnv(filepath.Join(t.TempDir(), "missing.env"))
	def := Default()
	assert.Equal(t, def.Engine, cfg.Engine)
}

func TestLoadFromEnvReadsDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("LOG_FILE=./logs/engine.log\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("LOG_FILE") })

	cfg := LoadFromEnv(path)
	assert.Equal(t, "./logs/engine.log", cfg.Log.File)
}
