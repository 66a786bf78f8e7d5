package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	cfg := DefaultConfig()
	cfg.Finance.Cash = 500000
	cfg.Finance.MonthlyRevenue = 20000
	cfg.Finance.MonthlyExpenses = 45000
	cfg.Forecast.BaseURL = "https://forecast.example.com"
	cfg.Appearance.Theme = "terminal"

	require.NoError(t, SaveTo(path, cfg))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoadFromRejectsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[general\nbroken"), 0o600))

	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()
	cfg.Finance.Cash = 100
	cfg.Finance.MonthlyRevenue = 7
	require.NoError(t, SaveTo(path, cfg))

	t.Setenv("RUNWAY_CASH", "250000")
	t.Setenv("RUNWAY_FORECAST_URL", "http://localhost:9999")
	t.Setenv("RUNWAY_LISTEN_ADDR", ":8000")

	got, err := LoadFrom(path)
	require.NoError(t, err)
	assert.InDelta(t, 250000, got.Finance.Cash, 1e-9)
	assert.InDelta(t, 7, got.Finance.MonthlyRevenue, 1e-9, "unset env must not clobber file value")
	assert.Equal(t, "http://localhost:9999", got.Forecast.BaseURL)
	assert.Equal(t, ":8000", got.Server.Addr)
}

func TestEnvRejectsNonNumericCash(t *testing.T) {
	t.Setenv("RUNWAY_CASH", "lots")
	cfg := DefaultConfig()
	assert.Error(t, ApplyEnv(&cfg))
}

func TestPlanPathFallsBackToDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	cfg := DefaultConfig()
	assert.Equal(t, filepath.Join("/tmp/xdg", "runway", "plan.toml"), cfg.PlanPath())

	cfg.General.PlanFile = "/srv/plan.yaml"
	assert.Equal(t, "/srv/plan.yaml", cfg.PlanPath())
}
