// Package config handles runway configuration and plan files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/theirongolddev/runway/internal/model"
)

// Config holds all runway configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Finance    model.Baseline   `toml:"finance"`
	Forecast   ForecastConfig   `toml:"forecast"`
	Server     ServerConfig     `toml:"server"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	ProjectionMonths int    `toml:"projection_months"`
	PlanFile         string `toml:"plan_file,omitempty"`
}

// ForecastConfig holds remote forecast service settings.
type ForecastConfig struct {
	BaseURL         string `toml:"base_url,omitempty"`
	APIKey          string `toml:"api_key,omitempty"`
	CacheTTLMinutes int    `toml:"cache_ttl_minutes"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr         string `toml:"addr"`
	EventsBuffer int    `toml:"events_buffer"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			ProjectionMonths: model.ProjectionMonths,
		},
		Forecast: ForecastConfig{
			CacheTTLMinutes: 60,
		},
		Server: ServerConfig{
			Addr:         "127.0.0.1:8790",
			EventsBuffer: 200,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "runway")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "runway")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
// Environment overrides are applied last.
func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config at path. A missing file yields defaults.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path is the user's own config location
	if err != nil {
		if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
	} else if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	if cfg.General.ProjectionMonths <= 0 {
		cfg.General.ProjectionMonths = model.ProjectionMonths
	}
	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveTo(Path(), cfg)
}

// SaveTo writes the config to path, creating parent directories.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // user config path
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// PlanPath returns the plan file from config, or the default location.
func (c Config) PlanPath() string {
	if c.General.PlanFile != "" {
		return c.General.PlanFile
	}
	return DefaultPlanPath()
}
