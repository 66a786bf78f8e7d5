package cmd

import (
	"fmt"
	"os"
	"time"

	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/runway/internal/cli"
	"github.com/theirongolddev/runway/internal/config"
	"github.com/theirongolddev/runway/internal/forecast"
	"github.com/theirongolddev/runway/internal/planner"
	"github.com/theirongolddev/runway/internal/store"
)

var (
	flagPlan    string
	flagMonths  int
	flagNoCache bool
	flagQuiet   bool
	flagVerbose bool
	flagJSON    bool
)

var rootCmd = &cobra.Command{
	Use:   "runway",
	Short: "Hiring impact and cash runway planner",
	Long:  "Plan hires by role and see how they move payroll, burn and cash runway.",
	RunE:  runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagPlan, "plan", "", "Plan file (toml, yaml or json); defaults to the configured plan")
	rootCmd.PersistentFlags().IntVarP(&flagMonths, "months", "n", 0, "Projection window in months (default from config)")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Skip the SQLite forecast cache")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Print machine-readable JSON")
}

// newLogger builds the diagnostic logger. User-facing progress goes to
// stderr with fmt; this is for warnings and debug traces.
func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	switch {
	case flagVerbose:
		log.SetLevel(logrus.DebugLevel)
	case flagQuiet:
		log.SetLevel(logrus.WarnLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}

// loadConfig reads the config file, falling back to defaults on error.
func loadConfig() config.Config {
	cfg, err := config.Load()
	if err != nil && !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Config error, using defaults: %v\n", err)
	}
	if flagMonths > 0 {
		cfg.General.ProjectionMonths = flagMonths
	}
	return cfg
}

// planPath resolves --plan, then the configured plan file.
func planPath(cfg config.Config) string {
	if flagPlan != "" {
		return flagPlan
	}
	return cfg.PlanPath()
}

// loadPlanner is the shared roster loading path used by all commands.
func loadPlanner(cfg config.Config) (*planner.Planner, error) {
	path := planPath(cfg)
	roles, err := config.LoadPlan(path)
	if err != nil {
		return nil, fmt.Errorf("loading plan %s: %w", path, err)
	}
	return planner.New(roles)
}

// savePlanner writes the roster back to the plan file.
func savePlanner(cfg config.Config, p *planner.Planner) error {
	path := planPath(cfg)
	if err := config.SavePlan(path, p.Roles()); err != nil {
		return fmt.Errorf("saving plan %s: %w", path, err)
	}
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Saved %s\n", path)
	}
	return nil
}

// openForecaster wires the remote client and SQLite cache. The returned
// close func is always safe to call.
func openForecaster(cfg config.Config, log *logrus.Logger) (*forecast.Forecaster, func()) {
	client := forecast.NewClient(cfg.Forecast.BaseURL, cfg.Forecast.APIKey)
	ttl := time.Duration(cfg.Forecast.CacheTTLMinutes) * time.Minute

	if client == nil || flagNoCache {
		return forecast.NewForecaster(client, nil, ttl, log), func() {}
	}

	cache, err := store.Open(store.DefaultPath())
	if err != nil {
		// Cache open failed, forecast uncached
		log.WithError(err).Warn("forecast cache unavailable")
		return forecast.NewForecaster(client, nil, ttl, log), func() {}
	}
	return forecast.NewForecaster(client, cache, ttl, log), func() { _ = cache.Close() }
}

// printJSON writes v to stdout for --json.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatNumber(n int64) string {
	return cli.FormatNumber(n)
}
