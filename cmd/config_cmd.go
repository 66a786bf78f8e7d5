// Package cmd implements the runway CLI commands.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/runway/internal/cli"
	"github.com/theirongolddev/runway/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Projection months: %d\n", cfg.General.ProjectionMonths)
	fmt.Printf("    Plan file:         %s\n", planPath(cfg))
	fmt.Println()

	fmt.Println("  [Finance]")
	fmt.Printf("    Cash:             %s\n", cli.FormatCost(cfg.Finance.Cash))
	fmt.Printf("    Monthly revenue:  %s\n", cli.FormatCost(cfg.Finance.MonthlyRevenue))
	fmt.Printf("    Monthly expenses: %s\n", cli.FormatCost(cfg.Finance.MonthlyExpenses))
	fmt.Printf("    Revenue growth:   %s/mo\n", cli.FormatPercent(cfg.Finance.RevenueGrowth))
	fmt.Printf("    Expense growth:   %s/mo\n", cli.FormatPercent(cfg.Finance.ExpenseGrowth))
	fmt.Println()

	fmt.Println("  [Forecast]")
	if cfg.Forecast.BaseURL != "" {
		fmt.Printf("    Service: %s\n", cfg.Forecast.BaseURL)
	} else {
		fmt.Println("    Service: not configured (local model only)")
	}
	if cfg.Forecast.APIKey != "" {
		fmt.Printf("    API key: %s\n", maskAPIKey(cfg.Forecast.APIKey))
	}
	fmt.Printf("    Cache TTL: %d min\n", cfg.Forecast.CacheTTLMinutes)
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Listen: %s\n", cfg.Server.Addr)
	fmt.Printf("    Events buffer: %d\n", cfg.Server.EventsBuffer)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Run `runway setup` to reconfigure.")
	return nil
}
