package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/runway/internal/cli"
	"github.com/theirongolddev/runway/internal/config"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	reader := bufio.NewReader(os.Stdin)

	// Load existing config or defaults
	cfg, _ := config.Load()

	fmt.Println()
	fmt.Println("  Welcome to runway!")
	fmt.Println("  Press Enter to keep the current value.")
	fmt.Println()

	// 1. Finances
	fmt.Println("  1. Current finances (amounts accept 250000, 250k, $1.2M)")
	amounts := []struct {
		label string
		dst   *float64
	}{
		{"Cash in the bank", &cfg.Finance.Cash},
		{"Monthly revenue ", &cfg.Finance.MonthlyRevenue},
		{"Monthly expenses", &cfg.Finance.MonthlyExpenses},
	}
	for _, a := range amounts {
		for {
			line := prompt(reader, fmt.Sprintf("     %s [%s] > ", a.label, cli.FormatCost(*a.dst)))
			if line == "" {
				break
			}
			v, err := cli.ParseAmount(line)
			if err != nil {
				fmt.Printf("     %v\n", err)
				continue
			}
			*a.dst = v
			break
		}
	}
	fmt.Println()

	// 2. Growth
	fmt.Println("  2. Monthly growth rates (5% or 0.05)")
	rates := []struct {
		label string
		dst   *float64
	}{
		{"Revenue growth", &cfg.Finance.RevenueGrowth},
		{"Expense growth", &cfg.Finance.ExpenseGrowth},
	}
	for _, r := range rates {
		for {
			line := prompt(reader, fmt.Sprintf("     %s [%s] > ", r.label, cli.FormatPercent(*r.dst)))
			if line == "" {
				break
			}
			v, err := cli.ParsePercent(line)
			if err != nil {
				fmt.Printf("     %v\n", err)
				continue
			}
			*r.dst = v
			break
		}
	}
	fmt.Println()

	// 3. Theme
	fmt.Println("  3. Color theme")
	fmt.Println("     (1) Flexoki Dark [default]")
	fmt.Println("     (2) Terminal (ANSI 16)")
	switch prompt(reader, "     > ") {
	case "2":
		cfg.Appearance.Theme = "terminal"
	default:
		cfg.Appearance.Theme = "flexoki-dark"
	}
	fmt.Println()

	// 4. Forecast service
	fmt.Println("  4. Forecast service (optional)")
	if url := prompt(reader, fmt.Sprintf("     Base URL [%s] > ", orNone(cfg.Forecast.BaseURL))); url != "" {
		cfg.Forecast.BaseURL = url
	}
	if cfg.Forecast.BaseURL != "" {
		if key := prompt(reader, fmt.Sprintf("     API key [%s] > ", orNone(maskAPIKey(cfg.Forecast.APIKey)))); key != "" {
			cfg.Forecast.APIKey = key
		}
	}

	// Save
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println("  Run `runway setup` anytime to reconfigure.")
	fmt.Println()

	return nil
}

func prompt(r *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := r.ReadString('\n')
	return strings.TrimSpace(line)
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

func maskAPIKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) > 16 {
		return key[:8] + "..." + key[len(key)-4:]
	}
	if len(key) > 4 {
		return key[:4] + "..."
	}
	return "****"
}
