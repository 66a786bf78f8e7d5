package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/runway/internal/cli"
	"github.com/theirongolddev/runway/internal/forecast"
	"github.com/theirongolddev/runway/internal/model"
	"github.com/theirongolddev/runway/internal/pipeline"
)

var flagRemote bool

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Month-by-month cash projection with the current plan",
	RunE:  runSimulate,
}

func init() {
	simulateCmd.Flags().BoolVar(&flagRemote, "remote", false, "Use the configured forecast service, falling back to the local model")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	p, err := loadPlanner(cfg)
	if err != nil {
		return err
	}

	months := cfg.General.ProjectionMonths
	impact := p.Impact()

	var s model.RunwaySummary
	if flagRemote {
		f, closeFn := openForecaster(cfg, newLogger())
		res := fetchForecast(f, cfg.Finance, impact, months)
		closeFn()
		s = res.Summary
		if res.Error != nil && !flagQuiet {
			fmt.Fprintf(os.Stderr, "  Remote forecast failed (%v), using local model\n", res.Error)
		}
	} else {
		s = pipeline.Run(cfg.Finance, impact, months)
	}

	if flagJSON {
		return printJSON(s)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("CASH PROJECTION  %d months · %s", months, s.Source)))
	fmt.Println()

	rows := make([][]string, 0, len(s.Months))
	for _, m := range s.Months {
		rows = append(rows, []string{
			cli.FormatMonth(m.Month),
			cli.FormatCost(m.Revenue),
			cli.FormatCost(m.BaseExpenses),
			cli.FormatCost(m.Payroll),
			cli.FormatCost(m.NetBurn),
			cli.RenderCash(m.Cash),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Month", "Revenue", "Expenses", "Payroll", "Net Burn", "Cash"},
		Rows:    rows,
	}))

	fmt.Println()
	fmt.Printf("  Runway: %s", cli.FormatRunway(s.RunwayMonths, s.Profitable))
	if s.ZeroCashMonth > 0 {
		fmt.Printf("  (cash runs out in %s)", cli.FormatMonth(s.ZeroCashMonth))
	}
	fmt.Println()
	if s.Source != model.SourceLocal {
		fmt.Println(cli.RenderMuted(fmt.Sprintf("  Forecast source: %s", s.Source)))
	}
	return nil
}

// fetchForecast runs one forecast with a bounded timeout.
func fetchForecast(f *forecast.Forecaster, b model.Baseline, impact model.HiringImpact, months int) forecast.Result {
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Fetching forecast...\n")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return f.Forecast(ctx, b, impact, months)
}
