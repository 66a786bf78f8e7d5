package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/runway/internal/cli"
	"github.com/theirongolddev/runway/internal/pipeline"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Hiring plan and runway at a glance",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	p, err := loadPlanner(cfg)
	if err != nil {
		return err
	}

	months := cfg.General.ProjectionMonths
	impact := p.Impact()
	withHires := pipeline.Run(cfg.Finance, impact, months)
	noHires := pipeline.Run(cfg.Finance, pipeline.ComputeImpact(nil), months)

	if flagJSON {
		return printJSON(map[string]any{
			"impact":   impact,
			"runway":   withHires,
			"baseline": noHires,
		})
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("RUNWAY  Next %d months", months)))
	fmt.Println()

	if cfg.Finance.Cash == 0 && cfg.Finance.MonthlyExpenses == 0 {
		fmt.Println(cli.RenderWarning("No finances configured. Run `runway setup` or set RUNWAY_CASH."))
		fmt.Println()
	}

	runwayStr := cli.FormatRunway(withHires.RunwayMonths, withHires.Profitable)
	if !noHires.Profitable || !withHires.Profitable {
		runwayStr += fmt.Sprintf("  (%s without hires)", cli.FormatRunway(noHires.RunwayMonths, noHires.Profitable))
	}
	zeroStr := "not within window"
	if withHires.ZeroCashMonth > 0 {
		zeroStr = cli.FormatMonth(withHires.ZeroCashMonth)
	}

	rows := [][]string{
		{"New Hires", cli.FormatHeadcount(p.TotalNewHires())},
		{"Payroll Increase", cli.FormatCost(impact.TotalMonthlyIncrease) + "/mo"},
		{"Hire Events", formatNumber(int64(len(impact.HireEvents)))},
		{"---"},
		{"Cash", cli.FormatCost(cfg.Finance.Cash)},
		{"Revenue", cli.FormatCost(cfg.Finance.MonthlyRevenue) + "/mo"},
		{"Expenses", cli.FormatCost(cfg.Finance.MonthlyExpenses) + "/mo"},
		{"Net Burn", fmt.Sprintf("%s/mo → %s/mo",
			cli.FormatCost(withHires.Baseline.NetBurn), cli.FormatCost(withHires.WithHires.NetBurn))},
		{"---"},
		{"Runway", runwayStr},
		{"Cash Runs Out", zeroStr},
		{"Window Covered", coverage(withHires.RunwayMonths, withHires.Profitable, months)},
		{"Ending Cash", fmt.Sprintf("%s  (%s vs no hires)",
			cli.FormatCost(withHires.EndingCash), cli.FormatDelta(withHires.EndingCash, noHires.EndingCash))},
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	if len(withHires.Months) > 0 {
		cash := make([]float64, len(withHires.Months))
		for i, m := range withHires.Months {
			cash[i] = m.Cash
		}
		fmt.Println()
		fmt.Printf("  Cash  %s\n", cli.RenderSparkline(cash))
	}

	return nil
}

// coverage shows how much of the projection window the cash lasts.
func coverage(runway float64, profitable bool, months int) string {
	covered := months
	if !profitable {
		covered = min(int(runway), months)
	}
	return cli.RenderProgressBar(covered, months, 20)
}
