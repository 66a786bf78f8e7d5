package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/runway/internal/cli"
	"github.com/theirongolddev/runway/internal/pipeline"
)

var impactCmd = &cobra.Command{
	Use:   "impact",
	Short: "Added payroll month by month",
	RunE:  runImpact,
}

func init() {
	rootCmd.AddCommand(impactCmd)
}

func runImpact(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	p, err := loadPlanner(cfg)
	if err != nil {
		return err
	}

	months := cfg.General.ProjectionMonths
	impact := p.Impact()
	byMonth := pipeline.ImpactByMonth(impact, months)

	if flagJSON {
		return printJSON(map[string]any{
			"months":                 months,
			"total_monthly_increase": impact.TotalMonthlyIncrease,
			"hire_events":            impact.HireEvents,
			"impact_by_month":        byMonth,
		})
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("PAYROLL IMPACT  %d months", months)))
	fmt.Println()

	maxVal := impact.TotalMonthlyIncrease
	for i, v := range byMonth {
		label := fmt.Sprintf("%-4s %10s", cli.FormatMonth(i+1), cli.FormatCost(v))
		fmt.Println(cli.RenderHorizontalBar(label, v, maxVal, 40))
	}

	fmt.Println()
	fmt.Printf("  Steady state: %s/mo across %s\n",
		cli.FormatCost(impact.TotalMonthlyIncrease), cli.FormatHeadcount(p.TotalNewHires()))
	return nil
}
