package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/runway/internal/cli"
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "List planned roles",
	RunE:  runRoles,
}

func init() {
	rootCmd.AddCommand(rolesCmd)
}

func runRoles(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	p, err := loadPlanner(cfg)
	if err != nil {
		return err
	}
	impact := p.Impact()

	if flagJSON {
		return printJSON(map[string]any{
			"roles":                  impact.Roles,
			"total_new_hires":        p.TotalNewHires(),
			"total_monthly_increase": impact.TotalMonthlyIncrease,
		})
	}

	if len(impact.Roles) == 0 {
		fmt.Println("\n  No roles in plan.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("ROLES"))
	fmt.Println()

	rows := make([][]string, 0, len(impact.Roles)+2)
	for _, r := range impact.Roles {
		share := 0.0
		if impact.TotalMonthlyIncrease > 0 {
			share = r.MonthlyCost() / impact.TotalMonthlyIncrease
		}
		rows = append(rows, []string{
			r.ID,
			r.Title,
			fmt.Sprintf("%d", r.Count),
			cli.FormatCost(r.Salary),
			cli.FormatMonth(r.StartMonth),
			cli.FormatCost(r.MonthlyCost()),
			cli.FormatPercent(share),
		})
	}
	rows = append(rows, []string{"---"})
	rows = append(rows, []string{
		"total", "",
		fmt.Sprintf("%d", p.TotalNewHires()),
		"", "",
		cli.FormatCost(impact.TotalMonthlyIncrease),
		"",
	})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"ID", "Title", "Hires", "Salary", "Start", "Monthly", "Share"},
		Rows:    rows,
	}))
	return nil
}
