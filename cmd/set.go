package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/runway/internal/cli"
	"github.com/theirongolddev/runway/internal/model"
)

var (
	flagSetCount  int
	flagSetSalary string
	flagSetStart  int
	flagSetTitle  string
)

var setCmd = &cobra.Command{
	Use:   "set <role-id>",
	Short: "Change a role's headcount, salary, start month or title",
	Example: `  runway set eng --count 3 --start 2
  runway set sales --salary 9.5k`,
	Args: cobra.ExactArgs(1),
	RunE: runSet,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Set every role's headcount back to zero",
	RunE:  runReset,
}

func init() {
	setCmd.Flags().IntVar(&flagSetCount, "count", 0, "Number of hires")
	setCmd.Flags().StringVar(&flagSetSalary, "salary", "", "Monthly salary per hire (e.g. 12000, 12k)")
	setCmd.Flags().IntVar(&flagSetStart, "start", 0, "Month the hires start (1-24)")
	setCmd.Flags().StringVar(&flagSetTitle, "title", "", "Display title")
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(resetCmd)
}

func runSet(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	p, err := loadPlanner(cfg)
	if err != nil {
		return err
	}

	id := args[0]
	if _, ok := p.Role(id); !ok {
		return fmt.Errorf("unknown role %q (see `runway roles`)", id)
	}

	var patch model.RolePatch
	if cmd.Flags().Changed("count") {
		patch.Count = &flagSetCount
	}
	if cmd.Flags().Changed("start") {
		patch.StartMonth = &flagSetStart
	}
	if cmd.Flags().Changed("title") {
		patch.Title = &flagSetTitle
	}
	if cmd.Flags().Changed("salary") {
		salary, err := cli.ParseAmount(flagSetSalary)
		if err != nil {
			return err
		}
		patch.Salary = &salary
	}
	if patch.IsEmpty() {
		return fmt.Errorf("nothing to change: pass --count, --salary, --start or --title")
	}

	p.UpdateRole(id, patch)
	if err := savePlanner(cfg, p); err != nil {
		return err
	}

	r, _ := p.Role(id)
	if flagJSON {
		return printJSON(r)
	}
	fmt.Printf("  %s: %s at %s from %s  →  %s/mo\n",
		r.Title, cli.FormatHeadcount(r.Count), cli.FormatCost(r.Salary),
		cli.FormatMonth(r.StartMonth), cli.FormatCost(r.MonthlyCost()))
	fmt.Printf("  Plan total: %s/mo\n", cli.FormatCost(p.Impact().TotalMonthlyIncrease))
	return nil
}

func runReset(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	p, err := loadPlanner(cfg)
	if err != nil {
		return err
	}
	p.Reset()
	if err := savePlanner(cfg, p); err != nil {
		return err
	}
	fmt.Println("  All roles reset to zero hires.")
	return nil
}
