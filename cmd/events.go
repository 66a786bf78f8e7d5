package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/runway/internal/cli"
	"github.com/theirongolddev/runway/internal/pipeline"
)

var flagEventsUntil int

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Hire timeline: when each role's cost starts",
	RunE:  runEvents,
}

func init() {
	eventsCmd.Flags().IntVar(&flagEventsUntil, "until", 0, "Only show hires starting on or before this month")
	rootCmd.AddCommand(eventsCmd)
}

func runEvents(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	p, err := loadPlanner(cfg)
	if err != nil {
		return err
	}
	impact := p.Impact()
	events := impact.HireEvents
	if flagEventsUntil > 0 {
		events = pipeline.EventsUpTo(events, flagEventsUntil)
	}

	if flagJSON {
		return printJSON(events)
	}

	if len(events) == 0 {
		fmt.Println("\n  No hires planned. Try `runway set eng --count 2`.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("HIRE TIMELINE"))
	fmt.Println()

	rows := make([][]string, 0, len(events))
	for _, ev := range events {
		rows = append(rows, []string{
			cli.FormatMonth(ev.Month),
			ev.RoleTitle,
			cli.FormatHeadcount(ev.Count),
			cli.FormatCost(ev.Salary),
			cli.FormatCost(ev.Salary * float64(ev.Count)),
			cli.FormatCost(ev.CumulativeImpact),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Month", "Role", "Hires", "Salary", "Adds", "Cumulative"},
		Rows:    rows,
	}))
	return nil
}
