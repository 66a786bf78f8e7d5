package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/runway/internal/cli"
	"github.com/theirongolddev/runway/internal/config"
	"github.com/theirongolddev/runway/internal/tui/theme"
)

// setupValues backs the first-run form. Amounts stay as text until the
// form completes so users can type "250k" or "$1.2M".
type setupValues struct {
	cash          string
	revenue       string
	expenses      string
	revenueGrowth string
	expenseGrowth string
	theme         string
}

func newSetupValues(cfg config.Config) *setupValues {
	return &setupValues{
		cash:          amountText(cfg.Finance.Cash),
		revenue:       amountText(cfg.Finance.MonthlyRevenue),
		expenses:      amountText(cfg.Finance.MonthlyExpenses),
		revenueGrowth: percentText(cfg.Finance.RevenueGrowth),
		expenseGrowth: percentText(cfg.Finance.ExpenseGrowth),
		theme:         cfg.Appearance.Theme,
	}
}

func amountText(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func percentText(f float64) string {
	if f == 0 {
		return ""
	}
	return strconv.FormatFloat(f*100, 'f', -1, 64) + "%"
}

func validateAmount(s string) error {
	if s == "" {
		return nil
	}
	if _, err := cli.ParseAmount(s); err != nil {
		return fmt.Errorf("enter a dollar amount like 250000 or 250k")
	}
	return nil
}

func validatePercent(s string) error {
	if s == "" {
		return nil
	}
	if _, err := cli.ParsePercent(s); err != nil {
		return fmt.Errorf("enter a monthly rate like 5%% or 0.05")
	}
	return nil
}

func newSetupForm(v *setupValues) *huh.Form {
	themes := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themes = append(themes, huh.NewOption(t.Name, t.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to runway").
				Description("Enter your current finances. Every hire you plan\nis projected against these numbers."),
			huh.NewInput().
				Title("Cash in the bank").
				Placeholder("500k").
				Value(&v.cash).
				Validate(validateAmount),
			huh.NewInput().
				Title("Monthly revenue").
				Placeholder("40k").
				Value(&v.revenue).
				Validate(validateAmount),
			huh.NewInput().
				Title("Monthly expenses (before new hires)").
				Placeholder("80k").
				Value(&v.expenses).
				Validate(validateAmount),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Monthly revenue growth").
				Placeholder("5%").
				Value(&v.revenueGrowth).
				Validate(validatePercent),
			huh.NewInput().
				Title("Monthly expense growth").
				Placeholder("0%").
				Value(&v.expenseGrowth).
				Validate(validatePercent),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themes...).
				Value(&v.theme),
		),
	).WithShowHelp(true)
}

// apply converts the form text into cfg. Blank fields keep cfg's values.
func (v *setupValues) apply(cfg config.Config) (config.Config, error) {
	amounts := []struct {
		text string
		dst  *float64
	}{
		{v.cash, &cfg.Finance.Cash},
		{v.revenue, &cfg.Finance.MonthlyRevenue},
		{v.expenses, &cfg.Finance.MonthlyExpenses},
	}
	for _, a := range amounts {
		if a.text == "" {
			continue
		}
		n, err := cli.ParseAmount(a.text)
		if err != nil {
			return cfg, err
		}
		*a.dst = n
	}

	rates := []struct {
		text string
		dst  *float64
	}{
		{v.revenueGrowth, &cfg.Finance.RevenueGrowth},
		{v.expenseGrowth, &cfg.Finance.ExpenseGrowth},
	}
	for _, r := range rates {
		if r.text == "" {
			continue
		}
		n, err := cli.ParsePercent(r.text)
		if err != nil {
			return cfg, err
		}
		*r.dst = n
	}

	if v.theme != "" {
		cfg.Appearance.Theme = v.theme
	}
	return cfg, nil
}

// applySetup folds the completed form into the app and persists it.
func (a *App) applySetup() error {
	cfg, err := a.setupVals.apply(a.cfg)
	if err != nil {
		return err
	}
	a.cfg = cfg
	theme.SetActive(cfg.Appearance.Theme)
	a.recompute()
	return a.saveConfig(cfg)
}
