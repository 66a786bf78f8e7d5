package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/runway/internal/cli"
	"github.com/theirongolddev/runway/internal/config"
	"github.com/theirongolddev/runway/internal/tui/components"
	"github.com/theirongolddev/runway/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	settingsFieldCash = iota
	settingsFieldRevenue
	settingsFieldExpenses
	settingsFieldRevenueGrowth
	settingsFieldExpenseGrowth
	settingsFieldMonths
	settingsFieldTheme
	settingsFieldForecastURL
	settingsFieldCount // sentinel
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool  // flash "saved" message briefly
	saveErr error // non-nil if last save or parse failed
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 50
	return ti
}

func (a App) updateSettingsKeys(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "j", "down":
		if a.settings.cursor < settingsFieldCount-1 {
			a.settings.cursor++
		}
	case "k", "up":
		if a.settings.cursor > 0 {
			a.settings.cursor--
		}
	case "enter", "e":
		return a.settingsStartEdit()
	}
	return a, nil
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	a.settings.editing = true
	a.settings.saved = false
	a.settings.saveErr = nil

	ti := newSettingsInput()
	f := a.cfg.Finance

	switch a.settings.cursor {
	case settingsFieldCash:
		ti.Placeholder = "500000 or 500k"
		ti.SetValue(amountText(f.Cash))
	case settingsFieldRevenue:
		ti.Placeholder = "40000 or 40k"
		ti.SetValue(amountText(f.MonthlyRevenue))
	case settingsFieldExpenses:
		ti.Placeholder = "80000 or 80k"
		ti.SetValue(amountText(f.MonthlyExpenses))
	case settingsFieldRevenueGrowth:
		ti.Placeholder = "5% per month"
		ti.SetValue(percentText(f.RevenueGrowth))
	case settingsFieldExpenseGrowth:
		ti.Placeholder = "0% per month"
		ti.SetValue(percentText(f.ExpenseGrowth))
	case settingsFieldMonths:
		ti.Placeholder = "24 (1-120)"
		ti.SetValue(strconv.Itoa(a.months()))
	case settingsFieldTheme:
		ti.Placeholder = strings.Join(theme.Names(), ", ")
		ti.SetValue(a.cfg.Appearance.Theme)
	case settingsFieldForecastURL:
		ti.Placeholder = "https://forecast.example.com (empty to disable)"
		ti.SetValue(a.cfg.Forecast.BaseURL)
	}

	ti.CursorEnd()
	ti.Focus()
	a.settings.input = ti
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settings.saveErr = a.settingsSave()
		a.settings.editing = false
		a.settings.saved = a.settings.saveErr == nil
		return a, nil
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

// settingsSave applies the edited field to the live config and persists it.
func (a *App) settingsSave() error {
	cfg := a.cfg
	val := strings.TrimSpace(a.settings.input.Value())

	amount := func(dst *float64) error {
		v, err := cli.ParseAmount(val)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
	rate := func(dst *float64) error {
		v, err := cli.ParsePercent(val)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}

	var err error
	switch a.settings.cursor {
	case settingsFieldCash:
		err = amount(&cfg.Finance.Cash)
	case settingsFieldRevenue:
		err = amount(&cfg.Finance.MonthlyRevenue)
	case settingsFieldExpenses:
		err = amount(&cfg.Finance.MonthlyExpenses)
	case settingsFieldRevenueGrowth:
		err = rate(&cfg.Finance.RevenueGrowth)
	case settingsFieldExpenseGrowth:
		err = rate(&cfg.Finance.ExpenseGrowth)
	case settingsFieldMonths:
		n, convErr := strconv.Atoi(val)
		if convErr != nil || n < 1 || n > 120 {
			err = fmt.Errorf("months must be between 1 and 120")
		} else {
			cfg.General.ProjectionMonths = n
		}
	case settingsFieldTheme:
		if !isThemeName(val) {
			err = fmt.Errorf("unknown theme %q", val)
		} else {
			cfg.Appearance.Theme = val
			theme.SetActive(val)
		}
	case settingsFieldForecastURL:
		cfg.Forecast.BaseURL = val
	}
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.recompute()
	return a.saveConfig(cfg)
}

func isThemeName(name string) bool {
	for _, t := range theme.All {
		if t.Name == name {
			return true
		}
	}
	return false
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	cfg := a.cfg

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	greenStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	type field struct {
		label string
		value string
	}

	forecastDisplay := "(local only)"
	if cfg.Forecast.BaseURL != "" {
		forecastDisplay = cfg.Forecast.BaseURL
	}

	fields := []field{
		{"Cash", cli.FormatCost(cfg.Finance.Cash)},
		{"Monthly Revenue", cli.FormatCost(cfg.Finance.MonthlyRevenue)},
		{"Monthly Expenses", cli.FormatCost(cfg.Finance.MonthlyExpenses)},
		{"Revenue Growth", cli.FormatPercent(cfg.Finance.RevenueGrowth) + "/mo"},
		{"Expense Growth", cli.FormatPercent(cfg.Finance.ExpenseGrowth) + "/mo"},
		{"Projection", strconv.Itoa(a.months()) + " months"},
		{"Theme", cfg.Appearance.Theme},
		{"Forecast URL", forecastDisplay},
	}

	innerW := components.CardInnerWidth(cw)

	var formBody strings.Builder
	for i, f := range fields {
		// Show text input if currently editing this field
		if a.settings.editing && i == a.settings.cursor {
			formBody.WriteString(markerStyle.Render("▸ "))
			formBody.WriteString(accentStyle.Render(fmt.Sprintf("%-18s ", f.label)))
			formBody.WriteString(a.settings.input.View())
			formBody.WriteString("\n")
			continue
		}

		if i == a.settings.cursor {
			marker := markerStyle.Render("▸ ")
			label := selectedLabelStyle.Render(fmt.Sprintf("%-18s ", f.label+":"))
			value := selectedStyle.Render(f.value)
			formBody.WriteString(marker)
			formBody.WriteString(label)
			formBody.WriteString(value)
			usedWidth := lipgloss.Width(marker) + lipgloss.Width(label) + lipgloss.Width(value)
			if padLen := innerW - usedWidth; padLen > 0 {
				formBody.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", padLen)))
			}
		} else {
			formBody.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			formBody.WriteString(labelStyle.Render(fmt.Sprintf("%-18s ", f.label+":")))
			formBody.WriteString(valueStyle.Render(f.value))
		}
		formBody.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		formBody.WriteString("\n")
		formBody.WriteString(warnStyle.Render(fmt.Sprintf("Not saved: %s", a.settings.saveErr)))
	} else if a.settings.saved {
		formBody.WriteString("\n")
		formBody.WriteString(greenStyle.Render("Saved!"))
	}

	formBody.WriteString("\n")
	formBody.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel"))

	planPath := a.planPath
	if planPath == "" {
		planPath = "(not saved)"
	}

	var infoBody strings.Builder
	infoBody.WriteString(labelStyle.Render("Config file:   ") + valueStyle.Render(config.Path()) + "\n")
	infoBody.WriteString(labelStyle.Render("Plan file:     ") + valueStyle.Render(planPath) + "\n")
	infoBody.WriteString(labelStyle.Render("Roles planned: ") + valueStyle.Render(cli.FormatNumber(int64(len(a.impact.Roles)))))

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", formBody.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Files", infoBody.String(), cw))

	return b.String()
}
