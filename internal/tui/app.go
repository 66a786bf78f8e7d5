// Package tui provides the interactive Bubble Tea dashboard for runway.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/runway/internal/cli"
	"github.com/theirongolddev/runway/internal/config"
	"github.com/theirongolddev/runway/internal/forecast"
	"github.com/theirongolddev/runway/internal/model"
	"github.com/theirongolddev/runway/internal/pipeline"
	"github.com/theirongolddev/runway/internal/planner"
	"github.com/theirongolddev/runway/internal/tui/components"
	"github.com/theirongolddev/runway/internal/tui/theme"
)

// ForecastMsg is sent when a remote forecast request completes.
type ForecastMsg struct {
	Result forecast.Result
	Gen    int
}

// Options configures a new App.
type Options struct {
	Config     config.Config
	Roles      []model.Role
	PlanPath   string
	Forecaster *forecast.Forecaster
	NeedSetup  bool

	// SaveConfig and SavePlan default to the config package writers.
	SaveConfig func(config.Config) error
	SavePlan   func(path string, roles []model.Role) error
}

const (
	tabHiring = iota
	tabRunway
	tabEvents
	tabSettings
)

// App is the root Bubble Tea model.
type App struct {
	// Roster and derived projections. Recomputed on every roster change.
	planner  *planner.Planner
	impact   model.HiringImpact
	summary  model.RunwaySummary
	baseline model.RunwaySummary // same finances with no hires
	gen      int                 // bumps on every recompute

	// Remote forecast for the current generation, if fetched
	remote     *forecast.Result
	forecaster *forecast.Forecaster
	fetching   bool
	spinner    spinner.Model

	cfg        config.Config
	planPath   string
	dirty      bool
	saveErr    error
	saveConfig func(config.Config) error
	savePlan   func(string, []model.Role) error

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Per-tab state
	hiring   hiringState
	settings settingsState

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *setupValues
	needSetup bool
}

const (
	minTerminalWidth = 70
	maxContentWidth  = 160
	minContentHeight = 5
)

// NewApp creates a new TUI app model.
func NewApp(opts Options) (App, error) {
	p, err := planner.New(opts.Roles)
	if err != nil {
		return App{}, fmt.Errorf("loading roster: %w", err)
	}
	if len(opts.Roles) == 0 {
		p = planner.NewDefault()
	}

	if opts.SaveConfig == nil {
		opts.SaveConfig = config.Save
	}
	if opts.SavePlan == nil {
		opts.SavePlan = config.SavePlan
	}
	if opts.Config.General.ProjectionMonths <= 0 {
		opts.Config.General.ProjectionMonths = model.ProjectionMonths
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	a := App{
		planner:    p,
		spinner:    sp,
		forecaster: opts.Forecaster,
		cfg:        opts.Config,
		planPath:   opts.PlanPath,
		saveConfig: opts.SaveConfig,
		savePlan:   opts.SavePlan,
		needSetup:  opts.NeedSetup,
		settings:   settingsState{input: newSettingsInput()},
	}
	a.hiring.input = newSalaryInput()
	if a.needSetup {
		a.setupVals = newSetupValues(a.cfg)
		a.setupForm = newSetupForm(a.setupVals)
	}
	a.recompute()
	return a, nil
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnableMouseCellMotion}
	if a.setupForm != nil {
		cmds = append(cmds, a.setupForm.Init())
	}
	return tea.Batch(cmds...)
}

// months is the projection window.
func (a App) months() int {
	return a.cfg.General.ProjectionMonths
}

// recompute derives impact and both runway projections from the roster.
// It runs synchronously after every roster or finance change.
func (a *App) recompute() {
	a.impact = a.planner.Impact()
	a.summary = pipeline.Run(a.cfg.Finance, a.impact, a.months())
	a.baseline = pipeline.Run(a.cfg.Finance, pipeline.ComputeImpact(nil), a.months())
	a.gen++
	a.remote = nil

	if a.hiring.cursor >= len(a.impact.Roles) {
		a.hiring.cursor = len(a.impact.Roles) - 1
	}
	if a.hiring.cursor < 0 {
		a.hiring.cursor = 0
	}
}

// rosterChanged records a roster mutation.
func (a *App) rosterChanged() {
	a.dirty = true
	a.saveErr = nil
	a.recompute()
}

// activeSummary is the remote forecast when one is current, else the local one.
func (a App) activeSummary() model.RunwaySummary {
	if a.remote != nil {
		return a.remote.Summary
	}
	return a.summary
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if a.showHelp || a.setupForm != nil {
			return a, nil
		}
		return a.updateMouse(msg)

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" {
			return a, tea.Quit
		}

		// First-run setup form intercepts all keys
		if a.setupForm != nil {
			return a.updateSetupForm(msg)
		}

		// Text inputs own the keyboard while editing
		if a.activeTab == tabHiring && a.hiring.editing {
			return a.updateSalaryInput(msg)
		}
		if a.activeTab == tabSettings && a.settings.editing {
			return a.updateSettingsInput(msg)
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		switch key {
		case "q":
			return a, tea.Quit
		case "ctrl+s":
			a.writePlan()
			return a, nil
		case "f":
			return a.startForecast()
		case "tab", "right":
			a.activeTab = (a.activeTab + 1) % len(components.Tabs)
			return a, nil
		case "shift+tab", "left":
			a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
			return a, nil
		}
		if idx := components.TabIdxByKey(key); idx >= 0 {
			a.activeTab = idx
			return a, nil
		}

		switch a.activeTab {
		case tabHiring:
			return a.updateHiringKeys(key)
		case tabSettings:
			return a.updateSettingsKeys(key)
		}
		return a, nil

	case spinner.TickMsg:
		if a.fetching {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case ForecastMsg:
		a.fetching = false
		if msg.Gen == a.gen {
			res := msg.Result
			a.remote = &res
		}
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	// And to whichever text input is focused
	if a.hiring.editing {
		var cmd tea.Cmd
		a.hiring.input, cmd = a.hiring.input.Update(msg)
		return a, cmd
	}
	if a.settings.editing {
		var cmd tea.Cmd
		a.settings.input, cmd = a.settings.input.Update(msg)
		return a, cmd
	}

	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if a.activeTab == tabHiring && a.hiring.cursor > 0 {
			a.hiring.cursor--
		}
	case tea.MouseButtonWheelDown:
		if a.activeTab == tabHiring && a.hiring.cursor < len(a.impact.Roles)-1 {
			a.hiring.cursor++
		}
	case tea.MouseButtonLeft:
		if msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
	}
	return a, nil
}

// writePlan saves the roster to the plan file.
func (a *App) writePlan() {
	if a.planPath == "" {
		return
	}
	a.saveErr = a.savePlan(a.planPath, a.planner.Roles())
	if a.saveErr == nil {
		a.dirty = false
	}
}

// startForecast requests a remote forecast for the current roster.
func (a App) startForecast() (tea.Model, tea.Cmd) {
	if a.forecaster == nil || a.fetching {
		return a, nil
	}
	a.fetching = true
	return a, tea.Batch(
		fetchForecastCmd(a.forecaster, a.cfg.Finance, a.impact, a.months(), a.gen),
		a.spinner.Tick,
	)
}

// fetchForecastCmd runs the forecaster off the UI goroutine.
func fetchForecastCmd(f *forecast.Forecaster, b model.Baseline, impact model.HiringImpact, months, gen int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return ForecastMsg{Result: f.Forecast(ctx, b, impact, months), Gen: gen}
	}
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.saveErr = a.applySetup()
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	return a, cmd
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.setupForm != nil {
		return a.setupForm.View()
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  runway needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"1 2 3 4", "Jump to tab"},
			{"← → Tab", "Previous / Next tab"},
			{"j k", "Select role"},
		}},
		{"Roster", []struct{ key, desc string }{
			{"+ -", "Add / remove a hire"},
			{"[ ]", "Start month earlier / later"},
			{"< >", "Salary -/+ $500"},
			{"e", "Edit salary"},
			{"0", "Reset roster"},
			{"^s", "Save plan file"},
		}},
		{"Other", []struct{ key, desc string }{
			{"f", "Fetch remote forecast"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, sec := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-8s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)
	header = strings.TrimSuffix(header, "\n")

	statusBar := components.RenderStatusBar(w, a.statusHints(), a.statusRight(), a.dirty)

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case tabHiring:
		content = a.renderHiringTab(cw)
	case tabRunway:
		content = a.renderRunwayTab(cw)
	case tabEvents:
		content = a.renderEventsTab(cw)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) statusHints() string {
	switch a.activeTab {
	case tabHiring:
		return "[+/-]count [[/]]start [</>]salary [e]dit [0]reset [?]help"
	case tabSettings:
		return "[j/k]select [Enter]edit [?]help [q]uit"
	}
	return "[f]orecast [^s]save [?]help [q]uit"
}

func (a App) statusRight() string {
	s := a.activeSummary()
	source := s.Source
	switch {
	case a.fetching:
		source = a.spinner.View() + " fetching"
	case a.remote != nil && a.remote.Model != "":
		source += " · " + a.remote.Model
	}
	right := fmt.Sprintf("runway %s · %s", cli.FormatRunway(s.RunwayMonths, s.Profitable), source)
	if a.saveErr != nil {
		right = "save failed · " + right
	}
	return right
}

// ─── Helpers ────────────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		result.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg)))
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// newSalaryInput builds the inline salary editor.
func newSalaryInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "12000 or 12k"
	ti.CharLimit = 16
	ti.Width = 16
	return ti
}
