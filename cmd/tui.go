package cmd

import (
	"fmt"

	"github.com/theirongolddev/runway/internal/config"
	"github.com/theirongolddev/runway/internal/tui"
	"github.com/theirongolddev/runway/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	theme.SetActive(cfg.Appearance.Theme)

	path := planPath(cfg)
	roles, err := config.LoadPlan(path)
	if err != nil {
		return fmt.Errorf("loading plan %s: %w", path, err)
	}

	// Logging would corrupt the alt screen; only errors get through.
	log := newLogger()
	log.SetLevel(logrus.ErrorLevel)
	forecaster, closeFn := openForecaster(cfg, log)
	defer closeFn()

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	app, err := tui.NewApp(tui.Options{
		Config:     cfg,
		Roles:      roles,
		PlanPath:   path,
		Forecaster: forecaster,
		NeedSetup:  !config.Exists(),
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
