package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// envOverrides lists the environment variables that take precedence over
// the config file. Unset variables leave the config untouched.
type envOverrides struct {
	Cash            *float64 `env:"RUNWAY_CASH"`
	MonthlyRevenue  *float64 `env:"RUNWAY_MONTHLY_REVENUE"`
	MonthlyExpenses *float64 `env:"RUNWAY_MONTHLY_EXPENSES"`
	RevenueGrowth   *float64 `env:"RUNWAY_REVENUE_GROWTH"`
	ExpenseGrowth   *float64 `env:"RUNWAY_EXPENSE_GROWTH"`
	PlanFile        string   `env:"RUNWAY_PLAN"`
	ForecastURL     string   `env:"RUNWAY_FORECAST_URL"`
	ForecastKey     string   `env:"RUNWAY_FORECAST_KEY"`
	ListenAddr      string   `env:"RUNWAY_LISTEN_ADDR"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ApplyEnv overlays RUNWAY_* environment variables onto cfg.
func ApplyEnv(cfg *Config) error {
	var o envOverrides
	if err := ParseEnv(&o); err != nil {
		return err
	}

	setFloat := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	setFloat(&cfg.Finance.Cash, o.Cash)
	setFloat(&cfg.Finance.MonthlyRevenue, o.MonthlyRevenue)
	setFloat(&cfg.Finance.MonthlyExpenses, o.MonthlyExpenses)
	setFloat(&cfg.Finance.RevenueGrowth, o.RevenueGrowth)
	setFloat(&cfg.Finance.ExpenseGrowth, o.ExpenseGrowth)

	if o.PlanFile != "" {
		cfg.General.PlanFile = o.PlanFile
	}
	if o.ForecastURL != "" {
		cfg.Forecast.BaseURL = o.ForecastURL
	}
	if o.ForecastKey != "" {
		cfg.Forecast.APIKey = o.ForecastKey
	}
	if o.ListenAddr != "" {
		cfg.Server.Addr = o.ListenAddr
	}
	return nil
}
