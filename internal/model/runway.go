package model

// Baseline holds the company's finances before any planned hires.
// Growth rates are monthly fractions: 0.05 means 5% per month.
type Baseline struct {
	Cash            float64 `json:"cash" toml:"cash"`
	MonthlyRevenue  float64 `json:"monthly_revenue" toml:"monthly_revenue"`
	MonthlyExpenses float64 `json:"monthly_expenses" toml:"monthly_expenses"`
	RevenueGrowth   float64 `json:"revenue_growth" toml:"revenue_growth"`
	ExpenseGrowth   float64 `json:"expense_growth" toml:"expense_growth"`
}

// MonthProjection is one month of a runway simulation.
type MonthProjection struct {
	Month         int     `json:"month"`
	Revenue       float64 `json:"revenue"`
	BaseExpenses  float64 `json:"base_expenses"`
	Payroll       float64 `json:"payroll"`
	TotalExpenses float64 `json:"total_expenses"`
	NetBurn       float64 `json:"net_burn"`
	Cash          float64 `json:"cash"`
}

// BurnMetrics holds point-in-time burn figures.
type BurnMetrics struct {
	GrossBurn    float64 `json:"gross_burn"`
	NetBurn      float64 `json:"net_burn"`
	RunwayMonths float64 `json:"runway_months"` // 0 when Profitable
	Profitable   bool    `json:"profitable"`
}

// Forecast sources.
const (
	SourceLocal  = "local"
	SourceRemote = "remote"
	SourceCache  = "cache"
)

// RunwaySummary is the full result of a runway simulation.
type RunwaySummary struct {
	Months        []MonthProjection `json:"months"`
	StartingCash  float64           `json:"starting_cash"`
	EndingCash    float64           `json:"ending_cash"`
	ZeroCashMonth int               `json:"zero_cash_month"` // 0 if cash never runs out in the window
	RunwayMonths  float64           `json:"runway_months"`
	Profitable    bool              `json:"profitable"`
	Baseline      BurnMetrics       `json:"baseline"`
	WithHires     BurnMetrics       `json:"with_hires"`
	Source        string            `json:"source"`
}
