package forecast

import (
	"time"

	"github.com/theirongolddev/runway/internal/model"
)

// Request is the body POSTed to the forecast service.
// Payroll[i] is the hiring payroll delta active in month i+1.
type Request struct {
	Baseline model.Baseline `json:"baseline"`
	Payroll  []float64      `json:"payroll"`
	Months   int            `json:"months"`
}

// Response is the forecast service reply.
type Response struct {
	Model       string                  `json:"model,omitempty"`
	Projections []model.MonthProjection `json:"projections"`
}

// Result is a runway forecast along with where it came from.
type Result struct {
	Summary   model.RunwaySummary
	Model     string
	FetchedAt time.Time
	Error     error // last remote error, if the result fell back
}
