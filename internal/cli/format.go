// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

// FormatCompact formats a money amount with human-readable suffixes.
// e.g., 1234 -> "$1.2K", 1234567 -> "$1.2M", -5000 -> "-$5.0K"
func FormatCompact(v float64) string {
	if v < 0 {
		return "-" + FormatCompact(-v)
	}

	switch {
	case v >= 1_000_000_000:
		return fmt.Sprintf("$%.1fB", v/1_000_000_000)
	case v >= 1_000_000:
		return fmt.Sprintf("$%.1fM", v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("$%.1fK", v/1_000)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}

// FormatCost formats a USD amount rounded to whole dollars.
// e.g., 12000 -> "$12,000", -2500.4 -> "-$2,500"
func FormatCost(cost float64) string {
	if cost < 0 {
		return "-" + FormatCost(-cost)
	}
	return "$" + FormatNumber(int64(math.Round(cost)))
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatDelta formats a cost delta with sign.
func FormatDelta(current, previous float64) string {
	delta := current - previous
	if delta >= 0 {
		return "+" + FormatCost(delta)
	}
	return "-" + FormatCost(-delta)
}

// FormatRunway formats a runway length in months. Profitable plans never
// run out of cash and render as "∞".
func FormatRunway(months float64, profitable bool) string {
	if profitable || math.IsInf(months, 1) {
		return "∞"
	}
	if months <= 0 {
		return "0 mo"
	}
	return fmt.Sprintf("%.1f mo", months)
}

// FormatMonth formats a 1-based projection month.
func FormatMonth(m int) string {
	return fmt.Sprintf("M%d", m)
}

// FormatHeadcount formats a hire count with a unit.
func FormatHeadcount(n int) string {
	if n == 1 {
		return "1 hire"
	}
	return humanize.Comma(int64(n)) + " hires"
}
