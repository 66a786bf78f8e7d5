package cli

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrBadAmount is returned for money strings that cannot be parsed.
var ErrBadAmount = errors.New("invalid amount")

// ParseAmount parses a money string such as "12000", "$1,250,000", "500k"
// or "1.2M". Negative amounts are allowed.
func ParseAmount(s string) (float64, error) {
	raw := s
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "_", "")
	if s == "" {
		return 0, fmt.Errorf("%w: %q", ErrBadAmount, raw)
	}

	mult := 1.0
	switch s[len(s)-1] {
	case 'k', 'K':
		mult = 1e3
	case 'm', 'M':
		mult = 1e6
	case 'b', 'B':
		mult = 1e9
	}
	if mult != 1 {
		s = s[:len(s)-1]
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrBadAmount, raw)
	}
	v *= mult
	if neg {
		v = -v
	}
	return v, nil
}

// ParsePercent parses a monthly growth rate: "5%", "0.05" and "5" all mean 5%.
func ParsePercent(s string) (float64, error) {
	raw := s
	s = strings.TrimSpace(s)
	pct := strings.HasSuffix(s, "%")
	s = strings.TrimSuffix(s, "%")
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid percent %q", raw)
	}
	if pct || v > 1 || v < -1 {
		v /= 100
	}
	return v, nil
}
