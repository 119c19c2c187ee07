package utils

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format for dates (due dates, payment dates).
const DateLayout = "2006-01-02"

// ParseAmount parses a monetary amount from its wire representation.
// Accepts plain decimal strings with an optional thousands-free comma
// decimal separator ("1500,50" is treated as "1500.50").
func ParseAmount(raw string) (decimal.Decimal, error) {
	normalized := strings.TrimSpace(raw)
	if strings.Count(normalized, ",") == 1 && !strings.Contains(normalized, ".") {
		normalized = strings.Replace(normalized, ",", ".", 1)
	}
	return decimal.NewFromString(normalized)
}

// ParseDateOr parses a wire date, falling back to the given default when the
// input is empty or malformed.
func ParseDateOr(raw string, fallback time.Time) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	d, err := time.Parse(DateLayout, raw)
	if err != nil {
		return fallback
	}
	return d
}

// FormatDate renders a time in the wire date format.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Today returns the current date truncated to midnight UTC. The overdue
// cutoff and default payment date both key on calendar days, not clock time.
func Today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}
