package players

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Trend classifies the predicted value against the latest known value.
type Trend string

const (
	TrendIncrease Trend = "increase"
	TrendDecrease Trend = "decrease"
	TrendNoChange Trend = "no_change"
	TrendUnknown  Trend = "unknown"
)

// DeriveTrend compares predicted to current. Either side being null yields
// TrendUnknown.
func DeriveTrend(current, predicted decimal.NullDecimal) Trend {
	if !current.Valid || !predicted.Valid {
		return TrendUnknown
	}
	switch predicted.Decimal.Cmp(current.Decimal) {
	case 1:
		return TrendIncrease
	case -1:
		return TrendDecrease
	default:
		return TrendNoChange
	}
}

// ParseTrend parses a user supplied trend. The empty string parses to
// NoSelection.
func ParseTrend(s string) (Trend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return NoSelection, nil
	case "increase", "up":
		return TrendIncrease, nil
	case "decrease", "down":
		return TrendDecrease, nil
	case "no_change", "nochange", "no change", "same":
		return TrendNoChange, nil
	case "unknown":
		return TrendUnknown, nil
	}
	return NoSelection, fmt.Errorf("unknown trend %q", s)
}
