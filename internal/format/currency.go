// Package format renders monetary values for display.
package format

import (
	"github.com/shopspring/decimal"
)

// Placeholder is shown for unknown values.
const Placeholder = "N/A"

var million = decimal.NewFromInt(1_000_000)

// Millions renders v as euros in millions with the given number of
// decimals, e.g. Millions(50_000_000, 1) == "€50.0M".
func Millions(v decimal.Decimal, places int32) string {
	return "€" + v.Div(million).StringFixed(places) + "M"
}

// NullMillions is Millions for a nullable value.
func NullMillions(v decimal.NullDecimal, places int32) string {
	if !v.Valid {
		return Placeholder
	}
	return Millions(v.Decimal, places)
}

// OrPlaceholder returns s, or Placeholder when s is empty.
func OrPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}
