package players

import "github.com/shopspring/decimal"

// NoSelection is the "nothing chosen" value for ByClub, ByPosition and
// ByTrend. Filters built from it match every record.
const NoSelection = ""

// Filter reports whether a record should be kept.
type Filter func(r *Record) bool

func matchAll(*Record) bool { return true }

// All combines filters by conjunction. Nil filters are ignored.
func All(filters ...Filter) Filter {
	active := make([]Filter, 0, len(filters))
	for _, f := range filters {
		if f != nil {
			active = append(active, f)
		}
	}
	if len(active) == 0 {
		return matchAll
	}
	return func(r *Record) bool {
		for _, f := range active {
			if !f(r) {
				return false
			}
		}
		return true
	}
}

// ByClub keeps records whose club equals club.
func ByClub(club string) Filter {
	if club == NoSelection {
		return matchAll
	}
	return func(r *Record) bool { return r.Club == club }
}

// ByPosition keeps records whose position or sub-position equals position,
// so both "Attack" and "Centre-Forward" work.
func ByPosition(position string) Filter {
	if position == NoSelection {
		return matchAll
	}
	return func(r *Record) bool { return r.Position == position || r.SubPosition == position }
}

// ByTrend keeps records with the given trend.
func ByTrend(trend Trend) Filter {
	if trend == NoSelection {
		return matchAll
	}
	return func(r *Record) bool { return r.Trend == trend }
}

// ByMinPredictedValue keeps records predicted at or above threshold.
func ByMinPredictedValue(threshold decimal.Decimal) Filter {
	return func(r *Record) bool {
		return r.Predicted2026.Valid && r.Predicted2026.Decimal.GreaterThanOrEqual(threshold)
	}
}
