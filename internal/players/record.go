package players

import (
	"github.com/shopspring/decimal"

	"market-value-dashboard/internal/dataset"
)

// Record is the joined view of one player. Name, Club, Position and
// SubPosition are empty when unknown; Profile is nil when the profile
// source has no row for the player.
type Record struct {
	PlayerID      string                                          `json:"player_id"`
	Name          string                                          `json:"name"`
	History       [len(dataset.HistoryYears)]decimal.NullDecimal `json:"history"`
	Predicted2026 decimal.NullDecimal                             `json:"predicted_value_2026"`
	Club          string                                          `json:"club"`
	Position      string                                          `json:"position"`
	SubPosition   string                                          `json:"sub_position"`
	Profile       *Profile                                        `json:"profile"`
	Trend         Trend                                           `json:"trend"`
}

// Profile carries the biographical fields of a player.
type Profile struct {
	CountryOfCitizenship   string              `json:"country_of_citizenship"`
	CityOfBirth            string              `json:"city_of_birth"`
	CountryOfBirth         string              `json:"country_of_birth"`
	DateOfBirth            string              `json:"date_of_birth"`
	HeightCM               int                 `json:"height_cm"`
	Foot                   string              `json:"foot"`
	ContractExpirationDate string              `json:"contract_expiration_date"`
	AgentName              string              `json:"agent_name"`
	ImageURL               string              `json:"image_url"`
	HighestMarketValue     decimal.NullDecimal `json:"highest_market_value"`
}

// Point is one chart point of a player's value series.
type Point struct {
	Year      int             `json:"year"`
	Value     decimal.Decimal `json:"value"`
	Predicted bool            `json:"predicted"`
}

// Value2024 returns the latest known market value.
func (r Record) Value2024() decimal.NullDecimal {
	return r.History[len(r.History)-1]
}

// Series returns the known history values oldest first, followed by the
// 2026 prediction when there is one.
func (r Record) Series() []Point {
	points := make([]Point, 0, len(r.History)+1)
	for i, v := range r.History {
		if v.Valid {
			points = append(points, Point{Year: dataset.HistoryYears[i], Value: v.Decimal})
		}
	}
	if r.Predicted2026.Valid {
		points = append(points, Point{Year: dataset.PredictedYear, Value: r.Predicted2026.Decimal, Predicted: true})
	}
	return points
}

// clone returns a copy that shares nothing mutable with r.
func (r Record) clone() Record {
	if r.Profile != nil {
		p := *r.Profile
		r.Profile = &p
	}
	return r
}
