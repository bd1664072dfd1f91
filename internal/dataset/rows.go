package dataset

import "github.com/shopspring/decimal"

// Source names.
const (
	SourcePredictions = "predictions"
	SourceHistory     = "history"
	SourceProfiles    = "profiles"
)

// HistoryYears are the seasons carried by the history source, oldest first.
var HistoryYears = [...]int{2019, 2020, 2021, 2022, 2023, 2024}

// PredictedYear is the season the prediction source forecasts.
const PredictedYear = 2026

// PredictionRow is one line of the predictions source.
type PredictionRow struct {
	PlayerID           string
	PredictedValue2026 decimal.NullDecimal
}

// HistoryRow is one line of the market value history source.
type HistoryRow struct {
	PlayerID string
	Name     string
	// Values holds value_2019..value_2024 in HistoryYears order.
	Values          [len(HistoryYears)]decimal.NullDecimal
	CurrentClubName string
}

// Value2024 returns the most recent known season value.
func (r HistoryRow) Value2024() decimal.NullDecimal {
	return r.Values[len(r.Values)-1]
}

// ProfileRow is one line of the player profile source.
// Empty strings and a zero HeightCM mean the value is unknown.
type ProfileRow struct {
	PlayerID               string
	Name                   string
	CountryOfCitizenship   string
	CityOfBirth            string
	CountryOfBirth         string
	DateOfBirth            string
	HeightCM               int
	Foot                   string
	Position               string
	SubPosition            string
	ContractExpirationDate string
	AgentName              string
	ImageURL               string
	HighestMarketValue     decimal.NullDecimal
	CurrentClubName        string
}

// Table is a decoded source. Rows keep file order; Duplicates counts rows
// dropped because their player id was already seen.
type Table[T any] struct {
	Rows       []T
	Duplicates int
}
