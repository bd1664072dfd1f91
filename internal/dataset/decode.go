package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	predictionColumns = []string{"player_id", "predicted_value_2026"}

	// current_club_name is read when present; merged_df_2026.csv ships without it.
	historyColumns = []string{
		"player_id", "name",
		"value_2019", "value_2020", "value_2021", "value_2022", "value_2023", "value_2024",
	}

	profileColumns = []string{
		"player_id", "name", "country_of_citizenship", "city_of_birth", "country_of_birth",
		"date_of_birth", "height_in_cm", "foot", "position", "sub_position",
		"contract_expiration_date", "agent_name", "image_url",
		"highest_market_value_in_eur", "current_club_name",
	}
)

var errNegative = errors.New("monetary value must not be negative")

// row gives named access to one CSV record.
type row struct {
	source string
	line   int
	index  map[string]int
	fields []string
}

func (r row) get(column string) string {
	i, ok := r.index[column]
	if !ok {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

func (r row) fail(column string, err error) *ParseError {
	return &ParseError{Source: r.source, Line: r.line, Column: column, Value: r.get(column), Err: err}
}

func (r row) playerID() (string, error) {
	id := normalizeID(r.get("player_id"))
	if id == "" {
		return "", r.fail("player_id", errors.New("player id is empty"))
	}
	return id, nil
}

func (r row) money(column string) (decimal.NullDecimal, error) {
	raw := r.get(column)
	if isNull(raw) {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NullDecimal{}, r.fail(column, err)
	}
	if d.IsNegative() {
		return decimal.NullDecimal{}, r.fail(column, errNegative)
	}
	return decimal.NewNullDecimal(d), nil
}

func (r row) text(column string) string {
	raw := r.get(column)
	if isNull(raw) {
		return ""
	}
	return raw
}

func (r row) centimetres(column string) (int, error) {
	raw := r.get(column)
	if isNull(raw) {
		return 0, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, r.fail(column, err)
	}
	if f < 0 {
		return 0, r.fail(column, errors.New("height must not be negative"))
	}
	return int(f), nil
}

// isNull reports whether a cell holds one of the null spellings the
// upstream exports use.
func isNull(s string) bool {
	switch strings.ToLower(s) {
	case "", "nan", "null", "none", "n/a", "na":
		return true
	}
	return false
}

// normalizeID strips the ".0" suffix that float-typed id columns pick up on
// export, so "12345.0" and "12345" join.
func normalizeID(id string) string {
	if whole, ok := strings.CutSuffix(id, ".0"); ok && whole != "" {
		if _, err := strconv.ParseUint(whole, 10, 64); err == nil {
			return whole
		}
	}
	return id
}

// decode reads a CSV stream with a header line, checks that every required
// column is present, and builds one T per record. The first row for a
// player id wins; later ones are counted in Duplicates and skipped.
func decode[T any](source string, r io.Reader, required []string, build func(row) (T, string, error)) (Table[T], error) {
	var table Table[T]

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 0 // header fixes the width; short and long rows are ParseErrors

	header, err := cr.Read()
	if err == io.EOF {
		return table, &SchemaError{Source: source, Column: required[0]}
	}
	if err != nil {
		return table, &ParseError{Source: source, Line: 1, Err: err}
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}
	for _, column := range required {
		if _, ok := index[column]; !ok {
			return table, &SchemaError{Source: source, Column: column}
		}
	}

	seen := make(map[string]struct{})
	for line := 2; ; line++ {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return table, &ParseError{Source: source, Line: line, Err: err}
		}

		item, id, err := build(row{source: source, line: line, index: index, fields: fields})
		if err != nil {
			return table, err
		}
		if _, dup := seen[id]; dup {
			table.Duplicates++
			continue
		}
		seen[id] = struct{}{}
		table.Rows = append(table.Rows, item)
	}

	return table, nil
}

// DecodePredictions decodes the predictions source.
func DecodePredictions(r io.Reader) (Table[PredictionRow], error) {
	return decode(SourcePredictions, r, predictionColumns, func(rw row) (PredictionRow, string, error) {
		id, err := rw.playerID()
		if err != nil {
			return PredictionRow{}, "", err
		}
		value, err := rw.money("predicted_value_2026")
		if err != nil {
			return PredictionRow{}, "", err
		}
		return PredictionRow{PlayerID: id, PredictedValue2026: value}, id, nil
	})
}

// DecodeHistory decodes the market value history source. The
// current_club_name column is optional here; profiles carry it too.
func DecodeHistory(r io.Reader) (Table[HistoryRow], error) {
	return decode(SourceHistory, r, historyColumns, func(rw row) (HistoryRow, string, error) {
		id, err := rw.playerID()
		if err != nil {
			return HistoryRow{}, "", err
		}
		h := HistoryRow{
			PlayerID:        id,
			Name:            rw.text("name"),
			CurrentClubName: rw.text("current_club_name"),
		}
		for i, year := range HistoryYears {
			h.Values[i], err = rw.money(fmt.Sprintf("value_%d", year))
			if err != nil {
				return HistoryRow{}, "", err
			}
		}
		return h, id, nil
	})
}

// DecodeProfiles decodes the player profile source.
func DecodeProfiles(r io.Reader) (Table[ProfileRow], error) {
	return decode(SourceProfiles, r, profileColumns, func(rw row) (ProfileRow, string, error) {
		id, err := rw.playerID()
		if err != nil {
			return ProfileRow{}, "", err
		}
		height, err := rw.centimetres("height_in_cm")
		if err != nil {
			return ProfileRow{}, "", err
		}
		highest, err := rw.money("highest_market_value_in_eur")
		if err != nil {
			return ProfileRow{}, "", err
		}
		return ProfileRow{
			PlayerID:               id,
			Name:                   rw.text("name"),
			CountryOfCitizenship:   rw.text("country_of_citizenship"),
			CityOfBirth:            rw.text("city_of_birth"),
			CountryOfBirth:         rw.text("country_of_birth"),
			DateOfBirth:            rw.text("date_of_birth"),
			HeightCM:               height,
			Foot:                   rw.text("foot"),
			Position:               rw.text("position"),
			SubPosition:            rw.text("sub_position"),
			ContractExpirationDate: rw.text("contract_expiration_date"),
			AgentName:              rw.text("agent_name"),
			ImageURL:               rw.text("image_url"),
			HighestMarketValue:     highest,
			CurrentClubName:        rw.text("current_club_name"),
		}, id, nil
	})
}
