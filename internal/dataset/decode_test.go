package dataset

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profileHeader = "player_id,name,country_of_citizenship,city_of_birth,country_of_birth,date_of_birth," +
	"height_in_cm,foot,position,sub_position,contract_expiration_date,agent_name,image_url," +
	"highest_market_value_in_eur,current_club_name\n"

func TestDecodePredictions(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		in := ",player_id,predicted_value_2026\n0,1,50000000\n1,2.0,1.25e7\n2,3,\n"

		table, err := DecodePredictions(strings.NewReader(in))

		require.NoError(t, err)
		require.Len(t, table.Rows, 3)
		assert.Equal(t, "1", table.Rows[0].PlayerID)
		assert.True(t, table.Rows[0].PredictedValue2026.Decimal.Equal(decimal.NewFromInt(50_000_000)))
		assert.Equal(t, "2", table.Rows[1].PlayerID)
		assert.True(t, table.Rows[1].PredictedValue2026.Decimal.Equal(decimal.NewFromInt(12_500_000)))
		assert.False(t, table.Rows[2].PredictedValue2026.Valid)
	})

	t.Run("ByteOrderMark", func(t *testing.T) {
		in := "\ufeffplayer_id,predicted_value_2026\n1,10\n"

		table, err := DecodePredictions(strings.NewReader(in))

		require.NoError(t, err)
		assert.Len(t, table.Rows, 1)
	})

	t.Run("MissingColumn", func(t *testing.T) {
		in := "player_id,value\n1,10\n"

		_, err := DecodePredictions(strings.NewReader(in))

		var schemaErr *SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, SourcePredictions, schemaErr.Source)
		assert.Equal(t, "predicted_value_2026", schemaErr.Column)
	})

	t.Run("EmptyInput", func(t *testing.T) {
		_, err := DecodePredictions(strings.NewReader(""))

		var schemaErr *SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, "player_id", schemaErr.Column)
	})

	t.Run("NegativeValue", func(t *testing.T) {
		in := "player_id,predicted_value_2026\n1,-5\n"

		_, err := DecodePredictions(strings.NewReader(in))

		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, 2, parseErr.Line)
		assert.Equal(t, "predicted_value_2026", parseErr.Column)
		assert.ErrorIs(t, err, errNegative)
	})

	t.Run("GarbageValue", func(t *testing.T) {
		in := "player_id,predicted_value_2026\n1,10\n2,lots\n"

		_, err := DecodePredictions(strings.NewReader(in))

		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, 3, parseErr.Line)
		assert.Equal(t, "lots", parseErr.Value)
	})

	t.Run("EmptyPlayerID", func(t *testing.T) {
		in := "player_id,predicted_value_2026\n,10\n"

		_, err := DecodePredictions(strings.NewReader(in))

		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, "player_id", parseErr.Column)
	})

	t.Run("DuplicateIDsKeepFirst", func(t *testing.T) {
		in := "player_id,predicted_value_2026\n1,10\n2,20\n1,30\n1.0,40\n"

		table, err := DecodePredictions(strings.NewReader(in))

		require.NoError(t, err)
		require.Len(t, table.Rows, 2)
		assert.Equal(t, 2, table.Duplicates)
		assert.True(t, table.Rows[0].PredictedValue2026.Decimal.Equal(decimal.NewFromInt(10)))
	})

	t.Run("RaggedRow", func(t *testing.T) {
		in := "player_id,predicted_value_2026\n1,10,extra\n"

		_, err := DecodePredictions(strings.NewReader(in))

		var parseErr *ParseError
		assert.ErrorAs(t, err, &parseErr)
	})

	t.Run("ShortRow", func(t *testing.T) {
		in := "player_id,predicted_value_2026\n1,10\n2\n"

		_, err := DecodePredictions(strings.NewReader(in))

		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, 3, parseErr.Line)
		assert.ErrorIs(t, err, csv.ErrFieldCount)
	})
}

func TestDecodeHistory(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		in := "player_id,name,value_2019,value_2020,value_2021,value_2022,value_2023,value_2024,current_club_name\n" +
			"7,Alice,1000000,,2000000,NaN,3000000.0,4000000,Club X\n"

		table, err := DecodeHistory(strings.NewReader(in))

		require.NoError(t, err)
		require.Len(t, table.Rows, 1)
		row := table.Rows[0]
		assert.Equal(t, "7", row.PlayerID)
		assert.Equal(t, "Alice", row.Name)
		assert.Equal(t, "Club X", row.CurrentClubName)
		assert.True(t, row.Values[0].Valid)
		assert.False(t, row.Values[1].Valid)
		assert.False(t, row.Values[3].Valid)
		assert.True(t, row.Value2024().Decimal.Equal(decimal.NewFromInt(4_000_000)))
	})

	t.Run("ClubColumnOptional", func(t *testing.T) {
		in := "player_id,name,value_2019,value_2020,value_2021,value_2022,value_2023,value_2024\n" +
			"7,Alice,1,2,3,4,5,6\n"

		table, err := DecodeHistory(strings.NewReader(in))

		require.NoError(t, err)
		assert.Equal(t, "", table.Rows[0].CurrentClubName)
	})

	t.Run("MissingYear", func(t *testing.T) {
		in := "player_id,name,value_2019,value_2020,value_2021,value_2022,value_2023\n"

		_, err := DecodeHistory(strings.NewReader(in))

		var schemaErr *SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, "value_2024", schemaErr.Column)
	})
}

func TestDecodeProfiles(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		in := profileHeader +
			"7,Alice,Spain,Madrid,Spain,2001-05-03 00:00:00,181.0,left,Midfield,Central Midfield," +
			"2028-06-30 00:00:00,,https://img/7.png,90000000,Club Y\n"

		table, err := DecodeProfiles(strings.NewReader(in))

		require.NoError(t, err)
		require.Len(t, table.Rows, 1)
		p := table.Rows[0]
		assert.Equal(t, "Spain", p.CountryOfCitizenship)
		assert.Equal(t, 181, p.HeightCM)
		assert.Equal(t, "Central Midfield", p.SubPosition)
		assert.Equal(t, "", p.AgentName)
		assert.True(t, p.HighestMarketValue.Decimal.Equal(decimal.NewFromInt(90_000_000)))
		assert.Equal(t, "Club Y", p.CurrentClubName)
	})

	t.Run("BadHeight", func(t *testing.T) {
		in := profileHeader + "7,Alice,,,,,tall,,,,,,,,\n"

		_, err := DecodeProfiles(strings.NewReader(in))

		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, "height_in_cm", parseErr.Column)
	})

	t.Run("MissingColumn", func(t *testing.T) {
		in := "player_id,name\n7,Alice\n"

		_, err := DecodeProfiles(strings.NewReader(in))

		var schemaErr *SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, "country_of_citizenship", schemaErr.Column)
	})
}

func TestNormalizeID(t *testing.T) {
	assert.Equal(t, "123", normalizeID("123"))
	assert.Equal(t, "123", normalizeID("123.0"))
	assert.Equal(t, "abc.0", normalizeID("abc.0"))
	assert.Equal(t, ".0", normalizeID(".0"))
}
