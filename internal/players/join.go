package players

import (
	"market-value-dashboard/internal/dataset"
)

// Join builds the store. Predictions drive the join: every distinct
// prediction player id yields exactly one record, in prediction file order.
// History and profile rows are left joined on player id. When a source
// repeats a player id, the first row wins.
func Join(
	predictions dataset.Table[dataset.PredictionRow],
	history dataset.Table[dataset.HistoryRow],
	profiles dataset.Table[dataset.ProfileRow],
) *Store {
	historyByID := make(map[string]*dataset.HistoryRow, len(history.Rows))
	for i := range history.Rows {
		h := &history.Rows[i]
		if _, ok := historyByID[h.PlayerID]; !ok {
			historyByID[h.PlayerID] = h
		}
	}

	profileByID := make(map[string]*dataset.ProfileRow, len(profiles.Rows))
	for i := range profiles.Rows {
		p := &profiles.Rows[i]
		if _, ok := profileByID[p.PlayerID]; !ok {
			profileByID[p.PlayerID] = p
		}
	}

	records := make([]Record, 0, len(predictions.Rows))
	seen := make(map[string]struct{}, len(predictions.Rows))
	for _, pred := range predictions.Rows {
		if _, dup := seen[pred.PlayerID]; dup {
			continue
		}
		seen[pred.PlayerID] = struct{}{}

		rec := Record{
			PlayerID:      pred.PlayerID,
			Predicted2026: pred.PredictedValue2026,
		}
		if h, ok := historyByID[pred.PlayerID]; ok {
			rec.Name = h.Name
			rec.History = h.Values
			rec.Club = h.CurrentClubName
		}
		if p, ok := profileByID[pred.PlayerID]; ok {
			rec.Position = p.Position
			rec.SubPosition = p.SubPosition
			if p.CurrentClubName != "" {
				rec.Club = p.CurrentClubName
			}
			rec.Profile = &Profile{
				CountryOfCitizenship:   p.CountryOfCitizenship,
				CityOfBirth:            p.CityOfBirth,
				CountryOfBirth:         p.CountryOfBirth,
				DateOfBirth:            p.DateOfBirth,
				HeightCM:               p.HeightCM,
				Foot:                   p.Foot,
				ContractExpirationDate: p.ContractExpirationDate,
				AgentName:              p.AgentName,
				ImageURL:               p.ImageURL,
				HighestMarketValue:     p.HighestMarketValue,
			}
		}
		rec.Trend = DeriveTrend(rec.Value2024(), rec.Predicted2026)
		records = append(records, rec)
	}

	return newStore(records)
}

// JoinTables is Join over a loaded set of tables.
func JoinTables(t *dataset.Tables) *Store {
	return Join(t.Predictions, t.History, t.Profiles)
}
