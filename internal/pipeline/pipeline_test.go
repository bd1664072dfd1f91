package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"market-value-dashboard/internal/config"
	"market-value-dashboard/internal/database"
	"market-value-dashboard/internal/dataset"
	"market-value-dashboard/internal/metrics"
	"market-value-dashboard/internal/players"
	"market-value-dashboard/internal/source"
)

const (
	predictionsCSV = "player_id,predicted_value_2026\n1,50000000\n2,10000000\n"
	historyCSV     = "player_id,name,value_2019,value_2020,value_2021,value_2022,value_2023,value_2024,current_club_name\n" +
		"1,A,,,,,,40000000,X\n"
	profilesCSV = "player_id,name,country_of_citizenship,city_of_birth,country_of_birth,date_of_birth," +
		"height_in_cm,foot,position,sub_position,contract_expiration_date,agent_name,image_url," +
		"highest_market_value_in_eur,current_club_name\n"
)

// setupTest serves the three CSV files from an httptest server and returns
// a config pointing at it.
func setupTest(t *testing.T, files map[string]string) *config.Config {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return &config.Config{
		Sources: config.Sources{
			Predictions: server.URL + "/predictions.csv",
			History:     server.URL + "/history.csv",
			Profiles:    server.URL + "/profiles.csv",
		},
		Fetch:    config.Fetch{Timeout: 5 * time.Second, MaxRetries: 1},
		Database: config.Database{DSN: "file:pipeline_test?mode=memory&cache=shared"},
	}
}

func TestPipeline_Run(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		cfg := setupTest(t, map[string]string{
			"/predictions.csv": predictionsCSV,
			"/history.csv":     historyCSV,
			"/profiles.csv":    profilesCSV,
		})
		db, err := database.NewDatabase(&cfg.Database)
		require.NoError(t, err)
		m := metrics.NewManager()
		fetcher := source.NewFetcher(&cfg.Fetch, zap.NewNop(), m)
		p := New(zap.NewNop(), cfg, fetcher, db, m)

		// Act
		result, err := p.Run(context.Background())

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 2, result.Store.Len())
		assert.NotEmpty(t, result.LoadID)

		rec, err := result.Store.Get("1")
		require.NoError(t, err)
		assert.Equal(t, players.TrendIncrease, rec.Trend)
		assert.Nil(t, rec.Profile)

		orphan, err := result.Store.Get("2")
		require.NoError(t, err)
		assert.Empty(t, orphan.Name)
		assert.Equal(t, players.TrendUnknown, orphan.Trend)

		snaps, err := database.LatestLoad(db)
		require.NoError(t, err)
		assert.Len(t, snaps, 3)
		assert.Equal(t, result.LoadID, snaps[0].LoadID)
	})

	t.Run("MissingSourceIsFatal", func(t *testing.T) {
		// Arrange
		cfg := setupTest(t, map[string]string{
			"/predictions.csv": predictionsCSV,
			"/history.csv":     historyCSV,
		})
		fetcher := source.NewFetcher(&cfg.Fetch, zap.NewNop(), nil)
		p := New(zap.NewNop(), cfg, fetcher, nil, nil)

		// Act
		result, err := p.Run(context.Background())

		// Assert
		assert.Nil(t, result)
		var unavailable *dataset.SourceUnavailableError
		require.ErrorAs(t, err, &unavailable)
		assert.Equal(t, dataset.SourceProfiles, unavailable.Source)
	})

	t.Run("SchemaErrorIsFatal", func(t *testing.T) {
		// Arrange
		cfg := setupTest(t, map[string]string{
			"/predictions.csv": "id,value\n1,2\n",
		})
		fetcher := source.NewFetcher(&cfg.Fetch, zap.NewNop(), nil)
		p := New(zap.NewNop(), cfg, fetcher, nil, nil)

		// Act
		_, err := p.Run(context.Background())

		// Assert
		var schemaErr *dataset.SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, dataset.SourcePredictions, schemaErr.Source)
	})
}
