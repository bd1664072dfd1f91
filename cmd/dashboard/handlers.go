package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"market-value-dashboard/internal/database"
	"market-value-dashboard/internal/format"
	"market-value-dashboard/internal/metrics"
	"market-value-dashboard/internal/models"
	"market-value-dashboard/internal/players"
)

const (
	defaultTopN = 20
	maxTopN     = 500
)

// APIHandler holds dependencies for the API endpoints.
type APIHandler struct {
	log       *zap.Logger
	store     *players.Store
	db        *gorm.DB
	metrics   *metrics.Manager
	loadID    string
	startTime time.Time
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(log *zap.Logger, store *players.Store, db *gorm.DB, m *metrics.Manager, loadID string) *APIHandler {
	return &APIHandler{
		log:       log,
		store:     store,
		db:        db,
		metrics:   m,
		loadID:    loadID,
		startTime: time.Now(),
	}
}

// Routes registers every endpoint on a new mux.
func (h *APIHandler) Routes() http.Handler {
	mux := http.NewServeMux()
	h.handle(mux, "/api/players", h.PlayerHandler)
	h.handle(mux, "/api/players/names", h.NamesHandler)
	h.handle(mux, "/api/top", h.TopHandler)
	h.handle(mux, "/api/clubs", h.ClubsHandler)
	h.handle(mux, "/api/roster", h.RosterHandler)
	h.handle(mux, "/api/status", h.StatusHandler)
	h.handle(mux, "/health", h.HealthHandler)
	if h.metrics != nil {
		mux.Handle("GET /metrics", h.metrics.Handler())
	}
	return mux
}

// handle registers a GET endpoint wrapped with request metrics.
func (h *APIHandler) handle(mux *http.ServeMux, path string, fn http.HandlerFunc) {
	mux.HandleFunc(http.MethodGet+" "+path, func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		fn(sw, r)
		h.metrics.RecordHTTPRequest(path, r.Method, sw.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Insights are the preformatted market value lines shown under the chart.
type Insights struct {
	CurrentValue   string `json:"current_value"`
	HighestValue   string `json:"highest_value"`
	PredictedValue string `json:"predicted_value"`
	Agent          string `json:"agent"`
}

// PlayerResponse is the structure for the /api/players endpoint.
type PlayerResponse struct {
	Player   players.Record  `json:"player"`
	Series   []players.Point `json:"series"`
	Insights Insights        `json:"insights"`
}

// PlayerHandler returns one player looked up by exact display name.
func (h *APIHandler) PlayerHandler(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		h.writeError(w, http.StatusBadRequest, "query parameter 'name' is required")
		return
	}

	rec, err := h.store.LookupByName(name)
	if err != nil {
		h.writeError(w, http.StatusNotFound, "player not found")
		return
	}

	insights := Insights{
		CurrentValue:   format.NullMillions(rec.Value2024(), 2),
		HighestValue:   format.Placeholder,
		PredictedValue: format.NullMillions(rec.Predicted2026, 2),
		Agent:          format.Placeholder,
	}
	if rec.Profile != nil {
		insights.HighestValue = format.NullMillions(rec.Profile.HighestMarketValue, 2)
		insights.Agent = format.OrPlaceholder(rec.Profile.AgentName)
	}

	h.writeJSON(w, http.StatusOK, PlayerResponse{Player: rec, Series: rec.Series(), Insights: insights})
}

// NamesHandler returns every searchable player name.
func (h *APIHandler) NamesHandler(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.store.Names())
}

// LeaderboardRow is one line of the top predicted values table.
type LeaderboardRow struct {
	Rank           int                 `json:"rank"`
	PlayerID       string              `json:"player_id"`
	Player         string              `json:"player"`
	Club           string              `json:"club"`
	Position       string              `json:"position"`
	PredictedValue decimal.NullDecimal `json:"predicted_value"`
	Display        string              `json:"predicted_value_display"`
}

// TopHandler returns the players with the highest predicted values.
func (h *APIHandler) TopHandler(w http.ResponseWriter, r *http.Request) {
	n := defaultTopN
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxTopN {
			h.writeError(w, http.StatusBadRequest, "query parameter 'n' must be between 1 and "+strconv.Itoa(maxTopN))
			return
		}
		n = parsed
	}

	top := h.store.TopN(n)
	rows := make([]LeaderboardRow, 0, len(top))
	for i, rec := range top {
		rows = append(rows, LeaderboardRow{
			Rank:           i + 1,
			PlayerID:       rec.PlayerID,
			Player:         rec.Name,
			Club:           rec.Club,
			Position:       rec.SubPosition,
			PredictedValue: rec.Predicted2026,
			Display:        format.NullMillions(rec.Predicted2026, 1),
		})
	}
	h.writeJSON(w, http.StatusOK, rows)
}

// ClubsHandler returns every club with at least one player.
func (h *APIHandler) ClubsHandler(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.store.Clubs())
}

// RosterRow is one player in the club roster view.
type RosterRow struct {
	PlayerID       string              `json:"player_id"`
	Player         string              `json:"player"`
	Club           string              `json:"club"`
	Position       string              `json:"position"`
	SubPosition    string              `json:"sub_position"`
	CurrentValue   decimal.NullDecimal `json:"current_value"`
	PredictedValue decimal.NullDecimal `json:"predicted_value"`
	Trend          players.Trend       `json:"trend"`
	CurrentDisplay string              `json:"current_value_display"`
	PredDisplay    string              `json:"predicted_value_display"`
}

// RosterHandler returns the players matching the club, position, trend and
// min_value filters. Omitted parameters do not filter.
func (h *APIHandler) RosterHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	trend, err := players.ParseTrend(q.Get("trend"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	filters := []players.Filter{
		players.ByClub(q.Get("club")),
		players.ByPosition(q.Get("position")),
		players.ByTrend(trend),
	}
	if raw := q.Get("min_value"); raw != "" {
		threshold, err := decimal.NewFromString(raw)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "query parameter 'min_value' must be a number")
			return
		}
		filters = append(filters, players.ByMinPredictedValue(threshold))
	}

	records := h.store.Filter(filters...)
	rows := make([]RosterRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, RosterRow{
			PlayerID:       rec.PlayerID,
			Player:         rec.Name,
			Club:           rec.Club,
			Position:       rec.Position,
			SubPosition:    rec.SubPosition,
			CurrentValue:   rec.Value2024(),
			PredictedValue: rec.Predicted2026,
			Trend:          rec.Trend,
			CurrentDisplay: format.NullMillions(rec.Value2024(), 1),
			PredDisplay:    format.NullMillions(rec.Predicted2026, 1),
		})
	}
	h.writeJSON(w, http.StatusOK, rows)
}

// StatusResponse is the structure for the /api/status endpoint.
type StatusResponse struct {
	LoadID    string                  `json:"load_id"`
	Records   int                     `json:"records"`
	StartTime string                  `json:"start_time"`
	Uptime    string                  `json:"uptime"`
	Sources   []models.SourceSnapshot `json:"sources"`
}

// StatusHandler reports what was loaded and when.
func (h *APIHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	status := StatusResponse{
		LoadID:    h.loadID,
		Records:   h.store.Len(),
		StartTime: h.startTime.Format(time.RFC3339),
		Uptime:    time.Since(h.startTime).String(),
		Sources:   []models.SourceSnapshot{},
	}

	if h.db != nil {
		snaps, err := database.LatestLoad(h.db)
		switch {
		case err == nil:
			status.Sources = snaps
		case errors.Is(err, database.ErrNoLoad):
		default:
			h.log.Error("Failed to get snapshots from database", zap.Error(err))
			h.writeError(w, http.StatusInternalServerError, "failed to get status")
			return
		}
	}

	h.writeJSON(w, http.StatusOK, status)
}

// HealthHandler answers liveness probes.
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK\n"))
}

func (h *APIHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("Failed to write response", zap.Error(err))
	}
}

func (h *APIHandler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}
