package web

import (
	"net/http"
	"strconv"
	"time"

	"clan_war_stats/internal/processing"
)

type healthResponse struct {
	Status      string     `json:"status"`
	LastUpdated *time.Time `json:"lastUpdated,omitempty"`
}

type statsResponse struct {
	Metric            string         `json:"metric"`
	Day               string         `json:"day"`
	Total             int            `json:"total"`
	MaxPossible       int            `json:"maxPossible"`
	ParticipantTotals map[string]int `json:"participantTotals"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	if updated := s.cache.LastUpdated(); !updated.IsZero() {
		resp.LastUpdated = &updated
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleCurrentWar serves the latest raw war document from the upstream API
func (s *Server) handleCurrentWar(w http.ResponseWriter, r *http.Request) {
	war := s.cache.CurrentWar()
	if war == nil {
		writeError(w, http.StatusNotFound, "no war data fetched yet")
		return
	}
	writeJSON(w, http.StatusOK, war)
}

// handleHistory serves the merged ledger with all recorded war days
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	ledger := s.cache.Ledger()
	if ledger == nil {
		writeError(w, http.StatusNotFound, "no history available yet")
		return
	}
	writeJSON(w, http.StatusOK, ledger)
}

// handleStats serves reconstructed per-day activity. Query parameters:
// day (war day number, or "all", default "all") and metric ("decks" or
// "fame", default "decks").
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	ledger := s.cache.Ledger()
	if ledger == nil {
		writeError(w, http.StatusNotFound, "no history available yet")
		return
	}

	dayParam := r.URL.Query().Get("day")
	dayFilter := processing.AllDays
	if dayParam != "" && dayParam != "all" {
		day, err := strconv.Atoi(dayParam)
		if err != nil || day < 1 {
			writeError(w, http.StatusBadRequest, "day must be a positive war day number or 'all'")
			return
		}
		dayFilter = day
	}

	metricParam := r.URL.Query().Get("metric")
	metric := processing.MetricDecks
	switch metricParam {
	case "", string(processing.MetricDecks):
	case string(processing.MetricFame):
		metric = processing.MetricFame
	default:
		writeError(w, http.StatusBadRequest, "metric must be 'decks' or 'fame'")
		return
	}

	result := processing.Aggregate(ledger, dayFilter, metric)

	dayLabel := "all"
	if dayFilter != processing.AllDays {
		dayLabel = strconv.Itoa(dayFilter)
	}

	writeJSON(w, http.StatusOK, statsResponse{
		Metric:            string(metric),
		Day:               dayLabel,
		Total:             result.Total,
		MaxPossible:       result.MaxPossible,
		ParticipantTotals: result.ParticipantTotals,
	})
}
