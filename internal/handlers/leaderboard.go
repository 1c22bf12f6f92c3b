package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jason-s-yu/halo/internal/leaderboard"
)

type leaderboardResponse struct {
	Metric   leaderboard.Metric   `json:"metric"`
	Strategy leaderboard.Strategy `json:"strategy"`
	Entries  []leaderboard.Entry  `json:"entries"`
}

// GET /halo/leaderboard/{metric}?limit=
func (a *API) leaderboardTop(w http.ResponseWriter, r *http.Request) {
	metric, err := leaderboard.ParseMetric(mux.Vars(r)["metric"])
	if err != nil {
		writeServiceError(w, r, a.Logger, err)
		return
	}
	limit, err := queryInt(r, "limit", leaderboard.DefaultLimit)
	if err != nil {
		writeServiceError(w, r, a.Logger, err)
		return
	}
	entries, err := a.Leaderboard.Top(metric, limit)
	if err != nil {
		writeServiceError(w, r, a.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, leaderboardResponse{
		Metric:   metric,
		Strategy: a.Leaderboard.Strategy(),
		Entries:  entries,
	})
}
