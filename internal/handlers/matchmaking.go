// internal/handlers/matchmaking.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jason-s-yu/halo/internal/middleware"
	"github.com/jason-s-yu/halo/internal/models"
	"github.com/sirupsen/logrus"
)

// POST /halo/matchmaking/join
// The body is optional; playlist and region may also come from the query string.
func (a *API) joinQueue(w http.ResponseWriter, r *http.Request) {
	var prefs models.QueuePreferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil && !errors.Is(err, io.EOF) {
		writeServiceError(w, r, a.Logger, fmt.Errorf("invalid request body: %w", models.ErrValidation))
		return
	}
	q := r.URL.Query()
	if prefs.Playlist == "" {
		prefs.Playlist = q.Get("playlist")
	}
	if prefs.Region == "" {
		prefs.Region = q.Get("region")
	}

	acct, _ := middleware.AccountFromContext(r.Context())
	ticket, err := a.Queue.Join(acct.PlayerID, prefs)
	if err != nil {
		writeServiceError(w, r, a.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, ticket)
}

// POST /halo/matchmaking/leave
func (a *API) leaveQueue(w http.ResponseWriter, r *http.Request) {
	acct, _ := middleware.AccountFromContext(r.Context())
	if err := a.Queue.Leave(acct.PlayerID); err != nil {
		writeServiceError(w, r, a.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"playerId": acct.PlayerID,
		"state":    models.StateIdle,
	})
}

// GET /halo/matchmaking/status
func (a *API) queueStatus(w http.ResponseWriter, r *http.Request) {
	acct, _ := middleware.AccountFromContext(r.Context())
	ticket, err := a.Queue.Status(acct.PlayerID)
	if errors.Is(err, models.ErrNotQueued) {
		WriteJSON(w, http.StatusOK, models.QueueTicket{PlayerID: acct.PlayerID, State: models.StateIdle})
		return
	}
	if err != nil {
		writeServiceError(w, r, a.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, ticket)
}

type completeResponse struct {
	MatchID string `json:"matchId"`
	Applied bool   `json:"applied"`
}

// POST /halo/match/complete
// Called by game servers; authenticated with X-Server-Token instead of a session.
func (a *API) completeMatch(w http.ResponseWriter, r *http.Request) {
	if a.ServerTokens == nil {
		writeServiceError(w, r, a.Logger, fmt.Errorf("server tokens not configured: %w", models.ErrUnauthenticated))
		return
	}
	serverID, err := a.ServerTokens.Verify(r.Header.Get(middleware.ServerTokenHeader))
	if err != nil {
		writeServiceError(w, r, a.Logger, err)
		return
	}

	var m models.Match
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		writeServiceError(w, r, a.Logger, fmt.Errorf("invalid request body: %w", models.ErrValidation))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	applied, err := a.Queue.Complete(ctx, m)
	if err != nil {
		writeServiceError(w, r, a.Logger, err)
		return
	}
	a.Logger.WithFields(logrus.Fields{
		"match_id": m.ID,
		"server":   serverID,
		"applied":  applied,
	}).Info("match completed")
	WriteJSON(w, http.StatusOK, completeResponse{MatchID: m.ID, Applied: applied})
}
