// internal/handlers/player.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/jason-s-yu/halo/internal/middleware"
	"github.com/jason-s-yu/halo/internal/models"
	"github.com/sirupsen/logrus"
)

// playerFromPath returns the {id} path variable after checking that the caller
// may read it. Admins can read anyone; everybody else only their own record.
func (a *API) playerFromPath(r *http.Request) (int64, error) {
	id, err := pathInt64(r, "id")
	if err != nil {
		return 0, err
	}
	acct, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		return 0, models.ErrUnauthenticated
	}
	if acct.Role != models.RoleAdmin && acct.PlayerID != id {
		return 0, fmt.Errorf("cannot view player %d: %w", id, models.ErrForbidden)
	}
	return id, nil
}

// GET /halo/player/{id}/stats
func (a *API) playerStats(w http.ResponseWriter, r *http.Request) {
	id, err := a.playerFromPath(r)
	if err != nil {
		writeServiceError(w, r, a.Logger, err)
		return
	}
	st, err := a.Stats.Stats(id)
	if err != nil {
		writeServiceError(w, r, a.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, st)
}

// GET /halo/player/{id}/matches?limit=&offset=
func (a *API) matchHistory(w http.ResponseWriter, r *http.Request) {
	id, err := a.playerFromPath(r)
	if err != nil {
		writeServiceError(w, r, a.Logger, err)
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeServiceError(w, r, a.Logger, err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		writeServiceError(w, r, a.Logger, err)
		return
	}

	matches, err := a.Stats.MatchHistory(id, limit, offset)
	if err != nil {
		writeServiceError(w, r, a.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, matches)
}

// POST /halo/player/{id}/reset
func (a *API) resetPlayer(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		writeServiceError(w, r, a.Logger, err)
		return
	}
	if err := a.Stats.Reset(id); err != nil {
		writeServiceError(w, r, a.Logger, err)
		return
	}
	acct, _ := middleware.AccountFromContext(r.Context())
	a.Logger.WithFields(logrus.Fields{
		"player_id": id,
		"admin":     acct.Username,
	}).Info("player stats reset")

	st, err := a.Stats.Stats(id)
	if err != nil {
		writeServiceError(w, r, a.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, st)
}
