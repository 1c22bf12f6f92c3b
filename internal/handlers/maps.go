// internal/handlers/maps.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jason-s-yu/halo/internal/maps"
	"github.com/jason-s-yu/halo/internal/middleware"
	"github.com/jason-s-yu/halo/internal/models"
)

// maxMapUploadBytes caps the forge payload a client can send.
const maxMapUploadBytes = 4 << 20

// GET /halo/maps/browse?tags=&gameMode=&sortBy=&page=&pageSize=
func (a *API) browseMaps(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 0)
	if err != nil {
		writeServiceError(w, r, a.Logger, err)
		return
	}
	pageSize, err := queryInt(r, "pageSize", maps.DefaultPageSize)
	if err != nil {
		writeServiceError(w, r, a.Logger, err)
		return
	}

	q := r.URL.Query()
	result, err := a.Maps.Browse(maps.Filter{
		Tags:     queryList(r, "tags"),
		GameMode: q.Get("gameMode"),
		SortBy:   q.Get("sortBy"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		writeServiceError(w, r, a.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// POST /halo/maps/upload
func (a *API) uploadMap(w http.ResponseWriter, r *http.Request) {
	var req maps.UploadRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMapUploadBytes)).Decode(&req); err != nil {
		writeServiceError(w, r, a.Logger, fmt.Errorf("invalid request body: %w", models.ErrValidation))
		return
	}
	acct, _ := middleware.AccountFromContext(r.Context())
	req.AuthorID = acct.PlayerID
	req.AuthorGamertag = acct.Username

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	m, err := a.Maps.Upload(ctx, req)
	if err != nil {
		writeServiceError(w, r, a.Logger, err)
		return
	}
	WriteJSON(w, http.StatusCreated, m)
}

// GET /halo/maps/{id}/download
func (a *API) downloadMap(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	dl, err := a.Maps.Download(ctx, mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, a.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, dl)
}
