// internal/handlers/auth.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jason-s-yu/halo/internal/middleware"
	"github.com/jason-s-yu/halo/internal/models"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	Username  string      `json:"username"`
	Role      models.Role `json:"role"`
	PlayerID  int64       `json:"playerId"`
}

// POST /halo/auth/login
func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeServiceError(w, r, a.Logger, fmt.Errorf("invalid request body: %w", models.ErrValidation))
		return
	}

	sess, err := a.Auth.Login(req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, a.Logger, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookie,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	WriteJSON(w, http.StatusOK, loginResponse{
		Token:     sess.Token,
		ExpiresAt: sess.ExpiresAt,
		Username:  sess.Account.Username,
		Role:      sess.Account.Role,
		PlayerID:  sess.Account.PlayerID,
	})
}

// POST /halo/auth/logout
func (a *API) logout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.TokenFromRequest(r); token != "" {
		a.Auth.Logout(token)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	WriteJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}
