// internal/handlers/api_server.go
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/jason-s-yu/halo/internal/auth"
	"github.com/jason-s-yu/halo/internal/leaderboard"
	"github.com/jason-s-yu/halo/internal/maps"
	"github.com/jason-s-yu/halo/internal/matchmaking"
	"github.com/jason-s-yu/halo/internal/middleware"
	"github.com/jason-s-yu/halo/internal/models"
	"github.com/jason-s-yu/halo/internal/stats"
	"github.com/jason-s-yu/halo/internal/weapons"
	"github.com/sirupsen/logrus"
)

// requestTimeout bounds the work a handler does against blob storage and recorders.
const requestTimeout = 5 * time.Second

// API bundles the components the HTTP surface exposes.
type API struct {
	Weapons      *weapons.Catalog
	Stats        *stats.Store
	Leaderboard  *leaderboard.Engine
	Maps         *maps.Registry
	Queue        *matchmaking.Queue
	Auth         *auth.Service
	ServerTokens *auth.ServerTokens
	Hub          *MatchHub
	Logger       logrus.FieldLogger

	// SessionCheck is how often an open matchmaking socket revalidates its
	// session token. Zero means 15s.
	SessionCheck time.Duration
}

// RegisterRoutes mounts every endpoint under /halo.
func (a *API) RegisterRoutes(router *mux.Router) {
	r := router.PathPrefix("/halo").Subrouter()

	// literal routes before {id} patterns
	r.HandleFunc("/weapons", a.listWeapons).Methods(http.MethodGet)
	r.HandleFunc("/weapons/power", a.listPowerWeapons).Methods(http.MethodGet)
	r.HandleFunc("/weapons/type/{type}", a.listWeaponsByType).Methods(http.MethodGet)
	r.HandleFunc("/weapons/{id}", a.getWeapon).Methods(http.MethodGet)

	r.HandleFunc("/player/{id:[0-9]+}/stats", a.requireRole(models.RoleUser, a.playerStats)).Methods(http.MethodGet)
	r.HandleFunc("/player/{id:[0-9]+}/matches", a.requireRole(models.RoleUser, a.matchHistory)).Methods(http.MethodGet)
	r.HandleFunc("/player/{id:[0-9]+}/reset", a.requireRole(models.RoleAdmin, a.resetPlayer)).Methods(http.MethodPost)

	r.HandleFunc("/leaderboard/{metric}", a.leaderboardTop).Methods(http.MethodGet)

	r.HandleFunc("/maps/browse", a.browseMaps).Methods(http.MethodGet)
	r.HandleFunc("/maps/upload", a.requireRole(models.RoleUser, a.uploadMap)).Methods(http.MethodPost)
	r.HandleFunc("/maps/{id}/download", a.requireRole(models.RoleUser, a.downloadMap)).Methods(http.MethodGet)

	r.HandleFunc("/matchmaking/join", a.requireRole(models.RolePlayer, a.joinQueue)).Methods(http.MethodPost)
	r.HandleFunc("/matchmaking/leave", a.requireRole(models.RolePlayer, a.leaveQueue)).Methods(http.MethodPost)
	r.HandleFunc("/matchmaking/status", a.requireRole(models.RolePlayer, a.queueStatus)).Methods(http.MethodGet)
	r.HandleFunc("/matchmaking/ws", a.requireRole(models.RolePlayer, a.matchmakingSocket)).Methods(http.MethodGet)

	r.HandleFunc("/match/complete", a.completeMatch).Methods(http.MethodPost)

	r.HandleFunc("/auth/login", a.login).Methods(http.MethodPost)
	r.HandleFunc("/auth/logout", a.logout).Methods(http.MethodPost)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusNotFound, "no such endpoint")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
}

// NewRouter builds a router with request logging and every route registered.
func (a *API) NewRouter() *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.LogMiddleware(a.Logger))
	a.RegisterRoutes(router)
	return router
}

// requireRole authenticates the caller and stores the account in the request context.
func (a *API) requireRole(role models.Role, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acct, err := a.Auth.Authorize(middleware.TokenFromRequest(r), role)
		if err != nil {
			writeServiceError(w, r, a.Logger, err)
			return
		}
		next(w, r.WithContext(middleware.WithAccount(r.Context(), acct)))
	}
}

// Server wraps http.Server with the router and timeouts the API runs with.
type Server struct {
	Router *mux.Router
	Server *http.Server
	Logger logrus.FieldLogger
}

func NewServer(addr string, api *API) *Server {
	router := api.NewRouter()
	return &Server{
		Router: router,
		Server: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		Logger: api.Logger,
	}
}

// Start blocks serving requests until Shutdown is called.
func (s *Server) Start() error {
	s.Logger.WithField("addr", s.Server.Addr).Info("starting HTTP server")
	if err := s.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server failed: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.Logger.Info("shutting down HTTP server")
	return s.Server.Shutdown(ctx)
}
