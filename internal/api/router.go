package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/partyscore/internal/api/handler"
	"github.com/mcoot/partyscore/internal/api/middleware"
	"github.com/mcoot/partyscore/internal/services/auth"
	"github.com/mcoot/partyscore/internal/services/scoreboard"
	"github.com/mcoot/partyscore/internal/web/sse"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	AuthService *auth.Service
	Scoreboard  *scoreboard.Controller
	// Broadcaster pushes live updates; when nil, /events is not served
	Broadcaster *sse.Broadcaster
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	// Names may contain "/", which clients send as %2F
	r.UseEncodedPath()

	var notifier handler.Notifier
	if cfg.Broadcaster != nil {
		notifier = cfg.Broadcaster
	}

	// Create handlers
	scoreboardHandler := handler.NewScoreboardHandler(cfg.Scoreboard, notifier, cfg.Logger)
	adminHandler := handler.NewAdminHandler(cfg.AuthService, cfg.Scoreboard, notifier, cfg.Logger)

	// Create middleware
	adminMiddleware := middleware.Admin(cfg.AuthService)
	optionalAdminMiddleware := middleware.OptionalAdmin(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Game mode: anyone at the party can read and assign
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	api.HandleFunc("/players", scoreboardHandler.ListPlayers).Methods(http.MethodGet)
	api.HandleFunc("/players/{name}/available", scoreboardHandler.Available).Methods(http.MethodGet)
	api.HandleFunc("/actions", scoreboardHandler.ListActions).Methods(http.MethodGet)
	api.HandleFunc("/assignments", scoreboardHandler.Assign).Methods(http.MethodPost)
	api.HandleFunc("/leaderboard", scoreboardHandler.Leaderboard).Methods(http.MethodGet)
	api.HandleFunc("/history", scoreboardHandler.History).Methods(http.MethodGet)
	api.HandleFunc("/summary", scoreboardHandler.Summary).Methods(http.MethodGet)

	// Admin session management (no session required to obtain one)
	adminPublic := api.PathPrefix("/admin").Subrouter()
	adminPublic.Use(optionalAdminMiddleware)
	adminPublic.HandleFunc("/status", adminHandler.Status).Methods(http.MethodGet)
	adminPublic.HandleFunc("/password", adminHandler.SetPassword).Methods(http.MethodPost)
	adminPublic.HandleFunc("/login", adminHandler.Login).Methods(http.MethodPost)

	// Admin mode: setup mutations
	admin := api.NewRoute().Subrouter()
	admin.Use(adminMiddleware)
	admin.HandleFunc("/players", scoreboardHandler.AddPlayer).Methods(http.MethodPost)
	admin.HandleFunc("/actions", scoreboardHandler.AddAction).Methods(http.MethodPost)
	admin.HandleFunc("/actions/{name}", scoreboardHandler.UpdateAction).Methods(http.MethodPut)
	admin.HandleFunc("/actions/{name}", scoreboardHandler.DeleteAction).Methods(http.MethodDelete)
	admin.HandleFunc("/admin/logout", adminHandler.Logout).Methods(http.MethodPost)
	admin.HandleFunc("/admin/reset", adminHandler.Reset).Methods(http.MethodPost)

	if cfg.Broadcaster != nil {
		eventsHandler := handler.NewEventsHandler(cfg.Broadcaster, cfg.Logger)
		api.HandleFunc("/events", eventsHandler.Stream).Methods(http.MethodGet)
	}

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
