package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/partyscore/internal/services/scoreboard"
	"github.com/mcoot/partyscore/internal/web/handler"
	"github.com/mcoot/partyscore/internal/web/middleware"
)

// EventsPath is where the API serves the live update stream
const EventsPath = "/api/v1/events"

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger     *slog.Logger
	Scoreboard *scoreboard.Controller
	// PublicURL is encoded in the share QR code; empty derives it per request
	PublicURL string
	// LiveUpdates makes the page subscribe to EventsPath
	LiveUpdates bool
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	eventsURL := ""
	if cfg.LiveUpdates {
		eventsURL = EventsPath
	}

	homeHandler := handler.NewHomeHandler(cfg.Scoreboard, eventsURL, cfg.Logger)
	shareHandler := handler.NewShareHandler(cfg.PublicURL, cfg.Logger)

	r.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)
	r.HandleFunc("/share.png", shareHandler.QRCode).Methods(http.MethodGet)

	return r
}
