package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/partyscore/internal/services/scoreboard"
	"github.com/mcoot/partyscore/internal/web/templates/layout"
	"github.com/mcoot/partyscore/internal/web/templates/pages"
)

// HomeHandler serves the mobile scoreboard page
type HomeHandler struct {
	controller *scoreboard.Controller
	eventsURL  string
	logger     *slog.Logger
}

// NewHomeHandler creates a new HomeHandler; eventsURL may be empty to
// disable live updates
func NewHomeHandler(controller *scoreboard.Controller, eventsURL string, logger *slog.Logger) *HomeHandler {
	return &HomeHandler{
		controller: controller,
		eventsURL:  eventsURL,
		logger:     logger,
	}
}

// Home renders the leaderboard and the latest events
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	standings, err := h.controller.Leaderboard(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	history, err := h.controller.RecentHistory(r.Context(), scoreboard.DefaultHistoryLimit)
	if err != nil {
		h.fail(w, err)
		return
	}

	data := pages.ScoreboardData{
		PageData:      layout.PageData{Title: "Scoreboard"},
		Standings:     standings,
		History:       history,
		EventsURL:     h.eventsURL,
		ShareImageURL: "/share.png",
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.Scoreboard(data).Render(r.Context(), w); err != nil {
		h.logger.Error("render scoreboard page", slog.String("error", err.Error()))
	}
}

func (h *HomeHandler) fail(w http.ResponseWriter, err error) {
	h.logger.Error("load scoreboard page", slog.String("error", err.Error()))
	http.Error(w, "The scoreboard is unavailable right now", http.StatusInternalServerError)
}
