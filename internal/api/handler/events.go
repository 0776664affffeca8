package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/partyscore/internal/web/sse"
)

// EventsHandler streams live scoreboard updates
type EventsHandler struct {
	broadcaster *sse.Broadcaster
	logger      *slog.Logger
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(broadcaster *sse.Broadcaster, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// Stream handles GET /api/v1/events
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	initial, err := h.broadcaster.Snapshot(r.Context())
	if err != nil {
		h.logger.Warn("sse initial snapshot failed", slog.String("error", err.Error()))
		initial = nil
	}
	sse.ServeSSE(w, r, h.broadcaster.Hub(), initial)
}
