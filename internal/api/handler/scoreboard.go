package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/partyscore/internal/api/apierr"
	"github.com/mcoot/partyscore/internal/api/request"
	"github.com/mcoot/partyscore/internal/api/response"
	"github.com/mcoot/partyscore/internal/services/scoreboard"
)

// Notifier is told after every successful mutation
type Notifier interface {
	BroadcastScoreboard(ctx context.Context)
}

// ScoreboardHandler handles players, actions, assignments and the read views
type ScoreboardHandler struct {
	controller *scoreboard.Controller
	notifier   Notifier
	logger     *slog.Logger
}

// NewScoreboardHandler creates a new scoreboard handler; notifier may be nil
func NewScoreboardHandler(controller *scoreboard.Controller, notifier Notifier, logger *slog.Logger) *ScoreboardHandler {
	return &ScoreboardHandler{
		controller: controller,
		notifier:   notifier,
		logger:     logger,
	}
}

func (h *ScoreboardHandler) changed(ctx context.Context) {
	notify(h.notifier, ctx)
}

// notify runs after the mutation has been saved, so it must not be cut
// short by the client going away
func notify(n Notifier, ctx context.Context) {
	if n != nil {
		n.BroadcastScoreboard(context.WithoutCancel(ctx))
	}
}

// nameVar returns the {name} path segment. The router matches on the
// escaped path, so the segment is still percent-encoded here.
func nameVar(r *http.Request) (string, error) {
	name, err := url.PathUnescape(mux.Vars(r)["name"])
	if err != nil {
		return "", apierr.NewInvalidRequestError("malformed name in path")
	}
	return name, nil
}

// ListPlayers handles GET /api/v1/players
func (h *ScoreboardHandler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.controller.Players(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PlayerList{Players: response.EntriesFromModel(players)})
}

// AddPlayer handles POST /api/v1/players
func (h *ScoreboardHandler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	var req request.AddPlayerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.controller.AddPlayer(r.Context(), req.Name); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.changed(r.Context())
	response.Created(w, response.Entry{Name: req.Name, Points: 0})
}

// Available handles GET /api/v1/players/{name}/available
func (h *ScoreboardHandler) Available(w http.ResponseWriter, r *http.Request) {
	name, err := nameVar(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	actions, err := h.controller.AvailableActions(r.Context(), name)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Available{Player: name, Actions: actions})
}

// ListActions handles GET /api/v1/actions
func (h *ScoreboardHandler) ListActions(w http.ResponseWriter, r *http.Request) {
	actions, err := h.controller.Actions(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, response.ActionList{Actions: response.EntriesFromModel(actions)})
}

// AddAction handles POST /api/v1/actions
func (h *ScoreboardHandler) AddAction(w http.ResponseWriter, r *http.Request) {
	var req request.AddActionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.controller.AddAction(r.Context(), req.Name, req.Points); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.changed(r.Context())
	response.Created(w, response.Entry{Name: req.Name, Points: req.Points})
}

// UpdateAction handles PUT /api/v1/actions/{name}
func (h *ScoreboardHandler) UpdateAction(w http.ResponseWriter, r *http.Request) {
	oldName, err := nameVar(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req request.UpdateActionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.controller.RenameAction(r.Context(), oldName, req.Name, req.Points); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.changed(r.Context())
	response.JSON(w, http.StatusOK, response.Entry{Name: req.Name, Points: req.Points})
}

// DeleteAction handles DELETE /api/v1/actions/{name}
func (h *ScoreboardHandler) DeleteAction(w http.ResponseWriter, r *http.Request) {
	name, err := nameVar(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.controller.DeleteAction(r.Context(), name); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.changed(r.Context())
	response.NoContent(w)
}

// Assign handles POST /api/v1/assignments
func (h *ScoreboardHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var req request.AssignRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	event, err := h.controller.Assign(r.Context(), req.Player, req.Action)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.changed(r.Context())
	response.Created(w, response.EventFromModel(*event))
}

// Leaderboard handles GET /api/v1/leaderboard
func (h *ScoreboardHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	standings, err := h.controller.Leaderboard(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, response.LeaderboardFromModel(standings))
}

// History handles GET /api/v1/history?limit=n
func (h *ScoreboardHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := scoreboard.DefaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, r, h.logger, apierr.NewInvalidRequestError("limit must be a positive integer"))
			return
		}
		limit = n
	}

	events, err := h.controller.RecentHistory(r.Context(), limit)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, response.HistoryFromModel(events))
}

// Summary handles GET /api/v1/summary
func (h *ScoreboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.controller.Summary(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SummaryFromModel(summary))
}
