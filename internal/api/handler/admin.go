package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/partyscore/internal/api/middleware"
	"github.com/mcoot/partyscore/internal/api/request"
	"github.com/mcoot/partyscore/internal/api/response"
	"github.com/mcoot/partyscore/internal/services/auth"
	"github.com/mcoot/partyscore/internal/services/scoreboard"
)

// AdminHandler handles password setup, admin sessions and reset
type AdminHandler struct {
	authService *auth.Service
	controller  *scoreboard.Controller
	notifier    Notifier
	logger      *slog.Logger
}

// NewAdminHandler creates a new admin handler; notifier may be nil
func NewAdminHandler(authService *auth.Service, controller *scoreboard.Controller, notifier Notifier, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		authService: authService,
		controller:  controller,
		notifier:    notifier,
		logger:      logger,
	}
}

// Status handles GET /api/v1/admin/status
func (h *AdminHandler) Status(w http.ResponseWriter, r *http.Request) {
	set, err := h.authService.PasswordSet(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, response.AdminStatus{
		PasswordSet:   set,
		Authenticated: middleware.GetSession(r.Context()) != nil,
	})
}

// SetPassword handles POST /api/v1/admin/password
func (h *AdminHandler) SetPassword(w http.ResponseWriter, r *http.Request) {
	var req request.PasswordRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.authService.SetPassword(r.Context(), req.Password); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.NoContent(w)
}

// Login handles POST /api/v1/admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.PasswordRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	session, err := h.authService.Login(r.Context(), req.Password)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	cookie := &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if !session.ExpiresAt.IsZero() {
		cookie.Expires = session.ExpiresAt
	}
	http.SetCookie(w, cookie)

	response.JSON(w, http.StatusOK, response.SessionFromAuth(session))
}

// Logout handles POST /api/v1/admin/logout
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if session := middleware.GetSession(r.Context()); session != nil {
		h.authService.InvalidateSession(session.Token)
	}

	http.SetCookie(w, &http.Cookie{
		Name:   middleware.SessionCookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	response.NoContent(w)
}

// Reset handles POST /api/v1/admin/reset
func (h *AdminHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.Reset(r.Context()); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	notify(h.notifier, r.Context())
	response.NoContent(w)
}
