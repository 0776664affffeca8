package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mcoot/partyscore/internal/api/apierr"
	basemw "github.com/mcoot/partyscore/internal/middleware"
)

// writeError sends err to the client. Server-side failures are logged with
// their cause because the client only sees a generic message.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	if apierr.StatusCode(err) >= http.StatusInternalServerError {
		logger.Error("request failed",
			slog.String("error", err.Error()),
			slog.String("request_id", basemw.RequestID(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}
	apierr.WriteError(w, err)
}

// decodeBody reads the JSON request body into v
func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apierr.NewInvalidRequestError("invalid request body")
	}
	return nil
}
