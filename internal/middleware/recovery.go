package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// PanicHandler writes the response for a request whose handler panicked
type PanicHandler func(w http.ResponseWriter, r *http.Request, err any)

// Recovery logs a panicking handler and hands the response to onPanic.
// http.ErrAbortHandler is passed through untouched: it is how a handler
// abandons a response, e.g. a dropped event stream.
func Recovery(logger *slog.Logger, onPanic PanicHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				logger.Error("panic recovered",
					slog.Any("error", rec),
					slog.String("stack", string(debug.Stack())),
					slog.String("request_id", RequestID(r.Context())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				)
				onPanic(w, r, rec)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// DefaultPanicHandler returns a plain 500
func DefaultPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
