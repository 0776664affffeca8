package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/partyscore/internal/api/apierr"
	"github.com/mcoot/partyscore/internal/services/auth"
)

// SessionCookieName is the cookie that may carry an admin session token
const SessionCookieName = "admin_session"

type contextKey string

const sessionContextKey contextKey = "session"

// Admin rejects requests that do not carry a valid admin session
func Admin(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			session, err := authService.ValidateSession(token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAdmin attaches the admin session if one is present but doesn't require it
func OptionalAdmin(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := ExtractToken(r); token != "" {
				if session, err := authService.ValidateSession(token); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), sessionContextKey, session))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ExtractToken extracts the session token from the request
func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	cookie, err := r.Cookie(SessionCookieName)
	if err == nil {
		return cookie.Value
	}

	return ""
}

// GetSession returns the admin session from the request context, or nil
func GetSession(ctx context.Context) *auth.Session {
	session, _ := ctx.Value(sessionContextKey).(*auth.Session)
	return session
}
