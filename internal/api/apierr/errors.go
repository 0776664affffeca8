package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/partyscore/internal/model"
	"github.com/mcoot/partyscore/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodePlayerNotFound     = "PLAYER_NOT_FOUND"
	CodeActionNotFound     = "ACTION_NOT_FOUND"
	CodeDuplicatePlayer    = "DUPLICATE_PLAYER"
	CodeDuplicateAction    = "DUPLICATE_ACTION"
	CodeAlreadyUsed        = "ALREADY_USED"
	CodePasswordAlreadySet = "PASSWORD_ALREADY_SET"
	CodePasswordNotSet     = "PASSWORD_NOT_SET"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeConflict           = "CONFLICT"
	CodeParseError         = "PARSE_ERROR"
	CodePersistenceError   = "PERSISTENCE_ERROR"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// StatusCode returns the HTTP status err is reported with
func StatusCode(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	// Not found
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrActionNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeActionNotFound, "Action not found"}}

	// Duplicates and state conflicts
	case errors.Is(err, model.ErrDuplicatePlayer):
		return &httpError{http.StatusConflict, APIError{CodeDuplicatePlayer, "Player already exists"}}
	case errors.Is(err, model.ErrDuplicateAction):
		return &httpError{http.StatusConflict, APIError{CodeDuplicateAction, "Action already exists"}}
	case errors.Is(err, model.ErrAlreadyUsed):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyUsed, "Player has already used this action"}}
	case errors.Is(err, model.ErrConflict):
		return &httpError{http.StatusConflict, APIError{CodeConflict, "Scoreboard is busy, please retry"}}

	// Input
	case errors.Is(err, model.ErrEmptyName):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidInput, "Name is required"}}
	case errors.Is(err, model.ErrEmptyPassword):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidInput, "Password is required"}}
	case errors.Is(err, model.ErrInvalidInput):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidInput, "Invalid input"}}

	// Admin policy
	case errors.Is(err, model.ErrPasswordAlreadySet):
		return &httpError{http.StatusForbidden, APIError{CodePasswordAlreadySet, "Admin password is already set"}}
	case errors.Is(err, model.ErrPasswordNotSet):
		return &httpError{http.StatusForbidden, APIError{CodePasswordNotSet, "Admin password has not been set"}}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid password"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}

	// Storage
	case errors.Is(err, model.ErrParse):
		return &httpError{http.StatusInternalServerError, APIError{CodeParseError, "Stored scoreboard could not be read"}}
	case errors.Is(err, model.ErrPersistence):
		return &httpError{http.StatusInternalServerError, APIError{CodePersistenceError, "Scoreboard could not be saved"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Admin login required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
