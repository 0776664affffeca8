package model

import (
	"errors"
	"fmt"
)

// Error kinds. Callers match on these with errors.Is; the specific
// errors below wrap exactly one kind.
var (
	ErrParse        = errors.New("stored document is not valid")
	ErrDuplicate    = errors.New("already exists")
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrAlreadyUsed  = errors.New("action already used by this player")
	ErrPolicy       = errors.New("not permitted")

	// ErrPersistence marks a failed save; the mutation did not happen.
	ErrPersistence = errors.New("failed to persist document")
	// ErrConflict is returned when a concurrent writer kept winning the race.
	ErrConflict = errors.New("document was modified concurrently")
)

var (
	// Player errors
	ErrPlayerNotFound  = fmt.Errorf("player %w", ErrNotFound)
	ErrDuplicatePlayer = fmt.Errorf("player %w", ErrDuplicate)

	// Action errors
	ErrActionNotFound  = fmt.Errorf("action %w", ErrNotFound)
	ErrDuplicateAction = fmt.Errorf("action %w", ErrDuplicate)

	// Input errors
	ErrEmptyName     = fmt.Errorf("%w: name is required", ErrInvalidInput)
	ErrEmptyPassword = fmt.Errorf("%w: password is required", ErrInvalidInput)

	// Admin password errors
	ErrPasswordAlreadySet = fmt.Errorf("%w: admin password is already set", ErrPolicy)
	ErrPasswordNotSet     = fmt.Errorf("%w: admin password has not been set", ErrPolicy)
)
