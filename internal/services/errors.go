package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/emilythestrangee/stackit/backend/internal/database"
)

var (
	// ErrNotFound means the entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized means the caller does not own the entity being mutated.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidRequest covers requests that are well-formed but not allowed,
	// such as voting on your own answer.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrConflict means a unique constraint would be violated.
	ErrConflict = errors.New("conflict")
)

// RequestError carries a user-facing message and matches ErrInvalidRequest.
type RequestError struct {
	Msg string
}

func (e *RequestError) Error() string { return e.Msg }

func (e *RequestError) Is(target error) bool { return target == ErrInvalidRequest }

func invalid(format string, args ...any) error {
	return &RequestError{Msg: fmt.Sprintf(format, args...)}
}

// storeErr maps storage errors onto the service sentinels
func storeErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case database.IsUniqueViolation(err):
		return fmt.Errorf("%s: %w", op, ErrConflict)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
