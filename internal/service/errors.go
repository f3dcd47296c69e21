package service

import (
	"errors"
	"fmt"

	"github.com/templui/darkroom/internal/model"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("forbidden")
	ErrAdminRequired   = fmt.Errorf("admin access required: %w", ErrForbidden)
)

// ValidationError is a client mistake; its message is safe to show as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// CanModify reports whether the caller may edit or delete a resource with
// the given owner. Resources without an owner are admin-only.
func CanModify(caller model.Caller, ownerID *int64) bool {
	return caller.IsAdmin || caller.Owns(ownerID)
}

// RequireUser returns the caller's user id. Admin-fallback sessions have
// none and are rejected like anonymous callers.
func RequireUser(caller model.Caller) (int64, error) {
	if !caller.Authenticated || caller.UserID == nil {
		return 0, ErrUnauthenticated
	}
	return *caller.UserID, nil
}

func RequireAuthenticated(caller model.Caller) error {
	if !caller.Authenticated {
		return ErrUnauthenticated
	}
	return nil
}

func RequireAdmin(caller model.Caller) error {
	if !caller.Authenticated {
		return ErrUnauthenticated
	}
	if !caller.IsAdmin {
		return ErrAdminRequired
	}
	return nil
}
