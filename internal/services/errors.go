package services

import (
	"errors"

	"gorm.io/gorm"
)

// Shared error taxonomy. Handlers translate these to HTTP statuses with
// errors.Is; services wrap them with context via fmt.Errorf("%w: ...").
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUpstream           = errors.New("upstream provider error")
)

// translateDBError maps driver-level constraint violations onto the service
// taxonomy. Duplicate-email checks are check-then-insert, so a concurrent
// insert can still trip the unique index; the violation must come back as
// ErrDuplicateEmail, not a generic failure. Requires gorm's TranslateError.
func translateDBError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEmail
	}
	return err
}
