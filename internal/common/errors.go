// Package common defines shared constants and sentinel errors used across
// the chat server layers. Callers should use errors.Is to match these values;
// specific errors wrap their category so both levels can be matched.
package common

import (
	"errors"
	"fmt"
)

var (
	// Categories.
	ErrValidation       = errors.New("validation error")
	ErrAuth             = errors.New("authentication failed")
	ErrConflict         = errors.New("conflict")
	ErrNotFound         = errors.New("not found")
	ErrStoreUnavailable = errors.New("store unavailable")

	// Repository-level errors.
	ErrorNotFound      = fmt.Errorf("record %w", ErrNotFound)
	ErrorAlreadyExists = fmt.Errorf("record already exists: %w", ErrConflict)

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Credential store.
	ErrDuplicateUser         = fmt.Errorf("username already exists: %w", ErrConflict)
	ErrUserNotFound          = fmt.Errorf("user not found: %w", ErrAuth)
	ErrInvalidPassword       = fmt.Errorf("invalid password: %w", ErrAuth)
	ErrInvalidUsername       = fmt.Errorf("invalid username: %w", ErrValidation)
	ErrInvalidPasswordFormat = fmt.Errorf("invalid password format: %w", ErrValidation)
	ErrPasswordMismatch      = fmt.Errorf("passwords do not match: %w", ErrValidation)
	ErrInvalidEmail          = fmt.Errorf("invalid email: %w", ErrValidation)

	// Message log.
	ErrEmptyMessage   = fmt.Errorf("message is empty: %w", ErrValidation)
	ErrMessageTooLong = fmt.Errorf("message is too long: %w", ErrValidation)
	ErrAuthorUnknown  = fmt.Errorf("author unknown: %w", ErrNotFound)
)
