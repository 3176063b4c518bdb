package services

import (
	"errors"
	"fmt"

	"github.com/ArowuTest/viral-lottery-backend/internal/repositories"
)

var (
	// ErrNotFound aliases the repository sentinel so callers only need one
	ErrNotFound           = repositories.ErrNotFound
	ErrCampaignClosed     = errors.New("campaign is not accepting registrations")
	ErrForbidden          = errors.New("campaign belongs to another manager")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
)

// ValidationError rejects malformed input before any store access
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// StoreError is a transient document store failure. It is surfaced, never retried.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// storeErr classifies a repository error. Missing documents keep ErrNotFound in the chain.
func storeErr(op string, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return &StoreError{Op: op, Err: err}
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsTransient reports whether err is a StoreError
func IsTransient(err error) bool {
	var s *StoreError
	return errors.As(err, &s)
}
