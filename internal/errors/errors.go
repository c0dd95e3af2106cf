// internal/errors/errors.go
package appErrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the expected, user-facing outcomes. Anything that does
// not match one of these is treated as an internal failure.
var (
	ErrNotAuthenticated      = errors.New("unauthorized")
	ErrValidation            = errors.New("validation failed")
	ErrDuplicateRegistration = errors.New("customer already registered for this campaign")
	ErrNotFound              = errors.New("not found")
	ErrAlreadyVerified       = errors.New("customer already verified")
	ErrCodeExpired           = errors.New("OTP has expired")
	ErrInvalidCode           = errors.New("invalid OTP")
)

// NotFoundError names the missing resource. It matches ErrNotFound with errors.Is.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Helper constructors
func NewCampaignNotFound(id string) error {
	return &NotFoundError{Resource: "campaign", ID: id}
}

func NewCustomerNotFound() error {
	return &NotFoundError{Resource: "customer"}
}

// ValidationError carries the user-facing message for a rejected input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func NewValidation(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsExpected reports whether err belongs to the user-facing taxonomy.
func IsExpected(err error) bool {
	for _, target := range []error{
		ErrNotAuthenticated,
		ErrValidation,
		ErrDuplicateRegistration,
		ErrNotFound,
		ErrAlreadyVerified,
		ErrCodeExpired,
		ErrInvalidCode,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
