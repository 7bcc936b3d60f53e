package errors

import "fmt"

// ErrNotFound indicates a requested resource does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrUnauthorized indicates a failed authentication attempt
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	return e.Message
}

// ErrValidation indicates a request that failed domain validation
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// ErrConflict indicates the request conflicts with existing state
// (e.g. adding a product already on the wishlist)
type ErrConflict struct {
	Message string
}

func (e *ErrConflict) Error() string {
	return e.Message
}

// ErrOTPInvalid indicates an OTP verification failure
type ErrOTPInvalid struct {
	Reason string
}

func (e *ErrOTPInvalid) Error() string {
	return fmt.Sprintf("invalid verification code: %s", e.Reason)
}
