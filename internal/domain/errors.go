package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrMissingCredential indicates an authenticated operation was attempted
	// without a stored bearer token. The request is short-circuited locally.
	ErrMissingCredential = errors.New("missing credential")

	// ErrCredentialRejected indicates the backend rejected the bearer token.
	ErrCredentialRejected = errors.New("credential rejected by backend")

	// ErrNoActiveCart gates every cart mutation that needs an existing cart.
	ErrNoActiveCart = errors.New("no active cart")

	// ErrEmptyCart blocks checkout before any network call is made.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrInvalidPhone blocks mobile-money checkout when the phone number does
	// not match the national format (258 followed by exactly 9 digits).
	ErrInvalidPhone = errors.New("phone number must be 258 followed by 9 digits")
)

// ValidationError reports a locally detected bound violation. The offending
// request never reaches the backend.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
