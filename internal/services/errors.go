package services

import (
	"errors"
	"fmt"
)

// Business failures returned by the services. Anything else is an
// unexpected fault.
var (
	ErrConflict         = errors.New("email already registered")
	ErrNotFound         = errors.New("user not found")
	ErrInvalidToken     = errors.New("invalid token")
	ErrAlreadyVerified  = errors.New("email already verified")
	ErrUnauthorized     = errors.New("incorrect password")
	ErrEmailNotVerified = errors.New("email not verified")
)

// DeliveryError reports that an operation completed but its email could not
// be sent.
type DeliveryError struct {
	Email string
	Err   error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("failed to send email to %s: %v", e.Email, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// IsDeliveryError reports whether err carries a DeliveryError.
func IsDeliveryError(err error) bool {
	var de *DeliveryError
	return errors.As(err, &de)
}
