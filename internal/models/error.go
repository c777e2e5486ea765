package models

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidTransition  = errors.New("status is not reachable from current status")
	ErrOutOfWorkflow      = errors.New("order status is outside this station's workflow")
	ErrRoleForbidden      = errors.New("role is not permitted to request this transition")
	ErrPaymentRequired    = errors.New("order cannot be confirmed while unpaid")
	ErrPaymentRefUnknown  = errors.New("payment reference is unknown to the processor")
	ErrPaymentRefMismatch = errors.New("order is already paid with a different reference")
	ErrConflict           = errors.New("order was modified concurrently, re-read and retry")
	ErrInvalidOrderNumber = errors.New("invalid order number")
	ErrInvalidStatus      = errors.New("unknown order status")
	ErrEmptyOrder         = errors.New("order must contain at least one item")
	ErrInvalidCredentials = errors.New("invalid login or password")
	ErrInternalError      = errors.New("internal error")
)

// PaymentNotSucceededError reports the processor status verbatim when it is
// anything other than an unambiguous success.
type PaymentNotSucceededError struct {
	Status string
}

func (e PaymentNotSucceededError) Error() string {
	return fmt.Sprintf("payment has not succeeded, processor reports %q", e.Status)
}

// NewPaymentNotSucceededError creates PaymentNotSucceededError with processor status
func NewPaymentNotSucceededError(status string) PaymentNotSucceededError {
	return PaymentNotSucceededError{Status: status}
}

// ProcessorUnavailableError is a retryable infrastructure error: the payment
// processor could not be reached or asked to back off.
type ProcessorUnavailableError struct {
	RetryAfter time.Duration
}

func (e ProcessorUnavailableError) Error() string {
	return fmt.Sprintf("payment processor unavailable, retry after %s", e.RetryAfter)
}

// NewProcessorUnavailableError creates ProcessorUnavailableError with retry delay
func NewProcessorUnavailableError(retryAfter time.Duration) ProcessorUnavailableError {
	return ProcessorUnavailableError{RetryAfter: retryAfter}
}
