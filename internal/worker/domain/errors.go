package domain

import "errors"

var (
	// ErrApplicationNotFound is returned when the candidate or its job no longer exists
	ErrApplicationNotFound = errors.New("application not found")

	// ErrRenderFailed is returned when the notification email cannot be built
	ErrRenderFailed = errors.New("failed to render notification")

	// ErrDeliveryFailed is returned when the SMTP relay rejects or drops the email
	ErrDeliveryFailed = errors.New("failed to deliver notification")
)

// RetryableError wraps transient errors that should trigger a requeue
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string {
	return "retryable error: " + e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// NewRetryableError creates a new retryable error
func NewRetryableError(err error) error {
	return &RetryableError{Err: err}
}
