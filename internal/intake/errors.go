package intake

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by stores when no candidate matches
	ErrNotFound = errors.New("candidate not found")

	// ErrDuplicateEmail is returned when a pool registration reuses a known email
	ErrDuplicateEmail = errors.New("email is already registered in the talent pool")

	// ErrJobUnavailable is returned when applying to a job that is missing or not public
	ErrJobUnavailable = errors.New("job is not open for applications")

	// ErrSubmitInProgress is returned when a form is submitted while a previous submit is pending
	ErrSubmitInProgress = errors.New("a submission is already in progress")
)

// ValidationError reports a problem found before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// UploadError wraps a failed resume upload. Nothing was written to the candidate store.
type UploadError struct {
	Err error
}

func (e *UploadError) Error() string {
	return "resume upload failed: " + e.Err.Error()
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// StoreError wraps a failed candidate store read or write.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("candidate store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
