package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrConflict signals a uniqueness violation the caller must resolve.
	ErrConflict = errors.New("conflict")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrCredentialFetch is returned when no usable match API token could be obtained.
	ErrCredentialFetch = errors.New("credential fetch failed")
	// ErrExternalService wraps failures of the matching service itself.
	ErrExternalService = errors.New("external service failure")
)
