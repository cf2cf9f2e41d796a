package domain

import "errors"

var (
	// ErrNotFound signals a missing document.
	ErrNotFound = errors.New("not found")
	// ErrInvalidKind signals an unknown entity kind.
	ErrInvalidKind = errors.New("invalid entity kind")
	// ErrInvalidTransition signals a request status change that is not allowed
	// from the request's current status.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrValidation signals a malformed payload.
	ErrValidation = errors.New("validation failed")
	// ErrBatchTooLarge signals a bulk operation exceeding the configured cap.
	ErrBatchTooLarge = errors.New("batch too large")
)
