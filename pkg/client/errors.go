package client

import (
	"errors"
	"fmt"

	"github.com/Sternrassler/bgg-client/pkg/transport"
	"github.com/Sternrassler/bgg-client/pkg/xmlapi"
)

// Common errors returned by the client.
var (
	// ErrInvalidArgument is returned before any network activity when a
	// caller-supplied parameter is rejected.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound is returned when BGG reports that the entity does not exist.
	ErrNotFound = transport.ErrNotFound

	// ErrServiceUnavailable matches 202/429/5xx answers and network failures.
	ErrServiceUnavailable = transport.ErrServiceUnavailable

	// ErrTimeout matches attempts that hit the per-request timeout.
	ErrTimeout = transport.ErrTimeout

	// ErrInvalidRequest matches non-retryable statuses and API error payloads.
	ErrInvalidRequest = transport.ErrInvalidRequest

	// ErrExhausted is returned when all retry attempts are exhausted.
	// The error also unwraps to the last retryable failure.
	ErrExhausted = transport.ErrExhausted

	// ErrContextCancelled is returned when the context is cancelled during a retry wait.
	ErrContextCancelled = transport.ErrContextCancelled
)

// CacheError reports a failing cache backend or shared rate limiter.
type CacheError = transport.CacheError

// ParseError reports a payload that could not be mapped to model types.
type ParseError struct {
	Operation xmlapi.Operation
	Payload   []byte
	Err       error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s response (%d bytes): %v", e.Operation, len(e.Payload), e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// invalidArgument wraps ErrInvalidArgument with a description of the bad value.
func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// parse runs fn over data and maps parser failures onto client errors.
func parse[T any](op xmlapi.Operation, data []byte, fn func([]byte) (T, error)) (T, error) {
	v, err := fn(data)
	if err == nil {
		return v, nil
	}

	var zero T
	var apiErr *xmlapi.APIError
	switch {
	case errors.Is(err, xmlapi.ErrNotFound):
		return zero, fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.As(err, &apiErr):
		return zero, fmt.Errorf("%s: %w: %s", op, ErrInvalidRequest, apiErr.Message)
	default:
		return zero, &ParseError{Operation: op, Payload: data, Err: err}
	}
}
