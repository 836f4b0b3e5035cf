package transport

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors matched with errors.Is against a returned *Error.
var (
	ErrTimeout            = errors.New("request timed out")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrNotFound           = errors.New("not found")
	ErrInvalidRequest     = errors.New("invalid request")
	ErrExhausted          = errors.New("retry attempts exhausted")

	// ErrContextCancelled is returned when the context ends while a request
	// waits for a retry or for a shared fetch.
	ErrContextCancelled = errors.New("context cancelled")
)

// ErrorKind classifies a failed request.
type ErrorKind string

const (
	// KindTimeout is an attempt that hit the per-request timeout.
	KindTimeout ErrorKind = "timeout"

	// KindServiceUnavailable covers 202/429/5xx gateway statuses and network failures.
	KindServiceUnavailable ErrorKind = "service_unavailable"

	// KindNotFound is a 404.
	KindNotFound ErrorKind = "not_found"

	// KindInvalidRequest is any other non-success status.
	KindInvalidRequest ErrorKind = "invalid_request"

	// KindExhausted wraps the last retryable failure once retries run out.
	KindExhausted ErrorKind = "exhausted"
)

// Retryable reports whether a failure of this kind is worth another attempt.
func (k ErrorKind) Retryable() bool {
	switch k {
	case KindTimeout, KindServiceUnavailable:
		return true
	default:
		return false
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindTimeout:
		return ErrTimeout
	case KindServiceUnavailable:
		return ErrServiceUnavailable
	case KindNotFound:
		return ErrNotFound
	case KindInvalidRequest:
		return ErrInvalidRequest
	case KindExhausted:
		return ErrExhausted
	default:
		return nil
	}
}

// Error is a classified transport failure.
type Error struct {
	Kind       ErrorKind
	Endpoint   string
	StatusCode int
	Attempts   int
	Err        error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("bgg %s error on %s", e.Kind, e.Endpoint)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Kind == KindExhausted {
		msg += fmt.Sprintf(" after %d attempts", e.Attempts)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap implements error unwrapping for errors.Is/As.
// An exhausted error unwraps to the last underlying failure.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// classifyStatus maps an HTTP status to an error kind. Success returns "".
func classifyStatus(code int) ErrorKind {
	switch {
	case code == http.StatusAccepted:
		// Collection exports answer 202 while the result is being prepared.
		return KindServiceUnavailable
	case code >= 200 && code < 300:
		return ""
	case code == http.StatusNotFound:
		return KindNotFound
	case code == http.StatusTooManyRequests,
		code == http.StatusBadGateway,
		code == http.StatusServiceUnavailable,
		code == http.StatusGatewayTimeout:
		return KindServiceUnavailable
	default:
		return KindInvalidRequest
	}
}

// CacheError reports a failing shared backend: the response store, or a
// rate limiter that could not be consulted (Op "ratelimit"). It is never
// raised for a cache miss.
type CacheError struct {
	Op  string
	Key string
	Err error
}

// Error implements the error interface.
func (e *CacheError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("cache %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("cache %s %s: %v", e.Op, e.Key, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *CacheError) Unwrap() error {
	return e.Err
}
