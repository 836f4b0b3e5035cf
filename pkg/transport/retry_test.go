package transport

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestRetryFixed(t *testing.T) {
	unavailable := &Error{Kind: KindServiceUnavailable, Endpoint: "thing", StatusCode: 503}
	notFound := &Error{Kind: KindNotFound, Endpoint: "thing", StatusCode: 404}
	plain := errors.New("boom")

	tests := []struct {
		name         string
		maxRetries   int
		failures     []error
		wantAttempts int
		wantIs       error
		wantNil      bool
	}{
		{
			name:         "success on first attempt",
			maxRetries:   2,
			wantAttempts: 1,
			wantNil:      true,
		},
		{
			name:         "success after retryable failures",
			maxRetries:   2,
			failures:     []error{unavailable, unavailable},
			wantAttempts: 3,
			wantNil:      true,
		},
		{
			name:         "exhausted",
			maxRetries:   2,
			failures:     []error{unavailable, unavailable, unavailable},
			wantAttempts: 3,
			wantIs:       ErrExhausted,
		},
		{
			name:         "no retries configured",
			maxRetries:   0,
			failures:     []error{unavailable},
			wantAttempts: 1,
			wantIs:       ErrServiceUnavailable,
		},
		{
			name:         "not retryable",
			maxRetries:   2,
			failures:     []error{notFound},
			wantAttempts: 1,
			wantIs:       ErrNotFound,
		},
		{
			name:         "unclassified error returned as is",
			maxRetries:   2,
			failures:     []error{plain},
			wantAttempts: 1,
			wantIs:       plain,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempts := 0
			policy := RetryPolicy{MaxRetries: tt.maxRetries, Delay: time.Millisecond}

			err := retryFixed(context.Background(), policy, "thing", zerolog.Nop(), func(attempt int) error {
				attempts++
				if attempt != attempts {
					t.Errorf("attempt = %d, want %d", attempt, attempts)
				}
				if attempt <= len(tt.failures) {
					return tt.failures[attempt-1]
				}
				return nil
			})

			if attempts != tt.wantAttempts {
				t.Errorf("attempts = %d, want %d", attempts, tt.wantAttempts)
			}
			if tt.wantNil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantIs) {
				t.Errorf("error = %v, want %v", err, tt.wantIs)
			}
		})
	}
}

func TestRetryFixed_ExhaustedDetails(t *testing.T) {
	timeout := &Error{Kind: KindTimeout, Endpoint: "collection"}

	err := retryFixed(context.Background(), RetryPolicy{MaxRetries: 1, Delay: time.Millisecond}, "collection", zerolog.Nop(),
		func(int) error { return timeout })

	var terr *Error
	if !errors.As(err, &terr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if terr.Kind != KindExhausted {
		t.Errorf("Kind = %s, want %s", terr.Kind, KindExhausted)
	}
	if terr.Attempts != 2 {
		t.Errorf("Attempts = %d, want 2", terr.Attempts)
	}
	if !errors.Is(err, ErrTimeout) {
		t.Error("exhausted error should unwrap to the last failure")
	}
}

func TestRetryFixed_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	unavailable := &Error{Kind: KindServiceUnavailable, Endpoint: "thing"}

	attempts := 0
	err := retryFixed(ctx, RetryPolicy{MaxRetries: 5, Delay: time.Hour}, "thing", zerolog.Nop(), func(int) error {
		attempts++
		cancel()
		return unavailable
	})

	if !errors.Is(err, ErrContextCancelled) {
		t.Errorf("error = %v, want ErrContextCancelled", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Error("error should unwrap to context.Canceled")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}
