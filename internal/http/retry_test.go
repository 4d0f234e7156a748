package http

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"nil", nil, ErrorTypeSuccess},
		{"timeout", errors.New("dial tcp: i/o timeout"), ErrorTypeNetwork},
		{"connection refused", errors.New("connect: connection refused"), ErrorTypeNetwork},
		{"connection reset", errors.New("read: connection reset by peer"), ErrorTypeNetwork},
		{"no such host", errors.New("lookup www.bing.com: no such host"), ErrorTypeNetwork},
		{"tls timeout", errors.New("net/http: TLS handshake timeout"), ErrorTypeNetwork},
		{"server 500", errors.New("image request failed: 500 Internal Server Error"), ErrorTypeRetryable},
		{"server 503", errors.New("503 service unavailable"), ErrorTypeRetryable},
		{"throttled", errors.New("request throttled"), ErrorTypeRetryable},
		{"not found", errors.New("image request failed: 404 Not Found"), ErrorTypeFatal},
		{"bad request", errors.New("400 Bad Request"), ErrorTypeFatal},
		{"invalid content", errors.New(`invalid content type "text/html" for image download`), ErrorTypeFatal},
		{"unknown", errors.New("something odd happened"), ErrorTypeFatal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyError(tt.err); got != tt.want {
				t.Errorf("ClassifyError(%v) = %s, want %s",
					tt.err, ErrorTypeName(got), ErrorTypeName(tt.want))
			}
		})
	}
}

func TestCalculateBackoff(t *testing.T) {
	initial := 100 * time.Millisecond
	max := time.Second

	if got := CalculateBackoff(0, initial, max); got != 0 {
		t.Errorf("backoff for attempt 0 = %v, want 0", got)
	}

	// Full jitter: result is in [0, min(max, initial*2^attempt))
	for attempt := 1; attempt <= 10; attempt++ {
		limit := time.Duration(1<<uint(attempt)) * initial
		if limit > max {
			limit = max
		}
		for i := 0; i < 20; i++ {
			got := CalculateBackoff(attempt, initial, max)
			if got < 0 || got >= limit {
				t.Fatalf("backoff attempt %d = %v, want in [0, %v)", attempt, got, limit)
			}
		}
	}
}

func TestExecuteWithRetrySucceedsAfterTransientFailures(t *testing.T) {
	cfg := Config{
		MaxRetries:   5,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
	}

	attempts := 0
	err := ExecuteWithRetry(context.Background(), cfg, func() error {
		attempts++
		if attempts < 3 {
			return errors.New("connection reset by peer")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("ExecuteWithRetry failed: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestExecuteWithRetryStopsOnFatal(t *testing.T) {
	cfg := Config{
		MaxRetries:   5,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
	}

	fatal := errors.New("404 not found")
	attempts := 0
	err := ExecuteWithRetry(context.Background(), cfg, func() error {
		attempts++
		return fatal
	})
	if !errors.Is(err, fatal) {
		t.Errorf("error = %v, want %v", err, fatal)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (no retry on fatal)", attempts)
	}
}

func TestExecuteWithRetryExhaustsRetries(t *testing.T) {
	cfg := Config{
		MaxRetries:   3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
	}

	attempts := 0
	retries := 0
	cfg.OnRetry = func(attempt int, err error, errType ErrorType) {
		retries++
		if errType != ErrorTypeNetwork {
			t.Errorf("OnRetry errType = %s, want network", ErrorTypeName(errType))
		}
	}

	err := ExecuteWithRetry(context.Background(), cfg, func() error {
		attempts++
		return errors.New("i/o timeout")
	})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
	if retries != 2 {
		t.Errorf("OnRetry calls = %d, want 2", retries)
	}
}

func TestExecuteWithRetryHonorsContextCancellation(t *testing.T) {
	cfg := Config{
		MaxRetries:   10,
		InitialDelay: 50 * time.Millisecond,
		MaxDelay:     time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	errCh := make(chan error, 1)
	go func() {
		errCh <- ExecuteWithRetry(ctx, cfg, func() error {
			attempts++
			if attempts == 1 {
				cancel()
			}
			return errors.New("connection refused")
		})
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("ExecuteWithRetry did not return after cancellation")
	}
}
