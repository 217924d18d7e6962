package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts: attempts,
		InitialWait: time.Millisecond,
		MaxWait:     5 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func TestRetrySucceedsAfterTransientFailure(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &UnavailableError{Err: errors.New("down")}},
		MockResponse{Content: json.RawMessage(`{"ok":true}`)},
	)
	p := WithRetry(mock, fastRetry(3))

	resp, err := p.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if string(resp.Content) != `{"ok":true}` {
		t.Errorf("unexpected content %s", resp.Content)
	}
	if mock.CallCount() != 2 {
		t.Errorf("expected 2 attempts, got %d", mock.CallCount())
	}
}

func TestRetryExhaustsAttempts(t *testing.T) {
	failure := &UnavailableError{Err: errors.New("still down")}
	mock := NewMockProvider(
		MockResponse{Err: failure},
		MockResponse{Err: failure},
		MockResponse{Err: failure},
	)
	p := WithRetry(mock, fastRetry(3))

	_, err := p.Generate(context.Background(), Request{})

	var unavail *UnavailableError
	if !errors.As(err, &unavail) {
		t.Fatalf("expected the last provider error, got %v", err)
	}
	if mock.CallCount() != 3 {
		t.Errorf("expected 3 attempts, got %d", mock.CallCount())
	}
}

func TestRetryStopsOnContextCancellation(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: context.Canceled})
	p := WithRetry(mock, fastRetry(3))

	_, err := p.Generate(context.Background(), Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if mock.CallCount() != 1 {
		t.Errorf("cancellation must not be retried, got %d attempts", mock.CallCount())
	}
}

func TestRetryInvalidResponseGetsOneMoreChance(t *testing.T) {
	invalid := &InvalidResponseError{Err: errors.New("schema violation")}
	mock := NewMockProvider(
		MockResponse{Err: invalid},
		MockResponse{Err: invalid},
		MockResponse{Err: invalid},
	)
	p := WithRetry(mock, fastRetry(5))

	_, err := p.Generate(context.Background(), Request{})

	var invResp *InvalidResponseError
	if !errors.As(err, &invResp) {
		t.Fatalf("expected InvalidResponseError, got %v", err)
	}
	if mock.CallCount() != 2 {
		t.Errorf("schema failures get exactly one retry, got %d attempts", mock.CallCount())
	}
}

func TestRetryHonorsRateLimitWait(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &RateLimitError{RetryAfter: 20 * time.Millisecond}},
		MockResponse{Content: json.RawMessage(`{}`)},
	)
	p := WithRetry(mock, fastRetry(3))

	start := time.Now()
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("expected Retry-After wait, call returned after %v", elapsed)
	}
}

func TestRetryModelIDPassesThrough(t *testing.T) {
	p := WithRetry(NewMockProvider(), fastRetry(1))
	if p.ModelID() != "mock" {
		t.Errorf("ModelID: got %q", p.ModelID())
	}
}
