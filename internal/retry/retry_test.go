package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/str8builders/invoice/internal/retry"
)

func fastPolicy(attempts int) retry.Policy {
	return retry.Policy{MaxAttempts: attempts, BaseDelay: time.Millisecond, MaxDelay: 4 * time.Millisecond}
}

func TestDoSucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	err := retry.Do(context.Background(), fastPolicy(3), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do() = %v, want nil", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDoExhaustsAttempts(t *testing.T) {
	sentinel := errors.New("still broken")
	calls := 0
	err := retry.Do(context.Background(), fastPolicy(3), func(ctx context.Context) error {
		calls++
		return sentinel
	})
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if !errors.Is(err, sentinel) {
		t.Errorf("terminal error should wrap the last failure, got %v", err)
	}
}

func TestDoStopsImmediatelyOnSuccess(t *testing.T) {
	calls := 0
	if err := retry.Do(context.Background(), fastPolicy(5), func(ctx context.Context) error {
		calls++
		return nil
	}); err != nil {
		t.Fatalf("Do() = %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDoStopsOnPermanentError(t *testing.T) {
	sentinel := errors.New("bad request")
	calls := 0
	err := retry.Do(context.Background(), fastPolicy(5), func(ctx context.Context) error {
		calls++
		return retry.Permanent(sentinel)
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no retry on permanent error)", calls)
	}
	if !errors.Is(err, sentinel) {
		t.Errorf("Do() = %v, want the permanent error", err)
	}
	if err != nil && err.Error() != sentinel.Error() {
		t.Errorf("permanent error should come back unwrapped, got %q", err.Error())
	}
}

func TestDoHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := retry.Do(ctx, retry.Policy{MaxAttempts: 10, BaseDelay: time.Minute}, func(ctx context.Context) error {
		calls++
		cancel()
		return errors.New("fail then cancel")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Do() = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no retry after cancel)", calls)
	}
}
