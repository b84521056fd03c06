// SPDX-License-Identifier: MPL-2.0

package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestDoSucceedsAfterTransientFailures(t *testing.T) {
	failures := 3
	invocations := 0

	err := Do(context.Background(), func() error {
		invocations++
		if invocations <= failures {
			return fmt.Errorf("transient failure %d", invocations)
		}
		return nil
	}, WithAttempts(5), WithDelay(time.Millisecond))
	if err != nil {
		t.Fatalf("Do returned %v, want success", err)
	}
	if invocations != failures+1 {
		t.Errorf("invocations = %d, want %d", invocations, failures+1)
	}
}

func TestDoExhaustsBudgetAndReturnsLastError(t *testing.T) {
	lastErr := errors.New("final failure")
	invocations := 0

	err := Do(context.Background(), func() error {
		invocations++
		if invocations == 5 {
			return lastErr
		}
		return fmt.Errorf("failure %d", invocations)
	}, WithAttempts(5), WithDelay(time.Millisecond))

	if invocations != 5 {
		t.Errorf("invocations = %d, want 5", invocations)
	}
	if !errors.Is(err, lastErr) {
		t.Errorf("Do returned %v, want the final attempt's error", err)
	}
}

func TestDoSingleAttemptPropagatesImmediately(t *testing.T) {
	boom := errors.New("boom")
	invocations := 0

	err := Do(context.Background(), func() error {
		invocations++
		return boom
	}, WithAttempts(1), WithDelay(time.Millisecond))

	if invocations != 1 {
		t.Errorf("invocations = %d, want 1", invocations)
	}
	if !errors.Is(err, boom) {
		t.Errorf("Do returned %v, want %v", err, boom)
	}
}

func TestDoFirstAttemptSuccessSkipsDelay(t *testing.T) {
	start := time.Now()

	err := Do(context.Background(), func() error { return nil },
		WithAttempts(5), WithDelay(time.Hour))
	if err != nil {
		t.Fatalf("Do returned %v, want success", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("success took %v; delay should only apply between attempts", elapsed)
	}
}

func TestDoOnRetryCallback(t *testing.T) {
	var attempts []uint

	_ = Do(context.Background(), func() error { return errors.New("nope") },
		WithAttempts(3),
		WithDelay(time.Millisecond),
		WithOnRetry(func(attempt uint, _ error) {
			attempts = append(attempts, attempt)
		}))

	// OnRetry fires once per failed attempt.
	if len(attempts) != 3 {
		t.Errorf("OnRetry fired %d times, want 3", len(attempts))
	}
}

func TestDoContextCancellationStopsRetrying(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	invocations := 0

	err := Do(ctx, func() error {
		invocations++
		cancel()
		return errors.New("transient")
	}, WithAttempts(5), WithDelay(10*time.Millisecond))

	if err == nil {
		t.Fatal("Do returned nil after cancellation")
	}
	if invocations >= 5 {
		t.Errorf("invocations = %d, cancellation should have stopped the loop early", invocations)
	}
}
