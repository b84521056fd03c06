// SPDX-License-Identifier: MPL-2.0

// Package retry wraps flaky provisioning actions with a bounded number of
// attempts and a fixed inter-attempt delay. There is no backoff growth: a
// provisioning run is short-lived and human-attended, so a predictable fixed
// delay beats an exponential one. When the budget is exhausted the last real
// failure is returned, never a synthesized error, so operators see the
// underlying tool's diagnostics.
package retry

import (
	"context"
	"time"

	retrygo "github.com/avast/retry-go/v4"
)

// Defaults for network-bound installer actions.
const (
	DefaultAttempts = 5
	DefaultDelay    = 2 * time.Second
)

type (
	// Config holds retry configuration.
	Config struct {
		// Attempts is the total attempt budget (not additional retries).
		// An Attempts of 1 means a single attempt with immediate failure
		// propagation.
		Attempts uint
		// Delay is the fixed pause between attempts.
		Delay time.Duration
		// OnRetry is invoked after each failed attempt that will be retried.
		OnRetry func(attempt uint, err error)
	}

	// Option is a functional option for retry configuration.
	Option func(*Config)
)

// WithAttempts sets the total attempt budget.
func WithAttempts(n uint) Option {
	return func(c *Config) {
		c.Attempts = n
	}
}

// WithDelay sets the fixed delay between attempts.
func WithDelay(d time.Duration) Option {
	return func(c *Config) {
		c.Delay = d
	}
}

// WithOnRetry sets a callback invoked before each re-attempt.
func WithOnRetry(fn func(attempt uint, err error)) Option {
	return func(c *Config) {
		c.OnRetry = fn
	}
}

// Do executes op with up to Attempts attempts and a fixed delay in between.
// It returns nil as soon as one attempt succeeds, and the error from the
// final attempt once the budget is exhausted. Context cancellation stops
// further attempts.
func Do(ctx context.Context, op func() error, opts ...Option) error {
	cfg := &Config{
		Attempts: DefaultAttempts,
		Delay:    DefaultDelay,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	retryOpts := []retrygo.Option{
		retrygo.Context(ctx),
		retrygo.Attempts(cfg.Attempts),
		retrygo.Delay(cfg.Delay),
		retrygo.DelayType(retrygo.FixedDelay),
		retrygo.LastErrorOnly(true),
	}
	if cfg.OnRetry != nil {
		retryOpts = append(retryOpts, retrygo.OnRetry(cfg.OnRetry))
	}

	return retrygo.Do(op, retryOpts...)
}
