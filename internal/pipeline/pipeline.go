// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"
	"fmt"
	"time"

	"boxprep-cli/internal/hostenv"
	"boxprep-cli/internal/reclaim"
	"boxprep-cli/internal/retry"

	"github.com/charmbracelet/log"
)

type (
	// Action is a single idempotent unit of work: it either fully succeeds
	// or fails with a propagated error. Actions receive the explicit
	// environment context and may mutate it for later actions and stages.
	Action interface {
		// Describe returns a short operator-facing description.
		Describe() string
		// Execute performs the action.
		Execute(ctx context.Context, env *hostenv.Env) error
	}

	// RetryPolicy bounds re-attempts for a flaky action. Zero fields fall
	// back to the retry package defaults.
	RetryPolicy struct {
		Attempts uint
		Delay    time.Duration
	}

	// Step pairs an action with its optional retry policy. A nil Retry
	// means a single attempt with immediate failure propagation.
	Step struct {
		Action Action
		Retry  *RetryPolicy
	}

	// Stage is an ordered phase of the pipeline. Stages are defined at
	// build time and executed exactly once per run; only individual steps
	// within a stage retry, never the stage as a whole.
	Stage struct {
		Name    string
		Steps   []Step
		Cleanup []reclaim.Target
	}

	// Sequencer executes stages in their declared order.
	Sequencer struct {
		logger    *log.Logger
		reclaimer *reclaim.Reclaimer
		dryRun    bool
	}

	// SequencerOption configures a Sequencer.
	SequencerOption func(*Sequencer)

	funcAction struct {
		description string
		fn          func(ctx context.Context, env *hostenv.Env) error
	}
)

// ActionFunc adapts a function into an Action.
func ActionFunc(description string, fn func(ctx context.Context, env *hostenv.Env) error) Action {
	return &funcAction{description: description, fn: fn}
}

func (a *funcAction) Describe() string {
	return a.description
}

func (a *funcAction) Execute(ctx context.Context, env *hostenv.Env) error {
	return a.fn(ctx, env)
}

// WithDryRun makes the sequencer log actions and cleanup sweeps without
// performing them.
func WithDryRun(dryRun bool) SequencerOption {
	return func(s *Sequencer) {
		s.dryRun = dryRun
	}
}

// NewSequencer creates a Sequencer that reports progress on logger.
func NewSequencer(logger *log.Logger, opts ...SequencerOption) *Sequencer {
	s := &Sequencer{
		logger:    logger,
		reclaimer: reclaim.New(logger),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes the stages strictly in order. It returns nil when every stage
// (including retried steps) succeeded, and otherwise the first terminal step
// failure, wrapped with the stage name. Stages after a failed one never
// start; the failed stage's cleanup still runs.
func (s *Sequencer) Run(ctx context.Context, env *hostenv.Env, stages []Stage) error {
	for _, stage := range stages {
		s.logger.Info("stage starting", "stage", stage.Name)
		if err := s.runStage(ctx, env, stage); err != nil {
			s.logger.Error("stage failed", "stage", stage.Name, "err", err)
			return fmt.Errorf("stage %s: %w", stage.Name, err)
		}
		s.logger.Info("stage complete", "stage", stage.Name)
	}
	return nil
}

func (s *Sequencer) runStage(ctx context.Context, env *hostenv.Env, stage Stage) error {
	defer s.cleanup(stage)

	for _, step := range stage.Steps {
		s.logger.Info("action", "stage", stage.Name, "action", step.Action.Describe())
		if s.dryRun {
			continue
		}
		if err := s.runStep(ctx, env, stage.Name, step); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sequencer) runStep(ctx context.Context, env *hostenv.Env, stageName string, step Step) error {
	execute := func() error {
		return step.Action.Execute(ctx, env)
	}

	if step.Retry == nil {
		return execute()
	}

	attempts := step.Retry.Attempts
	if attempts == 0 {
		attempts = retry.DefaultAttempts
	}

	opts := []retry.Option{
		// The hook also fires on the final failed attempt, when no retry
		// follows; that failure is reported by the stage error instead.
		retry.WithOnRetry(func(attempt uint, err error) {
			if attempt+1 >= attempts {
				return
			}
			s.logger.Warn("action failed, retrying",
				"stage", stageName,
				"action", step.Action.Describe(),
				"attempt", attempt+1,
				"err", err)
		}),
	}
	if step.Retry.Attempts > 0 {
		opts = append(opts, retry.WithAttempts(step.Retry.Attempts))
	}
	if step.Retry.Delay > 0 {
		opts = append(opts, retry.WithDelay(step.Retry.Delay))
	}

	return retry.Do(ctx, execute, opts...)
}

func (s *Sequencer) cleanup(stage Stage) {
	if len(stage.Cleanup) == 0 {
		return
	}
	if s.dryRun {
		s.logger.Info("would reclaim", "stage", stage.Name, "targets", len(stage.Cleanup))
		return
	}
	s.logger.Debug("reclaiming", "stage", stage.Name, "targets", len(stage.Cleanup))
	s.reclaimer.Reclaim(stage.Cleanup)
}
