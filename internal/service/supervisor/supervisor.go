package supervisor

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/oshokin/speaker-autogroup/internal/config"
	"github.com/oshokin/speaker-autogroup/internal/logger"
	"github.com/oshokin/speaker-autogroup/internal/metrics"
	"github.com/oshokin/speaker-autogroup/internal/service/reconciler"
)

// ErrPassPanicked wraps the value recovered from a panicking pass.
var ErrPassPanicked = errors.New("pass panicked")

// Runner runs one reconciliation pass.
type Runner interface {
	RunPass(ctx context.Context) (*reconciler.Report, error)
}

// Observer is notified after every pass.
type Observer interface {
	ObservePass(report *reconciler.Report, outcome metrics.Outcome, elapsed time.Duration)
}

// Supervisor repeats passes on a fixed delay and survives every pass failure.
type Supervisor struct {
	// runner performs the passes.
	runner Runner
	// interval is the delay between the end of a pass and the start of the next.
	interval time.Duration
	// observer receives pass outcomes, may be nil.
	observer Observer
}

// Option configures a Supervisor.
type Option func(*Supervisor)

// WithInterval overrides the delay between passes.
func WithInterval(interval time.Duration) Option {
	return func(s *Supervisor) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// WithObserver reports every pass outcome to o.
func WithObserver(o Observer) Option {
	return func(s *Supervisor) {
		s.observer = o
	}
}

// New creates a Supervisor around runner.
func New(runner Runner, opts ...Option) *Supervisor {
	s := &Supervisor{
		runner:   runner,
		interval: config.DefaultInterval,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Run performs passes until ctx is cancelled. It never returns a pass error.
func (s *Supervisor) Run(ctx context.Context) error {
	timer := time.NewTimer(s.interval)
	timer.Stop()

	defer timer.Stop()

	for pass := 1; ; pass++ {
		if ctx.Err() != nil {
			logger.Info(ctx, "Context canceled, exiting")
			return nil
		}

		s.runOnce(logger.WithKV(ctx, "pass", pass))

		timer.Reset(s.interval)

		select {
		case <-ctx.Done():
			logger.Info(ctx, "Context canceled, exiting")
			return nil
		case <-timer.C:
		}
	}
}

func (s *Supervisor) runOnce(ctx context.Context) {
	started := time.Now()
	report, err := s.safePass(ctx)
	elapsed := time.Since(started)

	outcome := metrics.OutcomeSuccess

	switch {
	case err == nil && report == nil:
		logger.InfoKV(ctx, "Pass completed", "elapsed", elapsed.String())
	case err == nil:
		logger.InfoKV(ctx, "Pass completed",
			"discovered", report.Discovered,
			"joins", len(report.Joins),
			"elapsed", elapsed.String())
	case errors.Is(err, ErrPassPanicked):
		outcome = metrics.OutcomePanic

		logger.ErrorKV(ctx, "Pass failed", "error", err)
	default:
		outcome = metrics.OutcomeFailure

		logger.ErrorKV(ctx, "Pass failed", "error", err)
	}

	if s.observer != nil {
		s.observer.ObservePass(report, outcome, elapsed)
	}
}

// safePass converts a panic inside the pass into ErrPassPanicked.
func (s *Supervisor) safePass(ctx context.Context) (report *reconciler.Report, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorKV(ctx, "Recovered from panic in pass", "panic", r, "stack", string(debug.Stack()))

			report = nil
			err = fmt.Errorf("%w: %v", ErrPassPanicked, r)
		}
	}()

	return s.runner.RunPass(ctx)
}
