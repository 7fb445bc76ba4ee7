// Package worker runs background agents as a sequence of iterations.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Iteration is one unit of background work.
type Iteration func(ctx context.Context) error

// Looper calls an Iteration repeatedly. Iterations never overlap and each one
// starts at least IterMinPeriod after the previous one started.
type Looper struct {
	IterMinPeriod time.Duration
	Logger        *slog.Logger
}

// Run blocks until ctx is cancelled. A failing or panicking iteration is
// logged and the loop carries on.
func (l *Looper) Run(ctx context.Context, name string, iter Iteration) error {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("agent", name)
	logger.Info("looper started", "iter_min_period", l.IterMinPeriod.String())

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("looper stopped")
			return nil
		case <-timer.C:
		}

		start := time.Now()
		if err := l.runOnce(ctx, iter); err != nil {
			logger.Error("iteration failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		} else {
			logger.Debug("iteration finished", "duration_ms", time.Since(start).Milliseconds())
		}

		wait := l.IterMinPeriod - time.Since(start)
		if wait < 0 {
			wait = 0
		}
		timer.Reset(wait)
	}
}

func (l *Looper) runOnce(ctx context.Context, iter Iteration) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("iteration panicked: %v", rec)
		}
	}()
	return iter(ctx)
}
