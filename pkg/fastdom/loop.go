package fastdom

import (
	"context"
	"log/slog"
	"time"
)

// DefaultInterval is the tick interval of a Loop, roughly one display frame.
const DefaultInterval = 16 * time.Millisecond

// Loop flushes a Scheduler on a fixed interval.
type Loop struct {
	scheduler *Scheduler
	interval  time.Duration
	logger    *slog.Logger
	onTick    []func(frame uint64)
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithInterval sets the tick interval.
func WithInterval(d time.Duration) LoopOption {
	return func(l *Loop) {
		if d > 0 {
			l.interval = d
		}
	}
}

// WithLogger sets the logger used for tick errors.
func WithLogger(logger *slog.Logger) LoopOption {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithTickFunc registers fn to run at the start of every tick, before the
// flush. It is where hosts feed external events into components.
func WithTickFunc(fn func(frame uint64)) LoopOption {
	return func(l *Loop) {
		if fn != nil {
			l.onTick = append(l.onTick, fn)
		}
	}
}

// NewLoop creates a Loop for s. A nil s uses the default scheduler.
func NewLoop(s *Scheduler, opts ...LoopOption) *Loop {
	if s == nil {
		s = defaultScheduler
	}
	l := &Loop{
		scheduler: s,
		interval:  DefaultInterval,
		logger:    slog.Default().With("component", "fastdom"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Scheduler returns the scheduler driven by the loop.
func (l *Loop) Scheduler() *Scheduler {
	return l.scheduler
}

// Tick runs the tick functions and flushes once.
func (l *Loop) Tick(ctx context.Context) error {
	frame := l.scheduler.Frame() + 1
	for _, fn := range l.onTick {
		fn(frame)
	}
	return l.scheduler.FlushContext(ctx)
}

// Run ticks until ctx is cancelled. Tick errors are logged, not returned,
// so one failing component does not stop the frame loop.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.logger.Info("frame loop started", "interval", l.interval)
	defer l.logger.Info("frame loop stopped", "frames", l.scheduler.Frame())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := l.Tick(ctx); err != nil {
				l.logger.Error("tick failed", "frame", l.scheduler.Frame(), "error", err)
			}
		}
	}
}
