package fastdom

import (
	"context"
	"time"
)

// FlushStats describes one tick.
type FlushStats struct {
	Frame    uint64        `json:"frame"`
	Start    time.Time     `json:"start"`
	Duration time.Duration `json:"duration"`
	Reads    int           `json:"reads"`
	Writes   int           `json:"writes"`
	Errors   int           `json:"errors"`
}

// Observer is notified after every tick that ran at least one task.
type Observer interface {
	ObserveFlush(ctx context.Context, stats FlushStats)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx context.Context, stats FlushStats)

// ObserveFlush calls f.
func (f ObserverFunc) ObserveFlush(ctx context.Context, stats FlushStats) {
	f(ctx, stats)
}
