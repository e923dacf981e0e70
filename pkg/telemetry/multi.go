package telemetry

import (
	"context"

	"github.com/vango-dev/widgetkit/pkg/component"
	"github.com/vango-dev/widgetkit/pkg/fastdom"
)

// Fanout forwards every report and tick to each of its members.
type Fanout []interface {
	fastdom.Observer
	component.Reporter
}

// ObserveFlush forwards stats to every member.
func (f Fanout) ObserveFlush(ctx context.Context, stats fastdom.FlushStats) {
	for _, o := range f {
		o.ObserveFlush(ctx, stats)
	}
}

// ReportPass forwards r to every member.
func (f Fanout) ReportPass(r component.PassReport) {
	for _, o := range f {
		o.ReportPass(r)
	}
}

// ReportHook forwards the hook run to every member.
func (f Fanout) ReportHook(name string, hook component.HookName, err error) {
	for _, o := range f {
		o.ReportHook(name, hook, err)
	}
}
