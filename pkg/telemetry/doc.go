// Package telemetry exports scheduler and component activity.
//
// Metrics records ticks, passes and hook failures as Prometheus metrics.
// Tracing turns the same events into OpenTelemetry spans. Both implement
// fastdom.Observer and component.Reporter:
//
//	m := telemetry.NewMetrics(telemetry.WithRegistry(reg))
//	s := fastdom.New(fastdom.WithObserver(m))
//	acc := widgets.NewAccordion(root, nil,
//	    component.WithScheduler(s),
//	    component.WithReporter(m),
//	)
package telemetry
