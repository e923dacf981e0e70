package telemetry

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vango-dev/widgetkit/pkg/component"
	"github.com/vango-dev/widgetkit/pkg/fastdom"
)

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "widgetkit").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for tick and pass durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "widgetkit",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics records scheduler ticks and component passes.
type Metrics struct {
	ticksTotal   prometheus.Counter
	tickDuration prometheus.Histogram
	tasksTotal   *prometheus.CounterVec
	taskErrors   prometheus.Counter
	lastFrame    prometheus.Gauge
	passesTotal  *prometheus.CounterVec
	passDuration *prometheus.HistogramVec
	passErrors   *prometheus.CounterVec
	watchesFired *prometheus.CounterVec
	hooksTotal   *prometheus.CounterVec
	hookErrors   *prometheus.CounterVec
}

var (
	_ fastdom.Observer   = (*Metrics)(nil)
	_ component.Reporter = (*Metrics)(nil)
)

// NewMetrics registers the metrics and returns the recorder.
// Registering twice on the same registry panics.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		ticksTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "ticks_total",
			Help:        "Total number of scheduler ticks that ran at least one task",
			ConstLabels: config.ConstLabels,
		}),

		tickDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "tick_duration_seconds",
			Help:        "Scheduler tick duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		tasksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "tasks_total",
			Help:        "Total number of scheduler tasks run",
			ConstLabels: config.ConstLabels,
		}, []string{"stage"}),

		taskErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "task_errors_total",
			Help:        "Total number of scheduler tasks that failed",
			ConstLabels: config.ConstLabels,
		}),

		lastFrame: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "frame",
			Help:        "Number of the last observed frame",
			ConstLabels: config.ConstLabels,
		}),

		passesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "passes_total",
			Help:        "Total number of component passes drained",
			ConstLabels: config.ConstLabels,
		}, []string{"component", "kind"}),

		passDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "pass_duration_seconds",
			Help:        "Component pass duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"component", "kind"}),

		passErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "pass_errors_total",
			Help:        "Total number of component passes that failed",
			ConstLabels: config.ConstLabels,
		}, []string{"component", "kind"}),

		watchesFired: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "watches_fired_total",
			Help:        "Total number of computed watch callbacks fired",
			ConstLabels: config.ConstLabels,
		}, []string{"component", "initial"}),

		hooksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "hooks_total",
			Help:        "Total number of lifecycle hook runs",
			ConstLabels: config.ConstLabels,
		}, []string{"component", "hook"}),

		hookErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "hook_errors_total",
			Help:        "Total number of lifecycle hooks that failed",
			ConstLabels: config.ConstLabels,
		}, []string{"component", "hook"}),
	}
}

// ObserveFlush records one tick.
func (m *Metrics) ObserveFlush(_ context.Context, stats fastdom.FlushStats) {
	m.ticksTotal.Inc()
	m.tickDuration.Observe(stats.Duration.Seconds())
	m.tasksTotal.WithLabelValues(fastdom.StageRead.String()).Add(float64(stats.Reads))
	m.tasksTotal.WithLabelValues(fastdom.StageWrite.String()).Add(float64(stats.Writes))
	m.taskErrors.Add(float64(stats.Errors))
	m.lastFrame.Set(float64(stats.Frame))
}

// ReportPass records one component pass.
func (m *Metrics) ReportPass(r component.PassReport) {
	kind := string(r.Kind)
	m.passesTotal.WithLabelValues(r.Component, kind).Inc()
	m.passDuration.WithLabelValues(r.Component, kind).Observe(r.Duration.Seconds())
	if r.Err != nil {
		m.passErrors.WithLabelValues(r.Component, kind).Inc()
	}
	if r.Kind == component.PassWatch && r.Ran > 0 {
		m.watchesFired.WithLabelValues(r.Component, strconv.FormatBool(r.Initial)).Add(float64(r.Ran))
	}
}

// ReportHook records one hook run.
func (m *Metrics) ReportHook(name string, hook component.HookName, err error) {
	m.hooksTotal.WithLabelValues(name, string(hook)).Inc()
	if err != nil {
		m.hookErrors.WithLabelValues(name, string(hook)).Inc()
	}
}
