package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/vango-dev/widgetkit/internal/config"
	"github.com/vango-dev/widgetkit/pkg/component"
	"github.com/vango-dev/widgetkit/pkg/fastdom"
	"github.com/vango-dev/widgetkit/pkg/telemetry"
)

// loadConfig reads path, a file or a directory. An empty path yields the
// defaults.
func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	switch {
	case path == "":
		cfg = config.New()
	default:
		info, statErr := os.Stat(path)
		if statErr == nil && info.IsDir() {
			cfg, err = config.Load(path)
		} else {
			cfg, err = config.LoadFile(path)
		}
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the process logger from the log section.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	level, _ := cfg.LogLevel()
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler).With("service", cfg.Name)
}

// runtimeDeps are the scheduler and reporters shared by the commands.
type runtimeDeps struct {
	scheduler *fastdom.Scheduler
	registry  *prometheus.Registry
	reporter  component.Reporter
}

// newRuntime wires metrics and tracing into a fresh scheduler as the
// config asks.
func newRuntime(cfg *config.Config) *runtimeDeps {
	rt := &runtimeDeps{scheduler: fastdom.New()}

	var fan telemetry.Fanout
	if cfg.Metrics.Enabled {
		rt.registry = prometheus.NewRegistry()
		rt.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		fan = append(fan, telemetry.NewMetrics(
			telemetry.WithNamespace(cfg.Metrics.Namespace),
			telemetry.WithRegistry(rt.registry),
		))
	}
	if cfg.Tracing.Enabled {
		fan = append(fan, telemetry.NewTracing(telemetry.WithTracerName(cfg.Tracing.TracerName)))
	}

	if len(fan) > 0 {
		rt.scheduler.AddObserver(fan)
		rt.reporter = fan
	}
	return rt
}

// instanceOptions returns the component options carrying the reporter.
func (rt *runtimeDeps) instanceOptions() []component.InstanceOption {
	opts := []component.InstanceOption{component.WithScheduler(rt.scheduler)}
	if rt.reporter != nil {
		opts = append(opts, component.WithReporter(rt.reporter))
	}
	return opts
}
