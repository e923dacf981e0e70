package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/vango-dev/widgetkit/internal/errors"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigBaseName is the configuration file name without extension.
	ConfigBaseName = "widgetd"

	// DefaultInterval is the default frame interval.
	DefaultInterval = "16ms"

	// DefaultHost is the default inspector host.
	DefaultHost = "localhost"

	// DefaultPort is the default inspector port.
	DefaultPort = 7070

	// DefaultHistory is the default number of frames kept by the inspector.
	DefaultHistory = 120

	// DefaultNamespace is the default metrics namespace and tracer name.
	DefaultNamespace = "widgetkit"
)

// Extensions lists the supported file extensions in lookup order.
var Extensions = []string{".json", ".yaml", ".yml", ".toml"}

// Config represents the complete widgetd configuration.
type Config struct {
	// Name identifies the process in logs.
	Name string `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`

	// Loop contains frame loop configuration.
	Loop LoopConfig `json:"loop" yaml:"loop" toml:"loop"`

	// Inspector contains inspector server configuration.
	Inspector InspectorConfig `json:"inspector" yaml:"inspector" toml:"inspector"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics" yaml:"metrics" toml:"metrics"`

	// Tracing contains OpenTelemetry configuration.
	Tracing TracingConfig `json:"tracing" yaml:"tracing" toml:"tracing"`

	// Log contains logging configuration.
	Log LogConfig `json:"log" yaml:"log" toml:"log"`

	// Demo sizes the simulated page.
	Demo DemoConfig `json:"demo" yaml:"demo" toml:"demo"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// LoopConfig contains frame loop settings.
type LoopConfig struct {
	// Interval is the time between ticks (e.g., "16ms").
	Interval string `json:"interval,omitempty" yaml:"interval,omitempty" toml:"interval,omitempty"`
}

// InspectorConfig contains inspector server settings.
type InspectorConfig struct {
	// Enabled starts the inspector server.
	Enabled bool `json:"enabled" yaml:"enabled" toml:"enabled"`

	// Host is the host to bind to.
	Host string `json:"host,omitempty" yaml:"host,omitempty" toml:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty" yaml:"port,omitempty" toml:"port,omitempty"`

	// History is the number of frames kept for /frames.
	History int `json:"history,omitempty" yaml:"history,omitempty" toml:"history,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled registers the metrics and serves /metrics.
	Enabled bool `json:"enabled" yaml:"enabled" toml:"enabled"`

	// Namespace is the metrics namespace.
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty" toml:"namespace,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	// Enabled records spans through the global tracer provider.
	Enabled bool `json:"enabled" yaml:"enabled" toml:"enabled"`

	// TracerName is the name of the tracer.
	TracerName string `json:"tracerName,omitempty" yaml:"tracerName,omitempty" toml:"tracerName,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `json:"level,omitempty" yaml:"level,omitempty" toml:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty" toml:"format,omitempty"`
}

// DemoConfig sizes the simulated page.
type DemoConfig struct {
	// Items is the number of accordion items.
	Items int `json:"items,omitempty" yaml:"items,omitempty" toml:"items,omitempty"`

	// Sections is the number of sections spied by the scrollspy.
	Sections int `json:"sections,omitempty" yaml:"sections,omitempty" toml:"sections,omitempty"`

	// Seed seeds the synthetic event source.
	Seed int64 `json:"seed,omitempty" yaml:"seed,omitempty" toml:"seed,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Name: "widgetd",
		Loop: LoopConfig{
			Interval: DefaultInterval,
		},
		Inspector: InspectorConfig{
			Enabled: true,
			Host:    DefaultHost,
			Port:    DefaultPort,
			History: DefaultHistory,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
		},
		Tracing: TracingConfig{
			TracerName: DefaultNamespace,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Demo: DemoConfig{
			Items:    4,
			Sections: 6,
			Seed:     1,
		},
	}
}

// Load reads configuration from the specified directory.
// It uses the first widgetd.{json,yaml,yml,toml} found.
func Load(dir string) (*Config, error) {
	for _, ext := range Extensions {
		path := filepath.Join(dir, ConfigBaseName+ext)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("W100").
		WithDetail("No widgetd.json, widgetd.yaml or widgetd.toml found in " + dir).
		WithSuggestion("Create one or run without --config to use the defaults")
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !supported(ext) {
		return nil, errors.New("W102").
			WithDetail(fmt.Sprintf("%q has extension %q", path, ext)).
			WithSuggestion("Use one of " + strings.Join(Extensions, ", "))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("W100").
				WithDetail("No config found at " + path)
		}
		return nil, errors.New("W101").Wrap(err)
	}

	cfg := New()
	if err := unmarshal(ext, data, cfg); err != nil {
		return nil, errors.New("W101").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			Wrap(err)
	}

	cfg.configPath = path
	cfg.applyDefaults()
	return cfg, nil
}

func supported(ext string) bool {
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

func unmarshal(ext string, data []byte, cfg *Config) error {
	switch ext {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	case ".toml":
		return toml.Unmarshal(data, cfg)
	default:
		return json.Unmarshal(data, cfg)
	}
}

func marshal(ext string, cfg *Config) ([]byte, error) {
	switch ext {
	case ".yaml", ".yml":
		return yaml.Marshal(cfg)
	case ".toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
}

// Marshal encodes the config in the format named by ext (".json",
// ".yaml", ".yml" or ".toml").
func (c *Config) Marshal(ext string) ([]byte, error) {
	ext = strings.ToLower(ext)
	if !supported(ext) {
		return nil, errors.New("W102").WithDetail(fmt.Sprintf("unknown format %q", ext))
	}
	data, err := marshal(ext, c)
	if err != nil {
		return nil, errors.New("W101").Wrap(err)
	}
	return data, nil
}

// SaveTo writes the configuration to path in the format of its extension.
func (c *Config) SaveTo(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if !supported(ext) {
		return errors.New("W102").WithDetail(fmt.Sprintf("%q has extension %q", path, ext))
	}

	data, err := marshal(ext, c)
	if err != nil {
		return errors.New("W101").Wrap(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("W101").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Name == "" {
		c.Name = "widgetd"
	}
	if c.Loop.Interval == "" {
		c.Loop.Interval = DefaultInterval
	}

	if c.Inspector.Host == "" {
		c.Inspector.Host = DefaultHost
	}
	if c.Inspector.Port == 0 {
		c.Inspector.Port = DefaultPort
	}
	if c.Inspector.History == 0 {
		c.Inspector.History = DefaultHistory
	}

	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultNamespace
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	if c.Demo.Items == 0 {
		c.Demo.Items = 4
	}
	if c.Demo.Sections == 0 {
		c.Demo.Sections = 6
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	interval, err := time.ParseDuration(c.Loop.Interval)
	if err != nil || interval <= 0 {
		return errors.New("W103").
			WithDetail(fmt.Sprintf("loop.interval %q must be a positive duration", c.Loop.Interval))
	}
	if c.Inspector.Port < 0 || c.Inspector.Port > 65535 {
		return errors.New("W103").
			WithDetail("inspector.port must be between 0 and 65535")
	}
	if c.Inspector.History < 1 {
		return errors.New("W103").
			WithDetail("inspector.history must be at least 1")
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("W103").
			WithDetail(fmt.Sprintf("log.format %q must be text or json", c.Log.Format))
	}
	if c.Demo.Items < 1 || c.Demo.Sections < 1 {
		return errors.New("W103").
			WithDetail("demo.items and demo.sections must be at least 1")
	}
	return nil
}

// FrameInterval returns the parsed loop interval, or the default when it
// does not parse.
func (c *Config) FrameInterval() time.Duration {
	d, err := time.ParseDuration(c.Loop.Interval)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(DefaultInterval)
	}
	return d
}

// LogLevel parses the configured log level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, errors.New("W103").
			WithDetail(fmt.Sprintf("log.level %q must be debug, info, warn or error", c.Log.Level))
	}
	return level, nil
}

// InspectorAddress returns the listen address of the inspector.
func (c *Config) InspectorAddress() string {
	return c.Inspector.Host + ":" + strconv.Itoa(c.Inspector.Port)
}
