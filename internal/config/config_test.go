package config

import (
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/widgetkit/internal/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func errorCode(t *testing.T, err error) string {
	t.Helper()
	var werr *errors.Error
	if !stderrors.As(err, &werr) {
		t.Fatalf("error %v is not a *errors.Error", err)
	}
	return werr.Code
}

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Loop.Interval != DefaultInterval {
		t.Errorf("Loop.Interval = %q, want %q", cfg.Loop.Interval, DefaultInterval)
	}
	if cfg.Inspector.Port != DefaultPort || !cfg.Inspector.Enabled {
		t.Errorf("Inspector = %+v", cfg.Inspector)
	}
	if cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("Metrics.Namespace = %q, want %q", cfg.Metrics.Namespace, DefaultNamespace)
	}
	if cfg.Tracing.Enabled {
		t.Error("Tracing should be disabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestLoadFormats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "json",
			file: "widgetd.json",
			content: `{
  "loop": {"interval": "50ms"},
  "inspector": {"enabled": false, "port": 8080},
  "log": {"level": "debug", "format": "json"},
  "demo": {"items": 2}
}
`,
		},
		{
			name: "yaml",
			file: "widgetd.yaml",
			content: `loop:
  interval: 50ms
inspector:
  enabled: false
  port: 8080
log:
  level: debug
  format: json
demo:
  items: 2
`,
		},
		{
			name: "yml",
			file: "widgetd.yml",
			content: `loop: {interval: 50ms}
inspector: {enabled: false, port: 8080}
log: {level: debug, format: json}
demo: {items: 2}
`,
		},
		{
			name: "toml",
			file: "widgetd.toml",
			content: `[loop]
interval = "50ms"

[inspector]
enabled = false
port = 8080

[log]
level = "debug"
format = "json"

[demo]
items = 2
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeFile(t, dir, tt.file, tt.content)

			cfg, err := Load(dir)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.Path() != path {
				t.Errorf("Path() = %q, want %q", cfg.Path(), path)
			}
			if cfg.FrameInterval() != 50*time.Millisecond {
				t.Errorf("FrameInterval() = %v, want 50ms", cfg.FrameInterval())
			}
			if cfg.Inspector.Enabled {
				t.Error("Inspector.Enabled = true, want false")
			}
			if cfg.InspectorAddress() != "localhost:8080" {
				t.Errorf("InspectorAddress() = %q", cfg.InspectorAddress())
			}
			if level, _ := cfg.LogLevel(); level != slog.LevelDebug {
				t.Errorf("LogLevel() = %v, want debug", level)
			}
			if cfg.Log.Format != "json" {
				t.Errorf("Log.Format = %q, want json", cfg.Log.Format)
			}
			// Unset values keep their defaults.
			if cfg.Demo.Items != 2 || cfg.Demo.Sections != 6 {
				t.Errorf("Demo = %+v", cfg.Demo)
			}
			if !cfg.Metrics.Enabled || cfg.Inspector.History != DefaultHistory {
				t.Errorf("defaults lost: metrics=%+v inspector=%+v", cfg.Metrics, cfg.Inspector)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(t.TempDir())
	if err == nil {
		t.Fatal("expected error for missing config")
	}
	if code := errorCode(t, err); code != "W100" {
		t.Errorf("code = %q, want W100", code)
	}

	_, err = LoadFile(filepath.Join(t.TempDir(), "widgetd.json"))
	if code := errorCode(t, err); code != "W100" {
		t.Errorf("code = %q, want W100", code)
	}
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(writeFile(t, dir, "widgetd.ini", "x=1"))
	if code := errorCode(t, err); code != "W102" {
		t.Errorf("unsupported extension code = %q, want W102", code)
	}

	_, err = LoadFile(writeFile(t, dir, "widgetd.json", "{not json"))
	if code := errorCode(t, err); code != "W101" {
		t.Errorf("invalid json code = %q, want W101", code)
	}

	_, err = LoadFile(writeFile(t, dir, "widgetd.toml", "[loop\ninterval ="))
	if code := errorCode(t, err); code != "W101" {
		t.Errorf("invalid toml code = %q, want W101", code)
	}
}

func TestLoadPrefersJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "widgetd.toml", "name = \"from-toml\"\n")
	writeFile(t, dir, "widgetd.json", `{"name": "from-json"}`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Name != "from-json" {
		t.Errorf("Name = %q, want from-json", cfg.Name)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	for _, ext := range Extensions {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ConfigBaseName+ext)

			cfg := New()
			cfg.Inspector.Port = 9090
			cfg.Tracing.Enabled = true
			if err := cfg.SaveTo(path); err != nil {
				t.Fatalf("SaveTo() error = %v", err)
			}

			loaded, err := LoadFile(path)
			if err != nil {
				t.Fatalf("LoadFile() error = %v", err)
			}
			if loaded.Inspector.Port != 9090 || !loaded.Tracing.Enabled {
				t.Errorf("loaded = %+v", loaded)
			}
			if cfg.Path() != path || loaded.Path() != path {
				t.Errorf("Path() = %q, %q, want %q", cfg.Path(), loaded.Path(), path)
			}
		})
	}

	if err := New().SaveTo(filepath.Join(t.TempDir(), "widgetd.ini")); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestMarshal(t *testing.T) {
	cfg := New()
	tests := []struct {
		ext  string
		want string
	}{
		{".json", `"interval": "16ms"`},
		{".yaml", "interval: 16ms"},
		{".YML", "interval: 16ms"},
		{".toml", `interval = "16ms"`},
	}
	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			data, err := cfg.Marshal(tt.ext)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if !strings.Contains(string(data), tt.want) {
				t.Errorf("Marshal() = %s, want it to contain %q", data, tt.want)
			}
		})
	}

	_, err := cfg.Marshal(".ini")
	if got := errorCode(t, err); got != "W102" {
		t.Errorf("code = %s, want W102", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"bad interval", func(c *Config) { c.Loop.Interval = "soon" }},
		{"negative interval", func(c *Config) { c.Loop.Interval = "-1s" }},
		{"port range", func(c *Config) { c.Inspector.Port = 70000 }},
		{"history", func(c *Config) { c.Inspector.History = -1 }},
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
		{"log format", func(c *Config) { c.Log.Format = "xml" }},
		{"demo items", func(c *Config) { c.Demo.Items = -2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.modify(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if code := errorCode(t, err); code != "W103" {
				t.Errorf("code = %q, want W103", code)
			}
		})
	}
}

func TestFrameIntervalFallback(t *testing.T) {
	cfg := New()
	cfg.Loop.Interval = "nope"
	if got := cfg.FrameInterval(); got != 16*time.Millisecond {
		t.Errorf("FrameInterval() = %v, want 16ms", got)
	}
}
