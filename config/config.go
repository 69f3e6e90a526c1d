// Package config loads and validates the service configuration. Files are
// YAML, checked against an embedded CUE schema before decoding so typos in
// field names or enum values fail loudly instead of silently defaulting.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
	"gopkg.in/yaml.v3"

	"github.com/orbitdet/eopkit/eop"
)

//go:embed schema.cue
var schemaSource string

// Duration wraps time.Duration to support YAML unmarshalling from strings.
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses duration strings like "5s" or "1m".
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value == nil {
		return fmt.Errorf("duration value node is nil")
	}
	var raw string
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("decode duration: %w", err)
	}
	if raw == "" {
		d.Duration = 0
		return nil
	}
	dur, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	d.Duration = dur
	return nil
}

// MarshalYAML renders the duration as a string.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// SourceFormat names a supported input product.
type SourceFormat string

const (
	// FormatLongTerm is the fixed-column long-term combined product.
	FormatLongTerm SourceFormat = "longterm"
	// FormatBulletinA is the rapid bulletin with predicted columns.
	FormatBulletinA SourceFormat = "bulletin_a"
	// FormatBulletinB is the rapid bulletin restricted to the final columns.
	FormatBulletinB SourceFormat = "bulletin_b"
	// FormatDefaults selects the dataset packaged with the binary.
	FormatDefaults SourceFormat = "defaults"
)

// SourceConfig describes where the orientation data comes from.
type SourceConfig struct {
	Path          string       `yaml:"path,omitempty"`
	Format        SourceFormat `yaml:"format"`
	Extrapolation string       `yaml:"extrapolation,omitempty"`
	Interpolate   *bool        `yaml:"interpolate,omitempty"`
}

// LokiConfig configures optional Loki integration for logging.
type LokiConfig struct {
	Enabled bool              `yaml:"enabled"`
	URL     string            `yaml:"url"`
	Labels  map[string]string `yaml:"labels"`
}

// LoggingConfig encapsulates runtime logging options.
type LoggingConfig struct {
	Level  string     `yaml:"level"`
	Format string     `yaml:"format,omitempty"`
	Loki   LokiConfig `yaml:"loki"`
}

// TelemetryConfig toggles metric collection.
type TelemetryConfig struct {
	Enabled bool `yaml:"enabled"`
}

// WatchConfig controls live reloading of the source file.
type WatchConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Interval Duration `yaml:"interval,omitempty"`
}

// Config is the root configuration structure for the service.
type Config struct {
	Source    SourceConfig    `yaml:"source"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Watch     WatchConfig     `yaml:"watch"`
}

// Load reads the configuration file, validates it against the schema and
// decodes it.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := validateSchema(raw); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validateSchema(raw []byte) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	return cueyaml.Validate(raw, schema)
}

func (c *Config) validate() error {
	switch c.Source.Format {
	case FormatDefaults:
		if c.Source.Path != "" {
			return fmt.Errorf("source: format %q takes no path", c.Source.Format)
		}
	case FormatLongTerm, FormatBulletinA, FormatBulletinB:
		if c.Source.Path == "" {
			return fmt.Errorf("source: format %q requires a path", c.Source.Format)
		}
	default:
		return fmt.Errorf("source: unknown format %q", c.Source.Format)
	}
	if _, err := c.Source.Policy(); err != nil {
		return err
	}
	return nil
}

// SourceType maps the configured format onto the loader's source kind.
// FormatDefaults has no corresponding file layout and reports an error.
func (s SourceConfig) SourceType() (eop.SourceType, error) {
	switch s.Format {
	case FormatLongTerm:
		return eop.SourceLongTerm, nil
	case FormatBulletinA:
		return eop.SourceBulletinA, nil
	case FormatBulletinB:
		return eop.SourceBulletinB, nil
	default:
		return 0, fmt.Errorf("source: format %q has no file layout", s.Format)
	}
}

// Policy resolves the configured extrapolation mode, defaulting to hold.
func (s SourceConfig) Policy() (eop.ExtrapolationPolicy, error) {
	switch s.Extrapolation {
	case "", "hold":
		return eop.ExtrapolateHold, nil
	case "zero":
		return eop.ExtrapolateZero, nil
	case "error":
		return eop.ExtrapolateError, nil
	default:
		return 0, fmt.Errorf("source: unknown extrapolation %q", s.Extrapolation)
	}
}

// Interpolating reports whether interpolation is on. Defaults to true.
func (s SourceConfig) Interpolating() bool {
	if s.Interpolate == nil {
		return true
	}
	return *s.Interpolate
}

// WatchInterval returns the configured poll interval for live reload.
func (c *Config) WatchInterval() time.Duration {
	if c == nil || c.Watch.Interval.Duration <= 0 {
		return 30 * time.Second
	}
	return c.Watch.Interval.Duration
}
