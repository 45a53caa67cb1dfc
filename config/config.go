// Package config loads waypath configuration from YAML, applies defaults
// and environment overrides, and validates the result.
//
// Precedence, lowest first: Default(), the YAML file, WAYPATH_* environment
// variables. Command-line flags are applied by the CLI on top.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the complete runtime configuration.
type Config struct {
	// ProximityThreshold is how close, in meters, a gesture must land to a
	// waypoint to select it. Matching is strict: distance < threshold.
	ProximityThreshold float64 `yaml:"proximity_threshold" validate:"gt=0"`

	// StrictRoutes makes unreachable destinations a routing error instead
	// of a one-waypoint route.
	StrictRoutes bool `yaml:"strict_routes"`

	Log     LogConfig     `yaml:"log"`
	Store   StoreConfig   `yaml:"store"`
	Metrics MetricsConfig `yaml:"metrics"`

	// Seed is an optional HCL scenario applied to an empty map at startup.
	Seed string `yaml:"seed"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=auto text json"`
}

// StoreConfig selects where maps are saved.
type StoreConfig struct {
	Backend string `yaml:"backend" validate:"oneof=file sqlite badger"`
	Path    string `yaml:"path" validate:"required"`
}

// MetricsConfig controls the Prometheus textfile export.
type MetricsConfig struct {
	// Textfile, when set, receives the metrics in text exposition format
	// when the process exits.
	Textfile string `yaml:"textfile"`
}

// Store backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
)

var validate = validator.New()

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ProximityThreshold: 0.5,
		Log:                LogConfig{Level: "info", Format: "auto"},
		Store:              StoreConfig{Backend: BackendFile, Path: "waypath-map"},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := decode(bytes.NewReader(data), &cfg); err != nil {
				return cfg, fmt.Errorf("config: parse %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// use defaults
		default:
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	FromEnv(&cfg, os.Getenv)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Parse decodes YAML over the defaults and validates. Unknown keys are errors.
func Parse(r io.Reader) (Config, error) {
	cfg := Default()
	if err := decode(r, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}

// FromEnv applies WAYPATH_* overrides read through getenv. Malformed
// numbers are ignored.
func FromEnv(cfg *Config, getenv func(string) string) {
	if v := getenv("WAYPATH_PROXIMITY_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.ProximityThreshold = f
		}
	}
	if v := getenv("WAYPATH_STRICT_ROUTES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.StrictRoutes = b
		}
	}
	if v := getenv("WAYPATH_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := getenv("WAYPATH_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := getenv("WAYPATH_STORE_BACKEND"); v != "" {
		cfg.Store.Backend = v
	}
	if v := getenv("WAYPATH_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := getenv("WAYPATH_METRICS_TEXTFILE"); v != "" {
		cfg.Metrics.Textfile = v
	}
	if v := getenv("WAYPATH_SEED"); v != "" {
		cfg.Seed = v
	}
}

// Validate checks struct constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	return nil
}
