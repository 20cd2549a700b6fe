// Package config loads paramcore settings from YAML files and PARAMCORE_
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/justyntemme/paramcore/pkg/framework/debug"
	"github.com/justyntemme/paramcore/pkg/framework/param"
)

// EnvPrefix prefixes environment overrides, e.g. PARAMCORE_STATE_BACKEND.
const EnvPrefix = "PARAMCORE"

// Backends understood by state.OpenStore.
const (
	BackendBinary = "binary"
	BackendSQLite = "sqlite"
	BackendYAML   = "yaml"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Log       debug.Config    `mapstructure:"log"`
	State     StateConfig     `mapstructure:"state"`
	Smoothing SmoothingConfig `mapstructure:"smoothing"`
}

type StateConfig struct {
	Backend  string `mapstructure:"backend"` // binary, sqlite, yaml
	Path     string `mapstructure:"path"`
	Preset   string `mapstructure:"preset"`
	LogLevel string `mapstructure:"log_level"` // gorm: silent, error, warn, info
}

type SmoothingConfig struct {
	Type        string  `mapstructure:"type"`
	TimeMs      float64 `mapstructure:"time_ms"`
	SampleRate  float64 `mapstructure:"sample_rate"`
	Composition string  `mapstructure:"composition"`
}

// Options parses the smoothing type and modulation composition.
func (s SmoothingConfig) Options() (param.SmoothingType, param.Composition, error) {
	st, err := param.ParseSmoothingType(s.Type)
	if err != nil {
		return 0, 0, err
	}
	c, err := param.ParseComposition(s.Composition)
	if err != nil {
		return 0, 0, err
	}
	return st, c, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	switch c.State.Backend {
	case BackendBinary, BackendSQLite, BackendYAML:
	default:
		errs = append(errs, fmt.Errorf("%w: state.backend %q", ErrInvalidConfig, c.State.Backend))
	}
	if c.State.Path == "" {
		errs = append(errs, fmt.Errorf("%w: state.path is empty", ErrInvalidConfig))
	}
	if _, _, err := c.Smoothing.Options(); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidConfig, err))
	}
	if c.Smoothing.TimeMs < 0 {
		errs = append(errs, fmt.Errorf("%w: smoothing.time_ms %g is negative", ErrInvalidConfig, c.Smoothing.TimeMs))
	}
	if c.Smoothing.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("%w: smoothing.sample_rate %g", ErrInvalidConfig, c.Smoothing.SampleRate))
	}

	return errors.Join(errs...)
}

// Source owns the viper instance behind a Config and keeps the decoded
// values current across reloads.
type Source struct {
	v       *viper.Viper
	mu      sync.RWMutex
	current Config
}

// Load reads the YAML file at path. With an empty path it searches for
// paramcore.yaml in the working directory and the user config directory,
// and falls back to defaults when none exists.
func Load(path string) (*Source, error) {
	s := &Source{v: viper.New()}
	s.setDefaults()

	s.v.SetEnvPrefix(EnvPrefix)
	s.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	s.v.AutomaticEnv()

	if path != "" {
		s.v.SetConfigFile(path)
	} else {
		s.v.SetConfigName("paramcore")
		s.v.SetConfigType("yaml")
		s.v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			s.v.AddConfigPath(filepath.Join(dir, "paramcore"))
		}
	}

	if err := s.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := s.apply(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Source) setDefaults() {
	dataDir := defaultDataDir()

	log := debug.DefaultConfig()
	s.v.SetDefault("log.level", log.Level)
	s.v.SetDefault("log.console", log.Console)
	s.v.SetDefault("log.file", log.File)
	s.v.SetDefault("log.file_path", filepath.Join(dataDir, "logs", "paramcore.log"))
	s.v.SetDefault("log.max_size", log.MaxSize)
	s.v.SetDefault("log.max_backups", log.MaxBackups)
	s.v.SetDefault("log.max_age", log.MaxAge)
	s.v.SetDefault("log.compress", log.Compress)
	s.v.SetDefault("log.json_format", log.JSONFormat)
	s.v.SetDefault("log.caller", log.Caller)

	s.v.SetDefault("state.backend", BackendBinary)
	s.v.SetDefault("state.path", filepath.Join(dataDir, "presets"))
	s.v.SetDefault("state.preset", "default")
	s.v.SetDefault("state.log_level", "warn")

	s.v.SetDefault("smoothing.type", param.ExponentialSmoothing.String())
	s.v.SetDefault("smoothing.time_ms", 20.0)
	s.v.SetDefault("smoothing.sample_rate", 48000.0)
	s.v.SetDefault("smoothing.composition", param.ComposeBoundedAdditive.String())
}

func (s *Source) apply() error {
	var cfg Config
	if err := s.v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	s.current = cfg
	s.mu.Unlock()
	return nil
}

// Config returns the current settings.
func (s *Source) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// File returns the config file in use, or "" when running on defaults.
func (s *Source) File() string {
	return s.v.ConfigFileUsed()
}

// Reload re-reads the config file. On error the previous settings stay in
// effect.
func (s *Source) Reload() error {
	if s.File() != "" {
		if err := s.v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to reload config: %w", err)
		}
	}
	return s.apply()
}

// Watch reloads the file whenever it changes and passes the outcome to fn.
func (s *Source) Watch(fn func(Config, error)) {
	s.v.OnConfigChange(func(e fsnotify.Event) {
		err := s.apply()
		if err != nil {
			debug.Warn("config reload rejected", debug.String("file", e.Name), debug.Err(err))
		} else {
			debug.Info("config reloaded", debug.String("file", e.Name))
		}
		if fn != nil {
			fn(s.Config(), err)
		}
	})
	s.v.WatchConfig()
}

// Set overrides a single key, e.g. "state.backend", and re-decodes.
func (s *Source) Set(key string, value interface{}) error {
	s.v.Set(key, value)
	return s.apply()
}

// WriteFile writes the effective settings to path as YAML. Existing files
// are not overwritten.
func (s *Source) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return s.v.SafeWriteConfigAs(path)
}

func defaultDataDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "paramcore")
	}
	return filepath.Join(os.TempDir(), "paramcore")
}
