// Package debug provides structured logging for the parameter core, its
// persistence backends and tools built on them.
package debug

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls where log output goes.
type Config struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"` // megabytes
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
	Compress   bool   `mapstructure:"compress"`
	JSONFormat bool   `mapstructure:"json_format"`
	Caller     bool   `mapstructure:"caller"`
}

// DefaultConfig logs info and above to the console only.
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Console:    true,
		File:       false,
		FilePath:   filepath.Join(os.TempDir(), "paramcore", "paramcore.log"),
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}
}

// Logger wraps a zerolog.Logger. Never call it from the audio thread:
// every call may allocate and write.
type Logger struct {
	mu         sync.RWMutex
	logger     zerolog.Logger
	level      zerolog.Level
	component  string
	enabled    bool
	fileWriter *lumberjack.Logger
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// Default returns the package-wide logger, creating it from DefaultConfig
// on first use.
func Default() *Logger {
	once.Do(func() {
		l, err := NewWithConfig(DefaultConfig())
		if err != nil {
			l = New(os.Stderr, "")
		}
		defaultLogger = l
	})
	return defaultLogger
}

// Initialize replaces the configuration of the default logger.
func Initialize(cfg Config) error {
	return Default().Configure(cfg)
}

// New creates a logger writing JSON lines to w. A non-empty component is
// attached to every entry.
func New(w io.Writer, component string) *Logger {
	l := &Logger{
		level:     zerolog.InfoLevel,
		component: component,
		enabled:   true,
	}
	l.logger = l.build(w, false)
	return l
}

// NewWithConfig creates a logger from cfg.
func NewWithConfig(cfg Config) (*Logger, error) {
	l := &Logger{enabled: true}
	if err := l.Configure(cfg); err != nil {
		return nil, err
	}
	return l, nil
}

// Configure rebuilds the outputs from cfg. An unparsable level falls back
// to info and is reported.
func (l *Logger) Configure(cfg Config) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var errs []error
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		errs = append(errs, fmt.Errorf("invalid level %q: %w", cfg.Level, err))
		level = zerolog.InfoLevel
	} else if cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	l.level = level

	var outputs []io.Writer
	if cfg.Console {
		if cfg.JSONFormat {
			outputs = append(outputs, os.Stderr)
		} else {
			outputs = append(outputs, zerolog.ConsoleWriter{
				Out:        os.Stderr,
				TimeFormat: "15:04:05",
				FormatLevel: func(i interface{}) string {
					return strings.ToUpper(fmt.Sprintf("%-5s", i))
				},
			})
		}
	}

	if l.fileWriter != nil {
		_ = l.fileWriter.Close()
		l.fileWriter = nil
	}
	if cfg.File {
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
			errs = append(errs, fmt.Errorf("create log directory: %w", err))
		} else {
			l.fileWriter = &lumberjack.Logger{
				Filename:   cfg.FilePath,
				MaxSize:    cfg.MaxSize,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAge,
				Compress:   cfg.Compress,
			}
			outputs = append(outputs, l.fileWriter)
		}
	}

	var w io.Writer = io.Discard
	if len(outputs) > 0 {
		w = zerolog.MultiLevelWriter(outputs...)
	}
	l.logger = l.build(w, cfg.Caller)

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	return nil
}

func (l *Logger) build(w io.Writer, caller bool) zerolog.Logger {
	ctx := zerolog.New(w).Level(l.level).With().Timestamp()
	if l.component != "" {
		ctx = ctx.Str("component", l.component)
	}
	if caller {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}

// With returns a child logger tagged with component. It shares the
// parent's outputs and level at the time of the call.
func (l *Logger) With(component string) *Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return &Logger{
		logger:    l.logger.With().Str("component", component).Logger(),
		level:     l.level,
		component: component,
		enabled:   l.enabled,
	}
}

// SetOutput redirects the logger to w.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger = l.build(w, false)
}

// SetLevel sets the minimum level by name.
func (l *Logger) SetLevel(level string) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = lvl
	l.logger = l.logger.Level(lvl)
	return nil
}

// Level returns the name of the minimum level.
func (l *Logger) Level() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level.String()
}

// SetEnabled enables or disables the logger.
func (l *Logger) SetEnabled(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = enabled
}

// IsEnabled returns whether the logger is enabled.
func (l *Logger) IsEnabled() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.enabled
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fileWriter != nil {
		err := l.fileWriter.Close()
		l.fileWriter = nil
		return err
	}
	return nil
}

func (l *Logger) log(level zerolog.Level, msg string, fields []Field) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if !l.enabled {
		return
	}
	event := l.logger.WithLevel(level)
	if event == nil {
		return
	}
	for _, field := range fields {
		event = field.Apply(event)
	}
	event.Msg(msg)
}

func (l *Logger) Debug(msg string, fields ...Field) {
	l.log(zerolog.DebugLevel, msg, fields)
}

func (l *Logger) Info(msg string, fields ...Field) {
	l.log(zerolog.InfoLevel, msg, fields)
}

func (l *Logger) Warn(msg string, fields ...Field) {
	l.log(zerolog.WarnLevel, msg, fields)
}

func (l *Logger) Error(msg string, fields ...Field) {
	l.log(zerolog.ErrorLevel, msg, fields)
}

// Field is a key/value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

// Apply adds the field to event.
func (f Field) Apply(event *zerolog.Event) *zerolog.Event {
	if err, ok := f.Value.(error); ok {
		return event.AnErr(f.Key, err)
	}
	return event.Interface(f.Key, f.Value)
}

func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Uint32(key string, value uint32) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value}
}

func Err(err error) Field {
	return Field{Key: "error", Value: err}
}

func Any(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Global logger functions

// SetOutput redirects the default logger to w.
func SetOutput(w io.Writer) {
	Default().SetOutput(w)
}

// SetLevel sets the minimum level of the default logger.
func SetLevel(level string) error {
	return Default().SetLevel(level)
}

// SetEnabled enables or disables the default logger.
func SetEnabled(enabled bool) {
	Default().SetEnabled(enabled)
}

func Debug(msg string, fields ...Field) {
	Default().Debug(msg, fields...)
}

func Info(msg string, fields ...Field) {
	Default().Info(msg, fields...)
}

func Warn(msg string, fields ...Field) {
	Default().Warn(msg, fields...)
}

func Error(msg string, fields ...Field) {
	Default().Error(msg, fields...)
}

// Conditional logging helpers

// DebugIf logs a debug message if the condition is true.
func DebugIf(condition bool, msg string, fields ...Field) {
	if condition {
		Default().Debug(msg, fields...)
	}
}

// WarnIf logs a warning message if the condition is true.
func WarnIf(condition bool, msg string, fields ...Field) {
	if condition {
		Default().Warn(msg, fields...)
	}
}

// ErrorIf logs an error message if the condition is true.
func ErrorIf(condition bool, msg string, fields ...Field) {
	if condition {
		Default().Error(msg, fields...)
	}
}
