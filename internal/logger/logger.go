package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Environments the log format depends on
const (
	EnvDev  = "dev"
	EnvProd = "prod"
)

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	With(args ...any) Logger
	WithGroup(name string) Logger
}

// New creates stderr logger for the environment: text for dev, JSON for prod
func New(environment string, level string) (Logger, error) {
	return newTo(os.Stderr, environment, level)
}

func NewTextLogger(level string) (Logger, error) {
	return newTo(os.Stderr, EnvDev, level)
}

func NewJSONLogger(level string) (Logger, error) {
	return newTo(os.Stderr, EnvProd, level)
}

// NewNoOpLogger creates a logger that discards everything
func NewNoOpLogger() Logger {
	return &slogLogger{handler: slog.DiscardHandler}
}

func newTo(w io.Writer, environment string, level string) (Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{
		Level:       lvl,
		AddSource:   true,
		ReplaceAttr: shortSource,
	}

	switch strings.ToLower(environment) {
	case EnvDev, "":
		return &slogLogger{handler: slog.NewTextHandler(w, opts)}, nil
	case EnvProd:
		return &slogLogger{handler: slog.NewJSONHandler(w, opts)}, nil
	default:
		return nil, fmt.Errorf("unknown environment %q", environment)
	}
}
