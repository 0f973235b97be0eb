package logger

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

var levels = map[string]slog.Level{
	LevelDebug: slog.LevelDebug,
	LevelInfo:  slog.LevelInfo,
	LevelWarn:  slog.LevelWarn,
	LevelError: slog.LevelError,
}

type slogLogger struct {
	handler slog.Handler
}

// Frames between the caller and log: runtime.Callers, log, Debug/Info/...
const callerSkip = 3

func (l *slogLogger) log(level slog.Level, msg string, args []any) {
	ctx := context.Background()
	if !l.handler.Enabled(ctx, level) {
		return
	}

	var pcs [1]uintptr
	runtime.Callers(callerSkip, pcs[:])

	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	r.Add(args...)
	_ = l.handler.Handle(ctx, r)
}

func (l *slogLogger) Debug(msg string, args ...any) { l.log(slog.LevelDebug, msg, args) }
func (l *slogLogger) Info(msg string, args ...any)  { l.log(slog.LevelInfo, msg, args) }
func (l *slogLogger) Warn(msg string, args ...any)  { l.log(slog.LevelWarn, msg, args) }
func (l *slogLogger) Error(msg string, args ...any) { l.log(slog.LevelError, msg, args) }

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{handler: slog.New(l.handler).With(args...).Handler()}
}

func (l *slogLogger) WithGroup(name string) Logger {
	return &slogLogger{handler: l.handler.WithGroup(name)}
}

func parseLevel(level string) (slog.Level, error) {
	lvl, ok := levels[strings.ToLower(level)]
	if !ok {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
	return lvl, nil
}

// Keep only file name of the source, package path is noise in logs
func shortSource(_ []string, a slog.Attr) slog.Attr {
	if src, ok := a.Value.Any().(*slog.Source); ok && a.Key == slog.SourceKey {
		src.File = filepath.Base(src.File)
	}
	return a
}
