package logger

import (
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

var (
	baseOnce sync.Once
	base     *slog.Logger
)

// Logger is a component-scoped structured logger.
type Logger struct {
	l *slog.Logger
}

func root() *slog.Logger {
	baseOnce.Do(func() {
		var out io.Writer = os.Stdout
		if logCfg.LogDir != "" {
			if err := os.MkdirAll(logCfg.LogDir, 0o755); err != nil {
				log.Fatalf("failed to create log dir: %s", err)
			}
			f, err := os.OpenFile(filepath.Join(logCfg.LogDir, "itemo.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err != nil {
				log.Fatalf("failed to open log file: %s", err)
			}
			out = io.MultiWriter(os.Stdout, f)
		}
		base = slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: logCfg.Level()}))
	})
	return base
}

// NewLogger returns a logger tagged with the component name and an instance id.
func NewLogger(component, id string) *Logger {
	return &Logger{l: root().With("component", component, "id", id)}
}

// New wraps an existing slog logger. Used by tests to capture output.
func New(l *slog.Logger) *Logger {
	return &Logger{l: l}
}

// Discard returns a logger that drops every record.
func Discard() *Logger {
	return &Logger{l: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func (lg *Logger) With(args ...any) *Logger {
	return &Logger{l: lg.l.With(args...)}
}

func (lg *Logger) Debug(msg string, args ...any) { lg.l.Debug(msg, args...) }
func (lg *Logger) Info(msg string, args ...any)  { lg.l.Info(msg, args...) }
func (lg *Logger) Warn(msg string, args ...any)  { lg.l.Warn(msg, args...) }
func (lg *Logger) Error(msg string, args ...any) { lg.l.Error(msg, args...) }
