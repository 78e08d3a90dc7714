package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"loud":    slog.LevelInfo,
	}
	for in, want := range cases {
		if got := (&Conf{LogLevel: in}).Level(); got != want {
			t.Errorf("Level(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestWithAttributes(t *testing.T) {
	var buf bytes.Buffer
	lg := New(slog.New(slog.NewJSONHandler(&buf, nil))).With("component", "chat")

	lg.Info("tool executed", "tool", "get_courts")

	out := buf.String()
	for _, want := range []string{`"component":"chat"`, `"tool":"get_courts"`, `"msg":"tool executed"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in %s", want, out)
		}
	}
}

func TestDiscard(t *testing.T) {
	Discard().Error("dropped", "error", "boom")
}
