package logger_i

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestLogger_PicksUpLateInit(t *testing.T) {
	early := NewLogger("early")

	var buf bytes.Buffer
	InitWithWriter(&buf, slog.LevelInfo, true)
	t.Cleanup(func() { InitWithWriter(&bytes.Buffer{}, slog.LevelInfo, false) })

	early.With("jobId", "j-1").Info("hello")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected a json line, got %q: %v", buf.String(), err)
	}
	if line["component"] != "early" || line["jobId"] != "j-1" || line["msg"] != "hello" {
		t.Errorf("unexpected record %v", line)
	}
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, slog.LevelWarn, false)
	t.Cleanup(func() { InitWithWriter(&bytes.Buffer{}, slog.LevelInfo, false) })

	l := NewLogger("filter")
	l.Debug("hidden")
	l.Info("hidden too")
	l.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug/info leaked through warn level: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn line missing: %q", out)
	}
}

func TestLogger_WithTrace(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, slog.LevelDebug, false)
	t.Cleanup(func() { InitWithWriter(&bytes.Buffer{}, slog.LevelInfo, false) })

	ctx := context.WithValue(context.Background(), "traceId", "abc-123")
	NewLogger("trace").WithTrace(ctx, "traceId").Info("traced")

	if !strings.Contains(buf.String(), "traceId=abc-123") {
		t.Errorf("trace id not attached: %q", buf.String())
	}
}
