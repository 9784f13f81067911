package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestFromContextAddsRequestAndUser(t *testing.T) {
	var buf bytes.Buffer
	prev := defaultLogger
	defaultLogger = slog.New(slog.NewJSONHandler(&buf, nil))
	defer func() { defaultLogger = prev }()

	ctx := ContextWithRequestID(context.Background(), "req-123")
	ctx = ContextWithUserID(ctx, "user-9")
	InfoContext(ctx, "task updated", "task_id", "t1")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}
	if entry["request_id"] != "req-123" || entry["user_id"] != "user-9" || entry["task_id"] != "t1" {
		t.Errorf("entry = %v", entry)
	}
	if GetRequestID(ctx) != "req-123" {
		t.Errorf("GetRequestID = %q", GetRequestID(ctx))
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestInitWritesRotatedFile(t *testing.T) {
	prev := defaultLogger
	defer func() { defaultLogger = prev; slog.SetDefault(slog.Default()) }()

	cfg := DefaultConfig()
	cfg.Output = "file"
	cfg.FilePath = t.TempDir() + "/logs/app.log"
	if err := Init(cfg); err != nil {
		t.Fatalf("Init: %v", err)
	}
	Info("hello")
}
