package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"neoncrush/internal/config"
	"neoncrush/internal/logging"
	"neoncrush/internal/services"
)

func TestNewFromConfigWritesJSONFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Logging.Level = "error"

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Error("boom", logging.String("source", "logo.svg"))

	content, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, logging.LogFileName))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(content), &entry); err != nil {
		t.Fatalf("log file is not json: %v (%q)", err, content)
	}
	if entry["msg"] != "boom" || entry["level"] != "error" || entry["source"] != "logo.svg" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", entry)
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-info.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("message without caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(content), ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-debug.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("message with caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "logger_test.go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestConsoleLoggerRendersComponentAndSubject(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := services.WithSource(context.Background(), "spinner.svg")
	ctx = services.WithStage(ctx, "encode")
	ctx = services.WithRequestID(ctx, "req-1")
	log := logging.WithContext(ctx, logging.NewComponentLogger(logger, "encoder"))
	log.Info("attempt complete", logging.Int("attempt", 2), logging.String("size", "1.2 MB"))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	text := string(content)
	if !strings.Contains(text, "INFO [encoder] spinner.svg (encode) – attempt complete") {
		t.Fatalf("unexpected header: %q", text)
	}
	if !strings.Contains(text, "    - attempt: 2") || !strings.Contains(text, `    - size: "1.2 MB"`) {
		t.Fatalf("expected indented fields, got %q", text)
	}
	if strings.Contains(text, "req-1") {
		t.Fatalf("expected request id hidden at info level, got %q", text)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWarnWithContextAddsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	logging.WarnWithContext(logger, "renderer fallback", "renderer_fallback", logging.String(logging.FieldImpact, "animation not sampled"))

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if entry[logging.FieldEventType] != "renderer_fallback" {
		t.Fatalf("missing event type: %v", entry)
	}
	if entry[logging.FieldErrorHint] == nil {
		t.Fatalf("missing error hint: %v", entry)
	}
	if entry[logging.FieldImpact] != "animation not sampled" {
		t.Fatalf("impact overwritten: %v", entry)
	}
}

func TestTeeHandlerDuplicatesRecords(t *testing.T) {
	var first, second bytes.Buffer
	handler := logging.TeeHandler(
		slog.NewTextHandler(&first, nil),
		nil,
		slog.NewTextHandler(&second, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)
	logger := slog.New(handler).With(logging.String("component", "test"))
	logger.Info("info only")
	logger.Warn("both")

	if !strings.Contains(first.String(), "info only") || !strings.Contains(first.String(), "both") {
		t.Fatalf("first handler missing records: %q", first.String())
	}
	if strings.Contains(second.String(), "info only") || !strings.Contains(second.String(), "component=test") {
		t.Fatalf("second handler should only see warnings: %q", second.String())
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("nop logger should be disabled")
	}
}
