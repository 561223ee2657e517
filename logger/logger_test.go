// ABOUTME: Tests for slog configuration from environment variables
// ABOUTME: Verifies format selection and level filtering through InitWithWriter

package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestInitWithWriter_JSONFormat(t *testing.T) {
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_LEVEL", "info")

	var buf bytes.Buffer
	InitWithWriter(&buf)

	slog.Info("catalog ready", "feeds", 4)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected JSON output, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "catalog ready" {
		t.Errorf("Expected message in entry, got %v", entry["msg"])
	}
	if entry["feeds"] != float64(4) {
		t.Errorf("Expected feeds attribute, got %v", entry["feeds"])
	}
}

func TestInitWithWriter_TextFormatIsDefault(t *testing.T) {
	t.Setenv("LOG_FORMAT", "")
	t.Setenv("LOG_LEVEL", "")

	var buf bytes.Buffer
	InitWithWriter(&buf)

	slog.Info("server listening", "addr", ":8080")

	out := buf.String()
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Errorf("Expected text output, got %q", out)
	}
	if !strings.Contains(out, "server listening") {
		t.Errorf("Expected message in output, got %q", out)
	}
}

func TestInitWithWriter_LevelFiltersDebug(t *testing.T) {
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("LOG_LEVEL", "warn")

	var buf bytes.Buffer
	InitWithWriter(&buf)

	slog.Debug("suppressed")
	slog.Info("also suppressed")
	slog.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "suppressed") {
		t.Errorf("Expected info and debug suppressed at warn level, got %q", out)
	}
	if !strings.Contains(out, "kept") {
		t.Errorf("Expected warn entry, got %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
