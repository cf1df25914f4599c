package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"restohub/backend/internal/logging"
)

func TestLevel_Validate(t *testing.T) {
	tests := []struct {
		level   logging.Level
		wantErr bool
	}{
		{logging.LevelDebug, false},
		{logging.LevelInfo, false},
		{logging.LevelWarn, false},
		{logging.LevelError, false},
		{"verbose", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			err := tt.level.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLevel_ToSlogLevel(t *testing.T) {
	tests := []struct {
		level logging.Level
		want  slog.Level
	}{
		{logging.LevelDebug, slog.LevelDebug},
		{logging.LevelInfo, slog.LevelInfo},
		{logging.LevelWarn, slog.LevelWarn},
		{logging.LevelError, slog.LevelError},
		{"unknown", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := tt.level.ToSlogLevel(); got != tt.want {
			t.Errorf("%q.ToSlogLevel() = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, logging.LevelInfo, logging.FormatJSON)

	logger.Debug("hidden")
	logger.Info("visible", "key", "value")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}

	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if rec["msg"] != "visible" || rec["key"] != "value" {
		t.Errorf("unexpected record: %v", rec)
	}
}

func TestNewWithWriter_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, logging.LevelDebug, logging.FormatText)

	logger.Debug("debug message")

	if !strings.Contains(buf.String(), "msg=\"debug message\"") {
		t.Errorf("text output missing message: %q", buf.String())
	}
}
