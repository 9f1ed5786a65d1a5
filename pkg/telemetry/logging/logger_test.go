package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

// TestSetup_JSONOutput verifies the default JSON handler wiring.
func TestSetup_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Setup(Config{Level: "info", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	logger.Info("cycle completed", "outcome", "approve")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if entry["msg"] != "cycle completed" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["outcome"] != "approve" {
		t.Errorf("outcome = %v", entry["outcome"])
	}
}

// TestSetup_LevelFiltering verifies that records below the configured level
// are dropped.
func TestSetup_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Setup(Config{Level: "warn", Format: "text", Writer: &buf})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	logger.Info("suppressed")
	logger.Warn("emitted")

	out := buf.String()
	if strings.Contains(out, "suppressed") {
		t.Error("info record must be filtered at warn level")
	}
	if !strings.Contains(out, "emitted") {
		t.Error("warn record must pass")
	}
}

// TestSetup_InvalidConfig verifies rejection of unknown levels and formats.
func TestSetup_InvalidConfig(t *testing.T) {
	if _, err := Setup(Config{Level: "verbose"}); err == nil {
		t.Error("expected error for unknown level")
	}
	if _, err := Setup(Config{Format: "xml"}); err == nil {
		t.Error("expected error for unknown format")
	}
}

// TestParseLevel verifies the level string mapping.
func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"DEBUG", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"trace", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := parseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// TestParseFormat verifies the format string mapping.
func TestParseFormat(t *testing.T) {
	if got, err := parseFormat(""); err != nil || got != FormatJSON {
		t.Errorf("parseFormat(\"\") = %v, %v", got, err)
	}
	if got, err := parseFormat("text"); err != nil || got != FormatText {
		t.Errorf("parseFormat(text) = %v, %v", got, err)
	}
	if _, err := parseFormat("yaml"); err == nil {
		t.Error("expected error for unknown format")
	}
}
