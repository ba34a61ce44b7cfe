package logx

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewJSONRespectsLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&buf, Config{})

	logger.Debug().Msg("hidden")
	logger.Info().Str("session_id", "s1").Msg("shown")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d log lines, want 1: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["message"] != "shown" || entry["session_id"] != "s1" {
		t.Fatalf("unexpected entry: %#v", entry)
	}
}

func TestNewDebugEnablesDebug(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&buf, Config{Debug: true})
	logger.Debug().Msg("visible")

	if !strings.Contains(buf.String(), "visible") {
		t.Fatalf("debug message missing: %q", buf.String())
	}
}
