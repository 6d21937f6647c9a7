package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []LogEntry {
	t.Helper()

	out := buf.String()
	if strings.TrimSpace(out) == "" {
		return nil
	}

	var entries []LogEntry
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		var entry LogEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("Failed to unmarshal log line %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"DEBUG", DebugLevel},
		{"debug", DebugLevel},
		{"Info", InfoLevel},
		{"WARN", WarnLevel},
		{"warning", WarnLevel},
		{" error ", ErrorLevel},
		{"invalid", InfoLevel}, // Default
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLevelString(t *testing.T) {
	if DebugLevel.String() != "DEBUG" || ErrorLevel.String() != "ERROR" {
		t.Error("Unexpected level names")
	}
	if Level(42).String() != "UNKNOWN" {
		t.Errorf("Level(42).String() = %v, want UNKNOWN", Level(42).String())
	}
}

func TestDomainFields(t *testing.T) {
	tests := []struct {
		field Field
		key   string
		value any
	}{
		{Side("item"), "side", "item"},
		{Threshold(3), "threshold", 3},
		{Resolution(0.5), "resolution", 0.5},
		{Modularity(0.25), "modularity", 0.25},
		{RunID("abc"), "run_id", "abc"},
		{Latency(2 * time.Second), "latency", "2s"},
		{Error(errors.New("boom")), "error", "boom"},
		{Error(nil), "error", nil},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if tt.field.Key != tt.key || tt.field.Value != tt.value {
				t.Errorf("field = %+v, want {%s %v}", tt.field, tt.key, tt.value)
			}
		})
	}
}

func TestJSONLogger_BasicLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, DebugLevel)

	logger.Info("test message", String("key", "value"), Int("num", 42))

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	entry := entries[0]

	if entry.Level != "INFO" {
		t.Errorf("Level = %v, want INFO", entry.Level)
	}
	if entry.Message != "test message" {
		t.Errorf("Message = %v, want 'test message'", entry.Message)
	}
	if entry.Fields["key"] != "value" {
		t.Errorf("Fields[key] = %v, want 'value'", entry.Fields["key"])
	}
	if entry.Fields["num"] != float64(42) { // JSON unmarshals numbers as float64
		t.Errorf("num field = %v, want 42", entry.Fields["num"])
	}
	if entry.Time == "" {
		t.Error("Time field is empty")
	}
}

func TestJSONLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("Expected 2 log entries, got %d", len(entries))
	}
	if entries[0].Level != "WARN" || entries[1].Level != "ERROR" {
		t.Errorf("Unexpected levels %s, %s", entries[0].Level, entries[1].Level)
	}
}

func TestJSONLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	child := logger.With(Component("bipartite"), Side("item"))
	child.Info("projected", Count(3))

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	if entries[0].Fields["component"] != "bipartite" || entries[0].Fields["side"] != "item" {
		t.Errorf("Preset fields missing: %v", entries[0].Fields)
	}
	if entries[0].Fields["count"] != float64(3) {
		t.Errorf("count field = %v, want 3", entries[0].Fields["count"])
	}
}

func TestJSONLogger_NoFieldsOmitted(t *testing.T) {
	var buf bytes.Buffer
	NewJSONLogger(&buf, InfoLevel).Info("bare")

	if strings.Contains(buf.String(), "fields") {
		t.Errorf("Expected fields to be omitted, got %s", buf.String())
	}
}

func TestWithLevel_QuietsChildOnly(t *testing.T) {
	var buf bytes.Buffer
	parent := NewJSONLogger(&buf, DebugLevel)

	quiet := WithLevel(parent, WarnLevel)
	quiet.Debug("child debug")
	quiet.Info("child info")
	quiet.Warn("child warn")
	parent.Info("parent info")

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Message != "child warn" || entries[1].Message != "parent info" {
		t.Errorf("Unexpected entries %+v", entries)
	}
	if parent.GetLevel() != DebugLevel {
		t.Errorf("Parent level changed to %v", parent.GetLevel())
	}
}

func TestWithLevel_NeverLouderThanParent(t *testing.T) {
	var buf bytes.Buffer
	parent := NewJSONLogger(&buf, ErrorLevel)

	child := WithLevel(parent, DebugLevel)
	if child.GetLevel() != ErrorLevel {
		t.Errorf("child level = %v, want ErrorLevel", child.GetLevel())
	}
}

type recordingLogger struct {
	NopLogger
	messages []string
}

func (r *recordingLogger) Info(msg string, fields ...Field) { r.messages = append(r.messages, msg) }
func (r *recordingLogger) Warn(msg string, fields ...Field) { r.messages = append(r.messages, msg) }
func (r *recordingLogger) GetLevel() Level                  { return DebugLevel }

func TestWithLevel_WrapsForeignLogger(t *testing.T) {
	rec := &recordingLogger{}

	quiet := WithLevel(rec, WarnLevel)
	quiet.Info("dropped")
	quiet.Warn("kept")

	if len(rec.messages) != 1 || rec.messages[0] != "kept" {
		t.Errorf("Unexpected messages %v", rec.messages)
	}
}

func TestWithLevel_NilIsNop(t *testing.T) {
	l := WithLevel(nil, InfoLevel)
	l.Error("nothing happens")
}

func TestTimedOperation(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, DebugLevel)

	timer := StartTimer(logger, "projection", Side("item"))
	elapsed := timer.End(Count(7))

	if elapsed < 0 {
		t.Errorf("Negative elapsed time %v", elapsed)
	}

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	if entries[0].Level != "DEBUG" || entries[0].Message != "projection" {
		t.Errorf("Unexpected entry %+v", entries[0])
	}
	for _, key := range []string{"side", "count", "latency"} {
		if _, ok := entries[0].Fields[key]; !ok {
			t.Errorf("Missing field %s", key)
		}
	}
}

func TestTimedOperation_EndError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	StartTimer(logger, "build").EndError(errors.New("bad config"))

	entries := decodeLines(t, &buf)
	if len(entries) != 1 || entries[0].Level != "ERROR" || entries[0].Fields["error"] != "bad config" {
		t.Errorf("Unexpected entries %+v", entries)
	}
}

func TestDefaultLogger(t *testing.T) {
	var buf bytes.Buffer
	SetDefaultLogger(NewJSONLogger(&buf, InfoLevel))
	defer SetDefaultLogger(nil)

	DefaultLogger().Info("hello")

	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("Expected default logger output, got %q", buf.String())
	}
}
