package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		name      string
		configLvl LogLevel
		logLvl    LogLevel
		shouldLog bool
	}{
		{"debug logs debug", DebugLevel, DebugLevel, true},
		{"info skips debug", InfoLevel, DebugLevel, false},
		{"info logs warn", InfoLevel, WarnLevel, true},
		{"warn skips info", WarnLevel, InfoLevel, false},
		{"error skips warn", ErrorLevel, WarnLevel, false},
		{"error logs error", ErrorLevel, ErrorLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := NewLogger(Config{Level: tt.configLvl, Output: buf})

			logger.log(tt.logLvl, "symbol graph built", nil)

			if hasOutput := buf.Len() > 0; hasOutput != tt.shouldLog {
				t.Errorf("shouldLog = %v, but hasOutput = %v", tt.shouldLog, hasOutput)
			}
		})
	}
}

func TestJSONFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLogger(Config{Level: InfoLevel, Format: JSONFormat, Output: buf})

	logger.Info("analysis complete", map[string]interface{}{
		"package": "web-app",
		"exports": 12,
	})

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v\noutput: %s", err, buf.String())
	}
	if entry["level"] != "info" {
		t.Errorf("level = %v", entry["level"])
	}
	if entry["message"] != "analysis complete" {
		t.Errorf("message = %v", entry["message"])
	}
	if entry["timestamp"] == nil {
		t.Error("timestamp should be present")
	}
	fields, ok := entry["fields"].(map[string]interface{})
	if !ok {
		t.Fatal("fields should be a map")
	}
	if fields["exports"] != float64(12) { // JSON numbers decode as float64
		t.Errorf("fields.exports = %v", fields["exports"])
	}
}

func TestHumanFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLogger(Config{Level: InfoLevel, Format: HumanFormat, Output: buf})

	logger.Info("analysis complete", map[string]interface{}{"package": "web-app"})

	output := buf.String()
	if !strings.Contains(output, "[info]") {
		t.Errorf("output should contain the level tag: %s", output)
	}
	if !strings.Contains(output, "analysis complete") {
		t.Errorf("output should contain the message: %s", output)
	}
	if !strings.Contains(output, "package=web-app") {
		t.Errorf("output should contain the field: %s", output)
	}
}

func TestWarnAndError(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLogger(Config{Level: WarnLevel, Output: buf})

	logger.Warn("hub file excluded", nil)
	logger.Error("snapshot store unavailable", nil)

	output := buf.String()
	if !strings.Contains(output, "warn") || !strings.Contains(output, "error") {
		t.Errorf("both levels should appear: %s", output)
	}
}
