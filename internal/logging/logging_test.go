package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Format: JSONFormat, Level: DebugLevel, Output: &buf})

	logger.Info("Registered mirror", map[string]interface{}{"uri": "test://nb", "cells": 3})

	var entry struct {
		Timestamp string                 `json:"timestamp"`
		Level     string                 `json:"level"`
		Message   string                 `json:"message"`
		Fields    map[string]interface{} `json:"fields"`
	}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, buf.String())
	}
	if entry.Level != "info" || entry.Message != "Registered mirror" {
		t.Errorf("entry = %+v", entry)
	}
	if entry.Fields["uri"] != "test://nb" {
		t.Errorf("fields = %v", entry.Fields)
	}
	if entry.Timestamp == "" {
		t.Error("timestamp missing")
	}
}

func TestLogger_HumanFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Format: HumanFormat, Level: InfoLevel, Output: &buf})

	logger.Warn("Failed to persist snapshot", map[string]interface{}{"uri": "test://nb"})

	line := buf.String()
	if !strings.Contains(line, "[warn]") {
		t.Errorf("missing level tag: %q", line)
	}
	if !strings.Contains(line, "Failed to persist snapshot") || !strings.Contains(line, "uri=test://nb") {
		t.Errorf("line = %q", line)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Format: JSONFormat, Level: WarnLevel, Output: &buf})

	logger.Debug("dropped", nil)
	logger.Info("dropped", nil)
	if buf.Len() != 0 {
		t.Fatalf("sub-threshold entries written: %s", buf.String())
	}

	logger.Warn("kept", nil)
	logger.Error("kept", nil)
	if got := strings.Count(buf.String(), "\n"); got != 2 {
		t.Errorf("wrote %d entries, want 2", got)
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Format: JSONFormat, Level: InfoLevel, Output: &buf})
	child := logger.With(map[string]interface{}{"session": "abc123"})

	child.Info("request", map[string]interface{}{"method": "notebook/diff"})

	var entry struct {
		Fields map[string]interface{} `json:"fields"`
	}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatal(err)
	}
	if entry.Fields["session"] != "abc123" || entry.Fields["method"] != "notebook/diff" {
		t.Errorf("fields = %v, want base and call fields merged", entry.Fields)
	}

	// The parent logger is unaffected.
	buf.Reset()
	logger.Info("request", nil)
	var parent struct {
		Fields map[string]interface{} `json:"fields"`
	}
	if err := json.Unmarshal(buf.Bytes(), &parent); err != nil {
		t.Fatal(err)
	}
	if _, ok := parent.Fields["session"]; ok {
		t.Error("With leaked fields into the parent logger")
	}
}

func TestLogger_With_CallFieldWins(t *testing.T) {
	var buf bytes.Buffer
	child := NewLogger(Config{Format: JSONFormat, Level: InfoLevel, Output: &buf}).
		With(map[string]interface{}{"uri": "test://base"})

	child.Info("m", map[string]interface{}{"uri": "test://call"})

	var entry struct {
		Fields map[string]interface{} `json:"fields"`
	}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatal(err)
	}
	if entry.Fields["uri"] != "test://call" {
		t.Errorf("uri = %v, call-site field should win", entry.Fields["uri"])
	}
}
