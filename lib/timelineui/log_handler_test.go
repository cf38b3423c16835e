// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package timelineui

import (
	"encoding/json"
	"log/slog"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

// recordingSender collects messages a TUILogHandler sends.
type recordingSender struct {
	mutex    sync.Mutex
	messages []tea.Msg
}

func (sender *recordingSender) send(message tea.Msg) {
	sender.mutex.Lock()
	defer sender.mutex.Unlock()
	sender.messages = append(sender.messages, message)
}

func (sender *recordingSender) records(t *testing.T) []logRecordMsg {
	t.Helper()
	sender.mutex.Lock()
	defer sender.mutex.Unlock()
	records := make([]logRecordMsg, 0, len(sender.messages))
	for _, message := range sender.messages {
		record, ok := message.(logRecordMsg)
		if !ok {
			t.Fatalf("unexpected message type %T", message)
		}
		records = append(records, record)
	}
	return records
}

func TestTUILogHandlerDropsBeforeProgram(t *testing.T) {
	handler := NewTUILogHandler(slog.LevelWarn)
	// Must not panic with no program set.
	slog.New(handler).Error("early")
}

func TestTUILogHandlerLevels(t *testing.T) {
	handler := NewTUILogHandler(slog.LevelWarn)
	sender := &recordingSender{}
	handler.setSender(sender.send)
	logger := slog.New(handler)

	logger.Debug("debug")
	logger.Info("info")
	logger.Warn("disk nearly full", "path", "/var/log", "free", 3)
	logger.Error("watch stopped")

	records := sender.records(t)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Summary != "disk nearly full (path=/var/log, free=3)" || records[0].Level != slog.LevelWarn {
		t.Errorf("first record = %+v", records[0])
	}
	if records[1].Summary != "watch stopped" || records[1].Level != slog.LevelError {
		t.Errorf("second record = %+v", records[1])
	}
}

func TestTUILogHandlerAttrsAndGroups(t *testing.T) {
	handler := NewTUILogHandler(slog.LevelInfo)
	sender := &recordingSender{}
	logger := slog.New(handler).With("room", "!general:example.org").WithGroup("watch")

	// Derived handlers share the program set on the original.
	handler.setSender(sender.send)
	logger.Info("reloaded", "events", 8)

	records := sender.records(t)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	want := "reloaded (room=!general:example.org, watch.events=8)"
	if records[0].Summary != want {
		t.Errorf("summary = %q, want %q", records[0].Summary, want)
	}

	var fields map[string]string
	if err := json.Unmarshal([]byte(records[0].Structured), &fields); err != nil {
		t.Fatalf("structured form is not JSON: %v", err)
	}
	if fields["msg"] != "reloaded" || fields["level"] != "INFO" || fields["watch.events"] != "8" || fields["room"] != "!general:example.org" {
		t.Errorf("structured fields = %v", fields)
	}
}

func TestTUILogHandlerEmptyGroup(t *testing.T) {
	handler := NewTUILogHandler(slog.LevelInfo)
	if handler.WithGroup("") != slog.Handler(handler) {
		t.Error("WithGroup(\"\") should return the handler unchanged")
	}
}
