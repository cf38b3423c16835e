// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package timelineui

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// logRecordMsg carries a log record into the model for display in the
// status bar.
type logRecordMsg struct {
	// Summary is the one-line text for the status bar.
	Summary string

	// Structured is the full record as JSON.
	Structured string

	Level slog.Level
}

// logRecordFadeMsg clears a status bar record after logRecordFadeDelay.
// Sequence matches the record it clears, so a newer record is not
// cleared by an older record's timer.
type logRecordFadeMsg struct {
	Sequence int
}

// logRecordFadeDelay is how long a record stays in the status bar.
const logRecordFadeDelay = 5 * time.Second

// TUILogHandler is a slog.Handler that delivers records at or above
// its level to a bubbletea program as messages. Records below the
// level, and records arriving before SetProgram, are dropped.
//
// Handlers derived with WithAttrs and WithGroup share the program, so
// one SetProgram call reaches all of them.
type TUILogHandler struct {
	level  slog.Level
	target *atomic.Pointer[func(tea.Msg)]
	attrs  []slog.Attr
	groups []string
}

// NewTUILogHandler creates a handler for records at or above level.
func NewTUILogHandler(level slog.Level) *TUILogHandler {
	return &TUILogHandler{
		level:  level,
		target: &atomic.Pointer[func(tea.Msg)]{},
	}
}

// SetProgram sets the program that receives records. Safe to call
// from any goroutine.
func (handler *TUILogHandler) SetProgram(program *tea.Program) {
	handler.setSender(program.Send)
}

func (handler *TUILogHandler) setSender(send func(tea.Msg)) {
	handler.target.Store(&send)
}

// Enabled reports whether records at level are delivered.
func (handler *TUILogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= handler.level
}

// Handle formats the record as "message (key=value, ...)" and sends
// it to the program.
func (handler *TUILogHandler) Handle(_ context.Context, record slog.Record) error {
	send := handler.target.Load()
	if send == nil {
		return nil
	}

	prefix := ""
	if len(handler.groups) > 0 {
		prefix = strings.Join(handler.groups, ".") + "."
	}

	var parts []string
	for _, attr := range handler.attrs {
		parts = append(parts, fmt.Sprintf("%s=%s", attr.Key, attr.Value))
	}
	record.Attrs(func(attr slog.Attr) bool {
		parts = append(parts, fmt.Sprintf("%s%s=%s", prefix, attr.Key, attr.Value))
		return true
	})

	summary := record.Message
	if len(parts) > 0 {
		summary += " (" + strings.Join(parts, ", ") + ")"
	}

	(*send)(logRecordMsg{
		Summary:    summary,
		Structured: handler.structuredJSON(record, prefix),
		Level:      record.Level,
	})
	return nil
}

// WithAttrs returns a handler with attrs added to every record.
func (handler *TUILogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TUILogHandler{
		level:  handler.level,
		target: handler.target,
		attrs:  append(slices.Clone(handler.attrs), attrs...),
		groups: slices.Clone(handler.groups),
	}
}

// WithGroup returns a handler that qualifies later attribute keys
// with name.
func (handler *TUILogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return handler
	}
	return &TUILogHandler{
		level:  handler.level,
		target: handler.target,
		attrs:  slices.Clone(handler.attrs),
		groups: append(slices.Clone(handler.groups), name),
	}
}

func (handler *TUILogHandler) structuredJSON(record slog.Record, prefix string) string {
	fields := map[string]any{
		"time":  record.Time.Format(time.RFC3339),
		"level": record.Level.String(),
		"msg":   record.Message,
	}
	for _, attr := range handler.attrs {
		fields[attr.Key] = attr.Value.String()
	}
	record.Attrs(func(attr slog.Attr) bool {
		fields[prefix+attr.Key] = attr.Value.String()
		return true
	})

	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Sprintf(`{"msg":%q,"error":"marshal failed"}`, record.Message)
	}
	return string(data)
}
