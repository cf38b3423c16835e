// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bureau-foundation/timeline/lib/clock"
	"github.com/bureau-foundation/timeline/lib/config"
	"github.com/bureau-foundation/timeline/lib/eventlog"
	"github.com/bureau-foundation/timeline/lib/ref"
	"github.com/bureau-foundation/timeline/lib/testutil"
	"github.com/bureau-foundation/timeline/messaging"
)

var (
	general = ref.MustParseRoomID("!general:example.org")
	direct  = ref.MustParseRoomID("!dm:example.org")
)

// Timestamps in UTC: 2024-01-01 10:00 and onward.
const (
	jan1At1000 int64 = 1704103200000
	minute     int64 = 60_000
	jan2At1000 int64 = 1704189600000
	jan2At1320 int64 = 1704201600000
)

func memberEvent(id string, room ref.RoomID, user string, timestamp int64) messaging.Event {
	stateKey := user
	return messaging.Event{
		EventID:        ref.MustParseEventID(id),
		Type:           messaging.EventTypeMember,
		RoomID:         room,
		Sender:         ref.MustParseUserID(user),
		StateKey:       &stateKey,
		OriginServerTS: timestamp,
		Content:        map[string]any{"membership": "join"},
	}
}

func textEvent(id string, room ref.RoomID, user, body string, timestamp int64) messaging.Event {
	return messaging.Event{
		EventID:        ref.MustParseEventID(id),
		Type:           messaging.EventTypeMessage,
		RoomID:         room,
		Sender:         ref.MustParseUserID(user),
		OriginServerTS: timestamp,
		Content:        map[string]any{"msgtype": "m.text", "body": body},
	}
}

func reactionEvent(id string, room ref.RoomID, user, target, key string, timestamp int64) messaging.Event {
	return messaging.Event{
		EventID:        ref.MustParseEventID(id),
		Type:           messaging.EventTypeReaction,
		RoomID:         room,
		Sender:         ref.MustParseUserID(user),
		OriginServerTS: timestamp,
		Content: map[string]any{"m.relates_to": map[string]any{
			"rel_type": "m.annotation", "event_id": target, "key": key,
		}},
	}
}

// fixtureEvents is a three-member room spanning two days with two
// reactions on its first message, and a direct room active later.
func fixtureEvents() []messaging.Event {
	return []messaging.Event{
		memberEvent("$m1", general, "@alice:example.org", jan1At1000),
		memberEvent("$m2", general, "@bob:example.org", jan1At1000+minute),
		memberEvent("$m3", general, "@carol:example.org", jan1At1000+2*minute),
		textEvent("$t1", general, "@alice:example.org", "hello", jan1At1000+5*minute),
		reactionEvent("$r1", general, "@bob:example.org", "$t1", "👍", jan1At1000+6*minute),
		reactionEvent("$r2", general, "@carol:example.org", "$t1", "👍", jan1At1000+7*minute),
		textEvent("$t2", general, "@bob:example.org", "next day", jan2At1000),
		textEvent("$d1", direct, "@alice:example.org", "hi bob", jan2At1320),
	}
}

// writeFixture writes events to a log named name in a fresh directory.
func writeFixture(t *testing.T, name string, events []messaging.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := eventlog.WriteFile(path, events); err != nil {
		t.Fatalf("writing fixture %s: %v", path, err)
	}
	return path
}

// execute runs the command tree with args and returns stdout. The
// environment's config is masked so only --config applies.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvironmentVariable, "")
	var stdout bytes.Buffer
	root := Root(&stdout, clock.Fake(testEpoch))
	root.SetOutput(&bytes.Buffer{})
	err := root.Execute(context.Background(), args, nil)
	return stdout.String(), err
}

// mustExecute is execute that fails the test on error.
func mustExecute(t *testing.T, args ...string) string {
	t.Helper()
	output, err := execute(t, args...)
	if err != nil {
		t.Fatalf("timeline %s: %v", strings.Join(args, " "), err)
	}
	return output
}

// notifyingWriter is a goroutine-safe buffer that signals each write.
type notifyingWriter struct {
	mu     sync.Mutex
	buffer strings.Builder
	writes chan struct{}
}

func newNotifyingWriter() *notifyingWriter {
	return &notifyingWriter{writes: make(chan struct{}, 1)}
}

func (w *notifyingWriter) Write(data []byte) (int, error) {
	w.mu.Lock()
	n, err := w.buffer.Write(data)
	w.mu.Unlock()
	select {
	case w.writes <- struct{}{}:
	default:
	}
	return n, err
}

func (w *notifyingWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buffer.String()
}

// waitFor blocks until the written output contains want.
func (w *notifyingWriter) waitFor(t *testing.T, want string) {
	t.Helper()
	for !strings.Contains(w.String(), want) {
		testutil.RequireReceive(t, w.writes, 5*time.Second, "waiting for output %q, have %q", want, w.String())
	}
}
