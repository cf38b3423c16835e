// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package eventlog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bureau-foundation/timeline/lib/clock"
	"github.com/bureau-foundation/timeline/lib/testutil"
	"github.com/bureau-foundation/timeline/messaging"
)

func appendEvents(t *testing.T, path string, events ...messaging.Event) {
	t.Helper()
	writer, err := OpenAppend(path)
	if err != nil {
		t.Fatalf("OpenAppend: %v", err)
	}
	if err := writer.WriteAll(events); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func startWatch(t *testing.T, path string) (<-chan Update, *clock.FakeClock) {
	t.Helper()
	fakeClock := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	updates, err := Watch(ctx, path, WatchOptions{Clock: fakeClock})
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	return updates, fakeClock
}

// settle releases the watcher's debounce sleep.
func settle(fakeClock *clock.FakeClock) {
	fakeClock.WaitForTimers(1)
	fakeClock.Advance(50 * time.Millisecond)
}

func TestWatchDeliversAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	events := sampleEvents()
	appendEvents(t, path, events[0])

	updates, fakeClock := startWatch(t, path)

	initial := testutil.RequireReceive(t, updates, 5*time.Second, "initial update")
	if !initial.Reset || len(initial.Events) != 1 {
		t.Fatalf("initial update = %+v, want reset with 1 event", initial)
	}

	appendEvents(t, path, events[1], events[2])
	settle(fakeClock)

	update := testutil.RequireReceive(t, updates, 5*time.Second, "append update")
	if update.Reset {
		t.Error("append delivered as reset")
	}
	if len(update.Events) != 2 || update.Events[0].EventID.String() != "$hello" {
		t.Errorf("append update = %+v", update)
	}
}

func TestWatchReportsRewriteAsReset(t *testing.T) {
	directory := t.TempDir()
	path := filepath.Join(directory, "events.jsonl")
	events := sampleEvents()
	appendEvents(t, path, events...)

	updates, fakeClock := startWatch(t, path)
	testutil.RequireReceive(t, updates, 5*time.Second, "initial update")

	// Replace the log atomically with a shorter one.
	replacement := filepath.Join(directory, "replacement.jsonl")
	if err := WriteFile(replacement, events[:1]); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	// The replacement's own close-write does not match the watched
	// name; only the rename does.
	if err := os.Rename(replacement, path); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	settle(fakeClock)

	update := testutil.RequireReceive(t, updates, 5*time.Second, "reset update")
	if !update.Reset || len(update.Events) != 1 {
		t.Errorf("update = %+v, want reset with 1 event", update)
	}
}

func TestWatchClosesOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	appendEvents(t, path, sampleEvents()[0])

	ctx, cancel := context.WithCancel(context.Background())
	updates, err := Watch(ctx, path, WatchOptions{})
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	testutil.RequireReceive(t, updates, 5*time.Second, "initial update")
	cancel()

	closed := make(chan struct{})
	go func() {
		for range updates {
		}
		close(closed)
	}()
	testutil.RequireClosed(t, closed, 5*time.Second, "updates channel closed after cancel")
}

func TestWatchRejectsCompressedLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl.zst")
	if err := WriteFile(path, sampleEvents()); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Watch(context.Background(), path, WatchOptions{}); err == nil {
		t.Error("Watch accepted a compressed log")
	}
}

func TestDiffLogs(t *testing.T) {
	events := sampleEvents()

	if _, changed := diffLogs(events, events); changed {
		t.Error("identical logs reported as changed")
	}
	if update, changed := diffLogs(events[:1], events); !changed || update.Reset || len(update.Events) != 2 {
		t.Errorf("append diff = %+v, %v", update, changed)
	}
	if update, changed := diffLogs(events, events[:2]); !changed || !update.Reset {
		t.Errorf("shrink diff = %+v, %v", update, changed)
	}
	swapped := []messaging.Event{events[1], events[0], events[2]}
	if update, changed := diffLogs(events[:2], swapped); !changed || !update.Reset {
		t.Errorf("rewrite diff = %+v, %v", update, changed)
	}
}
