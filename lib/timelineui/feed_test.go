// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package timelineui

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/bureau-foundation/timeline/lib/eventlog"
	"github.com/bureau-foundation/timeline/lib/roomstore"
	"github.com/bureau-foundation/timeline/lib/testutil"
)

func TestFollowLogLoadsAndFollows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	if err := eventlog.WriteFile(path, fixtureEvents()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := roomstore.New(roomstore.Options{})
	done, err := FollowLog(ctx, path, store, eventlog.WatchOptions{Debounce: time.Millisecond})
	if err != nil {
		t.Fatalf("FollowLog: %v", err)
	}

	snapshot := store.Snapshot()
	if rooms := len(snapshot.RoomIDs()); rooms != 2 {
		t.Fatalf("initial load has %d rooms, want 2", rooms)
	}
	if events := snapshot.EventCount(); events != len(fixtureEvents()) {
		t.Fatalf("initial load has %d events, want %d", events, len(fixtureEvents()))
	}

	changes, unsubscribe := store.Subscribe()
	defer unsubscribe()

	writer, err := eventlog.OpenAppend(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := writer.Write(text("$late", direct, "@bob:example.org", "still there?", at(1, 9, 0))); err != nil {
		t.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}

	change := testutil.RequireReceive(t, changes, 5*time.Second, "waiting for appended event")
	if change.Reset || change.Events != 1 || len(change.Rooms) != 1 || change.Rooms[0] != direct {
		t.Errorf("change = %+v, want one event in %s", change, direct)
	}
	room, _ := store.Snapshot().Room(direct)
	if room.Unread != 1 {
		t.Errorf("direct unread = %d, want 1", room.Unread)
	}

	cancel()
	testutil.RequireClosed(t, done, 5*time.Second, "waiting for follow loop to stop")
}

func TestFollowLogCompressedLoadsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl.zst")
	if err := eventlog.WriteFile(path, fixtureEvents()); err != nil {
		t.Fatal(err)
	}

	store := roomstore.New(roomstore.Options{})
	done, err := FollowLog(context.Background(), path, store, eventlog.WatchOptions{})
	if err != nil {
		t.Fatalf("FollowLog: %v", err)
	}
	testutil.RequireClosed(t, done, time.Second, "compressed log should not be followed")

	if events := store.Snapshot().EventCount(); events != len(fixtureEvents()) {
		t.Errorf("loaded %d events, want %d", events, len(fixtureEvents()))
	}
}

func TestFollowLogMissingFile(t *testing.T) {
	store := roomstore.New(roomstore.Options{})
	_, err := FollowLog(context.Background(), filepath.Join(t.TempDir(), "absent.jsonl"), store, eventlog.WatchOptions{})
	if err == nil {
		t.Fatal("FollowLog on a missing file succeeded")
	}
	if events := store.Snapshot().EventCount(); events != 0 {
		t.Errorf("store holds %d events after a failed follow", events)
	}
}
