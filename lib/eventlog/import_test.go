// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package eventlog

import (
	"strings"
	"testing"

	"github.com/bureau-foundation/timeline/lib/ref"
	"github.com/bureau-foundation/timeline/messaging"
)

func TestDecodeSync(t *testing.T) {
	body := `{
		"next_batch": "s9",
		"rooms": {
			"join": {
				"!b:example.org": {
					"timeline": {"events": [
						{"event_id": "$b1", "type": "m.room.message", "sender": "@x:example.org", "origin_server_ts": 20, "content": {"body": "in b"}}
					]},
					"state": {"events": [
						{"event_id": "$bs", "type": "m.room.name", "sender": "@x:example.org", "state_key": "", "origin_server_ts": 1, "content": {"name": "Bravo"}}
					]}
				},
				"!a:example.org": {
					"timeline": {"events": [
						{"event_id": "$a1", "type": "m.room.message", "sender": "@x:example.org", "origin_server_ts": 10, "content": {"body": "in a"}}
					]},
					"state": {"events": []}
				}
			},
			"leave": {
				"!c:example.org": {
					"timeline": {"events": [
						{"event_id": "$c1", "type": "m.room.member", "sender": "@x:example.org", "state_key": "@x:example.org", "origin_server_ts": 30, "content": {"membership": "leave"}}
					]},
					"state": {"events": []}
				}
			}
		}
	}`

	events, err := DecodeSync(strings.NewReader(body))
	if err != nil {
		t.Fatalf("DecodeSync: %v", err)
	}
	want := []struct{ event, room string }{
		{"$a1", "!a:example.org"},
		{"$bs", "!b:example.org"},
		{"$b1", "!b:example.org"},
		{"$c1", "!c:example.org"},
	}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}
	for index, expected := range want {
		if events[index].EventID.String() != expected.event || events[index].RoomID.String() != expected.room {
			t.Errorf("event %d = %s in %s, want %s in %s", index,
				events[index].EventID, events[index].RoomID, expected.event, expected.room)
		}
	}
}

// State that arrives after the timeline in time sorts after it.
func TestDecodeSyncOrdersEachRoomByTimestamp(t *testing.T) {
	body := `{"rooms": {"join": {"!a:example.org": {
		"timeline": {"events": [
			{"event_id": "$m1", "type": "m.room.message", "sender": "@x:example.org", "origin_server_ts": 1704103200000, "content": {"body": "monday"}},
			{"event_id": "$m2", "type": "m.room.message", "sender": "@x:example.org", "origin_server_ts": 1704189600000, "content": {"body": "tuesday"}}
		]},
		"state": {"events": [
			{"event_id": "$rename", "type": "m.room.name", "sender": "@x:example.org", "state_key": "", "origin_server_ts": 1704189000000, "content": {"name": "Alpha"}},
			{"event_id": "$create", "type": "m.room.create", "sender": "@x:example.org", "state_key": "", "origin_server_ts": 1704103200000, "content": {}}
		]}
	}}}}`

	events, err := DecodeSync(strings.NewReader(body))
	if err != nil {
		t.Fatalf("DecodeSync: %v", err)
	}
	want := []string{"$create", "$m1", "$rename", "$m2"}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}
	for index, id := range want {
		if events[index].EventID.String() != id {
			t.Errorf("position %d = %s, want %s", index, events[index].EventID, id)
		}
	}
	for index := 1; index < len(events); index++ {
		if events[index].OriginServerTS < events[index-1].OriginServerTS {
			t.Errorf("timestamps decrease at position %d", index)
		}
	}
}

func TestDecodeSyncRejectsBadRoomKey(t *testing.T) {
	body := `{"rooms": {"join": {"not-a-room": {"timeline": {"events": []}, "state": {"events": []}}}}}`
	if _, err := DecodeSync(strings.NewReader(body)); err == nil {
		t.Error("DecodeSync accepted an invalid room ID key")
	}
}

func TestDecodeMessages(t *testing.T) {
	body := `{"start": "t2", "end": "t1", "chunk": [
		{"event_id": "$3", "type": "m.room.message", "sender": "@x:example.org", "origin_server_ts": 30, "content": {"body": "three"}},
		{"event_id": "$2", "type": "m.room.message", "sender": "@x:example.org", "origin_server_ts": 20, "content": {"body": "two"}},
		{"event_id": "$1", "type": "m.room.message", "sender": "@x:example.org", "origin_server_ts": 10, "content": {"body": "one"}, "room_id": "!other:example.org"}
	]}`
	room := ref.MustParseRoomID("!room:example.org")
	events, err := DecodeMessages(strings.NewReader(body), room)
	if err != nil {
		t.Fatalf("DecodeMessages: %v", err)
	}
	order := []string{"$1", "$2", "$3"}
	for index, id := range order {
		if events[index].EventID.String() != id {
			t.Errorf("position %d = %s, want %s", index, events[index].EventID, id)
		}
	}
	if events[0].RoomID.String() != "!other:example.org" {
		t.Errorf("explicit room_id was overwritten: %s", events[0].RoomID)
	}
	if events[1].RoomID != room {
		t.Errorf("missing room_id not filled: %s", events[1].RoomID)
	}
}

func TestDecodeRejectsErrorResponses(t *testing.T) {
	body := `{"errcode": "M_FORBIDDEN", "error": "You are not in this room"}`

	_, err := DecodeSync(strings.NewReader(body))
	if !messaging.IsMatrixError(err, messaging.ErrCodeForbidden) {
		t.Errorf("DecodeSync error = %v, want M_FORBIDDEN", err)
	}
	_, err = DecodeMessages(strings.NewReader(body), ref.MustParseRoomID("!room:example.org"))
	if !messaging.IsMatrixError(err, messaging.ErrCodeForbidden) {
		t.Errorf("DecodeMessages error = %v, want M_FORBIDDEN", err)
	}
	if err != nil && !strings.Contains(err.Error(), "You are not in this room") {
		t.Errorf("error lost the server message: %v", err)
	}
}
