// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	parsers := map[string]func(string) (string, error){
		"event": func(raw string) (string, error) {
			id, err := ParseEventID(raw)
			return id.String(), err
		},
		"room": func(raw string) (string, error) {
			id, err := ParseRoomID(raw)
			return id.String(), err
		},
		"user": func(raw string) (string, error) {
			id, err := ParseUserID(raw)
			return id.String(), err
		},
	}

	tests := []struct {
		parser  string
		input   string
		wantErr string
	}{
		{"event", "$abc123xyz", ""},
		{"event", "$VGhpcyBpcyBhIHRlc3Q", ""},
		{"event", "$legacy:server.local", ""},
		{"event", "", "empty event ID"},
		{"event", "!abc123", "must start with '$'"},
		{"event", "abc123", "must start with '$'"},
		{"event", "$", "nothing after '$'"},

		{"room", "!abc123:example.org", ""},
		{"room", "!opaque:localhost:6167", ""},
		{"room", "", "empty room ID"},
		{"room", "#room:example.org", "must start with '!'"},
		{"room", "!abc123", "missing :server"},
		{"room", "!", "missing :server"},
		{"room", "!:example.org", "empty localpart"},
		{"room", "!abc123:", "empty server"},

		{"user", "@alice:example.org", ""},
		{"user", "@bob:localhost:8448", ""},
		{"user", "", "empty user ID"},
		{"user", "!room:example.org", "must start with '@'"},
		{"user", "@alice", "missing :server"},
		{"user", "@:example.org", "empty localpart"},
		{"user", "@alice:", "empty server"},
		{"user", "@alice:exa mple.org", "invalid character"},
		{"user", "@alice:evil@example.org", "invalid character"},
	}
	for _, test := range tests {
		t.Run(test.parser+" "+test.input, func(t *testing.T) {
			got, err := parsers[test.parser](test.input)
			if test.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), test.wantErr) {
					t.Fatalf("err = %v, want one containing %q", err, test.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != test.input {
				t.Errorf("String() = %q, want %q", got, test.input)
			}
		})
	}
}

func TestUserIDParts(t *testing.T) {
	tests := []struct {
		input, localpart, server string
	}{
		{"@alice:example.org", "alice", "example.org"},
		{"@bob:localhost:8448", "bob", "localhost:8448"},
		{"@a.b_c=d:matrix.example.com", "a.b_c=d", "matrix.example.com"},
	}
	for _, test := range tests {
		user := MustParseUserID(test.input)
		if user.Localpart() != test.localpart || user.Server() != test.server {
			t.Errorf("%s: parts = %q, %q; want %q, %q", test.input, user.Localpart(), user.Server(), test.localpart, test.server)
		}
	}

	if server := MustParseRoomID("!opaque:localhost:6167").Server(); server != "localhost:6167" {
		t.Errorf("room Server() = %q", server)
	}
}

func TestZeroValues(t *testing.T) {
	var (
		event EventID
		room  RoomID
		user  UserID
	)
	if !event.IsZero() || !room.IsZero() || !user.IsZero() {
		t.Error("zero values should report IsZero")
	}
	if event.String() != "" || room.String() != "" || user.String() != "" {
		t.Error("zero values should print empty")
	}
	if room.Server() != "" || user.Localpart() != "" || user.Server() != "" {
		t.Error("zero value accessors should be empty")
	}
	if MustParseEventID("$x").IsZero() {
		t.Error("parsed event ID reports IsZero")
	}
}

func TestJSON(t *testing.T) {
	type record struct {
		EventID EventID `json:"event_id"`
		RoomID  RoomID  `json:"room_id"`
		Sender  UserID  `json:"sender"`
	}

	original := record{
		EventID: MustParseEventID("$abc"),
		RoomID:  MustParseRoomID("!general:example.org"),
		Sender:  MustParseUserID("@alice:example.org"),
	}
	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"event_id":"$abc","room_id":"!general:example.org","sender":"@alice:example.org"}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}
	var decoded record
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded != original {
		t.Errorf("decoded %+v, want %+v", decoded, original)
	}

	// Empty strings are absent values, and zero values encode as "".
	var empty record
	if err := json.Unmarshal([]byte(`{"event_id":"","room_id":"","sender":""}`), &empty); err != nil {
		t.Fatalf("Unmarshal empty: %v", err)
	}
	if !empty.EventID.IsZero() || !empty.RoomID.IsZero() || !empty.Sender.IsZero() {
		t.Errorf("empty strings decoded to %+v", empty)
	}
	data, err = json.Marshal(record{})
	if err != nil {
		t.Fatalf("Marshal zero: %v", err)
	}
	if string(data) != `{"event_id":"","room_id":"","sender":""}` {
		t.Errorf("Marshal zero = %s", data)
	}

	if err := json.Unmarshal([]byte(`{"sender":"alice"}`), &decoded); err == nil {
		t.Error("malformed sender decoded without error")
	}
}

func TestRoomIDAsJSONMapKey(t *testing.T) {
	room := MustParseRoomID("!general:example.org")
	encoded, err := json.Marshal(map[RoomID]int{room: 3})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(encoded) != `{"!general:example.org":3}` {
		t.Errorf("Marshal = %s", encoded)
	}

	var decoded map[RoomID]int
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded[room] != 3 {
		t.Errorf("decoded[%s] = %d, want 3", room, decoded[room])
	}

	if err := json.Unmarshal([]byte(`{"#alias:example.org":1}`), &decoded); err == nil {
		t.Error("room alias accepted as a room ID key")
	}
}

func TestMustParsePanics(t *testing.T) {
	for name, call := range map[string]func(){
		"event": func() { MustParseEventID("") },
		"room":  func() { MustParseRoomID("general") },
		"user":  func() { MustParseUserID("alice") },
	} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("%s: no panic on invalid input", name)
				}
			}()
			call()
		}()
	}
}

func TestEventTypeIsState(t *testing.T) {
	tests := map[EventType]bool{
		"m.room.member":  true,
		"m.room.name":    true,
		"m.reaction":     false,
		"m.room.message": false,
	}
	for eventType, want := range tests {
		if got := eventType.IsState(); got != want {
			t.Errorf("%s.IsState() = %v, want %v", eventType, got, want)
		}
	}
}
