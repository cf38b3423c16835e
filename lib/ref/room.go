// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ref

// RoomID is a Matrix room ID such as "!abc123:example.org". Every
// timeline event belongs to one room, and the annotation index and the
// room store are keyed by RoomID; its text form lets it serve as a JSON
// or CBOR map key.
type RoomID struct {
	id    string
	colon int
}

// ParseRoomID validates the '!' sigil, a non-empty opaque part and a
// server name.
func ParseRoomID(raw string) (RoomID, error) {
	colon, err := roomIDGrammar.split(raw)
	if err != nil {
		return RoomID{}, err
	}
	return RoomID{id: raw, colon: colon}, nil
}

// MustParseRoomID is ParseRoomID that panics on invalid input.
func MustParseRoomID(raw string) RoomID {
	return mustParse("MustParseRoomID", raw, ParseRoomID)
}

func (r RoomID) String() string { return r.id }

// IsZero reports whether r is the zero value ("no room").
func (r RoomID) IsZero() bool { return r.id == "" }

// Server returns the homeserver that created the room, or "" for the
// zero value.
func (r RoomID) Server() string {
	if r.id == "" {
		return ""
	}
	return r.id[r.colon+1:]
}

func (r RoomID) MarshalText() ([]byte, error) { return []byte(r.id), nil }

func (r *RoomID) UnmarshalText(data []byte) error {
	return unmarshalText(data, r, ParseRoomID)
}
