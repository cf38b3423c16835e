// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ref

// EventID is a Matrix event ID such as "$abc123xyz".
//
// Room version 4 and later use "$base64hash" with no server; older
// rooms use "$opaque:server". Both are accepted and treated as opaque
// keys. Annotation and reply targets are EventIDs, so a relation whose
// target does not parse is rejected when the event is decoded.
type EventID struct {
	id string
}

// ParseEventID checks the '$' sigil and that something follows it.
func ParseEventID(raw string) (EventID, error) {
	if _, err := eventIDGrammar.split(raw); err != nil {
		return EventID{}, err
	}
	return EventID{id: raw}, nil
}

// MustParseEventID is ParseEventID that panics on invalid input.
func MustParseEventID(raw string) EventID {
	return mustParse("MustParseEventID", raw, ParseEventID)
}

func (e EventID) String() string { return e.id }

// IsZero reports whether e is the zero value ("no event").
func (e EventID) IsZero() bool { return e.id == "" }

func (e EventID) MarshalText() ([]byte, error) { return []byte(e.id), nil }

func (e *EventID) UnmarshalText(data []byte) error {
	return unmarshalText(data, e, ParseEventID)
}
