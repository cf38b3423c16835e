// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ref

// EventType identifies a Matrix event type ("m.room.message",
// "m.room.member", "m.reaction", ...). Constants for the types the
// timeline understands live in package messaging.
//
// EventType is a named string, not a struct wrapper: event types are
// opaque identifiers that need no parsing. The type exists for
// compile-time safety, preventing a state key or room ID from being
// passed where an event type is expected.
type EventType string

// String returns the event type string.
func (t EventType) String() string { return string(t) }

// IsState reports whether the type belongs to the room-state
// namespace (m.room.*) rather than a pure timeline type such as
// m.reaction. Used only for display grouping; the timeline core
// classifies by content, not by type.
func (t EventType) IsState() bool {
	switch t {
	case "m.room.member", "m.room.name", "m.room.topic", "m.room.avatar",
		"m.room.create", "m.room.power_levels", "m.room.join_rules",
		"m.room.history_visibility", "m.room.canonical_alias":
		return true
	}
	return false
}
