// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"time"

	"github.com/bureau-foundation/timeline/lib/ref"
)

// PreviousContent returns the state content this event replaced, or
// nil when the event is the first of its kind for its state key. The
// unsigned location is preferred over the legacy top-level field.
func (e Event) PreviousContent() map[string]any {
	if e.Unsigned != nil && len(e.Unsigned.PrevContent) > 0 {
		return e.Unsigned.PrevContent
	}
	if len(e.PrevContent) > 0 {
		return e.PrevContent
	}
	return nil
}

// ContentString returns content[key] when it is a string, or "".
func (e Event) ContentString(key string) string {
	return stringField(e.Content, key)
}

// PreviousString returns PreviousContent()[key] when it is a string,
// or "".
func (e Event) PreviousString(key string) string {
	return stringField(e.PreviousContent(), key)
}

// Relation extracts the m.relates_to block from the content. The
// boolean is false when the block is absent or not an object.
// Fields with the wrong type or an unparseable event ID read as
// absent; the relation itself is still reported so callers can see
// that the event claimed a relation.
func (e Event) Relation() (RelatesTo, bool) {
	raw, ok := e.Content[ContentKeyRelatesTo].(map[string]any)
	if !ok {
		return RelatesTo{}, false
	}

	relation := RelatesTo{
		RelType: stringField(raw, "rel_type"),
		Key:     stringField(raw, "key"),
	}
	if eventID, err := ref.ParseEventID(stringField(raw, "event_id")); err == nil {
		relation.EventID = eventID
	}
	if falling, ok := raw["is_falling_back"].(bool); ok {
		relation.IsFallingBack = falling
	}
	if reply, ok := raw["m.in_reply_to"].(map[string]any); ok {
		if eventID, err := ref.ParseEventID(stringField(reply, "event_id")); err == nil {
			relation.InReplyTo = &InReplyTo{EventID: eventID}
		}
	}
	return relation, true
}

// Time returns the origin server timestamp as a time.Time in the
// given location. A nil location means time.Local.
func (e Event) Time(location *time.Location) time.Time {
	if location == nil {
		location = time.Local
	}
	return time.UnixMilli(e.OriginServerTS).In(location)
}

// IsState reports whether the event carries a state key.
func (e Event) IsState() bool { return e.StateKey != nil }

func stringField(content map[string]any, key string) string {
	if content == nil {
		return ""
	}
	value, _ := content[key].(string)
	return value
}
