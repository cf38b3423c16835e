// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package timeline

import (
	"github.com/bureau-foundation/timeline/lib/ref"
	"github.com/bureau-foundation/timeline/messaging"
)

const testRoom = "!room:example.org"

func textEvent(id, sender, body string, timestamp int64) messaging.Event {
	return messaging.Event{
		EventID:        ref.MustParseEventID(id),
		Type:           messaging.EventTypeMessage,
		RoomID:         ref.MustParseRoomID(testRoom),
		Sender:         ref.MustParseUserID(sender),
		OriginServerTS: timestamp,
		Content:        map[string]any{"msgtype": "m.text", "body": body},
	}
}

func reactionEvent(id, sender, target, key string) messaging.Event {
	return messaging.Event{
		EventID:        ref.MustParseEventID(id),
		Type:           messaging.EventTypeReaction,
		RoomID:         ref.MustParseRoomID(testRoom),
		Sender:         ref.MustParseUserID(sender),
		OriginServerTS: 1,
		Content: map[string]any{
			"m.relates_to": map[string]any{
				"rel_type": "m.annotation",
				"event_id": target,
				"key":      key,
			},
		},
	}
}

func memberEvent(id, sender string, content, previous map[string]any) messaging.Event {
	stateKey := sender
	event := messaging.Event{
		EventID:        ref.MustParseEventID(id),
		Type:           messaging.EventTypeMember,
		RoomID:         ref.MustParseRoomID(testRoom),
		Sender:         ref.MustParseUserID(sender),
		StateKey:       &stateKey,
		OriginServerTS: 1,
		Content:        content,
	}
	if previous != nil {
		event.Unsigned = &messaging.EventUnsigned{PrevContent: previous}
	}
	return event
}
