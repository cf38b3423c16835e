// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package roomstore

import (
	"maps"
	"slices"

	"github.com/bureau-foundation/timeline/lib/ref"
	"github.com/bureau-foundation/timeline/lib/timeline"
	"github.com/bureau-foundation/timeline/messaging"
)

// Room is one room's state within a Snapshot. A Room reachable from a
// published Snapshot is never modified.
type Room struct {
	ID ref.RoomID

	// Name is the configured name, else the latest m.room.name, else
	// empty.
	Name string

	// MemberCount is the configured count, else the number of users
	// whose latest membership is "join".
	MemberCount int

	// LastActivity is the timestamp of the newest event, zero when
	// the room has none.
	LastActivity int64

	// Unread counts events applied since the room was last marked
	// read by a viewer. The store only increments it.
	Unread int

	stateName string
	events    []messaging.Event
	// members maps user ID to latest membership value.
	members map[string]string
}

// Events returns the room's timeline, oldest first.
func (room *Room) Events() []messaging.Event { return room.events }

// Timeline returns the room in the form the timeline package orders.
func (room *Room) Timeline() timeline.Room {
	return timeline.Room{ID: room.ID, Name: room.Name, Events: room.events}
}

// DisplayName returns Name or the room ID.
func (room *Room) DisplayName() string { return room.Timeline().DisplayName() }

// Membership returns the latest membership of userID, or "".
func (room *Room) Membership(userID ref.UserID) string {
	return room.members[userID.String()]
}

// Joined returns the users whose latest membership is "join", sorted.
func (room *Room) Joined() []string {
	var joined []string
	for user, membership := range room.members {
		if membership == messaging.MembershipJoin {
			joined = append(joined, user)
		}
	}
	slices.Sort(joined)
	return joined
}

// clone returns a copy that may be modified. The events slice is
// clipped so appends never write into storage a published snapshot
// can see.
func (room *Room) clone() *Room {
	copied := *room
	copied.events = slices.Clip(room.events)
	copied.members = maps.Clone(room.members)
	return &copied
}

// apply records one event on a room being built.
func (room *Room) apply(event messaging.Event) {
	room.events = append(room.events, event)
	room.Unread++
	if event.OriginServerTS > room.LastActivity {
		room.LastActivity = event.OriginServerTS
	}

	if event.StateKey == nil {
		return
	}
	switch event.Type {
	case messaging.EventTypeMember:
		membership := event.ContentString(messaging.ContentKeyMembership)
		if membership == "" {
			return
		}
		room.members[*event.StateKey] = membership
	case messaging.EventTypeRoomName:
		if *event.StateKey == "" {
			room.stateName = event.ContentString(messaging.ContentKeyName)
		}
	}
}

// finish derives the summary fields after a batch of applies.
func (room *Room) finish(configuredName string, configuredCounts map[ref.RoomID]int) {
	room.Name = room.stateName
	if configuredName != "" {
		room.Name = configuredName
	}
	if count, ok := configuredCounts[room.ID]; ok {
		room.MemberCount = count
		return
	}
	room.MemberCount = 0
	for _, membership := range room.members {
		if membership == messaging.MembershipJoin {
			room.MemberCount++
		}
	}
}
