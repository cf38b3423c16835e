// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package roomstore

import (
	"maps"
	"slices"
	"strings"

	"github.com/bureau-foundation/timeline/lib/ref"
	"github.com/bureau-foundation/timeline/lib/timeline"
	"github.com/bureau-foundation/timeline/messaging"
)

// Snapshot is an immutable view of the store. Methods return data
// that must not be modified.
type Snapshot struct {
	rooms       map[ref.RoomID]*Room
	eventRooms  map[ref.EventID]ref.RoomID
	annotations timeline.AnnotationIndex
}

func emptySnapshot() *Snapshot {
	return &Snapshot{
		rooms:      map[ref.RoomID]*Room{},
		eventRooms: map[ref.EventID]ref.RoomID{},
	}
}

// shallowCopy copies the top-level maps so rooms can be replaced
// without touching s. Room values are shared until cloned.
func (s *Snapshot) shallowCopy() *Snapshot {
	return &Snapshot{
		rooms:       maps.Clone(s.rooms),
		eventRooms:  maps.Clone(s.eventRooms),
		annotations: s.annotations,
	}
}

func (s *Snapshot) withRoom(room *Room) *Snapshot {
	next := s.shallowCopy()
	next.rooms[room.ID] = room
	return next
}

func (s *Snapshot) withoutRoom(roomID ref.RoomID) *Snapshot {
	next := s.shallowCopy()
	delete(next.rooms, roomID)
	maps.DeleteFunc(next.eventRooms, func(_ ref.EventID, eventRoom ref.RoomID) bool {
		return eventRoom == roomID
	})
	next.annotations = next.annotations.WithoutRoom(roomID)
	return next
}

// Room returns the room with the given ID.
func (s *Snapshot) Room(roomID ref.RoomID) (*Room, bool) {
	room, ok := s.rooms[roomID]
	return room, ok
}

// RoomIDs returns every room ID, sorted.
func (s *Snapshot) RoomIDs() []ref.RoomID {
	ids := slices.Collect(maps.Keys(s.rooms))
	slices.SortFunc(ids, func(a, b ref.RoomID) int {
		return strings.Compare(a.String(), b.String())
	})
	return ids
}

// Rooms returns every room, most recent activity first.
func (s *Snapshot) Rooms() []*Room {
	rooms := slices.Collect(maps.Values(s.rooms))
	slices.SortStableFunc(rooms, func(a, b *Room) int {
		if order := timeline.CompareByRecency(a.Timeline(), b.Timeline()); order != 0 {
			return order
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return rooms
}

// RoomOf returns the room an event belongs to.
func (s *Snapshot) RoomOf(eventID ref.EventID) (ref.RoomID, bool) {
	roomID, ok := s.eventRooms[eventID]
	return roomID, ok
}

// Event returns a stored event by ID.
func (s *Snapshot) Event(eventID ref.EventID) (messaging.Event, bool) {
	roomID, ok := s.eventRooms[eventID]
	if !ok {
		return messaging.Event{}, false
	}
	room := s.rooms[roomID]
	for index := len(room.events) - 1; index >= 0; index-- {
		if room.events[index].EventID == eventID {
			return room.events[index], true
		}
	}
	return messaging.Event{}, false
}

// Annotations returns the annotation index over every room.
func (s *Snapshot) Annotations() timeline.AnnotationIndex { return s.annotations }

// EventCount returns the number of stored events.
func (s *Snapshot) EventCount() int {
	total := 0
	for _, room := range s.rooms {
		total += len(room.events)
	}
	return total
}

// Render renders one room with the store's member count and
// annotations.
func (s *Snapshot) Render(roomID ref.RoomID, options timeline.RenderOptions) []timeline.Line {
	room, ok := s.rooms[roomID]
	if !ok {
		return nil
	}
	options.MemberCount = room.MemberCount
	options.Annotations = s.annotations
	lines, _ := timeline.Render(room.events, options)
	return lines
}
