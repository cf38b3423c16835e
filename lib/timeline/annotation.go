// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package timeline

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/bureau-foundation/timeline/lib/codec"
	"github.com/bureau-foundation/timeline/lib/ref"
	"github.com/bureau-foundation/timeline/messaging"
)

// AnnotationIndex maps room → annotated message → reaction key → the
// users who reacted with that key, in the order their reactions were
// first seen. Each user appears at most once per (room, message, key).
//
// AnnotationIndex is a persistent value: [AddAnnotation] returns a new
// index that copies only the path it changes and shares every other
// branch with its input. Nothing reachable from an index is ever
// written after the index is returned, so any number of goroutines may
// read an index while a writer derives the next one. The zero value is
// the empty index.
type AnnotationIndex struct {
	rooms map[ref.RoomID]roomAnnotations
	count int
}

// roomAnnotations is immutable once published in an index.
type roomAnnotations map[ref.EventID]*messageAnnotations

// messageAnnotations is immutable once published in an index.
type messageAnnotations struct {
	// keys in first-seen order.
	keys    []string
	senders map[string][]ref.UserID
}

// Reaction is one chip under a message: a key and the users who
// reacted with it, in first-seen order.
type Reaction struct {
	Key     string       `json:"key"`
	Senders []ref.UserID `json:"senders"`
}

// Count returns the number of distinct users who reacted with Key.
func (r Reaction) Count() int { return len(r.Senders) }

// Label returns the chip text: the key followed by the count.
func (r Reaction) Label() string { return fmt.Sprintf("%s %d", r.Key, len(r.Senders)) }

// AddAnnotation returns index with the reaction carried by event
// recorded. The index is returned unchanged when the event does not
// classify as KindAnnotation (a body wins over the relation), has no
// room ID, no target event, or an empty key, and when the sender
// already reacted to the same target with the same key.
func AddAnnotation(index AnnotationIndex, event messaging.Event) AnnotationIndex {
	if Classify(event) != KindAnnotation || event.RoomID.IsZero() {
		return index
	}
	relation, _ := event.Relation()
	if relation.EventID.IsZero() || relation.Key == "" {
		return index
	}
	return index.with(event.RoomID, relation.EventID, relation.Key, event.Sender)
}

// FoldAnnotations applies AddAnnotation to each event in order.
// Events that carry no annotation leave the index unchanged, so a
// whole timeline may be passed.
func FoldAnnotations(index AnnotationIndex, events []messaging.Event) AnnotationIndex {
	for _, event := range events {
		index = AddAnnotation(index, event)
	}
	return index
}

// with returns a copy of index with sender recorded under
// (room, message, key), sharing every untouched branch.
func (index AnnotationIndex) with(room ref.RoomID, message ref.EventID, key string, sender ref.UserID) AnnotationIndex {
	oldRoom := index.rooms[room]
	oldMessage := oldRoom[message]

	var oldSenders []ref.UserID
	if oldMessage != nil {
		oldSenders = oldMessage.senders[key]
	}
	if slices.Contains(oldSenders, sender) {
		return index
	}

	newMessage := &messageAnnotations{}
	if oldMessage == nil {
		newMessage.keys = []string{key}
		newMessage.senders = map[string][]ref.UserID{key: {sender}}
	} else {
		newMessage.keys = oldMessage.keys
		if _, exists := oldMessage.senders[key]; !exists {
			newMessage.keys = append(slices.Clip(oldMessage.keys), key)
		}
		newMessage.senders = make(map[string][]ref.UserID, len(oldMessage.senders)+1)
		for existingKey, existingSenders := range oldMessage.senders {
			newMessage.senders[existingKey] = existingSenders
		}
		// Clip forces append to allocate so the published slice is
		// never extended in place.
		newMessage.senders[key] = append(slices.Clip(oldSenders), sender)
	}

	newRoom := make(roomAnnotations, len(oldRoom)+1)
	for existingMessage, existing := range oldRoom {
		newRoom[existingMessage] = existing
	}
	newRoom[message] = newMessage

	newRooms := make(map[ref.RoomID]roomAnnotations, len(index.rooms)+1)
	for existingRoom, existing := range index.rooms {
		newRooms[existingRoom] = existing
	}
	newRooms[room] = newRoom

	return AnnotationIndex{rooms: newRooms, count: index.count + 1}
}

// IsEmpty reports whether the index holds no reactions.
func (index AnnotationIndex) IsEmpty() bool { return index.count == 0 }

// Len returns the number of distinct (room, message, key, sender)
// entries.
func (index AnnotationIndex) Len() int { return index.count }

// Rooms returns the rooms with at least one reaction, sorted by ID.
func (index AnnotationIndex) Rooms() []ref.RoomID {
	rooms := make([]ref.RoomID, 0, len(index.rooms))
	for room := range index.rooms {
		rooms = append(rooms, room)
	}
	slices.SortFunc(rooms, func(a, b ref.RoomID) int {
		return strings.Compare(a.String(), b.String())
	})
	return rooms
}

// Messages returns the annotated messages in room, sorted by ID.
func (index AnnotationIndex) Messages(room ref.RoomID) []ref.EventID {
	messages := make([]ref.EventID, 0, len(index.rooms[room]))
	for message := range index.rooms[room] {
		messages = append(messages, message)
	}
	slices.SortFunc(messages, func(a, b ref.EventID) int {
		return strings.Compare(a.String(), b.String())
	})
	return messages
}

// Keys returns the reaction keys on message in first-seen order.
func (index AnnotationIndex) Keys(room ref.RoomID, message ref.EventID) []string {
	annotations := index.rooms[room][message]
	if annotations == nil {
		return nil
	}
	return slices.Clone(annotations.keys)
}

// Senders returns the users who reacted to message with key, in
// first-seen order.
func (index AnnotationIndex) Senders(room ref.RoomID, message ref.EventID, key string) []ref.UserID {
	annotations := index.rooms[room][message]
	if annotations == nil {
		return nil
	}
	return slices.Clone(annotations.senders[key])
}

// Reactions returns the reaction chips for message, keys in
// first-seen order.
func (index AnnotationIndex) Reactions(room ref.RoomID, message ref.EventID) []Reaction {
	annotations := index.rooms[room][message]
	if annotations == nil {
		return nil
	}
	reactions := make([]Reaction, len(annotations.keys))
	for position, key := range annotations.keys {
		reactions[position] = Reaction{
			Key:     key,
			Senders: slices.Clone(annotations.senders[key]),
		}
	}
	return reactions
}

// Room returns the index restricted to one room.
func (index AnnotationIndex) Room(room ref.RoomID) AnnotationIndex {
	annotations, ok := index.rooms[room]
	if !ok {
		return AnnotationIndex{}
	}
	count := 0
	for _, message := range annotations {
		for _, senders := range message.senders {
			count += len(senders)
		}
	}
	return AnnotationIndex{
		rooms: map[ref.RoomID]roomAnnotations{room: annotations},
		count: count,
	}
}

// WithoutRoom returns the index with every reaction in room removed,
// sharing all other rooms.
func (index AnnotationIndex) WithoutRoom(room ref.RoomID) AnnotationIndex {
	if _, ok := index.rooms[room]; !ok {
		return index
	}
	removed := index.Room(room).Len()
	rooms := make(map[ref.RoomID]roomAnnotations, len(index.rooms)-1)
	for existingRoom, existing := range index.rooms {
		if existingRoom != room {
			rooms[existingRoom] = existing
		}
	}
	return AnnotationIndex{rooms: rooms, count: index.count - removed}
}

// Equal reports whether both indexes hold the same reactions with the
// same key and sender order.
func (index AnnotationIndex) Equal(other AnnotationIndex) bool {
	if index.count != other.count || len(index.rooms) != len(other.rooms) {
		return false
	}
	for room, messages := range index.rooms {
		otherMessages, ok := other.rooms[room]
		if !ok || len(messages) != len(otherMessages) {
			return false
		}
		for message, annotations := range messages {
			otherAnnotations, ok := otherMessages[message]
			if !ok {
				return false
			}
			if annotations == otherAnnotations {
				continue
			}
			if !slices.Equal(annotations.keys, otherAnnotations.keys) {
				return false
			}
			for _, key := range annotations.keys {
				if !slices.Equal(annotations.senders[key], otherAnnotations.senders[key]) {
					return false
				}
			}
		}
	}
	return true
}

// RoomAnnotations is the serialized form of one room's reactions.
type RoomAnnotations struct {
	RoomID   ref.RoomID           `json:"room_id"`
	Messages []MessageAnnotations `json:"messages"`
}

// MessageAnnotations is the serialized form of one message's
// reactions.
type MessageAnnotations struct {
	EventID   ref.EventID `json:"event_id"`
	Reactions []Reaction  `json:"reactions"`
}

// Snapshot returns the index as plain data: rooms and messages sorted
// by ID, reactions in first-seen key order. The result shares nothing
// with the index.
func (index AnnotationIndex) Snapshot() []RoomAnnotations {
	snapshot := make([]RoomAnnotations, 0, len(index.rooms))
	for _, room := range index.Rooms() {
		entry := RoomAnnotations{RoomID: room}
		for _, message := range index.Messages(room) {
			entry.Messages = append(entry.Messages, MessageAnnotations{
				EventID:   message,
				Reactions: index.Reactions(room, message),
			})
		}
		snapshot = append(snapshot, entry)
	}
	return snapshot
}

// IndexFromSnapshot rebuilds an index from Snapshot output. Duplicate
// senders collapse and empty keys are skipped, as with AddAnnotation.
func IndexFromSnapshot(snapshot []RoomAnnotations) (AnnotationIndex, error) {
	var index AnnotationIndex
	for _, room := range snapshot {
		if room.RoomID.IsZero() {
			return AnnotationIndex{}, fmt.Errorf("annotation snapshot: room entry without room_id")
		}
		for _, message := range room.Messages {
			if message.EventID.IsZero() {
				return AnnotationIndex{}, fmt.Errorf("annotation snapshot: message without event_id in room %s", room.RoomID)
			}
			for _, reaction := range message.Reactions {
				if reaction.Key == "" {
					continue
				}
				for _, sender := range reaction.Senders {
					index = index.with(room.RoomID, message.EventID, reaction.Key, sender)
				}
			}
		}
	}
	return index, nil
}

// MarshalJSON encodes the index as its Snapshot.
func (index AnnotationIndex) MarshalJSON() ([]byte, error) {
	return json.Marshal(index.Snapshot())
}

// UnmarshalJSON decodes a Snapshot.
func (index *AnnotationIndex) UnmarshalJSON(data []byte) error {
	var snapshot []RoomAnnotations
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return err
	}
	rebuilt, err := IndexFromSnapshot(snapshot)
	if err != nil {
		return err
	}
	*index = rebuilt
	return nil
}

// MarshalCBOR encodes the index as its Snapshot.
func (index AnnotationIndex) MarshalCBOR() ([]byte, error) {
	return codec.Marshal(index.Snapshot())
}

// UnmarshalCBOR decodes a Snapshot.
func (index *AnnotationIndex) UnmarshalCBOR(data []byte) error {
	var snapshot []RoomAnnotations
	if err := codec.Unmarshal(data, &snapshot); err != nil {
		return err
	}
	rebuilt, err := IndexFromSnapshot(snapshot)
	if err != nil {
		return err
	}
	*index = rebuilt
	return nil
}
