// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package eventlog

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/bureau-foundation/timeline/lib/ref"
	"github.com/bureau-foundation/timeline/messaging"
)

// DecodeSync converts a saved /sync response body into an event
// sequence. Events in /sync carry no room_id; it is filled from the
// enclosing room key. Rooms are emitted in room ID order. Within a
// room, state and timeline events are merged and stably sorted by
// timestamp, so ties keep state ahead of timeline.
func DecodeSync(source io.Reader) ([]messaging.Event, error) {
	body, err := readResponse(source, "/sync")
	if err != nil {
		return nil, err
	}
	var response messaging.SyncResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("decoding /sync response: %w", err)
	}

	type roomSections struct {
		id       ref.RoomID
		state    []messaging.Event
		timeline []messaging.Event
	}
	var rooms []roomSections
	for id, room := range response.Rooms.Join {
		rooms = append(rooms, roomSections{id: id, state: room.State.Events, timeline: room.Timeline.Events})
	}
	for id, room := range response.Rooms.Leave {
		rooms = append(rooms, roomSections{id: id, state: room.State.Events, timeline: room.Timeline.Events})
	}
	slices.SortFunc(rooms, func(a, b roomSections) int {
		return strings.Compare(a.id.String(), b.id.String())
	})

	var events []messaging.Event
	for _, room := range rooms {
		merged := slices.Concat(room.state, room.timeline)
		for index := range merged {
			if merged[index].RoomID.IsZero() {
				merged[index].RoomID = room.id
			}
		}
		slices.SortStableFunc(merged, func(a, b messaging.Event) int {
			return cmp.Compare(a.OriginServerTS, b.OriginServerTS)
		})
		events = append(events, merged...)
	}
	return events, nil
}

// DecodeMessages converts a saved /messages response body into an
// event sequence, oldest first. Backward pagination returns the chunk
// newest first, so the chunk is stably sorted by timestamp. Events
// without a room_id get roomID.
func DecodeMessages(source io.Reader, roomID ref.RoomID) ([]messaging.Event, error) {
	body, err := readResponse(source, "/messages")
	if err != nil {
		return nil, err
	}
	var response messaging.RoomMessagesResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("decoding /messages response: %w", err)
	}
	events := slices.Clone(response.Chunk)
	for index := range events {
		if events[index].RoomID.IsZero() {
			events[index].RoomID = roomID
		}
	}
	slices.SortStableFunc(events, func(a, b messaging.Event) int {
		return cmp.Compare(a.OriginServerTS, b.OriginServerTS)
	})
	return events, nil
}

// readResponse reads a saved response body, failing with the
// homeserver's error when the body is an error response.
func readResponse(source io.Reader, endpoint string) ([]byte, error) {
	body, err := io.ReadAll(source)
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", endpoint, err)
	}
	if matrixErr, ok := messaging.ParseErrorResponse(body); ok {
		return nil, fmt.Errorf("saved %s response is a homeserver error: %w", endpoint, matrixErr)
	}
	return body, nil
}
