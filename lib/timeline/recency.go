// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package timeline

import (
	"cmp"
	"slices"
	"strings"

	"github.com/bureau-foundation/timeline/lib/ref"
	"github.com/bureau-foundation/timeline/messaging"
)

// Room is the view of a room the recency ordering needs: its ID, a
// display name, and its timeline oldest first.
type Room struct {
	ID     ref.RoomID
	Name   string
	Events []messaging.Event
}

// LatestTimestamp returns the origin timestamp of the room's newest
// event and false when the room has no events. The timeline is kept
// in non-decreasing timestamp order, so the newest event is the last.
func (r Room) LatestTimestamp() (int64, bool) {
	if len(r.Events) == 0 {
		return 0, false
	}
	return r.Events[len(r.Events)-1].OriginServerTS, true
}

// DisplayName returns Name, or the room ID when no name is known.
func (r Room) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.ID.String()
}

// CompareByRecency orders rooms by their latest event, most recent
// first: it returns -1 when a's latest event is newer than b's, 1 when
// older, and 0 when equal. A room with no events sorts after every
// room with events.
func CompareByRecency(a, b Room) int {
	aTimestamp, aOK := a.LatestTimestamp()
	bTimestamp, bOK := b.LatestTimestamp()
	return compareTimestamps(aTimestamp, aOK, bTimestamp, bOK)
}

// CompareEventsByRecency orders events by origin timestamp, most
// recent first. An event with a zero timestamp stands for "no event"
// and sorts last.
func CompareEventsByRecency(a, b messaging.Event) int {
	return compareTimestamps(a.OriginServerTS, a.OriginServerTS != 0, b.OriginServerTS, b.OriginServerTS != 0)
}

func compareTimestamps(a int64, aOK bool, b int64, bOK bool) int {
	switch {
	case !aOK && !bOK:
		return 0
	case !aOK:
		return 1
	case !bOK:
		return -1
	}
	// Descending: newer first.
	return cmp.Compare(b, a)
}

// SortRoomsByRecency sorts rooms in place, most recent activity first.
// Rooms with equal recency (including rooms with no events) keep a
// deterministic order by room ID.
func SortRoomsByRecency(rooms []Room) {
	slices.SortStableFunc(rooms, func(a, b Room) int {
		return cmp.Or(
			CompareByRecency(a, b),
			strings.Compare(a.ID.String(), b.ID.String()),
		)
	})
}
