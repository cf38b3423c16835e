// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package timeline

import (
	"time"

	"github.com/bureau-foundation/timeline/lib/ref"
	"github.com/bureau-foundation/timeline/messaging"
)

// RenderOptions carries the context Render needs from outside the
// event list.
type RenderOptions struct {
	// MemberCount is the room's current member count. Two or fewer
	// members drops the sender prefix from text lines.
	MemberCount int

	// ShowMembershipEvents keeps join, leave and profile change lines.
	// When false they are omitted.
	ShowMembershipEvents bool

	// Location decides day boundaries. Nil means time.Local.
	Location *time.Location

	// Annotations is an index to extend with the annotation events
	// found in the timeline. Folding is idempotent, so passing an index
	// that already covers these events is harmless. The zero value
	// starts from an empty index.
	Annotations AnnotationIndex
}

// LineKind distinguishes message lines from day separators.
type LineKind int

const (
	LineMessage LineKind = iota
	LineDaySeparator
)

func (k LineKind) String() string {
	if k == LineDaySeparator {
		return "separator"
	}
	return "message"
}

// MarshalText implements encoding.TextMarshaler.
func (k LineKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Line is one row of a rendered timeline.
type Line struct {
	Kind LineKind `json:"line"`

	// Date is set on separators: local midnight of the day that starts
	// after the separator.
	Date time.Time `json:"date,omitzero"`

	// The remaining fields are set on message lines.
	Formatted FormattedLine `json:"formatted,omitzero"`
	Timestamp int64         `json:"timestamp,omitempty"`
	Sender    ref.UserID    `json:"sender,omitzero"`
	Reactions []Reaction    `json:"reactions,omitempty"`
}

// Render turns one room's ordered events into display lines: it
// partitions out annotations and folds them into the index, formats
// the remaining events, drops membership lines unless requested and
// lines with nothing to show, inserts one separator between adjacent
// lines on different local dates, and attaches reaction chips.
//
// The returned index is options.Annotations extended with this
// timeline's annotations.
func Render(events []messaging.Event, options RenderOptions) ([]Line, AnnotationIndex) {
	ordinary, annotations := Partition(events)
	index := FoldAnnotations(options.Annotations, annotations)

	location := options.Location
	if location == nil {
		location = time.Local
	}

	var visible []messaging.Event
	var formatted []FormattedLine
	for _, event := range ordinary {
		line := FormatLine(event, options.MemberCount)
		if !line.Renderable {
			continue
		}
		if line.Kind.IsMembership() && !options.ShowMembershipEvents {
			continue
		}
		visible = append(visible, event)
		formatted = append(formatted, line)
	}

	lines := make([]Line, 0, len(visible)+1)
	position := 0
	for dayIndex, day := range GroupByDay(visible, location) {
		if dayIndex > 0 {
			lines = append(lines, Line{Kind: LineDaySeparator, Date: day.Date})
		}
		for _, event := range day.Events {
			lines = append(lines, Line{
				Kind:      LineMessage,
				Formatted: formatted[position],
				Timestamp: event.OriginServerTS,
				Sender:    event.Sender,
				Reactions: index.Reactions(event.RoomID, event.EventID),
			})
			position++
		}
	}
	return lines, index
}
