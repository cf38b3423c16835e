// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package timeline

import (
	"time"

	"github.com/bureau-foundation/timeline/messaging"
)

// SameDay reports whether the millisecond timestamps a and b fall on
// the same calendar date in location. A nil location means
// time.Local. Dates are local calendar dates, not UTC days: two
// events an hour apart straddling local midnight are on different
// days.
func SameDay(a, b int64, location *time.Location) bool {
	aYear, aMonth, aDay := localDate(a, location)
	bYear, bMonth, bDay := localDate(b, location)
	return aYear == bYear && aMonth == bMonth && aDay == bDay
}

// Day is a run of consecutive events sharing one local calendar date.
type Day struct {
	// Date is local midnight of the day, in the grouping location.
	Date   time.Time
	Events []messaging.Event
}

// GroupByDay splits events (oldest first) into runs of consecutive
// events with the same local calendar date. A day separator belongs
// between each pair of adjacent Days, so len(result)-1 separators are
// needed. Event order is preserved and the input is not modified; the
// Events slices alias the input.
func GroupByDay(events []messaging.Event, location *time.Location) []Day {
	if location == nil {
		location = time.Local
	}
	var days []Day
	start := 0
	for index := 1; index <= len(events); index++ {
		if index < len(events) && SameDay(events[index-1].OriginServerTS, events[index].OriginServerTS, location) {
			continue
		}
		if start < index {
			days = append(days, Day{
				Date:   midnight(events[start].OriginServerTS, location),
				Events: events[start:index:index],
			})
		}
		start = index
	}
	return days
}

func localDate(timestamp int64, location *time.Location) (int, time.Month, int) {
	if location == nil {
		location = time.Local
	}
	return time.UnixMilli(timestamp).In(location).Date()
}

func midnight(timestamp int64, location *time.Location) time.Time {
	year, month, day := localDate(timestamp, location)
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}
