// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package timelineui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/timeline/lib/roomstore"
	"github.com/bureau-foundation/timeline/lib/tui"
)

func filterRooms(t *testing.T) []*roomstore.Room {
	t.Helper()
	rooms := newTestStore().Snapshot().Rooms()
	if len(rooms) != 2 {
		t.Fatalf("fixture has %d rooms, want 2", len(rooms))
	}
	return rooms
}

func matchedIDs(matches []roomMatch) []string {
	ids := make([]string, len(matches))
	for index, match := range matches {
		ids[index] = match.Room.ID.String()
	}
	return ids
}

func TestFilterApply(t *testing.T) {
	rooms := filterRooms(t)

	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{"!general:example.org", "!direct:example.org"}},
		{"gen", []string{"!general:example.org"}},
		{"GEN", []string{"!general:example.org"}},
		{"drct", []string{"!direct:example.org"}},
		{"example", []string{"!general:example.org", "!direct:example.org"}},
		{"nothing like it", []string{}},
	}
	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			filter := FilterModel{Input: test.input}
			got := matchedIDs(filter.Apply(rooms))
			if strings.Join(got, " ") != strings.Join(test.want, " ") {
				t.Errorf("Apply(%q) = %v, want %v", test.input, got, test.want)
			}
		})
	}
}

func TestFilterHighlightsNameMatches(t *testing.T) {
	rooms := filterRooms(t)

	filter := FilterModel{Input: "gnl"}
	matches := filter.Apply(rooms)
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	// "General": G(0) n(2) l(6).
	want := []int{0, 2, 6}
	if got := matches[0].Positions; len(got) != len(want) || got[0] != want[0] || got[1] != want[1] || got[2] != want[2] {
		t.Errorf("positions = %v, want %v", got, want)
	}

	// "example" only occurs in the ID of the named room: no highlight.
	filter = FilterModel{Input: "example"}
	for _, match := range filter.Apply(rooms) {
		if match.Room.ID == general && len(match.Positions) != 0 {
			t.Errorf("ID match carries name positions %v", match.Positions)
		}
	}
}

func TestFilterEditing(t *testing.T) {
	var filter FilterModel
	if filter.HandleBackspace() {
		t.Error("backspace on empty input reported a change")
	}
	for _, character := range "ab👍" {
		filter.HandleRune(character)
	}
	if filter.Input != "ab👍" {
		t.Fatalf("input = %q", filter.Input)
	}
	if !filter.HandleBackspace() || filter.Input != "ab" {
		t.Errorf("backspace left %q, want ab", filter.Input)
	}

	filter.Active = true
	filter.Clear()
	if filter.Input != "" || filter.Active {
		t.Errorf("after Clear: %q active=%v", filter.Input, filter.Active)
	}
}

func TestFilterView(t *testing.T) {
	theme := tui.DefaultTheme

	var filter FilterModel
	if view := filter.View(theme, 40); view != "" {
		t.Errorf("idle filter view = %q, want empty", view)
	}

	filter = FilterModel{Input: "gen", Active: true}
	if view := ansi.Strip(filter.View(theme, 40)); !strings.HasPrefix(view, " / gen▎") {
		t.Errorf("active view = %q", view)
	}

	filter.Active = false
	if view := ansi.Strip(filter.View(theme, 40)); !strings.HasPrefix(view, " filter: gen") {
		t.Errorf("inactive view = %q", view)
	}
}
