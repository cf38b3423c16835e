// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package timelineui

import (
	"cmp"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/junegunn/fzf/src/util"

	"github.com/bureau-foundation/timeline/lib/roomstore"
	"github.com/bureau-foundation/timeline/lib/tui"
)

// FilterModel narrows the room list with fzf-style fuzzy matching
// against each room's display name, then its ID.
type FilterModel struct {
	// Input is the query text.
	Input string

	// Active is true while the filter has keyboard focus.
	Active bool

	slab *util.Slab
}

// roomMatch is one room that passed the filter.
type roomMatch struct {
	Room *roomstore.Room

	// Positions are rune offsets into the room's display name to
	// highlight. Empty when the match was on the ID or the filter is
	// empty.
	Positions []int

	Score int
}

// Apply returns the rooms matching the input. An empty input keeps
// every room in the given order; otherwise the best matches come
// first and ties keep the given order.
func (filter *FilterModel) Apply(rooms []*roomstore.Room) []roomMatch {
	matches := make([]roomMatch, 0, len(rooms))
	if filter.Input == "" {
		for _, room := range rooms {
			matches = append(matches, roomMatch{Room: room})
		}
		return matches
	}

	if filter.slab == nil {
		filter.slab = tui.NewSlab()
	}
	pattern := []rune(filter.Input)
	for _, room := range rooms {
		name := room.DisplayName()
		if result := tui.FuzzyMatch(name, pattern, filter.slab); result.Matched {
			matches = append(matches, roomMatch{Room: room, Positions: result.Positions, Score: result.Score})
			continue
		}
		if id := room.ID.String(); id != name {
			if result := tui.FuzzyMatch(id, pattern, filter.slab); result.Matched {
				matches = append(matches, roomMatch{Room: room, Score: result.Score})
			}
		}
	}
	slices.SortStableFunc(matches, func(a, b roomMatch) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return matches
}

// HandleRune appends a typed character.
func (filter *FilterModel) HandleRune(character rune) {
	filter.Input += string(character)
}

// HandleBackspace removes the last character. It reports whether the
// input changed.
func (filter *FilterModel) HandleBackspace() bool {
	if filter.Input == "" {
		return false
	}
	runes := []rune(filter.Input)
	filter.Input = string(runes[:len(runes)-1])
	return true
}

// Clear empties and deactivates the filter.
func (filter *FilterModel) Clear() {
	filter.Input = ""
	filter.Active = false
}

// View renders the filter bar: the input with a cursor while active,
// a faint reminder while inactive with text, nothing otherwise.
func (filter *FilterModel) View(theme tui.Theme, width int) string {
	switch {
	case filter.Active:
		cursor := lipgloss.NewStyle().Foreground(theme.HeaderForeground).Bold(true).Render("▎")
		return lipgloss.NewStyle().Foreground(theme.NormalText).Width(width).MaxWidth(width).
			Render(" / " + filter.Input + cursor)
	case filter.Input != "":
		return lipgloss.NewStyle().Foreground(theme.FaintText).Width(width).MaxWidth(width).
			Render(" filter: " + filter.Input)
	default:
		return ""
	}
}
