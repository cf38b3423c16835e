// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"hash/fnv"

	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/timeline/lib/timeline"
)

// Theme defines the color palette of the viewer. All colors are
// lipgloss ANSI 256-color codes for broad terminal compatibility.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Selected row.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color
	FocusAccent      lipgloss.Color // Scrollbar thumb and divider of the focused pane.

	// Timeline lines.
	SeparatorForeground     lipgloss.Color // Day separators.
	MembershipForeground    lipgloss.Color // Joins, leaves, profile changes.
	UnimplementedForeground lipgloss.Color // Events shown as raw content.
	ChipForeground          lipgloss.Color // Reaction chips.
	ChipBackground          lipgloss.Color
	LinkForeground          lipgloss.Color

	// Sender names cycle through these, chosen by a hash of the user
	// ID so a sender keeps one color everywhere.
	SenderColors []lipgloss.Color

	// Unread counts in the room list.
	UnreadForeground lipgloss.Color

	// HotAccent tints a room row that just received events.
	HotAccent lipgloss.Color

	// Filter match highlighting.
	MatchForeground lipgloss.Color

	// Status bar log records.
	WarningForeground lipgloss.Color
	ErrorForeground   lipgloss.Color

	// Popups drawn over the view.
	PopupForeground lipgloss.Color
	PopupBackground lipgloss.Color
}

// SenderColor returns the color for a user ID. The same ID always
// gets the same color; an empty palette yields NormalText.
func (theme Theme) SenderColor(userID string) lipgloss.Color {
	if len(theme.SenderColors) == 0 {
		return theme.NormalText
	}
	hash := fnv.New32a()
	hash.Write([]byte(userID))
	return theme.SenderColors[hash.Sum32()%uint32(len(theme.SenderColors))]
}

// KindColor returns the foreground for a line of the given kind.
func (theme Theme) KindColor(kind timeline.Kind) lipgloss.Color {
	switch kind {
	case timeline.KindText:
		return theme.NormalText
	case timeline.KindJoin, timeline.KindLeave,
		timeline.KindDisplayNameChange, timeline.KindAvatarChange:
		return theme.MembershipForeground
	case timeline.KindUnimplemented:
		return theme.UnimplementedForeground
	default:
		return theme.FaintText
	}
}

// DefaultTheme is the built-in scheme for 256-color terminals with a
// dark background.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),
	FocusAccent:      lipgloss.Color("220"), // amber

	SeparatorForeground:     lipgloss.Color("244"),
	MembershipForeground:    lipgloss.Color("243"),
	UnimplementedForeground: lipgloss.Color("138"), // muted rose
	ChipForeground:          lipgloss.Color("252"),
	ChipBackground:          lipgloss.Color("238"),
	LinkForeground:          lipgloss.Color("75"),

	SenderColors: []lipgloss.Color{
		lipgloss.Color("75"),  // blue
		lipgloss.Color("114"), // green
		lipgloss.Color("141"), // light purple
		lipgloss.Color("208"), // orange
		lipgloss.Color("80"),  // teal
		lipgloss.Color("211"), // pink
	},

	UnreadForeground: lipgloss.Color("220"),
	HotAccent:        lipgloss.Color("58"), // dark amber background tint

	MatchForeground: lipgloss.Color("220"),

	WarningForeground: lipgloss.Color("220"),
	ErrorForeground:   lipgloss.Color("196"),

	PopupForeground: lipgloss.Color("252"),
	PopupBackground: lipgloss.Color("237"),
}
