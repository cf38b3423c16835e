// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package timelineui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds the viewer's key bindings. Movement bindings act on the
// room list or the timeline depending on focus.
type KeyMap struct {
	Up, Down         key.Binding
	PageUp, PageDown key.Binding
	Home, End        key.Binding

	// Open moves focus from the room list to the timeline.
	Open        key.Binding
	FocusToggle key.Binding

	SplitGrow, SplitShrink      key.Binding
	FilterActivate, FilterClear key.Binding

	ToggleMembership key.Binding
	Reactions        key.Binding

	Quit key.Binding
}

// bind builds a binding whose help label is shown as hint in the
// status bar.
func bind(hint, action string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(hint, action))
}

// DefaultKeyMap pairs vim-style letters with arrows and page keys.
var DefaultKeyMap = KeyMap{
	Up:       bind("↑", "up", "k", "up"),
	Down:     bind("↓", "down", "j", "down"),
	PageUp:   bind("C-u", "page up", "ctrl+u", "pgup"),
	PageDown: bind("C-d", "page down", "ctrl+d", "pgdown"),
	Home:     bind("g", "top", "g", "home"),
	End:      bind("G", "bottom", "G", "end"),

	Open:        bind("Enter", "open", "enter", "l", "right"),
	FocusToggle: bind("Tab", "focus", "tab"),

	SplitGrow:      bind("]", "grow list", "]"),
	SplitShrink:    bind("[", "shrink list", "["),
	FilterActivate: bind("/", "filter", "/"),
	FilterClear:    bind("Esc", "clear filter", "esc"),

	ToggleMembership: bind("m", "membership", "m"),
	Reactions:        bind("r", "reactions", "r"),

	Quit: bind("q", "quit", "q", "ctrl+c"),
}

// hints renders the status bar's key summary. Paired bindings share
// one entry ("↑↓ navigate", "]/[ resize").
func (keys KeyMap) hints() string {
	entries := []string{
		label(keys.Quit),
		keys.Up.Help().Key + keys.Down.Help().Key + " navigate",
		label(keys.Open),
		label(keys.FocusToggle),
		keys.SplitGrow.Help().Key + "/" + keys.SplitShrink.Help().Key + " resize",
		label(keys.FilterActivate),
		label(keys.ToggleMembership),
		label(keys.Reactions),
	}
	return strings.Join(entries, "  ")
}

func label(binding key.Binding) string {
	help := binding.Help()
	return help.Key + " " + help.Desc
}
