// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderScrollbar produces a single-column scrollbar of the given
// height for a pane showing visibleItems of totalItems starting at
// scrollOffset. The thumb uses the focus accent when focused.
func RenderScrollbar(theme Theme, height, totalItems, visibleItems, scrollOffset int, focused bool) string {
	if height <= 0 {
		return ""
	}

	thumbColor := theme.BorderColor
	if focused {
		thumbColor = theme.FocusAccent
	}
	track := lipgloss.NewStyle().Foreground(theme.BorderColor).Render("│")
	thumb := lipgloss.NewStyle().Foreground(thumbColor).Render("┃")

	start, size := thumbExtent(height, totalItems, visibleItems, scrollOffset)
	lines := make([]string, height)
	for index := range lines {
		if index >= start && index < start+size {
			lines[index] = thumb
		} else {
			lines[index] = track
		}
	}
	return strings.Join(lines, "\n")
}

// thumbExtent returns the first row and the length of the scrollbar
// thumb. When everything fits, the thumb fills the track.
func thumbExtent(height, totalItems, visibleItems, scrollOffset int) (start, size int) {
	if totalItems <= visibleItems || totalItems <= 0 {
		return 0, height
	}
	size = max(height*visibleItems/totalItems, 1)

	scrollable := totalItems - visibleItems
	free := height - size
	if free > 0 {
		start = min(max(scrollOffset, 0), scrollable) * free / scrollable
	}
	return start, size
}
