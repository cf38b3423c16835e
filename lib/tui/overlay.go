// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// SpliceOverlay replaces a rectangle of a rendered view with overlay
// lines, placing the first overlay line's first column at (anchorX,
// anchorY). Truncation is ANSI-aware, so styling on either side of
// the overlay survives. Overlay rows that fall outside the view are
// dropped.
func SpliceOverlay(view string, overlayLines []string, anchorX, anchorY int) string {
	if len(overlayLines) == 0 {
		return view
	}

	viewLines := strings.Split(view, "\n")
	for index, overlayLine := range overlayLines {
		row := anchorY + index
		if row < 0 || row >= len(viewLines) {
			continue
		}
		original := viewLines[row]

		var spliced strings.Builder
		if anchorX > 0 {
			left := ansi.Truncate(original, anchorX, "")
			spliced.WriteString(left)
			// Short lines are padded so the overlay lands at anchorX.
			if gap := anchorX - ansi.StringWidth(left); gap > 0 {
				spliced.WriteString(strings.Repeat(" ", gap))
			}
		}
		spliced.WriteString("\x1b[0m")
		spliced.WriteString(overlayLine)
		spliced.WriteString("\x1b[0m")

		resume := anchorX + ansi.StringWidth(overlayLine)
		if resume < ansi.StringWidth(original) {
			spliced.WriteString(ansi.TruncateLeft(original, resume, ""))
		}
		viewLines[row] = spliced.String()
	}
	return strings.Join(viewLines, "\n")
}

// RenderPopup draws a titled box as equal-width lines, ready for
// SpliceOverlay. Body lines wider than maxWidth are truncated with an
// ellipsis.
func RenderPopup(theme Theme, title string, body []string, maxWidth int) []string {
	innerWidth := ansi.StringWidth(title)
	for _, line := range body {
		innerWidth = max(innerWidth, ansi.StringWidth(line))
	}
	// Two columns of padding plus two of border.
	innerWidth = max(min(innerWidth, maxWidth-4), 1)

	background := lipgloss.NewStyle().Background(theme.PopupBackground)
	border := background.Foreground(theme.BorderColor)
	titleStyle := background.Foreground(theme.HeaderForeground).Bold(true)
	text := background.Foreground(theme.PopupForeground)

	lines := make([]string, 0, len(body)+3)
	lines = append(lines, border.Render("╭"+strings.Repeat("─", innerWidth+2)+"╮"))
	lines = append(lines, border.Render("│")+padPopupLine(titleStyle.Render(fitWidth(title, innerWidth)), innerWidth, background)+border.Render("│"))
	for _, line := range body {
		lines = append(lines, border.Render("│")+padPopupLine(text.Render(fitWidth(line, innerWidth)), innerWidth, background)+border.Render("│"))
	}
	lines = append(lines, border.Render("╰"+strings.Repeat("─", innerWidth+2)+"╯"))
	return lines
}

// CenterOverlay splices popup lines into the middle of a view of the
// given size.
func CenterOverlay(view string, popup []string, width, height int) string {
	if len(popup) == 0 {
		return view
	}
	anchorX := max((width-ansi.StringWidth(popup[0]))/2, 0)
	anchorY := max((height-len(popup))/2, 0)
	return SpliceOverlay(view, popup, anchorX, anchorY)
}

// padPopupLine surrounds styled content with one column of padding
// on the left and enough on the right to fill innerWidth plus one.
func padPopupLine(styledContent string, innerWidth int, background lipgloss.Style) string {
	rightPad := max(innerWidth-ansi.StringWidth(styledContent), 0)
	return background.Render(" ") + styledContent + background.Render(strings.Repeat(" ", rightPad+1))
}

func fitWidth(text string, width int) string {
	if ansi.StringWidth(text) <= width {
		return text
	}
	return ansi.Truncate(text, width, "…")
}
