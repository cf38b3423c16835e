// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package timelineui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/timeline/lib/ref"
	"github.com/bureau-foundation/timeline/lib/timeline"
)

// separatorDateLayout labels day separators.
const separatorDateLayout = "Monday, January 2, 2006"

const wrapBreakpoints = " ,.;-+|"

// renderTimelineRows renders the selected room as display rows no
// wider than width. A message may take several rows: wrapped or
// Markdown body lines, then a row of reaction chips.
func (model Model) renderTimelineRows(width int) []string {
	if !model.selectedRoomExists() {
		return nil
	}
	lines := model.snapshot.Render(model.selectedID, timeline.RenderOptions{
		ShowMembershipEvents: model.showMembership,
		Location:             model.config.Location(),
	})

	var rows []string
	for _, line := range lines {
		if line.Kind == timeline.LineDaySeparator {
			rows = append(rows, model.renderSeparator(line.Date, width))
			continue
		}
		rows = append(rows, model.renderMessage(line, width)...)
	}
	return rows
}

// renderSeparator centers the date in a rule: ──── Tuesday ... ────
func (model Model) renderSeparator(date time.Time, width int) string {
	label := " " + date.Format(separatorDateLayout) + " "
	labelWidth := ansi.StringWidth(label)
	if labelWidth >= width {
		label = ansi.Truncate(label, width, "…")
		return lipgloss.NewStyle().Foreground(model.theme.SeparatorForeground).Render(label)
	}
	left := (width - labelWidth) / 2
	right := width - labelWidth - left
	return lipgloss.NewStyle().Foreground(model.theme.SeparatorForeground).
		Render(strings.Repeat("─", left) + label + strings.Repeat("─", right))
}

// renderMessage renders one message line: the time stamp, then the
// body, then the chips.
func (model Model) renderMessage(line timeline.Line, width int) []string {
	location := model.config.Location()
	stamp := time.UnixMilli(line.Timestamp).In(location).Format(model.config.Display.TimeFormat)
	stampWidth := ansi.StringWidth(stamp)
	indent := strings.Repeat(" ", stampWidth+1)
	bodyWidth := max(width-stampWidth-1, 10)

	var body []string
	if line.Formatted.Kind == timeline.KindText {
		body = model.renderTextBody(line, bodyWidth)
	} else {
		style := lipgloss.NewStyle().Foreground(model.theme.KindColor(line.Formatted.Kind))
		if line.Formatted.Kind != timeline.KindUnimplemented {
			style = style.Italic(true)
		}
		body = strings.Split(ansi.Wrap(style.Render(line.Formatted.Text), bodyWidth, wrapBreakpoints), "\n")
	}

	stampStyle := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	rows := make([]string, 0, len(body)+1)
	for index, bodyLine := range body {
		prefix := indent
		if index == 0 {
			prefix = stampStyle.Render(stamp) + " "
		}
		rows = append(rows, ansi.Truncate(prefix+bodyLine, width, "…"))
	}

	if len(line.Reactions) > 0 {
		chipStyle := lipgloss.NewStyle().
			Foreground(model.theme.ChipForeground).
			Background(model.theme.ChipBackground)
		chips := make([]string, len(line.Reactions))
		for index, reaction := range line.Reactions {
			chips[index] = chipStyle.Render(" " + reaction.Label() + " ")
		}
		for _, chipRow := range strings.Split(ansi.Wrap(strings.Join(chips, " "), bodyWidth, " "), "\n") {
			rows = append(rows, ansi.Truncate(indent+chipRow, width, "…"))
		}
	}
	return rows
}

// renderTextBody renders a text message. The sender prefix, when the
// formatter added one, is split off and colored per sender; the rest
// is rendered as Markdown when enabled.
func (model Model) renderTextBody(line timeline.Line, width int) []string {
	text := line.Formatted.Text
	senderLabel := ""
	if !line.Sender.IsZero() {
		prefix := line.Sender.String() + ": "
		if strings.HasPrefix(text, prefix) {
			text = strings.TrimPrefix(text, prefix)
			senderLabel = prefix
		}
	}
	senderWidth := ansi.StringWidth(senderLabel)
	contentWidth := max(width-senderWidth, 10)

	var content []string
	if model.config.Display.Markdown {
		content = strings.Split(renderMarkdown(text, model.theme, contentWidth), "\n")
	} else {
		plain := lipgloss.NewStyle().Foreground(model.theme.NormalText).Render(text)
		content = strings.Split(ansi.Wrap(plain, contentWidth, wrapBreakpoints), "\n")
	}
	if senderLabel == "" {
		return content
	}

	senderStyle := lipgloss.NewStyle().Bold(true).Foreground(model.theme.SenderColor(line.Sender.String()))
	continuation := strings.Repeat(" ", senderWidth)
	for index := range content {
		if index == 0 {
			content[index] = senderStyle.Render(senderLabel) + content[index]
		} else {
			content[index] = continuation + content[index]
		}
	}
	return content
}

func (model Model) reactionsTitle() string {
	if room, ok := model.snapshot.Room(model.selectedID); ok {
		return "Reactions · " + room.DisplayName()
	}
	return "Reactions"
}

// reactionsBody lists who reacted to each message in the selected
// room, oldest message first.
func (model Model) reactionsBody() []string {
	lines := model.snapshot.Render(model.selectedID, timeline.RenderOptions{
		ShowMembershipEvents: true,
		Location:             model.config.Location(),
	})
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)

	var body []string
	for _, line := range lines {
		if len(line.Reactions) == 0 {
			continue
		}
		body = append(body, timeline.Preview(line.Formatted.Text, 40))
		for _, reaction := range line.Reactions {
			body = append(body, fmt.Sprintf("  %s  %s", reaction.Label(), faint.Render(joinUsers(reaction.Senders))))
		}
	}
	if len(body) == 0 {
		return []string{faint.Render("No reactions in this room.")}
	}
	return body
}

func joinUsers(users []ref.UserID) string {
	names := make([]string, len(users))
	for index, user := range users {
		names[index] = user.String()
	}
	return strings.Join(names, ", ")
}
