// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package timelineui

import (
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/timeline/lib/tui"
)

// View implements tea.Model. Renders the header, the two panes, and
// the help bar, with the reactions popup on top when it is open.
func (model Model) View() string {
	if !model.ready {
		return "Loading..."
	}

	if len(model.rooms) == 0 && model.filter.Input == "" {
		return lipgloss.Place(
			model.width, model.height,
			lipgloss.Center, lipgloss.Center,
			lipgloss.NewStyle().Foreground(model.theme.FaintText).Render("No rooms yet."),
		)
	}

	var sections []string

	// The filter bar replaces the header so the layout doesn't shift.
	if filterView := model.filter.View(model.theme, model.width); filterView != "" {
		sections = append(sections, filterView)
	} else {
		sections = append(sections, model.renderHeader())
	}

	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top,
		model.renderRoomPane(),
		model.renderDivider(),
		model.renderTimelinePane(),
	))

	sections = append(sections, lipgloss.NewStyle().
		Foreground(model.theme.BorderColor).
		Render(strings.Repeat("─", model.width)))

	sections = append(sections, model.renderHelp())

	output := strings.Join(sections, "\n")
	if model.showReactions {
		popup := tui.RenderPopup(model.theme, model.reactionsTitle(), model.reactionsBody(), model.width-4)
		output = tui.CenterOverlay(output, popup, model.width, model.height)
	}
	return output
}

// renderHeader renders the room name embedded in a horizontal rule
// with counts on the right.
//
// Example: ─── #general ─────────────── 2 rooms  8 events ─
func (model Model) renderHeader() string {
	separatorStyle := lipgloss.NewStyle().Foreground(model.theme.BorderColor)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(model.theme.HeaderForeground)
	statsStyle := lipgloss.NewStyle().Foreground(model.theme.FaintText)

	title := "Timeline"
	if room, ok := model.snapshot.Room(model.selectedID); ok {
		title = room.DisplayName()
	}
	title = ansi.Truncate(title, max(model.width/2, 8), "…")

	stats := fmt.Sprintf("%d rooms  %d events", len(model.snapshot.RoomIDs()), model.snapshot.EventCount())

	used := 3 + 1 + ansi.StringWidth(title) + 1
	rightWidth := 1 + ansi.StringWidth(stats) + 1 + 1
	fill := max(model.width-used-rightWidth, 1)

	return separatorStyle.Render("───") + " " + titleStyle.Render(title) + " " +
		separatorStyle.Render(strings.Repeat("─", fill)) +
		" " + statsStyle.Render(stats) + " " + separatorStyle.Render("─")
}

// renderRoomPane renders the room list: one row per room with the
// unread count right-aligned, filter matches highlighted, and a glow
// on rooms that just received events.
func (model Model) renderRoomPane() string {
	listWidth := model.listWidth()
	rowWidth := listWidth - 1
	visible := max(model.visibleHeight(), 0)
	now := model.clock.Now()

	var rows []string
	for index := model.scrollOffset; index < model.scrollOffset+visible && index < len(model.rooms); index++ {
		match := model.rooms[index]
		selected := match.Room.ID == model.selectedID
		row := model.renderRoomRow(match, rowWidth, selected)
		if !selected {
			if heat := model.heatTracker.Heat(match.Room.ID.String(), now); heat > 0 {
				row = lipgloss.NewStyle().
					Background(model.theme.HotAccent).
					Width(rowWidth).
					MaxWidth(rowWidth).
					Render(row)
			}
		}
		rows = append(rows, row)
	}
	if len(model.rooms) == 0 {
		rows = append(rows, lipgloss.NewStyle().Foreground(model.theme.FaintText).Render(" no matches"))
	}
	for len(rows) < visible {
		rows = append(rows, "")
	}

	scrollbar := tui.RenderScrollbar(
		model.theme, visible,
		len(model.rooms), visible, model.scrollOffset,
		model.focusRegion == FocusRooms,
	)
	contentStyle := lipgloss.NewStyle().Width(rowWidth).Height(visible)
	return lipgloss.JoinHorizontal(lipgloss.Top,
		contentStyle.Render(strings.Join(rows[:visible], "\n")),
		scrollbar,
	)
}

func (model Model) renderRoomRow(match roomMatch, width int, selected bool) string {
	base := lipgloss.NewStyle().Foreground(model.theme.NormalText)
	if selected {
		base = base.Background(model.theme.SelectedBackground).Foreground(model.theme.SelectedForeground)
	}

	unread := ""
	if match.Room.Unread > 0 {
		unread = strconv.Itoa(match.Room.Unread)
	}
	nameWidth := max(width-2-ansi.StringWidth(unread)-1, 1)

	name := []rune(match.Room.DisplayName())
	if len(name) > 0 && ansi.StringWidth(string(name)) > nameWidth {
		name = []rune(ansi.Truncate(string(name), nameWidth-1, "") + "…")
	}

	var rendered strings.Builder
	rendered.WriteString(base.Render(" "))
	highlight := base.Foreground(model.theme.MatchForeground).Bold(true)
	for position, character := range name {
		if slices.Contains(match.Positions, position) {
			rendered.WriteString(highlight.Render(string(character)))
		} else {
			rendered.WriteString(base.Render(string(character)))
		}
	}

	gap := max(width-1-ansi.StringWidth(string(name))-ansi.StringWidth(unread)-1, 1)
	rendered.WriteString(base.Render(strings.Repeat(" ", gap)))
	if unread != "" {
		rendered.WriteString(base.Foreground(model.theme.UnreadForeground).Bold(true).Render(unread))
	}
	rendered.WriteString(base.Render(" "))
	return ansi.Truncate(rendered.String(), width, "")
}

func (model Model) renderDivider() string {
	visible := max(model.visibleHeight(), 0)
	lines := make([]string, visible)
	for index := range lines {
		lines[index] = "│"
	}
	return lipgloss.NewStyle().
		Foreground(model.theme.BorderColor).
		Width(1).Height(visible).
		Render(strings.Join(lines, "\n"))
}

// renderTimelinePane renders the visible window of the selected
// room's timeline with a scrollbar on the right.
func (model Model) renderTimelinePane() string {
	width := model.timelineWidth()
	visible := max(model.visibleHeight(), 0)

	var rows []string
	if len(model.timelineRows) == 0 {
		rows = append(rows, lipgloss.NewStyle().Foreground(model.theme.FaintText).Render(" Nothing to show."))
	} else {
		end := min(model.timelineOffset+visible, len(model.timelineRows))
		rows = append(rows, model.timelineRows[model.timelineOffset:end]...)
	}
	for len(rows) < visible {
		rows = append(rows, "")
	}

	scrollbar := tui.RenderScrollbar(
		model.theme, visible,
		len(model.timelineRows), visible, model.timelineOffset,
		model.focusRegion == FocusTimeline,
	)
	contentStyle := lipgloss.NewStyle().Width(width).Height(visible)
	return lipgloss.JoinHorizontal(lipgloss.Top,
		contentStyle.Render(strings.Join(rows[:visible], "\n")),
		scrollbar,
	)
}

// renderHelp renders the bottom bar: key hints, or the latest log
// record while it is fresh.
func (model Model) renderHelp() string {
	if record := model.statusRecord; record != nil {
		color := model.theme.WarningForeground
		icon := "⚠"
		switch {
		case record.Level >= slog.LevelError:
			color = model.theme.ErrorForeground
			icon = "✗"
		case record.Level < slog.LevelWarn:
			color = model.theme.HelpText
			icon = "·"
		}
		text := ansi.Truncate(" "+icon+" "+record.Summary, model.width, "…")
		return lipgloss.NewStyle().Foreground(color).Bold(true).Render(text)
	}

	focusIndicator := "ROOMS"
	switch model.focusRegion {
	case FocusTimeline:
		focusIndicator = "TIMELINE"
	case FocusFilter:
		focusIndicator = "FILTER"
	}
	help := fmt.Sprintf(" [%s]", focusIndicator)
	if len(model.rooms) > 0 {
		help += fmt.Sprintf(" %d/%d", model.cursor+1, len(model.rooms))
	}
	if model.focusRegion == FocusTimeline && !model.followBottom {
		help += " [scrolled]"
	}
	help += "  " + model.keys.hints()
	return lipgloss.NewStyle().Foreground(model.theme.HelpText).
		Render(ansi.Truncate(help, model.width, "…"))
}
