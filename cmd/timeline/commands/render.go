// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/bureau-foundation/timeline/cmd/timeline/cli"
	"github.com/bureau-foundation/timeline/lib/config"
	"github.com/bureau-foundation/timeline/lib/roomstore"
	"github.com/bureau-foundation/timeline/lib/timeline"
)

// dateLayout formats day separators.
const dateLayout = "Monday, January 2, 2006"

// displayParams are the rendering switches shared by render and follow.
type displayParams struct {
	Room           string `json:"room"            flag:"room,r"          desc:"room ID (required when the log has several rooms)"`
	Members        int    `json:"members"         flag:"members,m"       desc:"member count to format with (default: derived from membership events)"`
	ShowMembership bool   `json:"show_membership" flag:"show-membership" desc:"include join, leave and profile change lines"`
	HideMembership bool   `json:"hide_membership" flag:"hide-membership" desc:"omit join, leave and profile change lines"`
}

// renderOptions resolves the flags against the config.
func (p *displayParams) renderOptions(cfg *config.Config) (timeline.RenderOptions, error) {
	if p.ShowMembership && p.HideMembership {
		return timeline.RenderOptions{}, cli.Validation("--show-membership and --hide-membership are mutually exclusive")
	}
	if p.Members < 0 {
		return timeline.RenderOptions{}, cli.Validation("--members must not be negative, got %d", p.Members)
	}
	show := cfg.Display.ShowMembershipEvents
	if p.ShowMembership {
		show = true
	}
	if p.HideMembership {
		show = false
	}
	return timeline.RenderOptions{
		ShowMembershipEvents: show,
		Location:             cfg.Location(),
	}, nil
}

// renderRoom renders a room from snapshot, applying --members.
func (p *displayParams) renderRoom(snapshot *roomstore.Snapshot, room *roomstore.Room, options timeline.RenderOptions) []timeline.Line {
	lines := snapshot.Render(room.ID, options)
	if p.Members > 0 && p.Members != room.MemberCount {
		options.MemberCount = p.Members
		options.Annotations = snapshot.Annotations()
		lines, _ = timeline.Render(room.Events(), options)
	}
	return lines
}

type renderParams struct {
	configParams
	cli.JSONOutput
	displayParams
}

func renderCommand(stdout io.Writer) *cli.Command {
	var params renderParams

	return &cli.Command{
		Name:    "render",
		Summary: "Render a room's timeline as display lines",
		Description: `Render one room's timeline the way a client shows it.

Reactions are folded into chips on the message they target rather than
shown as lines. Adjacent messages on different local dates are divided
by a separator. In rooms with two or fewer members, text lines omit the
sender. Events with no renderer appear as "unimplemented:" followed by
their content.`,
		Usage:  "timeline render [flags] [log]",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			cfg, err := params.load()
			if err != nil {
				return err
			}
			path, err := logPath(args, cfg)
			if err != nil {
				return err
			}
			roomID, err := parseRoom(params.Room)
			if err != nil {
				return err
			}
			options, err := params.renderOptions(cfg)
			if err != nil {
				return err
			}

			events, err := readLog(path, logger)
			if err != nil {
				return err
			}
			snapshot := newStore(cfg, events, logger).Snapshot()
			room, err := selectRoom(snapshot, roomID)
			if err != nil {
				return err
			}

			lines := params.renderRoom(snapshot, room, options)
			logger.Debug("rendered room", "room", room.ID, "lines", len(lines))

			if done, err := params.EmitJSON(stdout, lines); done {
				return err
			}
			return writeLines(stdout, lines, cfg)
		},
		Examples: []cli.Example{
			{
				Description: "Render the only room in a log",
				Command:     "timeline render events.jsonl",
			},
			{
				Description: "Render a room as a direct chat, without membership noise",
				Command:     "timeline render events.cbor.zst --room '!dm:example.org' --members 2 --hide-membership",
			},
			{
				Description: "Machine-readable lines",
				Command:     "timeline render events.jsonl --room '!general:example.org' --json",
			},
		},
	}
}

// writeLines writes rendered lines as text: separators as ruled dates,
// messages as time, text and reaction chips.
func writeLines(w io.Writer, lines []timeline.Line, cfg *config.Config) error {
	for _, line := range lines {
		if err := writeLine(w, line, cfg); err != nil {
			return err
		}
	}
	return nil
}

func writeLine(w io.Writer, line timeline.Line, cfg *config.Config) error {
	if line.Kind == timeline.LineDaySeparator {
		_, err := fmt.Fprintf(w, "── %s ──\n", line.Date.Format(dateLayout))
		return err
	}

	var builder strings.Builder
	builder.WriteString(formatTime(line.Timestamp, cfg, cfg.Display.TimeFormat))
	builder.WriteString("  ")
	builder.WriteString(line.Formatted.Text)
	for _, reaction := range line.Reactions {
		builder.WriteString("  [")
		builder.WriteString(reaction.Label())
		builder.WriteString("]")
	}
	builder.WriteByte('\n')
	_, err := io.WriteString(w, builder.String())
	return err
}
