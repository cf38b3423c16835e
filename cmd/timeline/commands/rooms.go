// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/bureau-foundation/timeline/cmd/timeline/cli"
	"github.com/bureau-foundation/timeline/lib/ref"
	"github.com/bureau-foundation/timeline/lib/timeline"
	"github.com/bureau-foundation/timeline/messaging"
)

type roomsParams struct {
	configParams
	cli.JSONOutput
	Limit int `json:"limit" flag:"limit,n" desc:"show at most this many rooms (0 for all)"`
}

// roomSummary is one row of "timeline rooms".
type roomSummary struct {
	RoomID       ref.RoomID `json:"room_id"`
	Name         string     `json:"name"`
	Members      int        `json:"members"`
	Events       int        `json:"events"`
	LastActivity int64      `json:"last_activity,omitempty"`
	Preview      string     `json:"preview,omitempty"`
}

func roomsCommand(stdout io.Writer) *cli.Command {
	var params roomsParams

	return &cli.Command{
		Name:    "rooms",
		Summary: "List rooms, most recently active first",
		Description: `List the rooms in an event log ordered by their most recent event,
newest first. Rooms are named by their m.room.name state or the config's
rooms.names; member counts come from membership events unless
rooms.member_counts overrides them.`,
		Usage:  "timeline rooms [flags] [log]",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if params.Limit < 0 {
				return cli.Validation("--limit must not be negative, got %d", params.Limit)
			}
			cfg, err := params.load()
			if err != nil {
				return err
			}
			path, err := logPath(args, cfg)
			if err != nil {
				return err
			}
			events, err := readLog(path, logger)
			if err != nil {
				return err
			}

			snapshot := newStore(cfg, events, logger).Snapshot()
			rooms := snapshot.Rooms()
			if params.Limit > 0 && len(rooms) > params.Limit {
				rooms = rooms[:params.Limit]
			}

			summaries := make([]roomSummary, 0, len(rooms))
			for _, room := range rooms {
				summary := roomSummary{
					RoomID:       room.ID,
					Name:         room.DisplayName(),
					Members:      room.MemberCount,
					Events:       len(room.Events()),
					LastActivity: room.LastActivity,
				}
				if last, ok := lastRenderable(room.Events(), room.MemberCount); ok {
					summary.Preview = timeline.Preview(last, 60)
				}
				summaries = append(summaries, summary)
			}

			if done, err := params.EmitJSON(stdout, summaries); done {
				return err
			}

			writer := tabwriter.NewWriter(stdout, 2, 0, 2, ' ', 0)
			fmt.Fprintf(writer, "ROOM\tNAME\tMEMBERS\tEVENTS\tLAST ACTIVITY\tLAST MESSAGE\n")
			for _, summary := range summaries {
				fmt.Fprintf(writer, "%s\t%s\t%d\t%d\t%s\t%s\n",
					summary.RoomID, summary.Name, summary.Members, summary.Events,
					formatTime(summary.LastActivity, cfg, time.DateTime), summary.Preview)
			}
			return writer.Flush()
		},
		Examples: []cli.Example{
			{
				Description: "The ten most recently active rooms",
				Command:     "timeline rooms events.jsonl --limit 10",
			},
		},
	}
}

// lastRenderable returns the formatted text of the newest event that
// renders as a text message.
func lastRenderable(events []messaging.Event, memberCount int) (string, bool) {
	for _, event := range slices.Backward(events) {
		if timeline.Classify(event) != timeline.KindText {
			continue
		}
		if text, ok := timeline.Format(event, memberCount); ok {
			return text, true
		}
	}
	return "", false
}
