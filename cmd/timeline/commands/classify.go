// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/bureau-foundation/timeline/cmd/timeline/cli"
	"github.com/bureau-foundation/timeline/lib/ref"
	"github.com/bureau-foundation/timeline/lib/timeline"
)

type classifyParams struct {
	cli.JSONOutput
	Room   string `json:"room"   flag:"room,r" desc:"only classify events in this room"`
	Counts bool   `json:"counts" flag:"counts" desc:"print the number of events of each kind instead of one row per event"`
}

// classifiedEvent is one row of "timeline classify".
type classifiedEvent struct {
	EventID ref.EventID   `json:"event_id"`
	RoomID  ref.RoomID    `json:"room_id"`
	Type    ref.EventType `json:"type"`
	Kind    timeline.Kind `json:"kind"`
}

// kindCount is one row of "timeline classify --counts".
type kindCount struct {
	Kind  timeline.Kind `json:"kind"`
	Count int           `json:"count"`
}

func classifyCommand(stdout io.Writer) *cli.Command {
	var params classifyParams

	return &cli.Command{
		Name:    "classify",
		Summary: "Show the display kind of each event",
		Description: `Classify every event by content alone: text when it has a body,
annotation when it relates to another event, then join, leave, display
name change, and avatar change from membership content. Anything else
is unimplemented. The event type field is not consulted.`,
		Usage:  "timeline classify [flags] <log>",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("expected one event log, got %d arguments", len(args))
			}
			roomID, err := parseRoom(params.Room)
			if err != nil {
				return err
			}
			events, err := readLog(args[0], logger)
			if err != nil {
				return err
			}

			var rows []classifiedEvent
			counts := make(map[timeline.Kind]int)
			for _, event := range events {
				if !roomID.IsZero() && event.RoomID != roomID {
					continue
				}
				kind := timeline.Classify(event)
				counts[kind]++
				rows = append(rows, classifiedEvent{
					EventID: event.EventID,
					RoomID:  event.RoomID,
					Type:    event.Type,
					Kind:    kind,
				})
			}

			if params.Counts {
				var tally []kindCount
				for _, kind := range timeline.Kinds() {
					if counts[kind] > 0 {
						tally = append(tally, kindCount{Kind: kind, Count: counts[kind]})
					}
				}
				if done, err := params.EmitJSON(stdout, tally); done {
					return err
				}
				writer := tabwriter.NewWriter(stdout, 2, 0, 2, ' ', 0)
				for _, row := range tally {
					fmt.Fprintf(writer, "%s\t%d\n", row.Kind, row.Count)
				}
				return writer.Flush()
			}

			if done, err := params.EmitJSON(stdout, rows); done {
				return err
			}
			writer := tabwriter.NewWriter(stdout, 2, 0, 2, ' ', 0)
			fmt.Fprintf(writer, "EVENT\tTYPE\tKIND\n")
			for _, row := range rows {
				fmt.Fprintf(writer, "%s\t%s\t%s\n", row.EventID, row.Type, row.Kind)
			}
			return writer.Flush()
		},
		Examples: []cli.Example{
			{
				Description: "How many events of each kind a room holds",
				Command:     "timeline classify events.jsonl --room '!general:example.org' --counts",
			},
		},
	}
}
