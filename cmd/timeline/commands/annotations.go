// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/bureau-foundation/timeline/cmd/timeline/cli"
	"github.com/bureau-foundation/timeline/lib/timeline"
)

type annotationsParams struct {
	cli.JSONOutput
	Room string `json:"room" flag:"room,r" desc:"only include annotations in this room"`
	CBOR string `json:"cbor" flag:"cbor"   desc:"also write the index as deterministic CBOR to this file"`
}

func annotationsCommand(stdout io.Writer) *cli.Command {
	var params annotationsParams

	return &cli.Command{
		Name:    "annotations",
		Summary: "Fold reactions into an annotation index",
		Description: `Fold every annotation event in the log into an index of
room -> message -> reaction key -> senders, and print it.

Keys appear in the order they were first used on a message, senders in
the order they reacted. Duplicate reactions from the same sender count
once. The index does not check that the annotated message exists.

With --cbor, the index is also written as deterministic CBOR, suitable
for caching or comparing with "timeline digest"-style tooling.`,
		Usage:  "timeline annotations [flags] <log>",
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

			_, annotationEvents := timeline.Partition(events)
			index := timeline.FoldAnnotations(timeline.AnnotationIndex{}, annotationEvents)
			if !roomID.IsZero() {
				index = index.Room(roomID)
			}
			logger.Debug("folded annotations", "annotation_events", len(annotationEvents), "entries", index.Len())

			if params.CBOR != "" {
				data, err := index.MarshalCBOR()
				if err != nil {
					return cli.Internal("encoding annotation index: %w", err)
				}
				if err := os.WriteFile(params.CBOR, data, 0o644); err != nil {
					return cli.Internal("writing %s: %w", params.CBOR, err)
				}
				logger.Info("wrote annotation index", "path", params.CBOR, "bytes", len(data))
			}

			if done, err := params.EmitJSON(stdout, index); done {
				return err
			}

			for _, room := range index.Rooms() {
				if _, err := fmt.Fprintf(stdout, "%s\n", room); err != nil {
					return err
				}
				for _, message := range index.Messages(room) {
					var chips []string
					for _, reaction := range index.Reactions(room, message) {
						senders := make([]string, len(reaction.Senders))
						for i, sender := range reaction.Senders {
							senders[i] = sender.String()
						}
						chips = append(chips, fmt.Sprintf("%s (%s)", reaction.Label(), strings.Join(senders, ", ")))
					}
					if _, err := fmt.Fprintf(stdout, "  %s  %s\n", message, strings.Join(chips, "  ")); err != nil {
						return err
					}
				}
			}
			return nil
		},
		Examples: []cli.Example{
			{
				Description: "Reactions in one room as JSON",
				Command:     "timeline annotations events.jsonl --room '!general:example.org' --json",
			},
			{
				Description: "Snapshot the index as CBOR",
				Command:     "timeline annotations events.jsonl --cbor annotations.cbor",
			},
		},
	}
}
