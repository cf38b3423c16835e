// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/bureau-foundation/timeline/cmd/timeline/cli"
	"github.com/bureau-foundation/timeline/lib/clock"
	"github.com/bureau-foundation/timeline/lib/version"
)

// Root builds the complete timeline command tree writing results to
// stdout. clk stamps events that "append" creates without --ts.
func Root(stdout io.Writer, clk clock.Clock) *cli.Command {
	return &cli.Command{
		Name: "timeline",
		Description: `timeline: inspect Matrix room timelines stored in event logs.

Event logs hold one Matrix client event per record, as JSON lines
(.jsonl) or a CBOR sequence (.cbor), optionally compressed (.zst, .lz4).
Commands classify and format events, fold reactions into an annotation
index, and order rooms by recency.`,
		Subcommands: []*cli.Command{
			renderCommand(stdout),
			followCommand(stdout),
			roomsCommand(stdout),
			classifyCommand(stdout),
			annotationsCommand(stdout),
			convertCommand(stdout),
			digestCommand(stdout),
			importCommand(stdout),
			appendCommand(stdout, clk),
			searchCommand(stdout),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, _ []string, _ *slog.Logger) error {
					_, err := fmt.Fprintf(stdout, "timeline %s\n", version.Full())
					return err
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "List rooms, most recently active first",
				Command:     "timeline rooms events.jsonl",
			},
			{
				Description: "Render one room with day separators and reactions",
				Command:     "timeline render events.jsonl --room '!general:example.org'",
			},
			{
				Description: "Follow a room as the log grows",
				Command:     "timeline follow events.jsonl --room '!general:example.org'",
			},
			{
				Description: "Compress a log and confirm the content is unchanged",
				Command:     "timeline convert events.jsonl events.cbor.zst && timeline digest events.jsonl events.cbor.zst",
			},
		},
	}
}
