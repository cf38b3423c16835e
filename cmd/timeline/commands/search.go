// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/bureau-foundation/timeline/cmd/timeline/cli"
	"github.com/bureau-foundation/timeline/lib/msgsearch"
	"github.com/bureau-foundation/timeline/lib/timeline"
)

type searchParams struct {
	configParams
	cli.JSONOutput
	Query string `json:"query" flag:"query,q" desc:"words to look for (required)"`
	Room  string `json:"room"  flag:"room,r" desc:"only search this room"`
	Limit int    `json:"limit" flag:"limit,n" default:"20" desc:"show at most this many messages (0 for all)"`
}

func searchCommand(stdout io.Writer) *cli.Command {
	var params searchParams

	return &cli.Command{
		Name:    "search",
		Summary: "Find text messages matching a query",
		Description: `Rank the text messages in an event log against a free-text query
with BM25. Words are matched case-insensitively in the message body and
the sender's user ID, with the body counting double. Words shorter than
two characters are ignored. Equally relevant messages are listed newest
first.`,
		Usage:  "timeline search [flags] --query WORDS [log]",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if strings.TrimSpace(params.Query) == "" {
				return cli.Validation("--query is required")
			}
			if params.Limit < 0 {
				return cli.Validation("--limit must not be negative, got %d", params.Limit)
			}
			if len(msgsearch.Tokenize(params.Query)) == 0 {
				return cli.Validation("--query %q has no searchable words", params.Query).
					WithHint("Words must be at least two letters or digits long.")
			}
			roomID, err := parseRoom(params.Room)
			if err != nil {
				return err
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

			index := msgsearch.New(events)
			logger.Debug("indexed messages", "path", path, "messages", index.Len())
			hits := index.Search(params.Query, msgsearch.Options{Room: roomID, Limit: params.Limit})

			if done, err := params.EmitJSON(stdout, hits); done {
				return err
			}

			writer := tabwriter.NewWriter(stdout, 2, 0, 2, ' ', 0)
			fmt.Fprintf(writer, "TIME\tROOM\tSENDER\tMESSAGE\n")
			for _, hit := range hits {
				fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n",
					formatTime(hit.Timestamp, cfg, time.DateTime), hit.RoomID, hit.Sender,
					timeline.Preview(hit.Body, 60))
			}
			return writer.Flush()
		},
		Examples: []cli.Example{
			{
				Description: "Messages about a failed deploy",
				Command:     "timeline search events.jsonl -q 'deploy failed'",
			},
			{
				Description: "The five best matches in one room, as JSON",
				Command:     "timeline search events.jsonl -q staging --room '!ops:example.org' -n 5 --json",
			},
		},
	}
}
