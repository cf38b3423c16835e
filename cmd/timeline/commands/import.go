// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/bureau-foundation/timeline/cmd/timeline/cli"
	"github.com/bureau-foundation/timeline/lib/eventlog"
	"github.com/bureau-foundation/timeline/messaging"
)

type importParams struct {
	Messages string `json:"messages" flag:"messages" desc:"input is a /messages response for this room ID (default: a /sync response)"`
	Append   bool   `json:"append"   flag:"append,a" desc:"append to an existing uncompressed log instead of creating one"`
}

func importCommand(stdout io.Writer) *cli.Command {
	var params importParams

	return &cli.Command{
		Name:    "import",
		Summary: "Convert a saved client-server API response into an event log",
		Description: `Read a saved /sync or /messages response body and write its events
as an event log.

From /sync, events are taken from joined and left rooms, each room's
state before its timeline, rooms in ID order, with room_id filled from
the enclosing key. From /messages (--messages ROOM), the chunk is
ordered oldest first.

The input may be "-" for stdin.`,
		Usage:  "timeline import [flags] <response.json> <log>",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 2 {
				return cli.Validation("expected response file and log, got %d arguments", len(args))
			}
			input, output := args[0], args[1]
			roomID, err := parseRoom(params.Messages)
			if err != nil {
				return err
			}

			source, closeSource, err := openInput(input)
			if err != nil {
				return err
			}
			defer closeSource()

			var events []messaging.Event
			if roomID.IsZero() {
				events, err = eventlog.DecodeSync(source)
			} else {
				events, err = eventlog.DecodeMessages(source, roomID)
			}
			if err != nil {
				var matrixErr *messaging.MatrixError
				if errors.As(err, &matrixErr) {
					return cli.Validation("%s: %w", input, err).
						WithHint("The saved response is an error from the homeserver, not events. Fetch it again with a valid access token.")
				}
				return cli.Validation("%s: %w", input, err)
			}

			var writer *eventlog.Writer
			if params.Append {
				writer, err = eventlog.OpenAppend(output)
			} else {
				writer, err = eventlog.Create(output)
			}
			if err != nil {
				return cli.Validation("opening %s: %w", output, err)
			}
			if err := writer.WriteAll(events); err != nil {
				writer.Close()
				return cli.Internal("writing %s: %w", output, err)
			}
			if err := writer.Close(); err != nil {
				return cli.Internal("closing %s: %w", output, err)
			}

			logger.Info("imported events", "input", input, "log", output, "events", len(events))
			_, err = fmt.Fprintf(stdout, "%d events -> %s\n", len(events), output)
			return err
		},
		Examples: []cli.Example{
			{
				Description: "Start a log from an initial sync",
				Command:     "timeline import sync.json events.jsonl",
			},
			{
				Description: "Append a page of room history fetched with curl",
				Command:     "curl -s \"$HS/_matrix/client/v3/rooms/$ROOM/messages?dir=b\" | timeline import --append --messages \"$ROOM\" - events.jsonl",
			},
		},
	}
}

// openInput opens path for reading, with "-" meaning stdin.
func openInput(path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, cli.NotFound("%s does not exist", path)
		}
		return nil, nil, cli.Internal("opening %s: %w", path, err)
	}
	return file, func() { file.Close() }, nil
}
