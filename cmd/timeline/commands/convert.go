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
	"path/filepath"

	"github.com/bureau-foundation/timeline/cmd/timeline/cli"
	"github.com/bureau-foundation/timeline/lib/eventlog"
)

type convertParams struct {
	Force bool `json:"force" flag:"force,f" desc:"overwrite the destination if it exists"`
}

func convertCommand(stdout io.Writer) *cli.Command {
	var params convertParams

	return &cli.Command{
		Name:    "convert",
		Summary: "Re-encode an event log in another format",
		Description: `Copy every event from one log to another, re-encoding as the
destination's file name requires: .jsonl or .cbor, optionally followed
by .zst or .lz4.

The event content is unchanged; "timeline digest" reports the same hash
for both files.`,
		Usage:  "timeline convert [flags] <source> <destination>",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 2 {
				return cli.Validation("expected source and destination, got %d arguments", len(args))
			}
			source, destination := args[0], args[1]

			destinationKind, err := eventlog.DetectKind(destination)
			if err != nil {
				return cli.Validation("%w", err)
			}
			if sameFile(source, destination) {
				return cli.Conflict("source and destination are the same file %s", source)
			}
			if _, err := os.Stat(destination); err == nil && !params.Force {
				return cli.Conflict("%s already exists", destination).
					WithHint("Pass --force to overwrite it.")
			}

			count, err := eventlog.Convert(source, destination)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return cli.NotFound("event log %s does not exist", source)
				}
				return cli.Internal("converting %s: %w", source, err)
			}

			logger.Info("converted event log",
				"source", source,
				"destination", destination,
				"kind", destinationKind.String(),
				"events", count,
			)
			_, err = fmt.Fprintf(stdout, "%d events -> %s (%s)\n", count, destination, destinationKind)
			return err
		},
		Examples: []cli.Example{
			{
				Description: "Compress a JSON lines log as zstd CBOR",
				Command:     "timeline convert events.jsonl events.cbor.zst",
			},
			{
				Description: "Expand a compressed log for editing",
				Command:     "timeline convert --force events.cbor.lz4 events.jsonl",
			},
		},
	}
}

// sameFile reports whether two paths name the same file, either by
// absolute path or, when both exist, by inode.
func sameFile(a, b string) bool {
	absoluteA, errA := filepath.Abs(a)
	absoluteB, errB := filepath.Abs(b)
	if errA == nil && errB == nil && absoluteA == absoluteB {
		return true
	}
	infoA, errA := os.Stat(a)
	infoB, errB := os.Stat(b)
	return errA == nil && errB == nil && os.SameFile(infoA, infoB)
}
