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

	"github.com/bureau-foundation/timeline/cmd/timeline/cli"
	"github.com/bureau-foundation/timeline/lib/eventlog"
)

type digestParams struct {
	cli.JSONOutput
	Verify string `json:"verify" flag:"verify" desc:"expected hash; exit 1 if any log differs"`
}

// logDigestResult is one row of "timeline digest".
type logDigestResult struct {
	Path string `json:"path"`
	eventlog.LogDigest
}

func digestCommand(stdout io.Writer) *cli.Command {
	var params digestParams

	return &cli.Command{
		Name:    "digest",
		Summary: "Hash the events in one or more logs",
		Description: `Print the event count and BLAKE3 digest of each log.

The digest covers the events, not the bytes: every event is hashed in
a canonical CBOR encoding, so the same events stored as JSON lines,
CBOR, or compressed produce the same digest. Event order matters.

With more than one log, the command exits 1 when the digests differ.
With --verify, it exits 1 when any digest differs from the given hash.`,
		Usage:  "timeline digest [flags] <log>...",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if len(args) == 0 {
				return cli.Validation("at least one event log required")
			}
			var expected eventlog.Hash
			if params.Verify != "" {
				hash, err := eventlog.ParseHash(params.Verify)
				if err != nil {
					return cli.Validation("--verify: %w", err)
				}
				expected = hash
			}

			results := make([]logDigestResult, 0, len(args))
			for _, path := range args {
				digest, err := eventlog.DigestFile(path)
				if err != nil {
					if errors.Is(err, fs.ErrNotExist) {
						return cli.NotFound("event log %s does not exist", path)
					}
					return cli.Internal("digesting %s: %w", path, err)
				}
				logger.Debug("digested event log", "path", path, "events", digest.Events, "hash", digest.Hash.Short())
				results = append(results, logDigestResult{Path: path, LogDigest: digest})
			}

			if done, err := params.EmitJSON(stdout, results); !done {
				for _, result := range results {
					if _, err := fmt.Fprintf(stdout, "%s  %d events  %s\n", result.Hash, result.Events, result.Path); err != nil {
						return err
					}
				}
			} else if err != nil {
				return err
			}

			mismatch := false
			for _, result := range results {
				if params.Verify != "" && result.Hash != expected {
					mismatch = true
				}
				if result.Hash != results[0].Hash {
					mismatch = true
				}
			}
			if mismatch {
				logger.Warn("event log digests differ", "logs", len(results))
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
		Examples: []cli.Example{
			{
				Description: "Confirm a conversion preserved every event",
				Command:     "timeline digest events.jsonl events.cbor.zst",
			},
		},
	}
}
