// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Command timeline inspects Matrix room timelines stored in event logs.
// Run "timeline --help" for the command list.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bureau-foundation/timeline/cmd/timeline/cli"
	"github.com/bureau-foundation/timeline/cmd/timeline/commands"
	"github.com/bureau-foundation/timeline/lib/clock"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	level := slog.LevelInfo
	if os.Getenv("TIMELINE_DEBUG") != "" {
		level = slog.LevelDebug
	}
	logger := cli.NewCommandLogger(level)

	err := commands.Root(os.Stdout, clock.Real()).Execute(ctx, args, logger)
	if err == nil {
		return 0
	}

	// Commands that print their own output (like digest) return an
	// ExitError with the desired exit code. Don't print a redundant
	// "error:" line for those.
	var exitError *cli.ExitError
	if errors.As(err, &exitError) {
		return exitError.ExitCode()
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)

	var toolError *cli.ToolError
	if errors.As(err, &toolError) {
		return toolError.ExitCode()
	}
	return 1
}
