// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// timeline-viewer is an interactive terminal UI for Matrix room
// timelines stored in an event log: rooms on the left ordered by
// recency, the selected room's timeline on the right.
//
// Uncompressed logs are watched via inotify, so events appended by
// "timeline append" or "timeline import" appear while the viewer is
// open. Compressed logs are shown as they were when the viewer
// started.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/timeline/cmd/timeline/cli"
	"github.com/bureau-foundation/timeline/lib/config"
	"github.com/bureau-foundation/timeline/lib/eventlog"
	"github.com/bureau-foundation/timeline/lib/ref"
	"github.com/bureau-foundation/timeline/lib/roomstore"
	"github.com/bureau-foundation/timeline/lib/timelineui"
	"github.com/bureau-foundation/timeline/lib/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		var toolError *cli.ToolError
		if errors.As(err, &toolError) {
			os.Exit(toolError.ExitCode())
		}
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	var roomFlag string
	var logOutput string

	flagSet := pflag.NewFlagSet("timeline-viewer", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "config file (default: $TIMELINE_CONFIG, else built-in defaults)")
	flagSet.StringVar(&roomFlag, "room", "", "room ID to open first (default: the most recently active room)")
	flagSet.StringVar(&logOutput, "log-output", "", "write JSON log records to this file (in addition to TUI display)")
	flagSet.BoolP("help", "h", false, "show help")

	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("timeline-viewer %s\n", version.Full())
		return nil
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	args := flagSet.Args()
	var path string
	switch {
	case len(args) > 1:
		return cli.Validation("unexpected argument: %s", args[1])
	case len(args) == 1:
		path = args[0]
	case cfg.Paths.EventLog != "":
		path = cfg.Paths.EventLog
	default:
		return cli.Validation("event log path required").
			WithHint("Pass the log as an argument or set paths.event_log in the config.")
	}

	var initialRoom ref.RoomID
	if roomFlag != "" {
		initialRoom, err = ref.ParseRoomID(roomFlag)
		if err != nil {
			return cli.Validation("--room: %w", err)
		}
	}

	if logOutput == "" {
		logOutput = cfg.Paths.LogOutput
	}
	tuiHandler := timelineui.NewTUILogHandler(slog.LevelWarn)
	var logger *slog.Logger
	if logOutput != "" {
		fileHandler, fileCloser, fileErr := openFileLogHandler(logOutput)
		if fileErr != nil {
			return cli.Validation("cannot open log file %s: %w", logOutput, fileErr)
		}
		defer fileCloser()
		logger = slog.New(fanoutHandler{tuiHandler, fileHandler})
	} else {
		logger = slog.New(tuiHandler)
	}

	store := roomstore.New(roomstore.Options{
		Names:        cfg.RoomNames(),
		MemberCounts: cfg.RoomMemberCounts(),
		Logger:       logger,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	followDone, err := timelineui.FollowLog(ctx, path, store, eventlog.WatchOptions{Logger: logger})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cli.NotFound("event log %s does not exist", path)
		}
		return cli.Validation("cannot load %s: %w", path, err).
			WithHint("Event logs end in .jsonl or .cbor, optionally followed by .zst or .lz4.")
	}

	model := timelineui.NewModel(store, timelineui.Options{Config: cfg, Room: initialRoom})
	defer model.Close()
	program := tea.NewProgram(model, tea.WithAltScreen())
	tuiHandler.SetProgram(program)

	_, err = program.Run()
	cancel()
	<-followDone
	return err
}

// loadConfig returns the configuration named by --config, then by
// TIMELINE_CONFIG, then the defaults.
func loadConfig(path string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	switch {
	case path != "":
		cfg, err = config.LoadFile(path)
	case os.Getenv(config.EnvironmentVariable) != "":
		cfg, err = config.Load()
	default:
		cfg = config.Default()
	}
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, cli.NotFound("%w", err)
		}
		return nil, cli.Validation("%w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, cli.Validation("invalid configuration: %w", err)
	}
	return cfg, nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Timeline viewer: interactive terminal UI for Matrix room timelines.

Opens the event log named on the command line, or paths.event_log
from the config. Uncompressed logs are followed: events appended while
the viewer is open show up immediately, and rooms that receive them
glow briefly in the room list.

Usage:
  timeline-viewer [flags] [event-log]

Examples:
  # Open a log
  timeline-viewer events.jsonl

  # Open an archived log at a specific room
  timeline-viewer --room '!general:example.org' archive.cbor.zst

  # Keep a JSON record of background warnings
  timeline-viewer --log-output viewer.log events.jsonl

Keys:
  ↑↓ j/k  move or scroll     Enter  open room     Tab  switch pane
  / Esc   filter rooms       ] [    resize panes  m    membership lines
  r       who reacted        q      quit

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}

// openFileLogHandler creates a slog.JSONHandler that writes to the
// given file path. The file is created or truncated.
func openFileLogHandler(path string) (slog.Handler, func(), error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	handler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug})
	return handler, func() { file.Close() }, nil
}

// fanoutHandler sends each record to every underlying handler enabled
// for its level.
type fanoutHandler []slog.Handler

func (handlers fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (handlers fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, handler := range handlers {
		if handler.Enabled(ctx, record.Level) {
			errs = append(errs, handler.Handle(ctx, record.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (handlers fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	derived := make(fanoutHandler, len(handlers))
	for index, handler := range handlers {
		derived[index] = handler.WithAttrs(attrs)
	}
	return derived
}

func (handlers fanoutHandler) WithGroup(name string) slog.Handler {
	derived := make(fanoutHandler, len(handlers))
	for index, handler := range handlers {
		derived[index] = handler.WithGroup(name)
	}
	return derived
}
