// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/bureau-foundation/timeline/cmd/timeline/cli"
	"github.com/bureau-foundation/timeline/lib/config"
	"github.com/bureau-foundation/timeline/lib/eventlog"
	"github.com/bureau-foundation/timeline/lib/ref"
	"github.com/bureau-foundation/timeline/lib/roomstore"
	"github.com/bureau-foundation/timeline/messaging"
)

// configParams is embedded by commands that honor the config file.
type configParams struct {
	ConfigPath string `json:"-" flag:"config" desc:"config file (default: $TIMELINE_CONFIG, else built-in defaults)"`
	Timezone   string `json:"-" flag:"timezone" desc:"IANA zone for dates (overrides display.timezone)"`
}

// load returns the configuration named by --config, then by
// TIMELINE_CONFIG, then the defaults, with --timezone applied.
func (p *configParams) load() (*config.Config, error) {
	var cfg *config.Config
	var err error
	switch {
	case p.ConfigPath != "":
		cfg, err = config.LoadFile(p.ConfigPath)
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
	if p.Timezone != "" {
		cfg.Display.Timezone = p.Timezone
	}
	if err := cfg.Validate(); err != nil {
		return nil, cli.Validation("invalid configuration: %w", err)
	}
	return cfg, nil
}

// logPath returns the single positional log argument, falling back to
// paths.event_log from the config.
func logPath(args []string, cfg *config.Config) (string, error) {
	switch {
	case len(args) == 1:
		return args[0], nil
	case len(args) > 1:
		return "", cli.Validation("expected one event log, got %d arguments", len(args))
	case cfg != nil && cfg.Paths.EventLog != "":
		return cfg.Paths.EventLog, nil
	default:
		return "", cli.Validation("event log path required").
			WithHint("Pass the log as an argument or set paths.event_log in the config.")
	}
}

// readLog reads every event in the log at path, categorizing failures.
func readLog(path string, logger *slog.Logger) ([]messaging.Event, error) {
	events, err := eventlog.ReadAll(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, cli.NotFound("event log %s does not exist", path)
		}
		return nil, cli.Internal("reading %s: %w", path, err)
	}
	logger.Debug("read event log", "path", path, "events", len(events))
	return events, nil
}

// newStore builds a room store configured from cfg and loaded with
// events.
func newStore(cfg *config.Config, events []messaging.Event, logger *slog.Logger) *roomstore.Store {
	store := roomstore.New(roomstore.Options{
		Names:        cfg.RoomNames(),
		MemberCounts: cfg.RoomMemberCounts(),
		Logger:       logger,
	})
	store.Load(events)
	return store
}

// parseRoom parses a --room value. An empty value is the zero RoomID.
func parseRoom(raw string) (ref.RoomID, error) {
	if raw == "" {
		return ref.RoomID{}, nil
	}
	roomID, err := ref.ParseRoomID(raw)
	if err != nil {
		return ref.RoomID{}, cli.Validation("--room: %w", err)
	}
	return roomID, nil
}

// selectRoom resolves the room a command operates on: the requested
// one, which must exist, or the only room in the snapshot.
func selectRoom(snapshot *roomstore.Snapshot, requested ref.RoomID) (*roomstore.Room, error) {
	if !requested.IsZero() {
		room, ok := snapshot.Room(requested)
		if !ok {
			return nil, cli.NotFound("room %s has no events in the log", requested).
				WithHint("Run 'timeline rooms' to list the rooms in the log.")
		}
		return room, nil
	}
	rooms := snapshot.Rooms()
	switch len(rooms) {
	case 0:
		return nil, cli.NotFound("the log contains no room events")
	case 1:
		return rooms[0], nil
	default:
		return nil, cli.Validation("the log contains %d rooms; choose one with --room", len(rooms)).
			WithHint("Run 'timeline rooms' to list the rooms in the log.")
	}
}

// formatTime formats a millisecond timestamp in the configured zone and
// layout. Zero renders as "-".
func formatTime(timestamp int64, cfg *config.Config, layout string) string {
	if timestamp == 0 {
		return "-"
	}
	return time.UnixMilli(timestamp).In(cfg.Location()).Format(layout)
}
