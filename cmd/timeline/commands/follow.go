// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/bureau-foundation/timeline/cmd/timeline/cli"
	"github.com/bureau-foundation/timeline/lib/config"
	"github.com/bureau-foundation/timeline/lib/eventlog"
	"github.com/bureau-foundation/timeline/lib/ref"
	"github.com/bureau-foundation/timeline/lib/roomstore"
	"github.com/bureau-foundation/timeline/lib/timeline"
)

type followParams struct {
	configParams
	displayParams
}

func followCommand(stdout io.Writer) *cli.Command {
	var params followParams

	return &cli.Command{
		Name:    "follow",
		Summary: "Render a room and keep printing as the log grows",
		Description: `Render a room, then watch the log and print new lines as events are
appended, until interrupted.

Only uncompressed logs can be followed. When the log is rewritten
rather than appended to, the room is rendered again from the start.
A reaction arriving after its message is printed as the message line
with its updated chips.`,
		Usage:  "timeline follow [flags] [log]",
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			cfg, err := params.load()
			if err != nil {
				return err
			}
			path, err := logPath(args, cfg)
			if err != nil {
				return err
			}
			roomID, err := parseRoom(params.Room)
			if err != nil {
				return err
			}
			options, err := params.renderOptions(cfg)
			if err != nil {
				return err
			}

			updates, err := eventlog.Watch(ctx, path, eventlog.WatchOptions{Logger: logger})
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return cli.NotFound("event log %s does not exist", path)
				}
				return cli.Validation("following %s: %w", path, err)
			}

			store := roomstore.New(roomstore.Options{
				Names:        cfg.RoomNames(),
				MemberCounts: cfg.RoomMemberCounts(),
				Logger:       logger,
			})
			follower := &roomFollower{
				params:  &params,
				options: options,
				roomID:  roomID,
				printed: make(map[string]string),
			}

			for update := range updates {
				if update.Reset {
					store.Load(update.Events)
					follower.reset()
				} else {
					store.Apply(update.Events...)
				}
				if err := follower.print(stdout, store.Snapshot(), cfg); err != nil {
					return err
				}
			}
			return nil
		},
		Examples: []cli.Example{
			{
				Description: "Follow a room while another process appends to the log",
				Command:     "timeline follow events.jsonl --room '!general:example.org'",
			},
		},
	}
}

// roomFollower prints the lines of a room that have not been printed
// yet, and reprints message lines whose reactions changed.
type roomFollower struct {
	params  *followParams
	options timeline.RenderOptions
	roomID  ref.RoomID

	// printed maps a line key to the text last printed for it.
	printed map[string]string
}

func (f *roomFollower) reset() {
	clear(f.printed)
}

// print writes the room's new and changed lines. Until the room is
// known (no --room and an empty log) it prints nothing.
func (f *roomFollower) print(w io.Writer, snapshot *roomstore.Snapshot, cfg *config.Config) error {
	if f.roomID.IsZero() {
		switch rooms := snapshot.Rooms(); len(rooms) {
		case 0:
			return nil
		case 1:
			f.roomID = rooms[0].ID
		default:
			return cli.Validation("the log contains %d rooms; choose one with --room", len(rooms))
		}
	}
	room, ok := snapshot.Room(f.roomID)
	if !ok {
		return nil
	}

	for _, line := range f.params.renderRoom(snapshot, room, f.options) {
		var key string
		if line.Kind == timeline.LineDaySeparator {
			key = "day " + line.Date.Format(time.DateOnly)
		} else {
			key = line.Formatted.EventID.String()
		}

		var text strings.Builder
		if err := writeLine(&text, line, cfg); err != nil {
			return err
		}
		if previous, seen := f.printed[key]; seen && previous == text.String() {
			continue
		}
		f.printed[key] = text.String()
		if _, err := io.WriteString(w, text.String()); err != nil {
			return err
		}
	}
	return nil
}
