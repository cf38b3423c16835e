// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/bureau-foundation/timeline/cmd/timeline/cli"
	"github.com/bureau-foundation/timeline/lib/clock"
	"github.com/bureau-foundation/timeline/lib/eventlog"
	"github.com/bureau-foundation/timeline/lib/ref"
	"github.com/bureau-foundation/timeline/messaging"
)

type appendParams struct {
	Room        string `json:"room"        flag:"room,r"      desc:"room ID (required)"`
	Sender      string `json:"sender"      flag:"sender,s"    desc:"sender user ID (required)"`
	Body        string `json:"body"        flag:"body,b"      desc:"append a text message with this body"`
	React       string `json:"react"       flag:"react"       desc:"append a reaction to this event ID (with --key)"`
	Key         string `json:"key"         flag:"key,k"       desc:"reaction key"`
	Membership  string `json:"membership"  flag:"membership"  desc:"append a membership event: join or leave"`
	DisplayName string `json:"displayname" flag:"displayname" desc:"display name for --membership join"`
	EventID     string `json:"event_id"    flag:"event-id"    desc:"event ID (default: derived from the event's content hash)"`
	Timestamp   int64  `json:"ts"          flag:"ts"          desc:"origin_server_ts in milliseconds (default: now)"`
}

func appendCommand(stdout io.Writer, clk clock.Clock) *cli.Command {
	var params appendParams

	return &cli.Command{
		Name:    "append",
		Summary: "Append a message, reaction, or membership event to a log",
		Description: `Append one event to an uncompressed event log, creating the log if
needed. Exactly one of --body, --react, or --membership selects the
event.

Useful for building fixtures and for exercising "timeline follow".`,
		Usage:  "timeline append [flags] <log>",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("expected one event log, got %d arguments", len(args))
			}
			event, err := params.event(clk.Now())
			if err != nil {
				return err
			}

			writer, err := eventlog.OpenAppend(args[0])
			if err != nil {
				return cli.Validation("opening %s: %w", args[0], err)
			}
			if err := writer.Write(event); err != nil {
				writer.Close()
				return cli.Internal("writing %s: %w", args[0], err)
			}
			if err := writer.Close(); err != nil {
				return cli.Internal("closing %s: %w", args[0], err)
			}

			logger.Debug("appended event", "log", args[0], "event_id", event.EventID, "type", event.Type)
			_, err = fmt.Fprintf(stdout, "%s\n", event.EventID)
			return err
		},
		Examples: []cli.Example{
			{
				Description: "Append a message",
				Command:     "timeline append events.jsonl -r '!general:example.org' -s '@alice:example.org' -b 'hello'",
			},
			{
				Description: "React to it",
				Command:     "timeline append events.jsonl -r '!general:example.org' -s '@bob:example.org' --react '$abc:example.org' -k '👍'",
			},
		},
	}
}

// event builds the event the flags describe. now supplies the
// timestamp when --ts is not given.
func (p *appendParams) event(now time.Time) (messaging.Event, error) {
	roomID, err := ref.ParseRoomID(p.Room)
	if err != nil {
		return messaging.Event{}, cli.Validation("--room: %w", err)
	}
	sender, err := ref.ParseUserID(p.Sender)
	if err != nil {
		return messaging.Event{}, cli.Validation("--sender: %w", err)
	}

	selected := 0
	for _, set := range []bool{p.Body != "", p.React != "", p.Membership != ""} {
		if set {
			selected++
		}
	}
	if selected != 1 {
		return messaging.Event{}, cli.Validation("exactly one of --body, --react, or --membership is required")
	}

	event := messaging.Event{
		RoomID:         roomID,
		Sender:         sender,
		OriginServerTS: p.Timestamp,
	}
	if event.OriginServerTS == 0 {
		event.OriginServerTS = now.UnixMilli()
	}

	var content any
	switch {
	case p.Body != "":
		event.Type = messaging.EventTypeMessage
		content = messaging.NewTextMessage(p.Body)

	case p.React != "":
		target, err := ref.ParseEventID(p.React)
		if err != nil {
			return messaging.Event{}, cli.Validation("--react: %w", err)
		}
		if p.Key == "" {
			return messaging.Event{}, cli.Validation("--react requires --key")
		}
		event.Type = messaging.EventTypeReaction
		content = messaging.NewReaction(target, p.Key)

	default:
		if p.Membership != messaging.MembershipJoin && p.Membership != messaging.MembershipLeave {
			return messaging.Event{}, cli.Validation("--membership must be join or leave, got %q", p.Membership)
		}
		event.Type = messaging.EventTypeMember
		stateKey := sender.String()
		event.StateKey = &stateKey
		content = messaging.RoomMemberContent{Membership: p.Membership, DisplayName: p.DisplayName}
	}

	event.Content, err = contentMap(content)
	if err != nil {
		return messaging.Event{}, cli.Internal("encoding content: %w", err)
	}

	if p.EventID != "" {
		event.EventID, err = ref.ParseEventID(p.EventID)
		if err != nil {
			return messaging.Event{}, cli.Validation("--event-id: %w", err)
		}
		return event, nil
	}

	hash, err := eventlog.HashEvent(event)
	if err != nil {
		return messaging.Event{}, cli.Internal("hashing event: %w", err)
	}
	event.EventID, err = ref.ParseEventID("$" + hash.String()[:24] + ":" + sender.Server())
	if err != nil {
		return messaging.Event{}, cli.Internal("deriving event ID: %w", err)
	}
	return event, nil
}

// contentMap converts typed content into the generic map events carry.
func contentMap(content any) (map[string]any, error) {
	data, err := json.Marshal(content)
	if err != nil {
		return nil, err
	}
	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return result, nil
}
