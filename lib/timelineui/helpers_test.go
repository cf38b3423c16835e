// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package timelineui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/timeline/lib/clock"
	"github.com/bureau-foundation/timeline/lib/config"
	"github.com/bureau-foundation/timeline/lib/ref"
	"github.com/bureau-foundation/timeline/lib/roomstore"
	"github.com/bureau-foundation/timeline/messaging"
)

var (
	general = ref.MustParseRoomID("!general:example.org")
	direct  = ref.MustParseRoomID("!direct:example.org")

	// 2024-01-01 00:00 UTC, a Monday.
	testEpoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
)

// at returns the millisecond timestamp day days and the given clock
// time after testEpoch.
func at(day, hour, minute int) int64 {
	return testEpoch.AddDate(0, 0, day).Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute).UnixMilli()
}

func member(id string, room ref.RoomID, user string, timestamp int64) messaging.Event {
	stateKey := user
	return messaging.Event{
		EventID:        ref.MustParseEventID(id),
		Type:           messaging.EventTypeMember,
		RoomID:         room,
		Sender:         ref.MustParseUserID(user),
		StateKey:       &stateKey,
		OriginServerTS: timestamp,
		Content:        map[string]any{"membership": "join"},
	}
}

func text(id string, room ref.RoomID, user, body string, timestamp int64) messaging.Event {
	return messaging.Event{
		EventID:        ref.MustParseEventID(id),
		Type:           messaging.EventTypeMessage,
		RoomID:         room,
		Sender:         ref.MustParseUserID(user),
		OriginServerTS: timestamp,
		Content:        map[string]any{"msgtype": "m.text", "body": body},
	}
}

func reaction(id string, room ref.RoomID, user, target, key string, timestamp int64) messaging.Event {
	return messaging.Event{
		EventID:        ref.MustParseEventID(id),
		Type:           messaging.EventTypeReaction,
		RoomID:         room,
		Sender:         ref.MustParseUserID(user),
		OriginServerTS: timestamp,
		Content: map[string]any{"m.relates_to": map[string]any{
			"rel_type": "m.annotation", "event_id": target, "key": key,
		}},
	}
}

// fixtureEvents holds a three-member room named General spanning two
// days, and a two-member direct room.
func fixtureEvents() []messaging.Event {
	return []messaging.Event{
		member("$j1", general, "@alice:example.org", at(0, 10, 0)),
		member("$j2", general, "@bob:example.org", at(0, 10, 1)),
		member("$j3", general, "@carol:example.org", at(0, 10, 2)),
		text("$m1", general, "@alice:example.org", "hello all", at(0, 10, 5)),
		reaction("$r1", general, "@bob:example.org", "$m1", "👍", at(0, 10, 6)),
		reaction("$r2", general, "@carol:example.org", "$m1", "👍", at(0, 10, 7)),
		text("$m2", general, "@bob:example.org", "next day", at(1, 10, 0)),
		member("$dj1", direct, "@alice:example.org", at(0, 8, 0)),
		member("$dj2", direct, "@bob:example.org", at(0, 8, 1)),
		text("$d1", direct, "@alice:example.org", "hi bob", at(0, 9, 0)),
	}
}

// testConfig renders in UTC with plain bodies so views are stable.
func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Display.Timezone = "UTC"
	cfg.Display.Markdown = false
	return cfg
}

func newTestStore() *roomstore.Store {
	store := roomstore.New(roomstore.Options{
		Names: map[ref.RoomID]string{general: "General"},
	})
	store.Load(fixtureEvents())
	return store
}

// newTestModel returns a sized model over the fixture store.
func newTestModel(t *testing.T, cfg *config.Config, options Options) (Model, *roomstore.Store, *clock.FakeClock) {
	t.Helper()
	store := newTestStore()
	fake := clock.Fake(testEpoch.AddDate(0, 0, 2))
	options.Config = cfg
	options.Clock = fake
	model := NewModel(store, options)
	t.Cleanup(model.Close)
	model = update(model, tea.WindowSizeMsg{Width: 120, Height: 30})
	return model, store, fake
}

func update(model Model, message tea.Msg) Model {
	next, _ := model.Update(message)
	return next.(Model)
}

func press(model Model, keys ...string) Model {
	for _, name := range keys {
		model = update(model, keyMsg(name))
	}
	return model
}

func keyMsg(name string) tea.KeyMsg {
	switch name {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(name)}
	}
}

func plainView(model Model) string {
	return ansi.Strip(model.View())
}
