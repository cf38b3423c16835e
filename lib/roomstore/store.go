// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package roomstore

import (
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/bureau-foundation/timeline/lib/ref"
	"github.com/bureau-foundation/timeline/lib/timeline"
	"github.com/bureau-foundation/timeline/messaging"
)

// Options configures a Store.
type Options struct {
	// Names overrides room display names. A configured name wins over
	// m.room.name state.
	Names map[ref.RoomID]string

	// MemberCounts overrides the member count derived from membership
	// events. Useful for logs that hold only part of a room's history.
	MemberCounts map[ref.RoomID]int

	// Logger receives warnings about events the store cannot place.
	// Nil discards them.
	Logger *slog.Logger
}

// Change describes one published write, delivered to subscribers.
type Change struct {
	// Rooms lists the rooms whose timelines changed, sorted by ID.
	Rooms []ref.RoomID

	// Reset is true when the whole store was replaced by Load.
	Reset bool

	// Events is the number of events the write added.
	Events int
}

// Store is the single-writer room state holder. The zero value is not
// usable; call New.
type Store struct {
	options Options
	logger  *slog.Logger

	// writeMutex serializes writers. Readers never take it.
	writeMutex sync.Mutex
	current    atomic.Pointer[Snapshot]

	// loadGeneration increments when a Load starts; a build publishes
	// only if no newer Load started meanwhile.
	loadGeneration atomic.Uint64

	subscriberMutex sync.Mutex
	subscribers     []chan Change
}

// New creates an empty store.
func New(options Options) *Store {
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	store := &Store{options: options, logger: logger}
	store.current.Store(emptySnapshot())
	return store
}

// Snapshot returns the current state. The result is immutable and
// remains valid after later writes.
func (store *Store) Snapshot() *Snapshot {
	return store.current.Load()
}

// Apply appends events to their rooms' timelines in order. Events
// without a room ID are skipped with a warning; events whose ID is
// already stored are skipped silently, so redelivery is harmless.
// It returns the number of events added.
func (store *Store) Apply(events ...messaging.Event) int {
	if len(events) == 0 {
		return 0
	}

	store.writeMutex.Lock()
	next, touched, added := store.extend(store.current.Load(), events)
	if added > 0 {
		store.current.Store(next)
	}
	store.writeMutex.Unlock()

	if added > 0 {
		store.notify(Change{Rooms: touched, Events: added})
	}
	return added
}

// Load replaces the store's contents with events. It reports false
// when a newer Load started before this one finished, in which case
// this build was discarded.
func (store *Store) Load(events []messaging.Event) bool {
	generation := store.loadGeneration.Add(1)

	next, _, added := store.extend(emptySnapshot(), events)
	for _, room := range next.rooms {
		room.Unread = 0
	}

	store.writeMutex.Lock()
	if store.loadGeneration.Load() != generation {
		store.writeMutex.Unlock()
		store.logger.Debug("discarding superseded load", "events", len(events))
		return false
	}
	store.current.Store(next)
	store.writeMutex.Unlock()

	store.notify(Change{Rooms: next.RoomIDs(), Reset: true, Events: added})
	return true
}

// LoadRoom replaces one room's timeline with events, rebuilding that
// room's members, name and annotations from scratch. Events for other
// rooms in the list are ignored.
func (store *Store) LoadRoom(roomID ref.RoomID, events []messaging.Event) {
	var roomEvents []messaging.Event
	for _, event := range events {
		if event.RoomID == roomID {
			roomEvents = append(roomEvents, event)
		}
	}

	store.writeMutex.Lock()
	previous := store.current.Load()
	base := previous.withoutRoom(roomID)
	next, _, added := store.extend(base, roomEvents)
	if room, ok := next.rooms[roomID]; ok {
		room.Unread = 0
	} else {
		// An empty reload still leaves the room listed.
		next = next.withRoom(store.newRoom(roomID))
	}
	store.current.Store(next)
	store.writeMutex.Unlock()

	store.notify(Change{Rooms: []ref.RoomID{roomID}, Events: added})
}

// MarkRead clears the room's unread count. It publishes a new
// snapshot but notifies no subscribers, since no timeline changed.
func (store *Store) MarkRead(roomID ref.RoomID) {
	store.writeMutex.Lock()
	defer store.writeMutex.Unlock()
	previous := store.current.Load()
	room, ok := previous.rooms[roomID]
	if !ok || room.Unread == 0 {
		return
	}
	cleared := room.clone()
	cleared.Unread = 0
	store.current.Store(previous.withRoom(cleared))
}

// Subscribe returns a channel that receives a Change after every
// published write, and a function that unsubscribes. The channel is
// buffered; when a subscriber falls behind, changes are dropped and
// the subscriber catches up from the next Snapshot.
func (store *Store) Subscribe() (<-chan Change, func()) {
	channel := make(chan Change, 64)
	store.subscriberMutex.Lock()
	store.subscribers = append(store.subscribers, channel)
	store.subscriberMutex.Unlock()

	var once sync.Once
	return channel, func() {
		once.Do(func() {
			store.subscriberMutex.Lock()
			defer store.subscriberMutex.Unlock()
			store.subscribers = slices.DeleteFunc(store.subscribers, func(candidate chan Change) bool {
				return candidate == channel
			})
		})
	}
}

func (store *Store) notify(change Change) {
	store.subscriberMutex.Lock()
	subscribers := slices.Clone(store.subscribers)
	store.subscriberMutex.Unlock()

	for _, subscriber := range subscribers {
		select {
		case subscriber <- change:
		default:
		}
	}
}

// extend returns a new snapshot with events applied on top of base.
// base is not modified.
func (store *Store) extend(base *Snapshot, events []messaging.Event) (*Snapshot, []ref.RoomID, int) {
	next := base.shallowCopy()
	touched := make(map[ref.RoomID]*Room)
	added := 0

	for _, event := range events {
		if event.RoomID.IsZero() {
			store.logger.Warn("skipping event without room_id", "event_id", event.EventID)
			continue
		}
		if !event.EventID.IsZero() {
			if _, seen := next.eventRooms[event.EventID]; seen {
				continue
			}
		}

		room, ok := touched[event.RoomID]
		if !ok {
			if existing, exists := next.rooms[event.RoomID]; exists {
				room = existing.clone()
			} else {
				room = store.newRoom(event.RoomID)
			}
			touched[event.RoomID] = room
			next.rooms[event.RoomID] = room
		}

		room.apply(event)
		if !event.EventID.IsZero() {
			next.eventRooms[event.EventID] = event.RoomID
		}
		next.annotations = timeline.AddAnnotation(next.annotations, event)
		added++
	}

	for roomID, room := range touched {
		room.finish(store.options.Names[roomID], store.options.MemberCounts)
	}

	roomIDs := slices.Collect(maps.Keys(touched))
	slices.SortFunc(roomIDs, func(a, b ref.RoomID) int {
		return strings.Compare(a.String(), b.String())
	})
	return next, roomIDs, added
}

func (store *Store) newRoom(roomID ref.RoomID) *Room {
	room := &Room{ID: roomID, members: map[string]string{}}
	room.finish(store.options.Names[roomID], store.options.MemberCounts)
	return room
}
