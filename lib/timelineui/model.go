// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package timelineui

import (
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/timeline/lib/clock"
	"github.com/bureau-foundation/timeline/lib/config"
	"github.com/bureau-foundation/timeline/lib/ref"
	"github.com/bureau-foundation/timeline/lib/roomstore"
	"github.com/bureau-foundation/timeline/lib/tui"
)

// FocusRegion identifies which pane receives navigation keys.
type FocusRegion int

const (
	// FocusRooms means navigation keys move the room list cursor.
	FocusRooms FocusRegion = iota
	// FocusTimeline means navigation keys scroll the timeline.
	FocusTimeline
	// FocusFilter means keystrokes go to the room filter input.
	FocusFilter
)

// Split ratio bounds and step size.
const (
	splitRatioMin  = 0.15
	splitRatioMax  = 0.60
	splitRatioStep = 0.05
)

// changeMsg wraps a store Change for delivery through the bubbletea
// message loop.
type changeMsg struct {
	change roomstore.Change
}

// heatTickMsg drives the fade of hot rooms. While any room is hot a
// new tick is scheduled after each one.
type heatTickMsg struct{}

// Options configures a Model.
type Options struct {
	// Config supplies display and viewer settings. Nil means
	// config.Default().
	Config *config.Config

	// Room is selected first when it exists. Zero selects the most
	// recently active room.
	Room ref.RoomID

	// Clock drives heat decay. Nil means clock.Real().
	Clock clock.Clock
}

// Model is the bubbletea model for the timeline viewer.
type Model struct {
	store       *roomstore.Store
	changes     <-chan roomstore.Change
	unsubscribe func()

	config *config.Config
	clock  clock.Clock
	theme  tui.Theme
	keys   KeyMap

	width  int
	height int
	ready  bool

	focusRegion FocusRegion
	priorFocus  FocusRegion
	splitRatio  float64

	snapshot *roomstore.Snapshot

	// rooms is the filtered room list in display order. selectedID is
	// the room shown in the timeline pane; cursor follows it across
	// refreshes.
	rooms        []roomMatch
	cursor       int
	scrollOffset int
	selectedID   ref.RoomID

	filter FilterModel

	showMembership bool

	// timelineRows is the selected room rendered at the current pane
	// width. When followBottom is set, new rows keep the view pinned
	// to the newest message.
	timelineRows   []string
	timelineOffset int
	followBottom   bool

	showReactions bool

	// Most recent log record shown in the status bar, and the sequence
	// number of the fade timer that may clear it.
	statusRecord   *logRecordMsg
	statusSequence int

	heatTracker *tui.HeatTracker
	tickRunning bool
}

// NewModel creates a Model over store and subscribes to its changes.
// Call Close when the program exits.
func NewModel(store *roomstore.Store, options Options) Model {
	cfg := options.Config
	if cfg == nil {
		cfg = config.Default()
	}
	clk := options.Clock
	if clk == nil {
		clk = clock.Real()
	}
	changes, unsubscribe := store.Subscribe()

	model := Model{
		store:          store,
		changes:        changes,
		unsubscribe:    unsubscribe,
		config:         cfg,
		clock:          clk,
		theme:          tui.DefaultTheme,
		keys:           DefaultKeyMap,
		splitRatio:     min(max(cfg.Viewer.SplitRatio, splitRatioMin), splitRatioMax),
		showMembership: cfg.Display.ShowMembershipEvents,
		followBottom:   true,
		heatTracker:    tui.NewHeatTracker(cfg.HeatDecayDuration()),
	}
	model.selectedID = options.Room
	model.refresh()
	if !model.selectedRoomExists() && len(model.rooms) > 0 {
		model.selectRoom(0)
	} else {
		model.store.MarkRead(model.selectedID)
		model.refresh()
	}
	return model
}

// Close stops the store subscription.
func (model Model) Close() {
	if model.unsubscribe != nil {
		model.unsubscribe()
	}
}

// SelectedRoom returns the room shown in the timeline pane, zero when
// the store is empty.
func (model Model) SelectedRoom() ref.RoomID { return model.selectedID }

// Init implements tea.Model. Starts listening for store changes.
func (model Model) Init() tea.Cmd {
	return listenForChange(model.changes)
}

// listenForChange returns a tea.Cmd that blocks until the store
// publishes a change, then delivers it as a changeMsg.
func listenForChange(channel <-chan roomstore.Change) tea.Cmd {
	return func() tea.Msg {
		change, ok := <-channel
		if !ok {
			return nil
		}
		return changeMsg{change: change}
	}
}

// Update implements tea.Model. Routes keyboard input by focus region
// and handles layout changes, store changes and status records.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		if model.showReactions {
			if key.Matches(message, model.keys.Quit) {
				return model, tea.Quit
			}
			model.showReactions = false
			return model, nil
		}
		if model.focusRegion == FocusFilter {
			return model.handleFilterKeys(message)
		}

		switch {
		case key.Matches(message, model.keys.Quit):
			return model, tea.Quit

		case key.Matches(message, model.keys.FocusToggle):
			if model.focusRegion == FocusRooms {
				model.focusRegion = FocusTimeline
			} else {
				model.focusRegion = FocusRooms
			}

		case key.Matches(message, model.keys.SplitGrow):
			model.splitRatio = min(model.splitRatio+splitRatioStep, splitRatioMax)
			model.rebuildTimeline()

		case key.Matches(message, model.keys.SplitShrink):
			model.splitRatio = max(model.splitRatio-splitRatioStep, splitRatioMin)
			model.rebuildTimeline()

		case key.Matches(message, model.keys.FilterActivate):
			model.priorFocus = model.focusRegion
			model.focusRegion = FocusFilter
			model.filter.Active = true

		case key.Matches(message, model.keys.FilterClear):
			if model.filter.Input != "" {
				model.filter.Clear()
				model.refresh()
			}

		case key.Matches(message, model.keys.ToggleMembership):
			model.showMembership = !model.showMembership
			model.rebuildTimeline()

		case key.Matches(message, model.keys.Reactions):
			model.showReactions = true

		case key.Matches(message, model.keys.Open):
			if model.focusRegion == FocusRooms && model.selectedRoomExists() {
				model.focusRegion = FocusTimeline
			}

		default:
			if model.focusRegion == FocusRooms {
				model.handleRoomKeys(message)
			} else {
				model.handleTimelineKeys(message)
			}
		}

	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true
		model.rebuildTimeline()
		model.ensureCursorVisible()

	case changeMsg:
		return model.handleChange(message.change)

	case heatTickMsg:
		return model.handleHeatTick()

	case logRecordMsg:
		model.statusSequence++
		record := message
		model.statusRecord = &record
		sequence := model.statusSequence
		return model, tea.Tick(logRecordFadeDelay, func(time.Time) tea.Msg {
			return logRecordFadeMsg{Sequence: sequence}
		})

	case logRecordFadeMsg:
		if message.Sequence == model.statusSequence {
			model.statusRecord = nil
		}
	}
	return model, nil
}

// handleFilterKeys routes input while the filter has focus. Esc
// clears the filter and returns focus; Enter keeps the filter and
// moves to the room list.
func (model Model) handleFilterKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch message.Type {
	case tea.KeyCtrlC:
		return model, tea.Quit

	case tea.KeyEsc:
		model.filter.Clear()
		model.focusRegion = model.priorFocus
		model.refresh()

	case tea.KeyEnter:
		model.filter.Active = false
		model.focusRegion = FocusRooms

	case tea.KeyBackspace:
		if model.filter.HandleBackspace() {
			model.applyFilter()
		}

	case tea.KeySpace:
		model.filter.HandleRune(' ')
		model.applyFilter()

	case tea.KeyRunes:
		for _, character := range message.Runes {
			model.filter.HandleRune(character)
		}
		model.applyFilter()
	}
	return model, nil
}

// applyFilter re-filters the room list and selects the best match.
func (model *Model) applyFilter() {
	model.refresh()
	if len(model.rooms) > 0 {
		model.selectRoom(0)
	}
}

func (model *Model) handleRoomKeys(message tea.KeyMsg) {
	page := max(model.visibleHeight(), 1)
	switch {
	case key.Matches(message, model.keys.Up):
		model.selectRoom(model.cursor - 1)
	case key.Matches(message, model.keys.Down):
		model.selectRoom(model.cursor + 1)
	case key.Matches(message, model.keys.PageUp):
		model.selectRoom(model.cursor - page)
	case key.Matches(message, model.keys.PageDown):
		model.selectRoom(model.cursor + page)
	case key.Matches(message, model.keys.Home):
		model.selectRoom(0)
	case key.Matches(message, model.keys.End):
		model.selectRoom(len(model.rooms) - 1)
	}
}

func (model *Model) handleTimelineKeys(message tea.KeyMsg) {
	page := max(model.visibleHeight(), 1)
	switch {
	case key.Matches(message, model.keys.Up):
		model.scrollTimeline(-1)
	case key.Matches(message, model.keys.Down):
		model.scrollTimeline(1)
	case key.Matches(message, model.keys.PageUp):
		model.scrollTimeline(-page)
	case key.Matches(message, model.keys.PageDown):
		model.scrollTimeline(page)
	case key.Matches(message, model.keys.Home):
		model.scrollTimeline(-len(model.timelineRows))
	case key.Matches(message, model.keys.End):
		model.scrollTimeline(len(model.timelineRows))
	}
}

// scrollTimeline moves the timeline window by delta rows. Reaching the
// bottom re-enables following new messages.
func (model *Model) scrollTimeline(delta int) {
	maxOffset := model.maxTimelineOffset()
	model.timelineOffset = min(max(model.timelineOffset+delta, 0), maxOffset)
	model.followBottom = model.timelineOffset == maxOffset
}

func (model Model) maxTimelineOffset() int {
	return max(len(model.timelineRows)-model.visibleHeight(), 0)
}

// selectRoom moves the cursor to position, clamped to the list, and
// shows that room. Showing a room marks it read and cools its glow.
func (model *Model) selectRoom(position int) {
	if len(model.rooms) == 0 {
		return
	}
	position = min(max(position, 0), len(model.rooms)-1)
	roomID := model.rooms[position].Room.ID
	changed := roomID != model.selectedID

	model.cursor = position
	model.selectedID = roomID
	model.heatTracker.Cool(roomID.String())
	model.store.MarkRead(roomID)
	model.refresh()
	if changed {
		model.followBottom = true
		model.rebuildTimeline()
	}
	model.ensureCursorVisible()
}

func (model Model) selectedRoomExists() bool {
	if model.selectedID.IsZero() || model.snapshot == nil {
		return false
	}
	_, ok := model.snapshot.Room(model.selectedID)
	return ok
}

// refresh takes a new snapshot, re-filters the room list and keeps the
// cursor on the selected room.
func (model *Model) refresh() {
	model.snapshot = model.store.Snapshot()
	model.rooms = model.filter.Apply(model.snapshot.Rooms())

	if position := slices.IndexFunc(model.rooms, func(match roomMatch) bool {
		return match.Room.ID == model.selectedID
	}); position >= 0 {
		model.cursor = position
	} else {
		model.cursor = min(model.cursor, max(len(model.rooms)-1, 0))
	}
	model.rebuildTimeline()
	model.ensureCursorVisible()
}

// rebuildTimeline re-renders the selected room at the current pane
// width and re-clamps the scroll position.
func (model *Model) rebuildTimeline() {
	if !model.ready {
		return
	}
	model.timelineRows = model.renderTimelineRows(model.timelineWidth())
	maxOffset := model.maxTimelineOffset()
	if model.followBottom || model.timelineOffset > maxOffset {
		model.timelineOffset = maxOffset
	}
}

// handleChange processes a store change: rooms other than the one on
// screen glow, the one on screen stays read, and the view refreshes.
func (model Model) handleChange(change roomstore.Change) (tea.Model, tea.Cmd) {
	now := model.clock.Now()
	commands := []tea.Cmd{listenForChange(model.changes)}

	if !change.Reset {
		for _, roomID := range change.Rooms {
			if roomID == model.selectedID {
				model.store.MarkRead(roomID)
				continue
			}
			model.heatTracker.Ignite(roomID.String(), now)
		}
	}
	model.refresh()
	if !model.selectedRoomExists() && len(model.rooms) > 0 {
		model.selectRoom(0)
	}

	if !model.tickRunning && model.heatTracker.HasHot(now) {
		model.tickRunning = true
		commands = append(commands, scheduleHeatTick())
	}
	return model, tea.Batch(commands...)
}

// handleHeatTick schedules another tick while any room is hot.
func (model Model) handleHeatTick() (tea.Model, tea.Cmd) {
	if model.heatTracker.HasHot(model.clock.Now()) {
		return model, scheduleHeatTick()
	}
	model.tickRunning = false
	return model, nil
}

func scheduleHeatTick() tea.Cmd {
	return tea.Tick(tui.HeatTickInterval, func(time.Time) tea.Msg {
		return heatTickMsg{}
	})
}

// listWidth returns the width of the room list pane in columns.
func (model Model) listWidth() int {
	return max(int(float64(model.width)*model.splitRatio), 12)
}

// timelineWidth returns the text width of the timeline pane: what is
// left after the list, the divider and the scrollbar.
func (model Model) timelineWidth() int {
	return max(model.width-model.listWidth()-2, 10)
}

// visibleHeight returns the number of content rows between the header
// line and the separator plus help bar.
func (model Model) visibleHeight() int {
	return model.height - 3
}

// ensureCursorVisible adjusts scrollOffset so the cursor is within
// the visible window.
func (model *Model) ensureCursorVisible() {
	visible := model.visibleHeight()
	if visible <= 0 {
		return
	}
	maxOffset := max(len(model.rooms)-visible, 0)
	model.scrollOffset = min(model.scrollOffset, maxOffset)
	if model.cursor < model.scrollOffset {
		model.scrollOffset = model.cursor
	}
	if model.cursor >= model.scrollOffset+visible {
		model.scrollOffset = model.cursor - visible + 1
	}
}
