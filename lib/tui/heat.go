// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"time"
)

// DefaultHeatDecay is how long a room glows after new events when the
// configuration does not say otherwise.
const DefaultHeatDecay = 5 * time.Second

// HeatTickInterval is the re-render interval while any item is hot.
// 100ms gives ~10fps animation for a smooth fade.
const HeatTickInterval = 100 * time.Millisecond

// HeatTracker maps item IDs to ignition times for activity
// highlighting. Each change ignites an item, which then decays from
// full intensity to zero over the tracker's decay duration.
//
// Time is always passed in, never read, so the tracker is
// deterministic under test.
type HeatTracker struct {
	decay   time.Duration
	ignited map[string]time.Time
}

// NewHeatTracker creates an empty tracker. A non-positive decay means
// DefaultHeatDecay.
func NewHeatTracker(decay time.Duration) *HeatTracker {
	if decay <= 0 {
		decay = DefaultHeatDecay
	}
	return &HeatTracker{
		decay:   decay,
		ignited: make(map[string]time.Time),
	}
}

// Decay returns the time an ignited item takes to cool completely.
func (tracker *HeatTracker) Decay() time.Duration { return tracker.decay }

// Ignite records a change to itemID at now, restarting its decay if
// it was already hot.
func (tracker *HeatTracker) Ignite(itemID string, now time.Time) {
	tracker.ignited[itemID] = now
}

// Heat returns the intensity of itemID at now: 1.0 at ignition,
// falling linearly to 0.0 after the decay duration. Items never
// ignited are 0.0.
func (tracker *HeatTracker) Heat(itemID string, now time.Time) float64 {
	ignition, exists := tracker.ignited[itemID]
	if !exists {
		return 0
	}
	elapsed := now.Sub(ignition)
	if elapsed >= tracker.decay {
		return 0
	}
	if elapsed < 0 {
		return 1
	}
	return 1 - float64(elapsed)/float64(tracker.decay)
}

// Cool removes itemID, as when the user opens the room.
func (tracker *HeatTracker) Cool(itemID string) {
	delete(tracker.ignited, itemID)
}

// HasHot reports whether any item is still hot at now, meaning the
// animation tick should keep running. Fully decayed entries are
// dropped.
func (tracker *HeatTracker) HasHot(now time.Time) bool {
	hot := false
	for itemID, ignition := range tracker.ignited {
		if now.Sub(ignition) < tracker.decay {
			hot = true
			continue
		}
		delete(tracker.ignited, itemID)
	}
	return hot
}
