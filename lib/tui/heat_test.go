// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"testing"
	"time"
)

func TestHeatDecaysLinearly(t *testing.T) {
	epoch := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tracker := NewHeatTracker(4 * time.Second)
	tracker.Ignite("!room:example.org", epoch)

	tests := []struct {
		elapsed time.Duration
		want    float64
	}{
		{0, 1},
		{time.Second, 0.75},
		{2 * time.Second, 0.5},
		{4 * time.Second, 0},
		{time.Minute, 0},
	}
	for _, test := range tests {
		if got := tracker.Heat("!room:example.org", epoch.Add(test.elapsed)); got != test.want {
			t.Errorf("Heat after %v = %v, want %v", test.elapsed, got, test.want)
		}
	}
	if got := tracker.Heat("!other:example.org", epoch); got != 0 {
		t.Errorf("never-ignited item has heat %v", got)
	}
}

func TestHeatReignitionRestartsDecay(t *testing.T) {
	epoch := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tracker := NewHeatTracker(time.Second)
	tracker.Ignite("a", epoch)
	tracker.Ignite("a", epoch.Add(900*time.Millisecond))
	if heat := tracker.Heat("a", epoch.Add(time.Second)); heat <= 0.8 {
		t.Errorf("heat after re-ignition = %v, want > 0.8", heat)
	}
}

func TestHeatHasHotCollectsCold(t *testing.T) {
	epoch := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tracker := NewHeatTracker(0)
	if tracker.Decay() != DefaultHeatDecay {
		t.Fatalf("Decay() = %v, want default %v", tracker.Decay(), DefaultHeatDecay)
	}

	tracker.Ignite("old", epoch)
	tracker.Ignite("new", epoch.Add(DefaultHeatDecay))
	if !tracker.HasHot(epoch.Add(DefaultHeatDecay + time.Second)) {
		t.Fatal("expected the newer item to be hot")
	}
	if _, kept := tracker.ignited["old"]; kept {
		t.Error("cold item was not collected")
	}

	tracker.Cool("new")
	if tracker.HasHot(epoch.Add(DefaultHeatDecay)) {
		t.Error("cooled item still hot")
	}
}
