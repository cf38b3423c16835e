// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source so that timing
// behavior can be tested without wall-clock waits.
//
// The event log watcher debounces file writes with [Clock].After and
// the viewer decays room activity highlights against [Clock].Now. In
// production both take [Real]. Tests pass a [FakeClock] and step it
// explicitly:
//
//	fakeClock := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	updates, _ := eventlog.Watch(ctx, path, eventlog.WatchOptions{Clock: fakeClock})
//	// ... append to the log ...
//	fakeClock.WaitForTimers(1)               // the watcher is now debouncing
//	fakeClock.Advance(50 * time.Millisecond) // release it
//
// WaitForTimers closes the race between a goroutine registering a wait
// and the test advancing time.
package clock
