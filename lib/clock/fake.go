// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"slices"
	"sync"
	"time"
)

// Fake returns a FakeClock set to initial. Time stands still until
// Advance is called.
func Fake(initial time.Time) *FakeClock {
	clock := &FakeClock{current: initial}
	clock.pendingChanged = sync.NewCond(&clock.mu)
	return clock
}

// FakeClock is a deterministic Clock for tests. After registers a
// pending deadline that fires only when Advance moves the clock past
// it. Safe for concurrent use.
type FakeClock struct {
	mu             sync.Mutex
	current        time.Time
	pending        []*deadline
	pendingChanged *sync.Cond
}

// deadline is one registered wait.
type deadline struct {
	at      time.Time
	channel chan time.Time
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// After returns a channel that receives once the clock has advanced by
// d. Non-positive durations are ready immediately and register nothing.
func (c *FakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	channel := make(chan time.Time, 1)
	if d <= 0 {
		channel <- c.current
		return channel
	}
	c.register(&deadline{at: c.current.Add(d), channel: channel})
	return channel
}

// register appends entry and wakes WaitForTimers. Caller holds c.mu.
func (c *FakeClock) register(entry *deadline) {
	c.pending = append(c.pending, entry)
	c.pendingChanged.Broadcast()
}

// Advance moves the clock forward by d and fires every deadline at or
// before the new time, earliest first. Each channel has room for its
// one value, so firing never blocks.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.current = c.current.Add(d)
	target := c.current

	var expired []*deadline
	c.pending = slices.DeleteFunc(c.pending, func(entry *deadline) bool {
		if entry.at.After(target) {
			return false
		}
		expired = append(expired, entry)
		return true
	})
	c.mu.Unlock()

	slices.SortStableFunc(expired, func(a, b *deadline) int {
		return a.at.Compare(b.at)
	})
	for _, entry := range expired {
		entry.channel <- target
	}
}

// WaitForTimers blocks until at least n deadlines are pending. Call it
// before Advance so a goroutine's wait is registered before time
// moves:
//
//	go watcher.run()
//	fakeClock.WaitForTimers(1)
//	fakeClock.Advance(50 * time.Millisecond)
func (c *FakeClock) WaitForTimers(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for len(c.pending) < n {
		c.pendingChanged.Wait()
	}
}

// PendingCount returns the number of deadlines not yet fired.
func (c *FakeClock) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}
