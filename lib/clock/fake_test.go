// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func ready(channel <-chan time.Time) bool {
	select {
	case <-channel:
		return true
	default:
		return false
	}
}

func TestFakeNow(t *testing.T) {
	clock := Fake(epoch)
	if got := clock.Now(); !got.Equal(epoch) {
		t.Fatalf("Now() = %v, want %v", got, epoch)
	}
	clock.Advance(90 * time.Minute)
	if got, want := clock.Now(), epoch.Add(90*time.Minute); !got.Equal(want) {
		t.Fatalf("Now() after Advance = %v, want %v", got, want)
	}
}

func TestFakeAfter(t *testing.T) {
	tests := []struct {
		name     string
		wait     time.Duration
		advance  time.Duration
		expected bool
	}{
		{"zero is immediate", 0, 0, true},
		{"negative is immediate", -time.Second, 0, true},
		{"not yet due", 3 * time.Second, 2 * time.Second, false},
		{"exactly due", 3 * time.Second, 3 * time.Second, true},
		{"overdue", 3 * time.Second, time.Minute, true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			clock := Fake(epoch)
			channel := clock.After(test.wait)
			clock.Advance(test.advance)
			if got := ready(channel); got != test.expected {
				t.Errorf("ready = %v, want %v", got, test.expected)
			}
		})
	}
}

func TestFakeAfterReceivesAdvancedTime(t *testing.T) {
	clock := Fake(epoch)
	channel := clock.After(time.Second)
	clock.Advance(2 * time.Second)
	if got := <-channel; !got.Equal(epoch.Add(2 * time.Second)) {
		t.Errorf("received %v, want %v", got, epoch.Add(2*time.Second))
	}
}

func TestFakeWaitForTimers(t *testing.T) {
	clock := Fake(epoch)
	done := make(chan struct{})
	go func() {
		<-clock.After(50 * time.Millisecond)
		close(done)
	}()

	clock.WaitForTimers(1)
	select {
	case <-done:
		t.Fatal("wait finished before Advance")
	default:
	}

	clock.Advance(50 * time.Millisecond)
	<-done

	if count := clock.PendingCount(); count != 0 {
		t.Errorf("PendingCount() = %d after the wait finished, want 0", count)
	}
}

func TestFakeAfterNonPositiveRegistersNothing(t *testing.T) {
	clock := Fake(epoch)
	clock.After(0)
	clock.After(-time.Second)
	if count := clock.PendingCount(); count != 0 {
		t.Errorf("PendingCount() = %d, want 0", count)
	}
}

func TestFakeFiresInDeadlineOrder(t *testing.T) {
	clock := Fake(epoch)
	late := clock.After(2 * time.Second)
	early := clock.After(time.Second)

	clock.Advance(time.Second)
	if !ready(early) || ready(late) {
		t.Fatal("expected only the earlier deadline to fire")
	}
	clock.Advance(time.Second)
	if !ready(late) {
		t.Fatal("later deadline did not fire")
	}
}

func TestFakeWaitForTimersMultiple(t *testing.T) {
	clock := Fake(epoch)
	const waiters = 3
	done := make(chan struct{}, waiters)
	for range waiters {
		go func() {
			<-clock.After(time.Second)
			done <- struct{}{}
		}()
	}

	clock.WaitForTimers(waiters)
	clock.Advance(time.Second)
	for range waiters {
		<-done
	}
}

func TestRealClock(t *testing.T) {
	clock := Real()
	before := time.Now()
	if clock.Now().Before(before) {
		t.Error("Real().Now() went backwards")
	}
	<-clock.After(0)
	<-clock.After(-time.Second)
	<-clock.After(time.Millisecond)
}
