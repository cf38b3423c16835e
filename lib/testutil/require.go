// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"testing"
	"time"
)

// RequireReceive returns the next value from ch. The test fails if ch
// closes first or nothing arrives within timeout. what names the wait
// in the failure message and may be a format string for args.
//
//	change := testutil.RequireReceive(t, changes, 5*time.Second, "change for %s", room)
func RequireReceive[T any](t testing.TB, ch <-chan T, timeout time.Duration, what string, args ...any) T {
	t.Helper()
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case value, ok := <-ch:
		if !ok {
			t.Fatalf("%s: channel closed with nothing received", describe(what, args))
		}
		return value
	case <-timer.C:
		t.Fatalf("%s: nothing received within %v", describe(what, args), timeout)
	}
	panic("unreachable")
}

// RequireNoReceive fails the test if ch yields a value or closes within
// wait. Keep wait short: it always elapses on success.
func RequireNoReceive[T any](t testing.TB, ch <-chan T, wait time.Duration, what string, args ...any) {
	t.Helper()
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case value, ok := <-ch:
		if !ok {
			t.Fatalf("%s: channel closed unexpectedly", describe(what, args))
		}
		t.Fatalf("%s: unexpected value %+v", describe(what, args), value)
	case <-timer.C:
	}
}

// RequireSend delivers value on ch within timeout or fails the test.
func RequireSend[T any](t testing.TB, ch chan<- T, value T, timeout time.Duration, what string, args ...any) {
	t.Helper()
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case ch <- value:
	case <-timer.C:
		t.Fatalf("%s: send blocked for %v", describe(what, args), timeout)
	}
}

// RequireClosed waits for a done-style channel to close. A value on ch
// also satisfies it.
//
//	testutil.RequireClosed(t, done, 5*time.Second, "follow loop stopped")
func RequireClosed(t testing.TB, ch <-chan struct{}, timeout time.Duration, what string, args ...any) {
	t.Helper()
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-ch:
	case <-timer.C:
		t.Fatalf("%s: still open after %v", describe(what, args), timeout)
	}
}

func describe(what string, args []any) string {
	if what == "" {
		return "waiting on channel"
	}
	if len(args) == 0 {
		return what
	}
	return fmt.Sprintf(what, args...)
}
