// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package roomstore holds the timelines of every room seen in an event
// stream, together with the state the timeline formatter needs: joined
// member counts, room names, the event ID to room lookup, and the
// folded annotation index.
//
// A [Store] has one writer at a time (Apply, Load and LoadRoom
// serialize on a mutex) and any number of readers. Each write builds a
// new immutable [Snapshot] and publishes it with an atomic pointer
// swap, so a reader calling [Store.Snapshot] sees either the state
// before a write or the state after it, never a mix. Snapshots stay
// valid after later writes.
//
// [Store.Load] replaces everything from a fresh event list, as when a
// followed log is rewritten. The replacement is built outside the
// writer lock; if a newer Load starts before an older one publishes,
// the older build is discarded.
package roomstore
