// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package messaging defines the Matrix client-server event shapes the
// timeline tooling reads: [Event] (one timeline event, decoded from the
// standard JSON form), its relation block [RelatesTo], membership
// content, and the /sync and /messages response envelopes that carry
// events for import.
//
// The package does not talk to a homeserver. Events reach it already
// serialized, from event logs or from saved /sync and /messages
// responses, and are decoded once at that boundary. Identifiers are
// validated during decoding (see lib/ref); content stays a free-form
// map because its shape depends on the event kind, which is decided
// later by lib/timeline.
//
// Accessors on Event ([Event.PreviousContent], [Event.Relation],
// [Event.ContentString]) never fail: a missing or mistyped field reads
// as absent, so callers can classify malformed events instead of
// rejecting them.
//
// A saved response that holds a homeserver error body instead of events
// parses as a [MatrixError].
package messaging
