// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package msgsearch ranks the text messages of an event log against a
// free-text query using Okapi BM25.
//
// Each text message is one document. The message body and the sender's
// user ID are its fields, with the body weighted twice as heavily:
// field weighting repeats a field's tokens in proportion to its weight,
// which is simpler than per-field BM25 and works well for the few
// thousand messages a log holds.
//
// Reactions, membership changes and unimplemented events are not
// indexed. An Index is immutable once built and safe for concurrent
// searches.
package msgsearch
