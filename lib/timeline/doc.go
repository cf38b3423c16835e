// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package timeline decides what a Matrix timeline event means and how
// it is displayed and indexed.
//
// The package is pure and synchronous: every function reads its
// arguments, never mutates them, and never returns an error. Malformed
// events degrade to [KindUnimplemented] (which still renders as a
// diagnostic dump) or to a no-op index update.
//
// The pieces compose in one direction:
//
//   - [Classify] assigns exactly one [Kind] per event using a fixed
//     precedence (text, annotation, join, leave, display name change,
//     avatar change, unimplemented).
//   - [Decode] converts the free-form content map into a typed
//     [Content] for the classified kind, failing closed to
//     [RawContent] when a required field is missing.
//   - [Format] turns a decoded event into its display string, given the
//     room's member count (direct chats omit the sender prefix).
//   - [AddAnnotation] folds reaction events into an [AnnotationIndex],
//     a persistent map that shares untouched branches between
//     versions so a reader holding an older index never sees a
//     partial update.
//   - [CompareByRecency] and [GroupByDay] order rooms and insert day
//     separators by local calendar date.
//   - [Render] runs the whole pipeline for one room's ordered events.
//
// Ownership of mutable state (the current index, the loaded timeline)
// belongs to the caller; see lib/roomstore for the single-writer
// store the CLI and viewer use.
package timeline
