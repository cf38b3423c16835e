// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package timelineui implements the interactive timeline viewer: a
// bubbletea model with a room list on the left, ordered by recency
// with unread counts and a fading glow on rooms that just received
// events, and the selected room's rendered timeline on the right.
//
// The model reads from a [roomstore.Store] and redraws whenever the
// store publishes a change. [FollowLog] keeps a store in step with an
// event log on disk. Text message bodies are rendered as Markdown,
// with fenced code highlighted by chroma.
//
// Background logging goes through [TUILogHandler], which shows
// warnings and errors in the status bar instead of writing to stderr
// underneath the alt screen.
package timelineui
