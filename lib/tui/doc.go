// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui provides the terminal building blocks of the timeline
// viewer: the color theme, scrollbars, activity heat that fades after
// a room changes, overlay splicing for popups drawn over a rendered
// view, and fzf-style fuzzy matching for filter input.
//
// Everything here is independent of bubbletea's message loop. The
// viewer model in lib/timelineui owns state and layout and calls into
// this package to draw.
package tui
