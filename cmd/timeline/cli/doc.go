// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the timeline
// command.
//
// The central type is [Command], a named subcommand with optional
// nested [Command.Subcommands], a parameter struct whose tagged fields
// become flags (see [BindFlags]), and a Run function receiving a
// context and a scoped logger. Commands are assembled into a tree in
// cmd/timeline/commands and dispatched via [Command.Execute], which
// handles flag parsing, subcommand routing, and help output with
// examples.
//
// When a user types an unknown subcommand or flag, the framework
// computes Levenshtein edit distance against all known names and
// suggests the closest match (threshold: distance <= 3).
//
// Commands report failures as [ToolError] values carrying an
// [ErrorCategory], and signal handled non-zero exits with [ExitError].
// Embedding [JSONOutput] in a parameter struct adds a --json flag.
package cli
