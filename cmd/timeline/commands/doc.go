// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the timeline command tree.
//
// Every command reads an event log (see lib/eventlog), optionally
// loads a config file (--config or TIMELINE_CONFIG), and writes to the
// io.Writer given to [Root], which keeps the commands testable without
// capturing os.Stdout.
package commands
