// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for the timeline
// packages.
//
// The Require helpers put a wall-clock bound on channel operations so a
// broken watcher or subscriber fails the test instead of hanging it.
// They are the only real timeouts in the suite; everything else steps a
// fake clock from lib/clock.
//
// [UniqueID] hands out distinct suffixes for event IDs and bodies.
//
// [WriteTempFile] drops a fixture file into a per-test directory.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package imports no other timeline packages, so any package's
// internal tests can use it.
package testutil
