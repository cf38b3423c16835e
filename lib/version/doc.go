// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version identifies the timeline binaries for --version.
//
// Release builds inject [GitCommit], [GitDirty], [BuildTime] and
// [Version] with -ldflags -X. Without them, the commit, dirty flag and
// time come from the VCS stamp the go command embeds in the binary,
// and remain "unknown" in test binaries, which carry no stamp.
package version
