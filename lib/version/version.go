// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set with -ldflags at build time, for example:
//
//	go build -ldflags "-X github.com/bureau-foundation/timeline/lib/version.GitCommit=$(git rev-parse --short HEAD)"
var (
	GitCommit = "unknown"
	GitDirty  = "false"
	BuildTime = "unknown"
	Version   = "0.1.0-dev"
)

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

// build is the commit, dirty flag and time of the running binary.
type build struct {
	commit string
	dirty  bool
	time   string
}

// current prefers the ldflags values and falls back to the VCS stamp
// the go command embeds, so "go install" builds still identify their
// commit.
func current() build {
	stamp := build{commit: GitCommit, dirty: GitDirty == "true", time: BuildTime}
	if stamp.commit != "unknown" {
		return stamp
	}
	info, ok := readBuildInfo()
	if !ok {
		return stamp
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			stamp.commit = setting.Value
			if len(stamp.commit) > 12 {
				stamp.commit = stamp.commit[:12]
			}
		case "vcs.modified":
			stamp.dirty = setting.Value == "true"
		case "vcs.time":
			if stamp.time == "unknown" {
				stamp.time = setting.Value
			}
		}
	}
	return stamp
}

// Info returns the one-line version, e.g. "0.1.0-dev (abc1234-dirty, 2026-10-01T00:00:00Z)".
func Info() string {
	stamp := current()
	dirty := ""
	if stamp.dirty {
		dirty = "-dirty"
	}
	return fmt.Sprintf("%s (%s%s, %s)", Version, stamp.commit, dirty, stamp.time)
}

// Full returns Info plus the Go version and platform.
func Full() string {
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s/%s",
		Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
