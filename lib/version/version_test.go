// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"runtime"
	"runtime/debug"
	"strings"
	"testing"
)

// setBuild replaces the ldflags values and the embedded build info for
// one test.
func setBuild(t *testing.T, commit, dirty, built string, info *debug.BuildInfo) {
	t.Helper()
	saved := [4]string{Version, GitCommit, GitDirty, BuildTime}
	savedRead := readBuildInfo
	t.Cleanup(func() {
		Version, GitCommit, GitDirty, BuildTime = saved[0], saved[1], saved[2], saved[3]
		readBuildInfo = savedRead
	})
	Version, GitCommit, GitDirty, BuildTime = "1.2.3", commit, dirty, built
	readBuildInfo = func() (*debug.BuildInfo, bool) { return info, info != nil }
}

func TestInfo(t *testing.T) {
	stamped := &debug.BuildInfo{Settings: []debug.BuildSetting{
		{Key: "vcs.revision", Value: "0123456789abcdef0123"},
		{Key: "vcs.modified", Value: "true"},
		{Key: "vcs.time", Value: "2026-09-30T12:00:00Z"},
	}}

	tests := []struct {
		name   string
		commit string
		dirty  string
		built  string
		info   *debug.BuildInfo
		want   string
	}{
		{"ldflags clean", "abc1234", "false", "2026-10-01T00:00:00Z", stamped, "1.2.3 (abc1234, 2026-10-01T00:00:00Z)"},
		{"ldflags dirty", "abc1234", "true", "2026-10-01T00:00:00Z", nil, "1.2.3 (abc1234-dirty, 2026-10-01T00:00:00Z)"},
		{"vcs stamp", "unknown", "false", "unknown", stamped, "1.2.3 (0123456789ab-dirty, 2026-09-30T12:00:00Z)"},
		{"vcs stamp keeps ldflags time", "unknown", "false", "2026-10-01T00:00:00Z", stamped, "1.2.3 (0123456789ab-dirty, 2026-10-01T00:00:00Z)"},
		{"no stamp", "unknown", "false", "unknown", nil, "1.2.3 (unknown, unknown)"},
		{"empty stamp", "unknown", "false", "unknown", &debug.BuildInfo{}, "1.2.3 (unknown, unknown)"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			setBuild(t, test.commit, test.dirty, test.built, test.info)
			if got := Info(); got != test.want {
				t.Errorf("Info() = %q, want %q", got, test.want)
			}
		})
	}
}

func TestFull(t *testing.T) {
	full := Full()
	if !strings.HasPrefix(full, Info()) {
		t.Errorf("Full() = %q, want Info() prefix", full)
	}
	if !strings.Contains(full, runtime.GOOS+"/"+runtime.GOARCH) {
		t.Errorf("Full() = %q, missing platform", full)
	}
}
