// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteTempFile writes content to name inside a fresh t.TempDir and
// returns the full path. The directory is removed when the test ends.
//
//	path := testutil.WriteTempFile(t, "timeline.yaml", "display:\n  timezone: UTC\n")
func WriteTempFile(t testing.TB, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}
