// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestUniqueIDIncreases(t *testing.T) {
	first := UniqueID("event")
	second := UniqueID("event")
	if first == second {
		t.Fatalf("UniqueID returned %q twice", first)
	}
	if !strings.HasPrefix(first, "event-") {
		t.Errorf("UniqueID(%q) = %q, want event- prefix", "event", first)
	}
}

func TestWriteTempFile(t *testing.T) {
	path := WriteTempFile(t, "events.jsonl", "{}\n")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	if string(data) != "{}\n" {
		t.Errorf("content = %q", data)
	}
}

func TestRequireHelpers(t *testing.T) {
	values := make(chan int, 1)
	RequireNoReceive(t, values, 10*time.Millisecond, "empty channel")
	RequireSend(t, values, 7, time.Second, "send")
	if got := RequireReceive(t, values, time.Second, "receive"); got != 7 {
		t.Errorf("received %d, want 7", got)
	}

	done := make(chan struct{})
	close(done)
	RequireClosed(t, done, time.Second, "closed %s", "done")
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		what string
		args []any
		want string
	}{
		{"", nil, "waiting on channel"},
		{"plain", nil, "plain"},
		{"room %s", []any{"!a:example.org"}, "room !a:example.org"},
		{"100% done", nil, "100% done"},
	}
	for _, test := range tests {
		if got := describe(test.what, test.args); got != test.want {
			t.Errorf("describe(%q, %v) = %q, want %q", test.what, test.args, got, test.want)
		}
	}
}
