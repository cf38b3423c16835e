// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestSpliceOverlay(t *testing.T) {
	view := "0123456789\nabcdefghij\nABCDEFGHIJ"
	got := ansi.Strip(SpliceOverlay(view, []string{"XX", "YY"}, 3, 1))
	want := "0123456789\nabcXXfghij\nABCYYFGHIJ"
	if got != want {
		t.Errorf("SpliceOverlay =\n%s\nwant\n%s", got, want)
	}
}

func TestSpliceOverlayPadsShortLines(t *testing.T) {
	got := ansi.Strip(SpliceOverlay("ab", []string{"XY"}, 4, 0))
	if got != "ab  XY" {
		t.Errorf("got %q, want %q", got, "ab  XY")
	}
}

func TestSpliceOverlayClipsRows(t *testing.T) {
	view := "one\ntwo"
	got := ansi.Strip(SpliceOverlay(view, []string{"A", "B", "C"}, 0, 1))
	if got != "one\nAwo" {
		t.Errorf("got %q", got)
	}
}

func TestRenderPopup(t *testing.T) {
	lines := RenderPopup(DefaultTheme, "👍 2", []string{"@bob:example.org", "@carol:example.org"}, 80)
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want border, title, two senders, border", len(lines))
	}
	width := ansi.StringWidth(lines[0])
	for index, line := range lines {
		if got := ansi.StringWidth(line); got != width {
			t.Errorf("line %d width %d, want %d", index, got, width)
		}
	}
	if !strings.Contains(ansi.Strip(lines[3]), "@carol:example.org") {
		t.Errorf("sender line = %q", ansi.Strip(lines[3]))
	}
}

func TestRenderPopupTruncates(t *testing.T) {
	lines := RenderPopup(DefaultTheme, "title", []string{strings.Repeat("x", 100)}, 20)
	for index, line := range lines {
		if got := ansi.StringWidth(line); got != 20 {
			t.Errorf("line %d width %d, want 20", index, got)
		}
	}
	if !strings.Contains(ansi.Strip(lines[2]), "…") {
		t.Errorf("long line not truncated: %q", ansi.Strip(lines[2]))
	}
}

func TestCenterOverlay(t *testing.T) {
	view := strings.Repeat(strings.Repeat(".", 10)+"\n", 4) + strings.Repeat(".", 10)
	got := strings.Split(ansi.Strip(CenterOverlay(view, []string{"##", "##"}, 10, 5)), "\n")
	if got[1] != "....##...." || got[2] != "....##...." {
		t.Errorf("centered rows = %q, %q", got[1], got[2])
	}
}
