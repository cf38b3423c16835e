// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"slices"
	"testing"
)

func TestFuzzyMatchSubstring(t *testing.T) {
	result := FuzzyMatch("Release planning", []rune("plan"), nil)
	if !result.Matched || result.Score <= 0 {
		t.Fatalf("expected a scored match, got %+v", result)
	}
	if !slices.Equal(result.Positions, []int{8, 9, 10, 11}) {
		t.Errorf("positions = %v, want [8 9 10 11]", result.Positions)
	}
}

func TestFuzzyMatchNonContiguous(t *testing.T) {
	result := FuzzyMatch("!general:example.org", []rune("gnl"), nil)
	if !result.Matched {
		t.Fatal("expected non-contiguous match")
	}
	if !slices.IsSorted(result.Positions) || len(result.Positions) != 3 {
		t.Errorf("positions = %v, want three ascending offsets", result.Positions)
	}
}

func TestFuzzyMatchNoMatch(t *testing.T) {
	result := FuzzyMatch("Release planning", []rune("xyz"), nil)
	if result.Matched || result.Score != 0 || len(result.Positions) != 0 {
		t.Errorf("expected no match, got %+v", result)
	}
}

func TestFuzzyMatchIgnoresCase(t *testing.T) {
	for _, pattern := range []string{"ops", "OPS", "Ops"} {
		if result := FuzzyMatch("OPS ALERTS", []rune(pattern), nil); !result.Matched {
			t.Errorf("pattern %q did not match", pattern)
		}
	}
}

func TestFuzzyMatchEmptyPattern(t *testing.T) {
	result := FuzzyMatch("anything", nil, nil)
	if !result.Matched || result.Score != 0 {
		t.Errorf("empty pattern: got %+v, want unscored match", result)
	}
}

func TestFuzzyMatchPrefersBoundaries(t *testing.T) {
	slab := NewSlab()
	boundary := FuzzyMatch("dev ops", []rune("do"), slab)
	inner := FuzzyMatch("random", []rune("do"), slab)
	if !boundary.Matched || !inner.Matched {
		t.Fatalf("both should match: %+v %+v", boundary, inner)
	}
	if boundary.Score <= inner.Score {
		t.Errorf("word-boundary score %d should exceed inner score %d", boundary.Score, inner.Score)
	}
}
