// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"slices"
	"unicode"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// FuzzyResult is the outcome of matching one text against a pattern.
type FuzzyResult struct {
	Matched bool

	// Score ranks matches; higher is better. Zero when the pattern is
	// empty.
	Score int

	// Positions holds the rune offsets in the text of the matched
	// pattern characters, ascending, for highlighting.
	Positions []int
}

// FuzzyMatch matches pattern against text the way fzf does: pattern
// characters must appear in order, not necessarily adjacent, and
// matches at word boundaries score higher. Matching ignores case and
// diacritics. An empty pattern matches everything.
//
// slab is scratch space reused across calls; it may be nil. A slab
// must not be shared between goroutines.
func FuzzyMatch(text string, pattern []rune, slab *util.Slab) FuzzyResult {
	if len(pattern) == 0 {
		return FuzzyResult{Matched: true}
	}
	lowered := make([]rune, len(pattern))
	for index, character := range pattern {
		lowered[index] = unicode.ToLower(character)
	}

	chars := util.ToChars([]byte(text))
	result, positions := algo.FuzzyMatchV2(false, true, true, &chars, lowered, true, slab)
	if result.Start < 0 {
		return FuzzyResult{}
	}

	matched := FuzzyResult{Matched: true, Score: result.Score}
	if positions != nil {
		matched.Positions = slices.Clone(*positions)
		slices.Sort(matched.Positions)
	}
	return matched
}

// NewSlab returns scratch space sized for interactive filtering.
func NewSlab() *util.Slab {
	return util.MakeSlab(100*1024, 2048)
}
