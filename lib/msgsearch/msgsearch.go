// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package msgsearch

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"unicode"

	"github.com/bureau-foundation/timeline/lib/ref"
	"github.com/bureau-foundation/timeline/lib/timeline"
	"github.com/bureau-foundation/timeline/messaging"
)

// BM25 tuning parameters.
const (
	// k1 controls term frequency saturation. Higher values let
	// repeated terms contribute more before leveling off.
	k1 = 1.2

	// b controls document length normalization. At 1.0, long
	// messages are fully penalized; at 0.0, length is ignored.
	b = 0.75

	// epsilon is the minimum IDF floor. Terms appearing in more than
	// half the messages get negative raw IDF; the floor keeps them
	// contributing a small positive amount instead.
	epsilon = 0.25
)

// Field weights. A field's tokens are repeated this many times in the
// document's composite token list.
const (
	bodyWeight   = 2
	senderWeight = 1
)

// Hit is one message matching a query.
type Hit struct {
	EventID   ref.EventID `json:"event_id"`
	RoomID    ref.RoomID  `json:"room_id"`
	Sender    ref.UserID  `json:"sender"`
	Timestamp int64       `json:"timestamp"`
	Body      string      `json:"body"`
	Score     float64     `json:"score"`
}

// Options narrows a search.
type Options struct {
	// Room limits results to one room. Zero searches every room.
	Room ref.RoomID
	// Limit caps the number of hits. Zero or negative means no cap.
	Limit int
}

// message is one indexed text event.
type message struct {
	hit    Hit
	terms  map[string]int
	length int
}

// Index holds precomputed BM25 statistics over a set of messages.
type Index struct {
	messages      []message
	averageLength float64
	idf           map[string]float64
}

// New indexes the text messages among events. Events that are not text
// messages are skipped, as are repeats of an event ID already indexed
// in the same room.
func New(events []messaging.Event) *Index {
	type key struct {
		room  ref.RoomID
		event ref.EventID
	}
	seen := make(map[key]bool)

	var messages []message
	documentFrequency := make(map[string]int)
	totalLength := 0

	for _, event := range events {
		content, ok := timeline.Decode(event).(timeline.TextContent)
		if !ok {
			continue
		}
		if !event.EventID.IsZero() {
			id := key{event.RoomID, event.EventID}
			if seen[id] {
				continue
			}
			seen[id] = true
		}

		tokens := compositeTokens(content.Body, event.Sender.String())
		terms := make(map[string]int, len(tokens))
		for _, token := range tokens {
			terms[token]++
		}
		for term := range terms {
			documentFrequency[term]++
		}
		totalLength += len(tokens)

		messages = append(messages, message{
			hit: Hit{
				EventID:   event.EventID,
				RoomID:    event.RoomID,
				Sender:    event.Sender,
				Timestamp: event.OriginServerTS,
				Body:      content.Body,
			},
			terms:  terms,
			length: len(tokens),
		})
	}

	index := &Index{
		messages: messages,
		idf:      make(map[string]float64, len(documentFrequency)),
	}
	if len(messages) == 0 {
		return index
	}
	index.averageLength = float64(totalLength) / float64(len(messages))

	count := float64(len(messages))
	for term, frequency := range documentFrequency {
		df := float64(frequency)
		index.idf[term] = max(math.Log((count-df+0.5)/(df+0.5)), epsilon)
	}
	return index
}

// Len returns the number of indexed messages.
func (index *Index) Len() int {
	return len(index.messages)
}

// Search returns the messages matching query, best first. Messages
// with equal scores are ordered newest first. A query with no
// searchable words matches nothing.
func (index *Index) Search(query string, options Options) []Hit {
	queryTerms := Tokenize(query)
	if len(queryTerms) == 0 || len(index.messages) == 0 {
		return nil
	}

	var hits []Hit
	for _, candidate := range index.messages {
		if !options.Room.IsZero() && candidate.hit.RoomID != options.Room {
			continue
		}
		score := index.score(candidate, queryTerms)
		if score <= 0 {
			continue
		}
		hit := candidate.hit
		hit.Score = score
		hits = append(hits, hit)
	}

	slices.SortFunc(hits, func(a, b Hit) int {
		if byScore := cmp.Compare(b.Score, a.Score); byScore != 0 {
			return byScore
		}
		if byTime := cmp.Compare(b.Timestamp, a.Timestamp); byTime != 0 {
			return byTime
		}
		return strings.Compare(a.EventID.String(), b.EventID.String())
	})

	if options.Limit > 0 && len(hits) > options.Limit {
		hits = hits[:options.Limit]
	}
	return hits
}

func (index *Index) score(candidate message, queryTerms []string) float64 {
	length := float64(candidate.length)
	var score float64
	for _, term := range queryTerms {
		frequency := float64(candidate.terms[term])
		if frequency == 0 {
			continue
		}
		numerator := frequency * (k1 + 1)
		denominator := frequency + k1*(1-b+b*length/index.averageLength)
		score += index.idf[term] * numerator / denominator
	}
	return score
}

func compositeTokens(body, sender string) []string {
	var tokens []string
	bodyTokens := Tokenize(body)
	for range bodyWeight {
		tokens = append(tokens, bodyTokens...)
	}
	senderTokens := Tokenize(sender)
	for range senderWeight {
		tokens = append(tokens, senderTokens...)
	}
	return tokens
}

// Tokenize lowercases text and splits it into words: maximal runs of
// letters and digits in any script. Words shorter than two runes are
// dropped.
func Tokenize(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := words[:0]
	for _, word := range words {
		if len([]rune(word)) >= 2 {
			tokens = append(tokens, word)
		}
	}
	return tokens
}
