// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package timeline

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/bureau-foundation/timeline/lib/ref"
	"github.com/bureau-foundation/timeline/messaging"
)

// FormattedLine is the display form of one event. Renderable is false
// when the event produces nothing to show; Text is then empty.
type FormattedLine struct {
	EventID    ref.EventID `json:"event_id"`
	Kind       Kind        `json:"kind"`
	Text       string      `json:"text,omitempty"`
	Renderable bool        `json:"renderable"`
}

// Format returns the display string for event. memberCount is the
// number of members currently in the event's room: rooms of two or
// fewer are direct conversations and text lines omit the sender.
//
// The boolean is false only for an event that classifies as text but
// has nothing to show.
func Format(event messaging.Event, memberCount int) (string, bool) {
	return FormatContent(Decode(event), memberCount)
}

// FormatContent formats already-decoded content. Format is
// FormatContent(Decode(event), memberCount).
func FormatContent(content Content, memberCount int) (string, bool) {
	switch content := content.(type) {
	case TextContent:
		if content.Body == "" {
			return "", false
		}
		if memberCount <= 2 {
			return content.Body, true
		}
		return content.Sender.String() + ": " + content.Body, true

	case AnnotationContent:
		// Placeholder wording until the target message's text is
		// looked up.
		return fmt.Sprintf("%s replied %s to %s", content.Sender, content.Key, content.Target), true

	case MembershipContent:
		switch content.Change {
		case KindJoin:
			return content.Sender.String() + " joined the room", true
		case KindLeave:
			return content.Sender.String() + " left the room", true
		case KindDisplayNameChange:
			return content.PreviousDisplayName + " changed their display name to " + content.DisplayName, true
		case KindAvatarChange:
			return content.DisplayName + " changed their avatar", true
		}
		return "unimplemented: " + content.Change.String(), true

	case RawContent:
		return "unimplemented: " + compactJSON(content.Content), true
	}
	return "unimplemented", true
}

// FormatLine formats event into a FormattedLine.
func FormatLine(event messaging.Event, memberCount int) FormattedLine {
	content := Decode(event)
	text, ok := FormatContent(content, memberCount)
	return FormattedLine{
		EventID:    event.EventID,
		Kind:       content.Kind(),
		Text:       text,
		Renderable: ok,
	}
}

// compactJSON serializes content with sorted keys, no whitespace and
// no HTML escaping. Content decoded from JSON always re-encodes;
// anything else (a value built in code with an unencodable type) is
// shown with %v.
func compactJSON(content map[string]any) string {
	if content == nil {
		return "{}"
	}
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(content); err != nil {
		return fmt.Sprintf("%v", content)
	}
	return string(bytes.TrimSuffix(buffer.Bytes(), []byte("\n")))
}

// Preview returns a one-line summary of a message body for list
// views: the first line, truncated to maxRunes with a trailing "…".
func Preview(text string, maxRunes int) string {
	for index, r := range text {
		if r == '\n' {
			text = text[:index]
			break
		}
	}
	runes := []rune(text)
	if maxRunes > 0 && len(runes) > maxRunes {
		if maxRunes == 1 {
			return "…"
		}
		return string(runes[:maxRunes-1]) + "…"
	}
	return text
}
