// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package timeline

import (
	"github.com/bureau-foundation/timeline/lib/ref"
	"github.com/bureau-foundation/timeline/messaging"
)

// Content is the typed view of an event's content for one Kind. The
// concrete types are TextContent, AnnotationContent, MembershipContent
// and RawContent.
type Content interface {
	// Kind reports the classification this content was decoded for.
	Kind() Kind
}

// TextContent is a message with a non-empty body.
type TextContent struct {
	Sender ref.UserID
	Body   string
	// Format is the content's "format" field, typically
	// "org.matrix.custom.html" when a formatted body is present.
	Format string
	// ReplyTo is set when the message carries an m.in_reply_to
	// relation. Replies still classify as text.
	ReplyTo ref.EventID
}

// AnnotationContent is a reaction to another event.
type AnnotationContent struct {
	Sender ref.UserID
	Target ref.EventID
	Key    string
}

// MembershipContent covers joins, leaves and profile changes. Which
// fields are meaningful depends on Change.
type MembershipContent struct {
	Change              Kind
	Sender              ref.UserID
	DisplayName         string
	PreviousDisplayName string
	AvatarURL           string
}

// RawContent is the fallback for unimplemented kinds and for events
// whose required fields are missing. Content is the event's content
// map, shared with the event and never mutated.
type RawContent struct {
	Content map[string]any
}

func (TextContent) Kind() Kind         { return KindText }
func (AnnotationContent) Kind() Kind   { return KindAnnotation }
func (c MembershipContent) Kind() Kind { return c.Change }
func (RawContent) Kind() Kind          { return KindUnimplemented }

// Decode classifies event and extracts the fields its formatter needs.
// An annotation without a parseable target or a key decodes as
// RawContent rather than a half-filled AnnotationContent.
func Decode(event messaging.Event) Content {
	return decode(event, Classify(event))
}

func decode(event messaging.Event, kind Kind) Content {
	switch kind {
	case KindText:
		content := TextContent{
			Sender: event.Sender,
			Body:   event.ContentString(messaging.ContentKeyBody),
			Format: event.ContentString(messaging.ContentKeyFormat),
		}
		if relation, ok := event.Relation(); ok && relation.InReplyTo != nil {
			content.ReplyTo = relation.InReplyTo.EventID
		}
		return content

	case KindAnnotation:
		relation, _ := event.Relation()
		if relation.EventID.IsZero() || relation.Key == "" {
			return RawContent{Content: event.Content}
		}
		return AnnotationContent{
			Sender: event.Sender,
			Target: relation.EventID,
			Key:    relation.Key,
		}

	case KindJoin, KindLeave, KindDisplayNameChange, KindAvatarChange:
		return MembershipContent{
			Change:              kind,
			Sender:              event.Sender,
			DisplayName:         event.ContentString(messaging.ContentKeyDisplayName),
			PreviousDisplayName: event.PreviousString(messaging.ContentKeyDisplayName),
			AvatarURL:           event.ContentString(messaging.ContentKeyAvatarURL),
		}

	default:
		return RawContent{Content: event.Content}
	}
}
