// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package timeline

import (
	"github.com/bureau-foundation/timeline/messaging"
)

// Classify assigns a Kind to event. The predicates overlap (a reply
// has a body and a relation; a profile update has membership "join"),
// so they are evaluated in a fixed order and the first match wins:
//
//  1. text: content "body" is a non-empty string
//  2. annotation: m.relates_to.rel_type is m.annotation
//  3. join: membership "join" with no previous content
//  4. leave: membership "leave"
//  5. displayNameChange: membership "join", displayname changed
//  6. avatarChange: membership "join", avatar_url changed
//  7. unimplemented: everything else
//
// Only content is consulted, never the event type, so an m.room.member
// event whose content carries a body is text. KindInvite, KindReply,
// KindEdit and KindRedaction have no predicate and are never returned.
func Classify(event messaging.Event) Kind {
	if event.ContentString(messaging.ContentKeyBody) != "" {
		return KindText
	}

	if relation, ok := event.Relation(); ok && relation.RelType == messaging.RelAnnotation {
		return KindAnnotation
	}

	membership := event.ContentString(messaging.ContentKeyMembership)
	previous := event.PreviousContent()

	if membership == messaging.MembershipJoin && len(previous) == 0 {
		return KindJoin
	}
	if membership == messaging.MembershipLeave {
		return KindLeave
	}
	if membership == messaging.MembershipJoin {
		if event.ContentString(messaging.ContentKeyDisplayName) != event.PreviousString(messaging.ContentKeyDisplayName) {
			return KindDisplayNameChange
		}
		if event.ContentString(messaging.ContentKeyAvatarURL) != event.PreviousString(messaging.ContentKeyAvatarURL) {
			return KindAvatarChange
		}
	}

	return KindUnimplemented
}
