// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"github.com/bureau-foundation/timeline/lib/ref"
)

// Event types the timeline understands. Other types pass through
// untouched and classify by content alone.
const (
	EventTypeMessage  ref.EventType = "m.room.message"
	EventTypeMember   ref.EventType = "m.room.member"
	EventTypeReaction ref.EventType = "m.reaction"
	EventTypeRoomName ref.EventType = "m.room.name"
	EventTypeRedact   ref.EventType = "m.room.redaction"
)

// Relation types carried in m.relates_to.rel_type.
const (
	RelAnnotation = "m.annotation"
	RelReplace    = "m.replace"
	RelThread     = "m.thread"
	RelReference  = "m.reference"
)

// Membership values of m.room.member content.
const (
	MembershipJoin   = "join"
	MembershipLeave  = "leave"
	MembershipInvite = "invite"
	MembershipBan    = "ban"
	MembershipKnock  = "knock"
)

// Content keys read by the timeline.
const (
	ContentKeyBody        = "body"
	ContentKeyMembership  = "membership"
	ContentKeyDisplayName = "displayname"
	ContentKeyAvatarURL   = "avatar_url"
	ContentKeyRelatesTo   = "m.relates_to"
	ContentKeyName        = "name"
	ContentKeyFormat      = "format"
	ContentKeyMsgType     = "msgtype"
)

// Event represents a Matrix timeline event.
//
// PrevContent is the legacy top-level location of the previous state
// content; current servers put it under unsigned.prev_content. Use
// [Event.PreviousContent] rather than reading either field directly.
type Event struct {
	EventID        ref.EventID    `json:"event_id"`
	Type           ref.EventType  `json:"type"`
	Sender         ref.UserID     `json:"sender"`
	OriginServerTS int64          `json:"origin_server_ts"`
	Content        map[string]any `json:"content"`
	RoomID         ref.RoomID     `json:"room_id,omitzero"`
	StateKey       *string        `json:"state_key,omitempty"`
	PrevContent    map[string]any `json:"prev_content,omitempty"`
	Unsigned       *EventUnsigned `json:"unsigned,omitempty"`
}

// EventUnsigned holds optional unsigned data attached to events.
type EventUnsigned struct {
	Age           int64          `json:"age,omitempty"`
	TransactionID string         `json:"transaction_id,omitempty"`
	PrevContent   map[string]any `json:"prev_content,omitempty"`
}

// RelatesTo expresses a relationship from one event to another.
//
// For annotations (reactions) RelType is "m.annotation", EventID is
// the annotated message and Key is the reaction key, usually an emoji.
// For threads RelType is "m.thread" and EventID is the thread root.
// For edits RelType is "m.replace". Plain replies carry only InReplyTo.
type RelatesTo struct {
	RelType       string      `json:"rel_type,omitempty"`
	EventID       ref.EventID `json:"event_id,omitzero"`
	Key           string      `json:"key,omitempty"`
	IsFallingBack bool        `json:"is_falling_back,omitempty"`
	InReplyTo     *InReplyTo  `json:"m.in_reply_to,omitempty"`
}

// InReplyTo references the event being replied to.
type InReplyTo struct {
	EventID ref.EventID `json:"event_id"`
}

// MessageContent is the content body of an m.room.message event.
type MessageContent struct {
	MsgType       string     `json:"msgtype"`
	Body          string     `json:"body"`
	Format        string     `json:"format,omitempty"`
	FormattedBody string     `json:"formatted_body,omitempty"`
	RelatesTo     *RelatesTo `json:"m.relates_to,omitempty"`
}

// ReactionContent is the content of an m.reaction event.
type ReactionContent struct {
	RelatesTo RelatesTo `json:"m.relates_to"`
}

// RoomMemberContent is the content of an m.room.member state event.
type RoomMemberContent struct {
	Membership  string `json:"membership"`
	DisplayName string `json:"displayname,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// NewTextMessage creates plain text message content.
func NewTextMessage(body string) MessageContent {
	return MessageContent{
		MsgType: "m.text",
		Body:    body,
	}
}

// NewReaction creates annotation content reacting to target with key.
func NewReaction(target ref.EventID, key string) ReactionContent {
	return ReactionContent{
		RelatesTo: RelatesTo{
			RelType: RelAnnotation,
			EventID: target,
			Key:     key,
		},
	}
}

// RoomMessagesResponse is the body of GET /rooms/{roomId}/messages.
// Saved responses can be imported into an event log.
type RoomMessagesResponse struct {
	Start string  `json:"start"`
	End   string  `json:"end"`
	Chunk []Event `json:"chunk"`
}

// SyncResponse is the top-level body of GET /sync. Only the room
// timeline and state sections are modeled.
type SyncResponse struct {
	NextBatch string       `json:"next_batch"`
	Rooms     RoomsSection `json:"rooms"`
}

// RoomsSection contains per-room sync data grouped by membership state.
// Map keys are room IDs; encoding/json uses ref.RoomID's TextUnmarshaler
// for validation at deserialization.
type RoomsSection struct {
	Join  map[ref.RoomID]JoinedRoom `json:"join,omitempty"`
	Leave map[ref.RoomID]LeftRoom   `json:"leave,omitempty"`
}

// JoinedRoom contains sync data for a room the user has joined.
type JoinedRoom struct {
	Timeline TimelineSection `json:"timeline"`
	State    StateSection    `json:"state"`
}

// LeftRoom contains sync data for a room the user has left.
type LeftRoom struct {
	Timeline TimelineSection `json:"timeline"`
	State    StateSection    `json:"state"`
}

// TimelineSection contains timeline events from a sync response.
// Events in /sync omit room_id; the enclosing map key supplies it.
type TimelineSection struct {
	Events    []Event `json:"events"`
	PrevBatch string  `json:"prev_batch"`
	Limited   bool    `json:"limited"`
}

// StateSection contains state events from a sync response.
type StateSection struct {
	Events []Event `json:"events"`
}
