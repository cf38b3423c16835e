// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package timeline

import "fmt"

// Kind is the semantic category of a timeline event. Exactly one Kind
// is assigned per event; it is derived on demand and never stored.
type Kind int

const (
	KindUnimplemented Kind = iota
	KindText
	KindAnnotation
	KindJoin
	KindLeave
	KindInvite
	KindDisplayNameChange
	KindAvatarChange
	KindReply
	KindEdit
	KindRedaction
)

var kindNames = [...]string{
	KindUnimplemented:     "unimplemented",
	KindText:              "text",
	KindAnnotation:        "annotation",
	KindJoin:              "join",
	KindLeave:             "leave",
	KindInvite:            "invite",
	KindDisplayNameChange: "displayNameChange",
	KindAvatarChange:      "avatarChange",
	KindReply:             "reply",
	KindEdit:              "edit",
	KindRedaction:         "redaction",
}

// Kinds lists every kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, len(kindNames))
	for index := range kindNames {
		kinds[index] = Kind(index)
	}
	return kinds
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// IsMembership reports whether the kind describes a change to room
// membership or a member's profile. These are the lines hidden when
// membership events are switched off.
func (k Kind) IsMembership() bool {
	switch k {
	case KindJoin, KindLeave, KindInvite, KindDisplayNameChange, KindAvatarChange:
		return true
	}
	return false
}

// ParseKind returns the Kind named by s, using the names String
// produces.
func ParseKind(s string) (Kind, error) {
	for index, name := range kindNames {
		if name == s {
			return Kind(index), nil
		}
	}
	return KindUnimplemented, fmt.Errorf("unknown event kind %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(kindNames) {
		return nil, fmt.Errorf("invalid event kind %d", int(k))
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(data []byte) error {
	parsed, err := ParseKind(string(data))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
