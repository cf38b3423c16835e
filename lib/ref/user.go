// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ref

// UserID is a Matrix user ID such as "@alice:example.org": the sender
// of an event, and an annotating user in the annotation index. Only
// the structure is validated, not the localpart character set.
type UserID struct {
	id    string
	colon int
}

// ParseUserID validates the '@' sigil, a non-empty localpart and a
// server name.
func ParseUserID(raw string) (UserID, error) {
	colon, err := userIDGrammar.split(raw)
	if err != nil {
		return UserID{}, err
	}
	return UserID{id: raw, colon: colon}, nil
}

// MustParseUserID is ParseUserID that panics on invalid input.
func MustParseUserID(raw string) UserID {
	return mustParse("MustParseUserID", raw, ParseUserID)
}

func (u UserID) String() string { return u.id }

// IsZero reports whether u is the zero value ("no user").
func (u UserID) IsZero() bool { return u.id == "" }

// Localpart returns the part between '@' and the server, or "" for the
// zero value.
func (u UserID) Localpart() string {
	if u.id == "" {
		return ""
	}
	return u.id[1:u.colon]
}

// Server returns the user's homeserver, or "" for the zero value.
func (u UserID) Server() string {
	if u.id == "" {
		return ""
	}
	return u.id[u.colon+1:]
}

func (u UserID) MarshalText() ([]byte, error) { return []byte(u.id), nil }

func (u *UserID) UnmarshalText(data []byte) error {
	return unmarshalText(data, u, ParseUserID)
}
