// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package ref provides validated, immutable Matrix identifiers for
// timeline data: event IDs ($...), room IDs (!...:server), and user IDs
// (@localpart:server), plus the EventType name.
//
// Identifiers are parsed once at the boundary (event log decoding, CLI
// flags) and carried as value types afterwards, so code that indexes
// timelines by room or message never re-validates raw strings. The zero
// value of each type means "absent" and is distinguishable with IsZero;
// an empty JSON string decodes to the zero value rather than failing,
// which lets optional fields like relation targets stay optional.
//
// JSON and CBOR marshaling use the canonical string form via
// encoding.TextMarshaler, so identifiers work as map keys in both
// formats.
package ref
