// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the standard CBOR encoding configuration for
// timeline data.
//
// Two serialization formats meet here:
//
//   - JSON is the Matrix wire format. Events arrive as JSON, the
//     .jsonl event log stores them as JSON, and CLI --json output is
//     JSON.
//   - CBOR is the compact format: the .cbor event log, annotation
//     index snapshots, and the canonical bytes hashed by event log
//     digests.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer and float encoding, no indefinite-length
// items. The same logical event always produces identical bytes, which
// is what lets a digest computed over a .jsonl log match the digest of
// the same events stored as .cbor.
//
// For buffer-oriented operations (snapshots, digests):
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// For stream-oriented operations (event log records):
//
//	encoder := codec.NewEncoder(file)
//	decoder := codec.NewDecoder(file)
//
// # Struct Tag Rules
//
// Types shared with JSON (messaging.Event, annotation snapshots) carry
// only `json` tags; fxamacker/cbor v2 reads `json` tags when `cbor`
// tags are absent, so one tag names the field in both formats. A
// `cbor` tag marks a type that is never written as JSON. Never put
// both tags on the same field.
package codec
