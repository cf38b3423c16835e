// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package eventlog stores Matrix timeline events on disk, one record
// per event, and follows logs as they grow.
//
// The file name selects the encoding:
//
//	events.jsonl       JSON lines, the Matrix wire form of each event
//	events.cbor        CBOR sequence (RFC 8742) via lib/codec
//	events.jsonl.zst   either of the above, zstd-compressed
//	events.cbor.lz4    either of the above, LZ4 frame-compressed
//
// [Open] and [Create] detect the encoding from the name; [NewReader]
// and [NewWriter] take it explicitly for streams. Records are events
// in timeline order, oldest first, possibly spanning rooms.
//
// [Digest] hashes a sequence of events independently of the file
// encoding, so two logs holding the same events in different formats
// have the same digest. [Watch] follows an uncompressed log with
// inotify and delivers records appended after the initial read.
//
// [DecodeSync] and [DecodeMessages] convert saved /sync and /messages
// responses into event sequences for import.
package eventlog
