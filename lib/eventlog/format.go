// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package eventlog

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies the record encoding of an event log.
type Format uint8

const (
	// FormatJSONL stores one JSON object per line. Blank lines are
	// skipped on read.
	FormatJSONL Format = iota

	// FormatCBOR stores a CBOR sequence: one deterministic CBOR map
	// per event, concatenated with no framing.
	FormatCBOR
)

// String returns the human-readable name of a format.
func (format Format) String() string {
	switch format {
	case FormatJSONL:
		return "jsonl"
	case FormatCBOR:
		return "cbor"
	default:
		return fmt.Sprintf("unknown(%d)", format)
	}
}

// ParseFormat parses a format from its string representation. "json"
// is accepted as a synonym for "jsonl".
func ParseFormat(name string) (Format, error) {
	switch name {
	case "jsonl", "json":
		return FormatJSONL, nil
	case "cbor":
		return FormatCBOR, nil
	default:
		return 0, fmt.Errorf("unknown event log format: %q", name)
	}
}

// Compression identifies the stream compression wrapped around the
// records.
type Compression uint8

const (
	// CompressionNone stores records as-is. Only uncompressed logs
	// can be appended to and followed with Watch.
	CompressionNone Compression = iota

	// CompressionZstd wraps the records in a zstd stream. Better
	// ratio for archived logs.
	CompressionZstd

	// CompressionLZ4 wraps the records in an LZ4 frame. Faster to
	// read back than zstd at a lower ratio.
	CompressionLZ4
)

// String returns the human-readable name of a compression.
func (compression Compression) String() string {
	switch compression {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", compression)
	}
}

// ParseCompression parses a compression from its string
// representation.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "none", "":
		return CompressionNone, nil
	case "zstd", "zst":
		return CompressionZstd, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("unknown compression: %q", name)
	}
}

// Kind is the complete encoding of a log file.
type Kind struct {
	Format      Format
	Compression Compression
}

func (kind Kind) String() string {
	if kind.Compression == CompressionNone {
		return kind.Format.String()
	}
	return kind.Format.String() + "+" + kind.Compression.String()
}

// Extension returns the file name suffix for the kind, including the
// leading dot.
func (kind Kind) Extension() string {
	extension := ".jsonl"
	if kind.Format == FormatCBOR {
		extension = ".cbor"
	}
	switch kind.Compression {
	case CompressionZstd:
		extension += ".zst"
	case CompressionLZ4:
		extension += ".lz4"
	}
	return extension
}

// DetectKind derives the encoding from a file name: an optional
// ".zst" or ".lz4" suffix, preceded by ".jsonl", ".json" or ".cbor".
func DetectKind(path string) (Kind, error) {
	name := strings.ToLower(filepath.Base(path))

	var kind Kind
	switch {
	case strings.HasSuffix(name, ".zst"):
		kind.Compression = CompressionZstd
		name = strings.TrimSuffix(name, ".zst")
	case strings.HasSuffix(name, ".lz4"):
		kind.Compression = CompressionLZ4
		name = strings.TrimSuffix(name, ".lz4")
	}

	switch {
	case strings.HasSuffix(name, ".jsonl"), strings.HasSuffix(name, ".json"):
		kind.Format = FormatJSONL
	case strings.HasSuffix(name, ".cbor"):
		kind.Format = FormatCBOR
	default:
		return Kind{}, fmt.Errorf("cannot determine event log format of %q: want .jsonl or .cbor, optionally followed by .zst or .lz4", path)
	}
	return kind, nil
}
