// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package eventlog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/bureau-foundation/timeline/lib/codec"
	"github.com/bureau-foundation/timeline/messaging"
)

// Reader reads events from a log one record at a time.
type Reader struct {
	kind    Kind
	lines   *bufio.Reader
	decoder *codec.Decoder
	closers []func() error

	// record is the 1-based number of the last record read, used in
	// error messages.
	record int
}

// Open opens the log at path for reading, detecting its encoding from
// the file name.
func Open(path string) (*Reader, error) {
	kind, err := DetectKind(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	reader, err := NewReader(file, kind)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	reader.closers = append(reader.closers, file.Close)
	return reader, nil
}

// NewReader reads records of the given kind from source. Closing the
// Reader releases decompression state but does not close source.
func NewReader(source io.Reader, kind Kind) (*Reader, error) {
	reader := &Reader{kind: kind}

	switch kind.Compression {
	case CompressionNone:
	case CompressionZstd:
		decompressor, err := zstd.NewReader(source)
		if err != nil {
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		reader.closers = append(reader.closers, func() error {
			decompressor.Close()
			return nil
		})
		source = decompressor
	case CompressionLZ4:
		source = lz4.NewReader(source)
	default:
		return nil, fmt.Errorf("unsupported compression %s", kind.Compression)
	}

	switch kind.Format {
	case FormatJSONL:
		reader.lines = bufio.NewReaderSize(source, 64*1024)
	case FormatCBOR:
		reader.decoder = codec.NewDecoder(source)
	default:
		return nil, fmt.Errorf("unsupported format %s", kind.Format)
	}
	return reader, nil
}

// Kind returns the encoding the reader decodes.
func (reader *Reader) Kind() Kind { return reader.kind }

// Records returns the number of records read so far.
func (reader *Reader) Records() int { return reader.record }

// Next returns the next event. It returns io.EOF after the last
// record. Decode errors name the 1-based record number.
func (reader *Reader) Next() (messaging.Event, error) {
	if reader.decoder != nil {
		return reader.nextCBOR()
	}
	return reader.nextJSONL()
}

func (reader *Reader) nextJSONL() (messaging.Event, error) {
	for {
		line, readErr := reader.lines.ReadBytes('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return messaging.Event{}, fmt.Errorf("after record %d: %w", reader.record, readErr)
		}
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			if readErr != nil {
				return messaging.Event{}, io.EOF
			}
			continue
		}

		reader.record++
		var event messaging.Event
		if err := json.Unmarshal(line, &event); err != nil {
			return messaging.Event{}, fmt.Errorf("record %d: %w", reader.record, err)
		}
		return event, nil
	}
}

func (reader *Reader) nextCBOR() (messaging.Event, error) {
	var event messaging.Event
	err := reader.decoder.Decode(&event)
	if errors.Is(err, io.EOF) {
		return messaging.Event{}, io.EOF
	}
	reader.record++
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return messaging.Event{}, fmt.Errorf("record %d: truncated", reader.record)
		}
		return messaging.Event{}, fmt.Errorf("record %d: %w", reader.record, err)
	}
	return event, nil
}

// Close releases the reader and, for readers from Open, the file.
func (reader *Reader) Close() error {
	var errs []error
	for index := len(reader.closers) - 1; index >= 0; index-- {
		errs = append(errs, reader.closers[index]())
	}
	reader.closers = nil
	return errors.Join(errs...)
}

// ReadAll reads every event from the log at path.
func ReadAll(path string) ([]messaging.Event, error) {
	reader, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	events, err := Collect(reader)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return events, nil
}

// Collect reads events from reader until io.EOF.
func Collect(reader *Reader) ([]messaging.Event, error) {
	var events []messaging.Event
	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return events, nil
		}
		if err != nil {
			return events, err
		}
		events = append(events, event)
	}
}
