// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package eventlog

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/bureau-foundation/timeline/lib/codec"
	"github.com/bureau-foundation/timeline/messaging"
)

// Writer appends events to a log. Records are buffered; Close flushes
// them and finishes the compression stream.
type Writer struct {
	kind        Kind
	buffered    *bufio.Writer
	jsonEncoder *json.Encoder
	cborEncoder *codec.Encoder
	closers     []func() error
	records     int
}

// Create creates (or truncates) the log at path, detecting its
// encoding from the file name.
func Create(path string) (*Writer, error) {
	kind, err := DetectKind(path)
	if err != nil {
		return nil, err
	}
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	writer, err := NewWriter(file, kind)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	writer.closers = append(writer.closers, file.Close)
	return writer, nil
}

// OpenAppend opens an existing uncompressed log for appending, creating
// it when absent. Compressed logs cannot be appended to.
func OpenAppend(path string) (*Writer, error) {
	kind, err := DetectKind(path)
	if err != nil {
		return nil, err
	}
	if kind.Compression != CompressionNone {
		return nil, fmt.Errorf("cannot append to %s log %s", kind, path)
	}
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	writer, err := NewWriter(file, kind)
	if err != nil {
		file.Close()
		return nil, err
	}
	writer.closers = append(writer.closers, file.Close)
	return writer, nil
}

// NewWriter writes records of the given kind to destination. Closing
// the Writer flushes and finishes compression but does not close
// destination.
func NewWriter(destination io.Writer, kind Kind) (*Writer, error) {
	writer := &Writer{kind: kind}

	switch kind.Compression {
	case CompressionNone:
	case CompressionZstd:
		compressor, err := zstd.NewWriter(destination, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("zstd writer: %w", err)
		}
		writer.closers = append(writer.closers, compressor.Close)
		destination = compressor
	case CompressionLZ4:
		compressor := lz4.NewWriter(destination)
		writer.closers = append(writer.closers, compressor.Close)
		destination = compressor
	default:
		return nil, fmt.Errorf("unsupported compression %s", kind.Compression)
	}

	writer.buffered = bufio.NewWriter(destination)
	switch kind.Format {
	case FormatJSONL:
		writer.jsonEncoder = json.NewEncoder(writer.buffered)
		writer.jsonEncoder.SetEscapeHTML(false)
	case FormatCBOR:
		writer.cborEncoder = codec.NewEncoder(writer.buffered)
	default:
		return nil, fmt.Errorf("unsupported format %s", kind.Format)
	}
	return writer, nil
}

// Write appends one event.
func (writer *Writer) Write(event messaging.Event) error {
	var err error
	if writer.cborEncoder != nil {
		err = writer.cborEncoder.Encode(event)
	} else {
		// json.Encoder terminates each value with a newline.
		err = writer.jsonEncoder.Encode(event)
	}
	if err != nil {
		return fmt.Errorf("record %d: %w", writer.records+1, err)
	}
	writer.records++
	return nil
}

// WriteAll appends every event in order.
func (writer *Writer) WriteAll(events []messaging.Event) error {
	for _, event := range events {
		if err := writer.Write(event); err != nil {
			return err
		}
	}
	return nil
}

// Records returns the number of events written.
func (writer *Writer) Records() int { return writer.records }

// Flush pushes buffered records to the underlying stream. For
// compressed logs the data may remain in the compressor until Close.
func (writer *Writer) Flush() error {
	return writer.buffered.Flush()
}

// Close flushes buffered records, finishes compression, and for
// writers from Create or OpenAppend closes the file.
func (writer *Writer) Close() error {
	errs := []error{writer.buffered.Flush()}
	for _, closer := range writer.closers {
		errs = append(errs, closer())
	}
	writer.closers = nil
	return errors.Join(errs...)
}

// WriteFile writes events to a new log at path, replacing any existing
// file.
func WriteFile(path string, events []messaging.Event) error {
	writer, err := Create(path)
	if err != nil {
		return err
	}
	if err := writer.WriteAll(events); err != nil {
		writer.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return writer.Close()
}

// Convert copies every event from the log at source to a new log at
// destination, re-encoding as the destination's name requires. It
// returns the number of events copied.
//
// Records go to a temporary file beside destination, which is renamed
// into place only after every record was copied. On failure the
// destination is left as it was.
func Convert(source, destination string) (int, error) {
	sourceAbsolute, err := filepath.Abs(source)
	if err != nil {
		return 0, err
	}
	destinationAbsolute, err := filepath.Abs(destination)
	if err != nil {
		return 0, err
	}
	if sourceAbsolute == destinationAbsolute {
		return 0, fmt.Errorf("convert: source and destination are the same file %s", source)
	}
	kind, err := DetectKind(destination)
	if err != nil {
		return 0, err
	}

	reader, err := Open(source)
	if err != nil {
		return 0, err
	}
	defer reader.Close()

	tmpFile, err := os.CreateTemp(filepath.Dir(destinationAbsolute), "."+filepath.Base(destination)+"-*.tmp")
	if err != nil {
		return 0, fmt.Errorf("creating temp file for %s: %w", destination, err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	writer, err := NewWriter(tmpFile, kind)
	if err != nil {
		tmpFile.Close()
		return 0, fmt.Errorf("creating %s: %w", destination, err)
	}
	writer.closers = append(writer.closers, tmpFile.Close)

	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			writer.Close()
			return writer.Records(), fmt.Errorf("%s: %w", source, err)
		}
		if err := writer.Write(event); err != nil {
			writer.Close()
			return writer.Records(), fmt.Errorf("%s: %w", destination, err)
		}
	}
	if err := writer.Close(); err != nil {
		return writer.Records(), fmt.Errorf("%s: %w", destination, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return writer.Records(), err
	}
	if err := os.Rename(tmpPath, destination); err != nil {
		return writer.Records(), fmt.Errorf("renaming converted log to %s: %w", destination, err)
	}
	success = true
	return writer.Records(), nil
}
