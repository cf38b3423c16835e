// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package eventlog

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"

	"github.com/bureau-foundation/timeline/lib/clock"
	"github.com/bureau-foundation/timeline/messaging"
)

// Update is one delivery from Watch.
type Update struct {
	// Reset is true when Events is the complete log content and
	// replaces everything delivered before: on the first delivery and
	// whenever the log shrank or its earlier records changed.
	Reset bool

	// Events holds the appended records (Reset false) or the whole log
	// (Reset true), oldest first.
	Events []messaging.Event
}

// WatchOptions configures Watch.
type WatchOptions struct {
	// Clock drives the debounce wait. Nil means clock.Real().
	Clock clock.Clock

	// Debounce is how long to wait after a change before re-reading,
	// coalescing bursts of writes. Zero means 50ms.
	Debounce time.Duration

	// Logger receives read errors. Nil discards them.
	Logger *slog.Logger
}

// Watch follows the uncompressed log at path. The first Update is a
// Reset carrying the whole log as read after the inotify watch is in
// place, so no append can fall between the initial read and the
// watch. Later Updates carry appended records.
//
// The watch is on the parent directory for IN_CLOSE_WRITE and
// IN_MOVED_TO on the log's name, which catches both in-place appends
// and atomic replacement by rename. The channel is closed when ctx is
// done or the inotify descriptor fails.
func Watch(ctx context.Context, path string, options WatchOptions) (<-chan Update, error) {
	kind, err := DetectKind(path)
	if err != nil {
		return nil, err
	}
	if kind.Compression != CompressionNone {
		return nil, fmt.Errorf("cannot follow %s log %s", kind, path)
	}
	absolutePath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if options.Clock == nil {
		options.Clock = clock.Real()
	}
	if options.Debounce <= 0 {
		options.Debounce = 50 * time.Millisecond
	}
	if options.Logger == nil {
		options.Logger = slog.New(slog.DiscardHandler)
	}

	fd, err := unix.InotifyInit1(unix.IN_NONBLOCK | unix.IN_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("inotify init: %w", err)
	}
	if _, err := unix.InotifyAddWatch(fd, filepath.Dir(absolutePath), unix.IN_CLOSE_WRITE|unix.IN_MOVED_TO); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("inotify watch %s: %w", filepath.Dir(absolutePath), err)
	}

	initial, err := ReadAll(absolutePath)
	if err != nil {
		unix.Close(fd)
		return nil, err
	}

	updates := make(chan Update, 16)
	updates <- Update{Reset: true, Events: initial}

	follower := &follower{
		fd:        fd,
		path:      absolutePath,
		filename:  filepath.Base(absolutePath),
		options:   options,
		updates:   updates,
		delivered: initial,
	}
	go follower.run(ctx)
	return updates, nil
}

type follower struct {
	fd       int
	path     string
	filename string
	options  WatchOptions
	updates  chan<- Update

	// delivered is the log content as of the last Update.
	delivered []messaging.Event
}

// run polls the inotify descriptor with a 100ms timeout so context
// cancellation is noticed promptly.
func (f *follower) run(ctx context.Context) {
	defer close(f.updates)
	defer unix.Close(f.fd)

	buffer := make([]byte, 4096)
	for {
		if ctx.Err() != nil {
			return
		}

		pollDescriptors := []unix.PollFd{{Fd: int32(f.fd), Events: unix.POLLIN}}
		count, err := unix.Poll(pollDescriptors, 100)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			f.options.Logger.Error("event log watch stopped", "path", f.path, "error", err)
			return
		}
		if count == 0 {
			continue
		}

		bytesRead, err := unix.Read(f.fd, buffer)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				continue
			}
			f.options.Logger.Error("event log watch stopped", "path", f.path, "error", err)
			return
		}
		if !inotifyMatchesFile(buffer[:bytesRead], f.filename) {
			continue
		}

		select {
		case <-f.options.Clock.After(f.options.Debounce):
		case <-ctx.Done():
			return
		}
		drainInotifyEvents(f.fd, buffer)

		current, err := ReadAll(f.path)
		if err != nil {
			// Mid-write or briefly absent during a rename. The write
			// that completes it produces another event.
			f.options.Logger.Debug("event log re-read failed", "path", f.path, "error", err)
			continue
		}

		update, changed := diffLogs(f.delivered, current)
		if !changed {
			continue
		}
		select {
		case f.updates <- update:
			f.delivered = current
		case <-ctx.Done():
			return
		}
	}
}

// diffLogs compares the delivered log content with the current content.
// An append-only change yields the new tail; anything else yields a
// Reset with the full content.
func diffLogs(previous, current []messaging.Event) (Update, bool) {
	if len(current) < len(previous) {
		return Update{Reset: true, Events: current}, true
	}
	if len(previous) > 0 {
		last := len(previous) - 1
		if current[last].EventID != previous[last].EventID || current[0].EventID != previous[0].EventID {
			return Update{Reset: true, Events: current}, true
		}
	}
	if len(current) == len(previous) {
		return Update{}, false
	}
	return Update{Events: current[len(previous):]}, true
}

// inotifyMatchesFile reports whether any event in the buffer names
// targetFilename. Layout from inotify(7):
//
//	struct inotify_event {
//	    int32_t  wd;     // offset 0
//	    uint32_t mask;   // offset 4
//	    uint32_t cookie; // offset 8
//	    uint32_t len;    // offset 12
//	    char     name[]; // offset 16, null-padded to alignment
//	};
func inotifyMatchesFile(buffer []byte, targetFilename string) bool {
	offset := 0
	for offset+unix.SizeofInotifyEvent <= len(buffer) {
		nameLength := int(binary.NativeEndian.Uint32(buffer[offset+12 : offset+16]))
		eventSize := unix.SizeofInotifyEvent + nameLength
		if offset+eventSize > len(buffer) {
			break
		}
		if nameLength > 0 {
			name := nullTerminated(buffer[offset+unix.SizeofInotifyEvent : offset+eventSize])
			if name == targetFilename {
				return true
			}
		}
		offset += eventSize
	}
	return false
}

func nullTerminated(data []byte) string {
	for index, b := range data {
		if b == 0 {
			return string(data[:index])
		}
	}
	return string(data)
}

// drainInotifyEvents discards pending events so a burst of writes
// produces one re-read.
func drainInotifyEvents(fd int, buffer []byte) {
	for {
		if _, err := unix.Read(fd, buffer); err != nil {
			return
		}
	}
}
