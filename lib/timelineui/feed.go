// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package timelineui

import (
	"context"
	"log/slog"

	"github.com/bureau-foundation/timeline/lib/eventlog"
	"github.com/bureau-foundation/timeline/lib/roomstore"
)

// FollowLog loads the event log at path into store and keeps the store
// in step with the file until ctx is done. The initial load happens
// before FollowLog returns, so the store is populated when the viewer
// first draws.
//
// Compressed logs cannot be followed: they are loaded once and the
// returned channel is already closed. Otherwise the channel closes
// when following stops.
func FollowLog(ctx context.Context, path string, store *roomstore.Store, options eventlog.WatchOptions) (<-chan struct{}, error) {
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	kind, err := eventlog.DetectKind(path)
	if err != nil {
		return nil, err
	}
	done := make(chan struct{})

	if kind.Compression != eventlog.CompressionNone {
		events, err := eventlog.ReadAll(path)
		if err != nil {
			return nil, err
		}
		store.Load(events)
		logger.Info("loaded compressed event log; changes will not be followed",
			"path", path, "kind", kind.String(), "events", len(events))
		close(done)
		return done, nil
	}

	updates, err := eventlog.Watch(ctx, path, options)
	if err != nil {
		return nil, err
	}
	// Watch queues the initial Reset before returning.
	if initial, ok := <-updates; ok {
		store.Load(initial.Events)
	}

	go func() {
		defer close(done)
		for update := range updates {
			if update.Reset {
				store.Load(update.Events)
				logger.Warn("event log was rewritten; reloaded",
					"path", path, "events", len(update.Events))
				continue
			}
			added := store.Apply(update.Events...)
			logger.Debug("applied appended events",
				"path", path, "received", len(update.Events), "added", added)
		}
	}()
	return done, nil
}
