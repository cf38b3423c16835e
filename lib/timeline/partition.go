// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package timeline

import "github.com/bureau-foundation/timeline/messaging"

// Partition splits a room's ordered events into ordinary events (shown
// as timeline lines) and annotation events (folded into reaction
// chips). Relative order is preserved in both results.
func Partition(events []messaging.Event) (ordinary, annotations []messaging.Event) {
	for _, event := range events {
		if Classify(event) == KindAnnotation {
			annotations = append(annotations, event)
		} else {
			ordinary = append(ordinary, event)
		}
	}
	return ordinary, annotations
}
