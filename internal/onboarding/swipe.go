// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package onboarding

import "math"

// DefaultSwipeThreshold is the vertical displacement a swipe must exceed.
const DefaultSwipeThreshold = 50.0

// Swipe is the classification of a pointer drag.
type Swipe int

const (
	SwipeNone Swipe = iota
	SwipeUp
	SwipeDown
)

func (s Swipe) String() string {
	switch s {
	case SwipeUp:
		return "up"
	case SwipeDown:
		return "down"
	default:
		return "none"
	}
}

// ClassifySwipe classifies a displacement in screen coordinates (y grows
// downward). Motion that is mostly horizontal, or whose vertical component
// does not exceed threshold, is SwipeNone.
func ClassifySwipe(dx, dy, threshold float64) Swipe {
	if threshold <= 0 {
		threshold = DefaultSwipeThreshold
	}
	if math.Abs(dx) > math.Abs(dy) {
		return SwipeNone
	}
	switch {
	case dy < -threshold:
		return SwipeUp
	case dy > threshold:
		return SwipeDown
	default:
		return SwipeNone
	}
}

// SwipeTracker remembers where a drag began.
type SwipeTracker struct {
	Threshold float64

	active bool
	x, y   float64
}

// Begin records the start of a drag.
func (t *SwipeTracker) Begin(x, y float64) {
	t.active = true
	t.x, t.y = x, y
}

// Active reports whether a drag is in progress.
func (t *SwipeTracker) Active() bool {
	return t.active
}

// End finishes the drag at (x, y) and classifies it. Without a matching
// Begin it returns SwipeNone.
func (t *SwipeTracker) End(x, y float64) Swipe {
	dx, dy, ok := t.Release(x, y)
	if !ok {
		return SwipeNone
	}
	return ClassifySwipe(dx, dy, t.Threshold)
}

// Release finishes the drag at (x, y) and returns its displacement.
func (t *SwipeTracker) Release(x, y float64) (dx, dy float64, ok bool) {
	if !t.active {
		return 0, 0, false
	}
	t.active = false
	return x - t.x, y - t.y, true
}

// Reset abandons the drag in progress.
func (t *SwipeTracker) Reset() {
	t.active = false
}
