// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gesture

import (
	"sync"
	"time"
)

// DefaultLongPressThreshold is how long a press must be held before it
// becomes a long press.
const DefaultLongPressThreshold = 500 * time.Millisecond

// =============================================================================
// PHASES AND EVENTS
// =============================================================================

// Phase is the detector's position in the press lifecycle.
type Phase int

const (
	Idle Phase = iota
	PressPending
	LongPressing
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case PressPending:
		return "press-pending"
	case LongPressing:
		return "long-pressing"
	default:
		return "unknown"
	}
}

// Event is the classification emitted for an interaction.
type Event int

const (
	Tap Event = iota + 1
	LongPressStart
	LongPressEnd
)

func (e Event) String() string {
	switch e {
	case Tap:
		return "tap"
	case LongPressStart:
		return "long-press-start"
	case LongPressEnd:
		return "long-press-end"
	default:
		return "unknown"
	}
}

// =============================================================================
// DETECTOR
// =============================================================================

// Option configures a Detector.
type Option func(*Detector)

// WithThreshold sets the long-press threshold. Non-positive values keep the
// default.
func WithThreshold(d time.Duration) Option {
	return func(det *Detector) {
		if d > 0 {
			det.threshold = d
		}
	}
}

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(det *Detector) {
		if c != nil {
			det.clock = c
		}
	}
}

// Detector turns press/release/cancel input into Tap, LongPressStart and
// LongPressEnd events.
//
// The emit function is called with the detector's lock held so that events
// are delivered in order even when the threshold timer fires on another
// goroutine. emit must not block and must not call back into the Detector.
type Detector struct {
	mu        sync.Mutex
	clock     Clock
	threshold time.Duration
	emit      func(Event)

	phase Phase
	timer Timer
	// gen identifies the current press; a timer from an older press is stale.
	gen uint64
	// longPressing guards the tap path against a release racing the timer.
	longPressing bool
	closed       bool
}

// New creates a Detector that reports events to emit.
func New(emit func(Event), opts ...Option) *Detector {
	d := &Detector{
		clock:     SystemClock(),
		threshold: DefaultLongPressThreshold,
		emit:      emit,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.emit == nil {
		d.emit = func(Event) {}
	}
	return d
}

// Threshold returns the configured long-press threshold.
func (d *Detector) Threshold() time.Duration {
	return d.threshold
}

// Phase returns the current phase.
func (d *Detector) Phase() Phase {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.phase
}

// Press handles a press-down. A press while one is already in progress is
// ignored.
func (d *Detector) Press() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed || d.phase != Idle {
		return
	}

	d.phase = PressPending
	d.gen++
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.threshold, func() { d.fire(gen) })
}

// Release handles a press-up.
func (d *Detector) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch d.phase {
	case PressPending:
		d.stopTimer()
		d.phase = Idle
		if !d.longPressing {
			d.emit(Tap)
		}
	case LongPressing:
		d.phase = Idle
		d.longPressing = false
		d.emit(LongPressEnd)
	}
}

// Cancel handles a press that was interrupted (pointer left the surface,
// focus lost). It behaves exactly like Release.
func (d *Detector) Cancel() {
	d.Release()
}

// Close stops any pending timer and makes the detector ignore further
// input. An interaction in LongPressing is ended first so listeners see a
// balanced LongPressStart/LongPressEnd pair.
func (d *Detector) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	if d.phase == LongPressing {
		d.longPressing = false
		d.emit(LongPressEnd)
	}
	d.stopTimer()
	d.phase = Idle
	d.closed = true
}

func (d *Detector) fire(gen uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed || gen != d.gen || d.phase != PressPending {
		return
	}
	d.timer = nil
	d.phase = LongPressing
	d.longPressing = true
	d.emit(LongPressStart)
}

func (d *Detector) stopTimer() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
