// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ticker

import (
	"context"
	"sync"
	"time"
)

// MinPeriod is the smallest period a schedule accepts. Shorter periods are
// clamped so a misconfigured cadence cannot spin the CPU.
const MinPeriod = 10 * time.Millisecond

// CancelFunc stops a schedule. It is idempotent and safe to call from any
// goroutine, but it must not be called from inside the schedule's own
// deliver callback.
type CancelFunc func()

// =============================================================================
// SCHEDULE
// =============================================================================

// Schedule runs fn immediately and then every period until cancelled. Runs
// go through the same guard as Poll deliveries, so fn is never called once
// the returned CancelFunc has returned.
func Schedule(period time.Duration, fn func()) CancelFunc {
	return Poll(period, func(context.Context) struct{} {
		return struct{}{}
	}, func(struct{}) {
		fn()
	})
}

// Poll calls fetch immediately and then every period, handing each result to
// deliver. The context passed to fetch is cancelled when the schedule is
// cancelled. Results that arrive after cancellation are dropped, and once
// the returned CancelFunc has returned deliver is never called again.
func Poll[T any](period time.Duration, fetch func(ctx context.Context) T, deliver func(T)) CancelFunc {
	if period < MinPeriod {
		period = MinPeriod
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &schedule[T]{
		ctx:     ctx,
		cancel:  cancel,
		fetch:   fetch,
		deliver: deliver,
	}
	go s.run(period)
	return s.stop
}

type schedule[T any] struct {
	ctx     context.Context
	cancel  context.CancelFunc
	fetch   func(ctx context.Context) T
	deliver func(T)

	// mu serializes deliveries against stop so no delivery can start
	// after stop has returned.
	mu      sync.Mutex
	stopped bool
	once    sync.Once
}

func (s *schedule[T]) run(period time.Duration) {
	s.tick()

	t := time.NewTicker(period)
	defer t.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-t.C:
			s.tick()
		}
	}
}

// tick starts one fetch without waiting for earlier ones to finish.
func (s *schedule[T]) tick() {
	go func() {
		v := s.fetch(s.ctx)
		s.publish(v)
	}()
}

func (s *schedule[T]) publish(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.deliver(v)
}

func (s *schedule[T]) stop() {
	s.once.Do(func() {
		s.mu.Lock()
		s.stopped = true
		s.mu.Unlock()
		s.cancel()
	})
}

// =============================================================================
// GROUP
// =============================================================================

// Group owns a set of schedules and releases them together. The zero value
// is ready to use.
type Group struct {
	mu      sync.Mutex
	cancels []CancelFunc
	stopped bool
}

// Add registers a schedule with the group. If the group has already been
// stopped the schedule is cancelled immediately.
func (g *Group) Add(cancel CancelFunc) {
	if cancel == nil {
		return
	}
	g.mu.Lock()
	if g.stopped {
		g.mu.Unlock()
		cancel()
		return
	}
	g.cancels = append(g.cancels, cancel)
	g.mu.Unlock()
}

// Len returns the number of live schedules in the group.
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.cancels)
}

// Stop cancels every schedule in the group. Later calls are no-ops.
func (g *Group) Stop() {
	g.mu.Lock()
	cancels := g.cancels
	g.cancels = nil
	g.stopped = true
	g.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}
