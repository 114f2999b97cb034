// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import "sync"

// Value holds the latest delivered value and notifies observers when it is
// overwritten. It keeps no history. The zero value is ready to use.
type Value[T any] struct {
	mu   sync.Mutex
	v    T
	set  bool
	next int
	subs map[int]func(T)
}

// Get returns the current value and whether one has been set.
func (v *Value[T]) Get() (T, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.v, v.set
}

// Set overwrites the value and notifies observers. Observers run on the
// caller's goroutine after the lock is released.
func (v *Value[T]) Set(x T) {
	v.mu.Lock()
	v.v = x
	v.set = true
	subs := make([]func(T), 0, len(v.subs))
	for _, fn := range v.subs {
		subs = append(subs, fn)
	}
	v.mu.Unlock()

	for _, fn := range subs {
		fn(x)
	}
}

// Observe registers fn. If a value is already set fn is called with it
// immediately. The returned function removes the observer.
func (v *Value[T]) Observe(fn func(T)) (unobserve func()) {
	v.mu.Lock()
	if v.subs == nil {
		v.subs = make(map[int]func(T))
	}
	id := v.next
	v.next++
	v.subs[id] = fn
	cur, set := v.v, v.set
	v.mu.Unlock()

	if set {
		fn(cur)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			delete(v.subs, id)
			v.mu.Unlock()
		})
	}
}
