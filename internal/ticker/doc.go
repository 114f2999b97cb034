// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ticker provides the periodic-callback utility the home screen
// providers are built on.
//
// A schedule delivers once immediately and then once per period until its
// CancelFunc is called. Ticks are never coalesced: a slow fetch does not
// delay or suppress the next tick, and results land last-write-wins.
//
// # Usage
//
//	cancel := ticker.Poll(time.Second, fetchClock, func(v Clock) {
//	    program.Send(ClockMsg(v))
//	})
//	defer cancel()
//
// Owners that hold several schedules collect them in a Group and release
// them together on teardown.
package ticker
