// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"context"
	"time"

	"github.com/jeranaias/plates/internal/ticker"
)

const (
	// DefaultTimeCadence refreshes the clock every second.
	DefaultTimeCadence = time.Second

	// TimeLayout renders "3:04 PM".
	TimeLayout = "3:04 PM"
	// TimeLayout24 renders "15:04".
	TimeLayout24 = "15:04"
	// DateLayout renders "Monday, January 2".
	DateLayout = "Monday, January 2"
)

// TimeData is the formatted local time and date.
type TimeData struct {
	Time string    `json:"time"`
	Date string    `json:"date"`
	At   time.Time `json:"-"`
}

// TimeProvider formats the local clock.
type TimeProvider struct {
	now    func() time.Time
	layout string
}

// NewTime returns a provider using the system clock and 12-hour layout.
func NewTime() *TimeProvider {
	return &TimeProvider{now: time.Now, layout: TimeLayout}
}

// WithClock replaces the clock source.
func (p *TimeProvider) WithClock(now func() time.Time) *TimeProvider {
	if now != nil {
		p.now = now
	}
	return p
}

// With24Hour switches to the 24-hour layout.
func (p *TimeProvider) With24Hour(on bool) *TimeProvider {
	p.layout = TimeLayout
	if on {
		p.layout = TimeLayout24
	}
	return p
}

// FetchOnce returns the current time. It cannot fail.
func (p *TimeProvider) FetchOnce(context.Context) TimeData {
	t := p.now()
	return TimeData{Time: t.Format(p.layout), Date: t.Format(DateLayout), At: t}
}

// Subscribe delivers the time immediately and then every period.
func (p *TimeProvider) Subscribe(cb func(TimeData), period time.Duration) ticker.CancelFunc {
	if period <= 0 {
		period = DefaultTimeCadence
	}
	return ticker.Poll(period, p.FetchOnce, cb)
}
