// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/plates/internal/bridge"
	"github.com/jeranaias/plates/internal/ticker"
)

// DefaultBatteryCadence refreshes battery status every thirty seconds.
const DefaultBatteryCadence = 30 * time.Second

// Battery is the home screen battery indicator.
type Battery struct {
	Level int    `json:"level"`
	State string `json:"state"`
}

// BatteryFallback is used when no battery can be read.
var BatteryFallback = Battery{Level: 100, State: "unknown"}

// BatteryBridge is the part of the bridge the battery provider needs.
type BatteryBridge interface {
	Batteries(ctx context.Context) ([]bridge.BatteryInfo, error)
}

// BatteryProvider reports the first battery.
type BatteryProvider struct {
	b      BatteryBridge
	logger *zap.Logger
}

// NewBattery creates a battery provider.
func NewBattery(b BatteryBridge, logger *zap.Logger) *BatteryProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatteryProvider{b: b, logger: logger}
}

// FetchOnce returns the first battery, or BatteryFallback when the bridge
// fails or reports none.
func (p *BatteryProvider) FetchOnce(ctx context.Context) Battery {
	list, err := p.b.Batteries(ctx)
	if err != nil {
		p.logger.Warn("battery fetch failed", zap.Error(err))
		return BatteryFallback
	}
	if len(list) == 0 {
		return BatteryFallback
	}
	return Battery{Level: list[0].StateOfCharge, State: list[0].State}
}

// Subscribe delivers battery status immediately and then every period.
func (p *BatteryProvider) Subscribe(cb func(Battery), period time.Duration) ticker.CancelFunc {
	if period <= 0 {
		period = DefaultBatteryCadence
	}
	return ticker.Poll(period, p.FetchOnce, cb)
}
