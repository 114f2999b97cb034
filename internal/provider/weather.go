// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/plates/internal/bridge"
	"github.com/jeranaias/plates/internal/ticker"
)

// DefaultWeatherCadence refreshes weather every ten minutes.
const DefaultWeatherCadence = 10 * time.Minute

// WeatherPlaceholder is shown whenever weather cannot be fetched.
var WeatherPlaceholder = bridge.WeatherData{Temperature: "--°F", Icon: ""}

// ErrNoLocation is returned by a Locator without coordinates.
var ErrNoLocation = errors.New("location not configured")

// Locator resolves the device position.
type Locator interface {
	Locate(ctx context.Context) (lat, lon float64, err error)
}

// StaticLocation is a fixed, configured position. The zero value has no
// location.
type StaticLocation struct {
	Lat, Lon float64
	Known    bool
}

// Locate implements Locator.
func (s StaticLocation) Locate(context.Context) (float64, float64, error) {
	if !s.Known {
		return 0, 0, ErrNoLocation
	}
	return s.Lat, s.Lon, nil
}

// WeatherBridge is the part of the bridge the weather provider needs.
type WeatherBridge interface {
	GetWeather(ctx context.Context, lat, lon float64) (bridge.WeatherData, error)
}

// WeatherProvider combines a locator with the bridge weather command.
type WeatherProvider struct {
	b       WeatherBridge
	locator Locator
	logger  *zap.Logger
}

// NewWeather creates a weather provider.
func NewWeather(b WeatherBridge, locator Locator, logger *zap.Logger) *WeatherProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	if locator == nil {
		locator = StaticLocation{}
	}
	return &WeatherProvider{b: b, locator: locator, logger: logger}
}

// FetchOnce returns current weather or WeatherPlaceholder on any failure.
func (p *WeatherProvider) FetchOnce(ctx context.Context) bridge.WeatherData {
	lat, lon, err := p.locator.Locate(ctx)
	if err != nil {
		p.logger.Debug("weather location unavailable", zap.Error(err))
		return WeatherPlaceholder
	}
	w, err := p.b.GetWeather(ctx, lat, lon)
	if err != nil {
		p.logger.Warn("weather fetch failed", zap.Error(err))
		return WeatherPlaceholder
	}
	return w
}

// Subscribe delivers weather immediately and then every period.
func (p *WeatherProvider) Subscribe(cb func(bridge.WeatherData), period time.Duration) ticker.CancelFunc {
	if period <= 0 {
		period = DefaultWeatherCadence
	}
	return ticker.Poll(period, p.FetchOnce, cb)
}
