// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package home

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/plates/internal/bridge"
	"github.com/jeranaias/plates/internal/config"
	"github.com/jeranaias/plates/internal/gesture"
	"github.com/jeranaias/plates/internal/provider"
)

// ClockMsg carries a fresh time reading.
type ClockMsg provider.TimeData

// WeatherMsg carries fresh weather, or the placeholder.
type WeatherMsg bridge.WeatherData

// BatteryMsg carries a fresh battery reading, or the fallback.
type BatteryMsg provider.Battery

// GestureMsg carries a classified pointer interaction.
type GestureMsg struct {
	Event gesture.Event
}

// ConfigReloadedMsg delivers a config the watcher loaded and validated.
type ConfigReloadedMsg struct {
	Config *config.Config
}

type firstRunMsg struct {
	firstRun bool
	err      error
}

// eventMsg wraps a message that arrived on the event channel.
type eventMsg struct {
	msg tea.Msg
}
