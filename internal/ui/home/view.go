// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package home

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/plates/internal/gesture"
	"github.com/jeranaias/plates/internal/offline"
	"github.com/jeranaias/plates/internal/ui/styles"
)

const batteryBarWidth = 10

// View renders the tutorial on first run, otherwise the home screen with
// the assistant overlay under the clock.
func (m Model) View() string {
	if m.showTutorial {
		return m.tutorial.View()
	}

	status := m.renderStatusBar()
	hints := m.renderHints()

	center := []string{
		m.theme.Clock.Width(m.width).Render(m.timeData.Time),
		m.theme.Date.Width(m.width).Render(m.timeData.Date),
	}
	if overlay := m.assistant.View(); overlay != "" {
		center = append(center, "", lipgloss.PlaceHorizontal(m.width, lipgloss.Center, overlay))
	}

	bodyHeight := m.height - lipgloss.Height(status) - lipgloss.Height(hints)
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, center...))

	return lipgloss.JoinVertical(lipgloss.Left, status, body, hints)
}

func (m Model) renderStatusBar() string {
	left := m.theme.Weather.Render(m.weather.Temperature)
	if badge := offline.StatusBadge(); badge != "" {
		left += "  " + m.theme.ErrorText.Render(badge)
	}
	if name := m.cfg.Location.Name; name != "" {
		left += "  " + m.theme.Hint.Render(name)
	}

	right := m.renderBattery()

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return m.theme.StatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderBattery() string {
	color := styles.BatteryColor(m.battery.Level, m.battery.State)
	bar := lipgloss.NewStyle().Foreground(color).Render(
		styles.RenderProgressBar(batteryBarWidth, float64(m.battery.Level)),
	)
	label := fmt.Sprintf("%d%%", m.battery.Level)
	if m.battery.State != "" && m.battery.State != "unknown" {
		label += " " + m.battery.State
	}
	return "[" + bar + "] " + m.theme.Battery.Render(label)
}

func (m Model) renderHints() string {
	var hint string
	switch {
	case m.detector.Phase() == gesture.LongPressing:
		hint = m.theme.Listening.Render("Listening... release to send")
	case m.spaceDown:
		hint = "Hold to talk, press space again to release"
	case m.assistant.Visible():
		hint = ""
	default:
		hint = "Hold to talk  |  Tap or Enter to type  |  v voice  |  q quit"
	}
	return m.theme.Hint.Width(m.width).Align(lipgloss.Center).Render(hint)
}
