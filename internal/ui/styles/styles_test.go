// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestNewTheme_ForcedModes(t *testing.T) {
	dark := NewTheme("dark")
	if !dark.IsDark {
		t.Error("dark mode should set IsDark")
	}
	light := NewTheme("LIGHT")
	if light.IsDark {
		t.Error("light mode should clear IsDark")
	}
	if light.Clock.Render("9:41") == "" {
		t.Error("Clock style should render")
	}
}

func TestThemeLayoutMode(t *testing.T) {
	theme := NewTheme("dark")

	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{59, LayoutNarrow},
		{60, LayoutMedium},
		{99, LayoutMedium},
		{100, LayoutWide},
	}
	for _, tt := range tests {
		theme.SetSize(tt.width, 24)
		if got := theme.GetLayoutMode(); got != tt.want {
			t.Errorf("width %d: got %v, want %v", tt.width, got, tt.want)
		}
	}
}

func TestRenderProgressBar(t *testing.T) {
	tests := []struct {
		width   int
		percent float64
		want    string
	}{
		{0, 50, ""},
		{10, 0, "----------"},
		{10, 100, "##########"},
		{10, 150, "##########"},
		{10, -5, "----------"},
		{10, 50, "#####-----"},
	}
	for _, tt := range tests {
		if got := RenderProgressBar(tt.width, tt.percent); got != tt.want {
			t.Errorf("RenderProgressBar(%d, %v) = %q, want %q", tt.width, tt.percent, got, tt.want)
		}
	}

	if got := RenderProgressBar(10, 55); len(got) != 10 {
		t.Errorf("partial bar should keep its width, got %q", got)
	}
}

func TestRenderDots(t *testing.T) {
	theme := NewTheme("dark")

	if got := theme.RenderDots(0, 0); got != "" {
		t.Errorf("no steps should render nothing, got %q", got)
	}
	got := theme.RenderDots(1, 3)
	if strings.Count(got, DotFilled) != 1 || strings.Count(got, DotHollow) != 2 {
		t.Errorf("RenderDots(1, 3) = %q", got)
	}
	if strings.Count(theme.RenderDots(3, 3), DotFilled) != 0 {
		t.Error("out of range index should highlight nothing")
	}
}

func TestBatteryColor(t *testing.T) {
	tests := []struct {
		level int
		state string
		want  lipgloss.AdaptiveColor
	}{
		{5, "charging", Emerald},
		{100, "full", Emerald},
		{5, "discharging", Rose},
		{20, "discharging", Amber},
		{80, "discharging", TextSecondary},
		{100, "unknown", TextSecondary},
	}
	for _, tt := range tests {
		if got := BatteryColor(tt.level, tt.state); got != tt.want {
			t.Errorf("BatteryColor(%d, %s) = %v, want %v", tt.level, tt.state, got, tt.want)
		}
	}
}

func TestRenderHelpers(t *testing.T) {
	if !strings.Contains(RenderError("boom"), "boom") {
		t.Error("RenderError should contain the message")
	}
	if !strings.Contains(RenderLink("example.com"), "example.com") {
		t.Error("RenderLink should contain the text")
	}
}
