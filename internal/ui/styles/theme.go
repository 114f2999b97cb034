// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// Home screen
	Clock      lipgloss.Style
	Date       lipgloss.Style
	Weather    lipgloss.Style
	Battery    lipgloss.Style
	StatusBar  lipgloss.Style
	Hint       lipgloss.Style
	Listening  lipgloss.Style
	PressFocus lipgloss.Style

	// Assistant overlay
	OverlayBox    lipgloss.Style
	OverlayTitle  lipgloss.Style
	InputPrompt   lipgloss.Style
	Spinner       lipgloss.Style
	ResultTitle   lipgloss.Style
	ResultLink    lipgloss.Style
	ResultSnippet lipgloss.Style
	Selected      lipgloss.Style
	ErrorText     lipgloss.Style

	// Tutorial
	TutorialBox   lipgloss.Style
	TutorialTitle lipgloss.Style
	TutorialBody  lipgloss.Style
	TutorialKey   lipgloss.Style
	DotActive     lipgloss.Style
	DotInactive   lipgloss.Style
}

// NewTheme creates a theme for mode "auto", "dark" or "light". Anything
// other than dark or light detects the terminal background.
func NewTheme(mode string) *Theme {
	colorProfile := termenv.ColorProfile()

	var isDark bool
	switch strings.ToLower(mode) {
	case "dark":
		isDark = true
		lipgloss.SetHasDarkBackground(true)
	case "light":
		isDark = false
		lipgloss.SetHasDarkBackground(false)
	default:
		isDark = termenv.HasDarkBackground()
	}

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	t.Clock = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan).
		Align(lipgloss.Center)

	t.Date = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Align(lipgloss.Center)

	t.Weather = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Bold(true)

	t.Battery = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.Hint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.Listening = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.PressFocus = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(0, 2)

	// Overlay
	t.OverlayBox = lipgloss.NewStyle().
		Background(Surface).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(1, 2)

	t.OverlayTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.Spinner = lipgloss.NewStyle().
		Foreground(Purple)

	t.ResultTitle = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Bold(true)

	t.ResultLink = lipgloss.NewStyle().
		Foreground(LinkColor).
		Underline(true)

	t.ResultSnippet = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Selected = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(Cyan).
		PaddingLeft(1)

	t.ErrorText = lipgloss.NewStyle().
		Foreground(Rose)

	// Tutorial
	t.TutorialBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Purple).
		Padding(1, 4).
		Align(lipgloss.Center)

	t.TutorialTitle = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.TutorialBody = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.TutorialKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.DotActive = lipgloss.NewStyle().
		Foreground(Purple).
		Bold(true)

	t.DotInactive = lipgloss.NewStyle().
		Foreground(TextMuted)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // >= 100 columns
)
