// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// =============================================================================
// SPINNER
// =============================================================================

// ThinkingSpinner is an ASCII spinner for the assistant overlay.
var ThinkingSpinner = spinner.Spinner{
	Frames: []string{"|", "/", "-", "\\"},
	FPS:    time.Second / 10,
}

// ListeningSpinner pulses while the microphone is open.
var ListeningSpinner = spinner.Spinner{
	Frames: []string{"( )", "(.)", "(o)", "(O)", "(o)", "(.)"},
	FPS:    time.Second / 8,
}

// =============================================================================
// PROGRESS INDICATORS
// =============================================================================

var (
	ProgressFull    = "#"
	ProgressEmpty   = "-"
	ProgressPartial = []string{".", ":", "+"}
)

// RenderProgressBar creates a progress bar string.
// width: total width of the bar in characters
// percent: 0-100 percentage complete
func RenderProgressBar(width int, percent float64) string {
	if width <= 0 {
		return ""
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filledWidth := float64(width) * percent / 100
	fullBlocks := int(filledWidth)
	partialIndex := int((filledWidth - float64(fullBlocks)) * float64(len(ProgressPartial)+1))

	var sb strings.Builder
	sb.Grow(width)

	for i := 0; i < fullBlocks && i < width; i++ {
		sb.WriteString(ProgressFull)
	}
	if fullBlocks < width && partialIndex > 0 {
		sb.WriteString(ProgressPartial[partialIndex-1])
		fullBlocks++
	}
	for i := fullBlocks; i < width; i++ {
		sb.WriteString(ProgressEmpty)
	}
	return sb.String()
}

// Dot characters for the step indicator.
const (
	DotFilled = "●"
	DotHollow = "○"
)

// RenderDots draws one dot per step with the current one highlighted.
// An out-of-range current highlights nothing.
func (t *Theme) RenderDots(current, total int) string {
	if total <= 0 {
		return ""
	}
	dots := make([]string, total)
	for i := range dots {
		if i == current {
			dots[i] = t.DotActive.Render(DotFilled)
		} else {
			dots[i] = t.DotInactive.Render(DotHollow)
		}
	}
	return strings.Join(dots, " ")
}
