// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the plates home screen.

All colors use Lip Gloss AdaptiveColor so the palette follows the terminal
background. The configured theme ("auto", "dark" or "light") decides whether
detection runs or a background is forced.

# Color System (colors.go)

	Purple  - Primary accent, the assistant overlay and selections
	Cyan    - Clock, links and focus
	Emerald - Charging and success states
	Amber   - Low battery and warnings
	Rose    - Errors and critical battery

# Theme System (theme.go)

	theme := styles.NewTheme("auto")
	clock := theme.Clock.Render("9:41 AM")

# Indicators (animations.go)

RenderProgressBar draws the battery gauge, RenderDots draws the onboarding
step indicator, and SpinnerFrames feeds the bubbles spinner shown while the
assistant is thinking.
*/
package styles
