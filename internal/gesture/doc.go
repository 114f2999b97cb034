// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gesture classifies pointer interactions on the home screen as a
// tap or a long press.
//
// A Detector moves through three phases:
//
//	Idle --press--> PressPending --threshold--> LongPressing
//	PressPending --release--> Idle   (emits Tap)
//	LongPressing --release--> Idle   (emits LongPressEnd)
//
// Entering LongPressing emits LongPressStart. Every interaction produces
// either exactly one Tap or exactly one LongPressStart/LongPressEnd pair.
// A cancelled press (pointer left the surface, focus lost) is handled
// exactly like a release.
package gesture
