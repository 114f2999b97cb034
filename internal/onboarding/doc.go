// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package onboarding implements the first-run tutorial as a linear step
// machine.
//
// Steps are fixed for a run and come from an embedded YAML document (or a
// user-supplied file). Moving forward off a step runs that step's named
// action; moving forward off the last step runs the completion hook once
// and finishes the machine. Moving back never has side effects.
//
// Input is a tap (advance) or a vertical swipe whose displacement exceeds
// the swipe threshold: up advances, down retreats. Everything else is
// ignored.
package onboarding
