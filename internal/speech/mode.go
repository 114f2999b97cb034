// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package speech

import (
	"fmt"
	"strings"
)

// Mode selects how recordings are transcribed.
type Mode int

const (
	ModeAuto Mode = iota
	ModeOnline
	ModeOffline
)

func (m Mode) String() string {
	switch m {
	case ModeOnline:
		return "online"
	case ModeOffline:
		return "offline"
	default:
		return "auto"
	}
}

// ParseMode parses "auto", "online" or "offline". Empty means auto.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ModeAuto, nil
	case "online":
		return ModeOnline, nil
	case "offline":
		return ModeOffline, nil
	}
	return ModeAuto, fmt.Errorf("unknown speech mode %q (want auto, online or offline)", s)
}
