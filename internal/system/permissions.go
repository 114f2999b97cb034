// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package system

import (
	"errors"
	"os/exec"
	"strings"
)

var (
	// ErrMicrophoneUnavailable means the recorder command cannot be found.
	ErrMicrophoneUnavailable = errors.New("microphone unavailable: recorder command not found")

	// ErrLocationUnset means no coordinates are configured.
	ErrLocationUnset = errors.New("location unavailable: set [location] in config")
)

// Permissions reports which device capabilities plates can use.
type Permissions struct {
	Microphone bool `json:"microphone"`
	Location   bool `json:"location"`
}

// LookPath finds an executable; replaceable in tests.
type LookPath func(file string) (string, error)

// CheckPermissions reports microphone and location availability. A
// terminal has no permission prompts, so "granting" means the recorder is
// installed and coordinates are configured. The returned error joins every
// missing capability.
func CheckPermissions(recorderCommand string, haveLocation bool, look LookPath) (Permissions, error) {
	if look == nil {
		look = exec.LookPath
	}

	var p Permissions
	var errs []error

	if fields := strings.Fields(recorderCommand); len(fields) > 0 {
		if _, err := look(fields[0]); err == nil {
			p.Microphone = true
		}
	}
	if !p.Microphone {
		errs = append(errs, ErrMicrophoneUnavailable)
	}

	p.Location = haveLocation
	if !haveLocation {
		errs = append(errs, ErrLocationUnset)
	}
	return p, errors.Join(errs...)
}
