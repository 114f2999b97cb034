// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package system

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/jeranaias/plates/internal/offline"
)

// Runner starts an external command.
type Runner func(ctx context.Context, name string, args ...string) error

// StartDetached runs name without waiting for it to finish.
func StartDetached(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait()
	return nil
}

// Opener opens URLs with the platform handler.
type Opener struct {
	GOOS string
	Run  Runner
}

// NewOpener returns an Opener for the current platform.
func NewOpener() *Opener {
	return &Opener{GOOS: runtime.GOOS, Run: StartDetached}
}

// Open validates rawURL and hands it to the platform opener.
func (o *Opener) Open(ctx context.Context, rawURL string) error {
	if err := offline.ValidateLink(rawURL); err != nil {
		return err
	}

	name, args := openCommand(o.GOOS, strings.TrimSpace(rawURL))
	if err := o.Run(context.WithoutCancel(ctx), name, args...); err != nil {
		return fmt.Errorf("failed to open URL: %w", err)
	}
	return nil
}

func openCommand(goos, target string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{target}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}
	default:
		return "xdg-open", []string{target}
	}
}
