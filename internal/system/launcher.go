// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/jeranaias/plates/internal/util"
)

// DesktopFileName is the autostart entry written by Register.
const DesktopFileName = "plates.desktop"

// ErrUnsupportedPlatform is returned where no autostart mechanism exists.
var ErrUnsupportedPlatform = errors.New("launcher registration is not supported on this platform")

// Launcher registers plates to start with the desktop session through an
// XDG autostart entry.
type Launcher struct {
	Dir  string
	Exec string
	GOOS string
}

// NewLauncher resolves the autostart directory and the running executable.
func NewLauncher() (*Launcher, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable: %w", err)
	}
	dir, err := autostartDir()
	if err != nil {
		return nil, err
	}
	return &Launcher{Dir: dir, Exec: exe, GOOS: runtime.GOOS}, nil
}

func autostartDir() (string, error) {
	if x := os.Getenv("XDG_CONFIG_HOME"); x != "" {
		return filepath.Join(x, "autostart"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "autostart"), nil
}

// Path returns the autostart entry location.
func (l *Launcher) Path() string {
	return filepath.Join(l.Dir, DesktopFileName)
}

// Register writes the autostart entry.
func (l *Launcher) Register() error {
	if l.GOOS != "linux" && l.GOOS != "freebsd" && l.GOOS != "openbsd" {
		return ErrUnsupportedPlatform
	}
	if err := util.AtomicWriteFile(l.Path(), []byte(l.desktopEntry()), 0644); err != nil {
		return fmt.Errorf("failed to write autostart entry: %w", err)
	}
	return nil
}

// IsRegistered reports whether the autostart entry exists.
func (l *Launcher) IsRegistered() bool {
	_, err := os.Stat(l.Path())
	return err == nil
}

// Unregister removes the autostart entry. Missing entries are not an error.
func (l *Launcher) Unregister() error {
	if err := os.Remove(l.Path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove autostart entry: %w", err)
	}
	return nil
}

func (l *Launcher) desktopEntry() string {
	var sb strings.Builder
	sb.WriteString("[Desktop Entry]\n")
	sb.WriteString("Type=Application\n")
	sb.WriteString("Name=plates\n")
	sb.WriteString("Comment=Smart launcher home screen\n")
	sb.WriteString("Exec=" + quoteExec(l.Exec) + "\n")
	sb.WriteString("Terminal=true\n")
	sb.WriteString("X-GNOME-Autostart-enabled=true\n")
	return sb.String()
}

// quoteExec quotes a path for the Exec key when it contains spaces.
func quoteExec(path string) string {
	if !strings.ContainsAny(path, " \t\"") {
		return path
	}
	return `"` + strings.ReplaceAll(path, `"`, `\"`) + `"`
}
