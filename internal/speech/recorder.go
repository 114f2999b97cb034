// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package speech

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"time"
)

// FilePlaceholder is replaced by the output path in recorder and local
// transcriber arguments.
const FilePlaceholder = "{file}"

// stopGrace is how long a recorder gets to flush after an interrupt.
const stopGrace = 3 * time.Second

// Recorder captures audio into a file between Start and Stop.
type Recorder interface {
	Start(path string) error
	Stop() error
}

// CommandRecorder records by running an external program such as
// "arecord -q -f cd -t wav {file}" until it is interrupted.
type CommandRecorder struct {
	Command string
	Args    []string

	mu   sync.Mutex
	cmd  *exec.Cmd
	done chan error
}

// NewCommandRecorder parses a command line. The output path is appended
// when the line has no FilePlaceholder.
func NewCommandRecorder(line string) (*CommandRecorder, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, errors.New("recorder command is empty")
	}
	return &CommandRecorder{Command: fields[0], Args: fields[1:]}, nil
}

// Start launches the recorder writing to path.
func (r *CommandRecorder) Start(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cmd != nil {
		return ErrAlreadyRecording
	}

	cmd := exec.Command(r.Command, expandArgs(r.Args, path)...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start recorder %q: %w", r.Command, err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()
	r.cmd = cmd
	r.done = done
	return nil
}

// Stop interrupts the recorder and waits for it to exit.
func (r *CommandRecorder) Stop() error {
	r.mu.Lock()
	cmd, done := r.cmd, r.done
	r.cmd, r.done = nil, nil
	r.mu.Unlock()

	if cmd == nil {
		return ErrNotRecording
	}

	if runtime.GOOS == "windows" {
		_ = cmd.Process.Kill()
	} else if err := cmd.Process.Signal(os.Interrupt); err != nil {
		_ = cmd.Process.Kill()
	}

	select {
	case <-done:
		// Recorders exit non-zero when interrupted; the file is what matters.
		return nil
	case <-time.After(stopGrace):
		_ = cmd.Process.Kill()
		<-done
		return errors.New("recorder did not stop in time")
	}
}

func expandArgs(args []string, path string) []string {
	out := make([]string, 0, len(args)+1)
	replaced := false
	for _, a := range args {
		if strings.Contains(a, FilePlaceholder) {
			a = strings.ReplaceAll(a, FilePlaceholder, path)
			replaced = true
		}
		out = append(out, a)
	}
	if !replaced {
		out = append(out, path)
	}
	return out
}
