// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package onboarding

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed steps.yaml
var defaultStepsYAML []byte

// Step is one screen of the tutorial.
type Step struct {
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle"`
	Extra    string `yaml:"extra,omitempty"`
	// Action names a side effect run when the user moves forward off this
	// step. Empty means none.
	Action string `yaml:"action,omitempty"`
}

type stepsDocument struct {
	Steps []Step `yaml:"steps"`
}

// ErrNoSteps is returned when a steps document declares no steps.
var ErrNoSteps = errors.New("onboarding: no steps defined")

// DefaultSteps returns the built-in tutorial.
func DefaultSteps() []Step {
	steps, err := ParseSteps(defaultStepsYAML)
	if err != nil {
		// The embedded document is covered by tests.
		panic(fmt.Sprintf("onboarding: embedded steps are invalid: %v", err))
	}
	return steps
}

// LoadSteps reads a steps document from path. An empty path returns the
// built-in tutorial.
func LoadSteps(path string) ([]Step, error) {
	if path == "" {
		return DefaultSteps(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read steps file: %w", err)
	}
	steps, err := ParseSteps(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return steps, nil
}

// ParseSteps decodes and validates a YAML steps document.
func ParseSteps(data []byte) ([]Step, error) {
	var doc stepsDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode steps: %w", err)
	}
	if len(doc.Steps) == 0 {
		return nil, ErrNoSteps
	}
	for i := range doc.Steps {
		doc.Steps[i].Action = strings.TrimSpace(doc.Steps[i].Action)
		if strings.TrimSpace(doc.Steps[i].Title) == "" {
			return nil, fmt.Errorf("step %d: title is required", i+1)
		}
	}
	return doc.Steps, nil
}
