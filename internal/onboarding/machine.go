// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package onboarding

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// ActionFunc is a side effect attached to a step.
type ActionFunc func(ctx context.Context) error

// Outcome describes what an input did to the machine.
type Outcome int

const (
	// Ignored means the input caused no transition.
	Ignored Outcome = iota
	// Advanced means the machine moved forward one step.
	Advanced
	// Retreated means the machine moved back one step.
	Retreated
	// Completed means the last step was confirmed and the completion hook ran.
	Completed
)

func (o Outcome) String() string {
	switch o {
	case Advanced:
		return "advanced"
	case Retreated:
		return "retreated"
	case Completed:
		return "completed"
	default:
		return "ignored"
	}
}

// Config configures a Machine.
type Config struct {
	Steps []Step
	// Actions maps step action names to their side effects. Steps naming an
	// unregistered action log a warning when left.
	Actions map[string]ActionFunc
	// Complete persists tutorial completion. It runs at most once.
	Complete ActionFunc
	// SwipeThreshold overrides DefaultSwipeThreshold when positive.
	SwipeThreshold float64
	Logger         *zap.Logger
}

// Machine is a single-pass tutorial stepper. It is not safe for concurrent
// use; the UI drives it from its event loop.
type Machine struct {
	steps     []Step
	actions   map[string]ActionFunc
	complete  ActionFunc
	threshold float64
	logger    *zap.Logger

	index int
	done  bool
}

// NewMachine creates a machine positioned on the first step.
func NewMachine(cfg Config) (*Machine, error) {
	if len(cfg.Steps) == 0 {
		return nil, ErrNoSteps
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	threshold := cfg.SwipeThreshold
	if threshold <= 0 {
		threshold = DefaultSwipeThreshold
	}
	return &Machine{
		steps:     append([]Step(nil), cfg.Steps...),
		actions:   cfg.Actions,
		complete:  cfg.Complete,
		threshold: threshold,
		logger:    logger,
	}, nil
}

// Index returns the current step index.
func (m *Machine) Index() int { return m.index }

// Len returns the number of steps.
func (m *Machine) Len() int { return len(m.steps) }

// Current returns the current step.
func (m *Machine) Current() Step { return m.steps[m.index] }

// Done reports whether the tutorial has been completed.
func (m *Machine) Done() bool { return m.done }

// SwipeThreshold returns the displacement a swipe must exceed.
func (m *Machine) SwipeThreshold() float64 { return m.threshold }

// Advance moves forward one step, running the action of the step being
// left. On the last step it runs the completion hook instead and marks the
// machine done. Once done, Advance is a no-op.
func (m *Machine) Advance(ctx context.Context) Outcome {
	if m.done {
		return Ignored
	}

	if m.index == len(m.steps)-1 {
		m.done = true
		if m.complete != nil {
			if err := m.complete(ctx); err != nil {
				m.logger.Warn("failed to persist tutorial completion", zap.Error(err))
			}
		}
		m.logger.Info("tutorial completed", zap.Int("steps", len(m.steps)))
		return Completed
	}

	leaving := m.steps[m.index]
	m.index++
	if leaving.Action != "" {
		m.runAction(ctx, leaving.Action)
	}
	return Advanced
}

// Retreat moves back one step. It never runs side effects.
func (m *Machine) Retreat() Outcome {
	if m.done || m.index == 0 {
		return Ignored
	}
	m.index--
	return Retreated
}

// Tap advances the machine.
func (m *Machine) Tap(ctx context.Context) Outcome {
	return m.Advance(ctx)
}

// Swipe applies a drag displacement: up advances, down retreats.
func (m *Machine) Swipe(ctx context.Context, dx, dy float64) Outcome {
	switch ClassifySwipe(dx, dy, m.threshold) {
	case SwipeUp:
		return m.Advance(ctx)
	case SwipeDown:
		return m.Retreat()
	default:
		return Ignored
	}
}

func (m *Machine) runAction(ctx context.Context, name string) {
	fn, ok := m.actions[name]
	if !ok {
		m.logger.Warn("tutorial step names an unknown action", zap.String("action", name))
		return
	}
	if err := fn(ctx); err != nil {
		m.logger.Warn("tutorial action failed", zap.String("action", name), zap.Error(err))
		return
	}
	m.logger.Debug("tutorial action ran", zap.String("action", name))
}

// Progress returns a short "n/N" label for the current step.
func (m *Machine) Progress() string {
	return fmt.Sprintf("%d/%d", m.index+1, len(m.steps))
}
