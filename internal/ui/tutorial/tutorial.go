// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tutorial renders the first-run walkthrough and feeds pointer and
// key input into an onboarding.Machine.
package tutorial

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/jeranaias/plates/internal/onboarding"
	"github.com/jeranaias/plates/internal/ui/styles"
)

// DefaultActionTimeout bounds each bridge call a step makes.
const DefaultActionTimeout = 10 * time.Second

// Backend is the slice of the bridge the tutorial calls.
type Backend interface {
	SetAsLauncher(ctx context.Context) error
	RequestPermissions(ctx context.Context) error
	CompleteTutorial(ctx context.Context) error
}

// =============================================================================
// MESSAGES
// =============================================================================

// CompleteMsg is emitted once the last step is confirmed and completion has
// been persisted. Err is informational; the tutorial is over either way.
type CompleteMsg struct {
	Err error
}

// ActionResultMsg reports the outcome of a step action.
type ActionResultMsg struct {
	Action string
	Err    error
}

// =============================================================================
// MODEL
// =============================================================================

// Options configures New.
type Options struct {
	Theme  *styles.Theme
	Logger *zap.Logger
	// SwipeThreshold is the vertical displacement, in units, that turns a
	// drag into a swipe.
	SwipeThreshold float64
	// CellHeight converts terminal rows to units. Columns count as half.
	CellHeight float64
	// ActionTimeout overrides DefaultActionTimeout when positive.
	ActionTimeout time.Duration
}

// cmdQueue collects commands produced by machine side effects during one
// Update call.
type cmdQueue struct {
	cmds []tea.Cmd
}

func (q *cmdQueue) push(cmd tea.Cmd) {
	q.cmds = append(q.cmds, cmd)
}

func (q *cmdQueue) drain() tea.Cmd {
	cmds := q.cmds
	q.cmds = nil
	return tea.Batch(cmds...)
}

// Model is the tutorial screen.
type Model struct {
	machine *onboarding.Machine
	queue   *cmdQueue
	theme   *styles.Theme
	logger  *zap.Logger

	drag       onboarding.SwipeTracker
	pressX     int
	pressY     int
	cellHeight float64

	width  int
	height int
}

// New builds a tutorial over steps. Step actions and completion run
// against backend as commands so the event loop never blocks on them.
func New(steps []onboarding.Step, backend Backend, opts Options) (Model, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme("auto")
	}
	cellHeight := opts.CellHeight
	if cellHeight <= 0 {
		cellHeight = 16
	}
	timeout := opts.ActionTimeout
	if timeout <= 0 {
		timeout = DefaultActionTimeout
	}

	queue := &cmdQueue{}
	call := func(name string, fn func(ctx context.Context) error) onboarding.ActionFunc {
		return func(context.Context) error {
			queue.push(func() tea.Msg {
				ctx, cancel := context.WithTimeout(context.Background(), timeout)
				defer cancel()
				return ActionResultMsg{Action: name, Err: fn(ctx)}
			})
			return nil
		}
	}

	machine, err := onboarding.NewMachine(onboarding.Config{
		Steps: steps,
		Actions: map[string]onboarding.ActionFunc{
			"set_as_launcher":     call("set_as_launcher", backend.SetAsLauncher),
			"request_permissions": call("request_permissions", backend.RequestPermissions),
		},
		Complete: func(context.Context) error {
			queue.push(func() tea.Msg {
				ctx, cancel := context.WithTimeout(context.Background(), timeout)
				defer cancel()
				return CompleteMsg{Err: backend.CompleteTutorial(ctx)}
			})
			return nil
		},
		SwipeThreshold: opts.SwipeThreshold,
		Logger:         logger,
	})
	if err != nil {
		return Model{}, fmt.Errorf("tutorial: %w", err)
	}

	return Model{
		machine:    machine,
		queue:      queue,
		theme:      theme,
		logger:     logger,
		drag:       onboarding.SwipeTracker{Threshold: machine.SwipeThreshold()},
		cellHeight: cellHeight,
	}, nil
}

// Index returns the current step index.
func (m Model) Index() int { return m.machine.Index() }

// Done reports whether the last step has been confirmed.
func (m Model) Done() bool { return m.machine.Done() }

// SetSize sets the display dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init initializes the tutorial.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	ctx := context.Background()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case ActionResultMsg:
		if msg.Err != nil {
			m.logger.Warn("tutorial action failed", zap.String("action", msg.Action), zap.Error(msg.Err))
		} else {
			m.logger.Debug("tutorial action done", zap.String("action", msg.Action))
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", " ", "right", "l", "pgdown":
			m.machine.Advance(ctx)
		case "left", "h", "backspace", "pgup":
			m.machine.Retreat()
		}

	case tea.MouseMsg:
		m.handleMouse(ctx, msg)
	}

	return m, m.queue.drain()
}

func (m *Model) handleMouse(ctx context.Context, msg tea.MouseMsg) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		m.pressX, m.pressY = msg.X, msg.Y
		m.drag.Begin(m.units(msg.X, msg.Y))

	case tea.MouseActionRelease:
		if !m.drag.Active() {
			return
		}
		if msg.X == m.pressX && msg.Y == m.pressY {
			m.drag.Reset()
			m.machine.Tap(ctx)
			return
		}
		dx, dy, ok := m.drag.Release(m.units(msg.X, msg.Y))
		if !ok {
			return
		}
		outcome := m.machine.Swipe(ctx, dx, dy)
		m.logger.Debug("tutorial swipe", zap.Float64("dx", dx), zap.Float64("dy", dy), zap.Stringer("outcome", outcome))
	}
}

// units converts a cell position to swipe units.
func (m *Model) units(col, row int) (float64, float64) {
	return float64(col) * m.cellHeight / 2, float64(row) * m.cellHeight
}

// =============================================================================
// RENDER METHODS
// =============================================================================

// View renders the current step centred on screen.
func (m Model) View() string {
	width, height := m.width, m.height
	if width == 0 {
		width = 80
	}
	if height == 0 {
		height = 24
	}

	boxWidth := 60
	if boxWidth > width-4 {
		boxWidth = width - 4
	}
	if boxWidth < 20 {
		boxWidth = 20
	}
	inner := boxWidth - 10

	step := m.machine.Current()
	sections := []string{
		m.theme.TutorialTitle.Width(inner).Render(step.Title),
		"",
		m.theme.TutorialBody.Width(inner).Render(step.Subtitle),
	}
	if step.Extra != "" {
		sections = append(sections, "", m.theme.Hint.Width(inner).Render(step.Extra))
	}

	next := "Next"
	if m.machine.Index() == m.machine.Len()-1 {
		next = "Get started"
	}
	controls := []string{m.theme.TutorialKey.Render("[Enter/Tap]") + " " + next}
	if m.machine.Index() > 0 {
		controls = append(controls, m.theme.TutorialKey.Render("[Left/Swipe down]")+" Back")
	}
	sections = append(sections,
		"",
		m.theme.TutorialBody.Render(strings.Join(controls, "    ")),
		"",
		m.theme.RenderDots(m.machine.Index(), m.machine.Len())+"  "+m.theme.Hint.Render(m.machine.Progress()),
	)

	box := m.theme.TutorialBox.Width(boxWidth).Render(
		lipgloss.JoinVertical(lipgloss.Center, sections...),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
