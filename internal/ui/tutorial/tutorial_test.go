// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tutorial

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/plates/internal/bridge/bridgetest"
	"github.com/jeranaias/plates/internal/onboarding"
	"github.com/jeranaias/plates/internal/ui/styles"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

var testSteps = []onboarding.Step{
	{Title: "Welcome", Subtitle: "hello"},
	{Title: "Launcher", Subtitle: "register", Action: "set_as_launcher"},
	{Title: "Permissions", Subtitle: "ask", Action: "request_permissions"},
	{Title: "Done", Subtitle: "bye"},
}

func newModel(t *testing.T, fake *bridgetest.Fake) Model {
	t.Helper()
	m, err := New(testSteps, fake, Options{Theme: styles.NewTheme("dark"), SwipeThreshold: 50, CellHeight: 16})
	require.NoError(t, err)
	m.SetSize(80, 24)
	return m
}

// run executes cmd and every batched command, returning the messages.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func release(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}
}

// =============================================================================
// TESTS
// =============================================================================

func TestNew_RequiresSteps(t *testing.T) {
	_, err := New(nil, &bridgetest.Fake{}, Options{})
	assert.ErrorIs(t, err, onboarding.ErrNoSteps)
}

func TestTutorial_KeysWalkThroughAndComplete(t *testing.T) {
	fake := &bridgetest.Fake{}
	m := newModel(t, fake)

	var msgs []tea.Msg
	var cmd tea.Cmd
	for i := 0; i < len(testSteps)-1; i++ {
		m, cmd = m.Update(key("enter"))
		msgs = append(msgs, run(cmd)...)
	}
	assert.Equal(t, 3, m.Index())
	assert.False(t, m.Done())
	assert.Equal(t, 1, fake.Calls("set_as_launcher"))
	assert.Equal(t, 1, fake.Calls("request_permissions"))
	assert.Contains(t, msgs, ActionResultMsg{Action: "set_as_launcher"})
	assert.Contains(t, msgs, ActionResultMsg{Action: "request_permissions"})

	m, cmd = m.Update(key(" "))
	msgs = run(cmd)
	require.Len(t, msgs, 1)
	assert.Equal(t, CompleteMsg{}, msgs[0])
	assert.True(t, m.Done())
	assert.Equal(t, 1, fake.Calls("complete_tutorial"))

	m, cmd = m.Update(key("enter"))
	assert.Empty(t, run(cmd), "completion fires once")
	assert.Equal(t, 1, fake.Calls("complete_tutorial"))
}

func TestTutorial_BackHasNoSideEffects(t *testing.T) {
	fake := &bridgetest.Fake{}
	m := newModel(t, fake)

	m, _ = m.Update(key("left"))
	assert.Equal(t, 0, m.Index(), "back on first step")

	m, cmd := m.Update(key("enter"))
	run(cmd)
	m, cmd = m.Update(key("enter"))
	run(cmd)
	m, cmd = m.Update(key("h"))
	assert.Nil(t, cmd)
	assert.Equal(t, 1, m.Index())
	assert.Equal(t, 1, fake.Calls("set_as_launcher"))
}

func TestTutorial_FailingActionIsReported(t *testing.T) {
	fake := &bridgetest.Fake{LauncherErr: errors.New("no autostart")}
	m := newModel(t, fake)

	m, cmd := m.Update(key("enter"))
	m, cmd = m.Update(key("enter"))
	msgs := run(cmd)
	require.Len(t, msgs, 1)
	result := msgs[0].(ActionResultMsg)
	assert.Equal(t, "set_as_launcher", result.Action)
	assert.EqualError(t, result.Err, "no autostart")

	m, cmd = m.Update(result)
	assert.Nil(t, cmd)
	assert.Equal(t, 2, m.Index(), "failure does not block progress")
}

func TestTutorial_CompletionErrorStillCompletes(t *testing.T) {
	fake := &bridgetest.Fake{CompleteErr: errors.New("disk full")}
	m, err := New(testSteps[:1], fake, Options{Theme: styles.NewTheme("dark")})
	require.NoError(t, err)

	m, cmd := m.Update(key("enter"))
	msgs := run(cmd)
	require.Len(t, msgs, 1)
	done := msgs[0].(CompleteMsg)
	assert.EqualError(t, done.Err, "disk full")
	assert.True(t, m.Done())
}

func TestTutorial_MouseTapAdvances(t *testing.T) {
	m := newModel(t, &bridgetest.Fake{})

	m, _ = m.Update(press(10, 10))
	m, _ = m.Update(release(10, 10))
	assert.Equal(t, 1, m.Index())
}

func TestTutorial_MouseSwipe(t *testing.T) {
	m := newModel(t, &bridgetest.Fake{})

	// 4 rows * 16 = 64 units up: advance.
	m, _ = m.Update(press(10, 12))
	m, _ = m.Update(release(10, 8))
	assert.Equal(t, 1, m.Index())

	// 3 rows * 16 = 48 units: below threshold.
	m, _ = m.Update(press(10, 12))
	m, _ = m.Update(release(10, 9))
	assert.Equal(t, 1, m.Index(), "sub-threshold swipe ignored")

	// Horizontal-dominant: 20 cols * 8 = 160 vs 64.
	m, _ = m.Update(press(10, 12))
	m, _ = m.Update(release(30, 8))
	assert.Equal(t, 1, m.Index(), "horizontal swipe ignored")

	// 4 rows down: retreat.
	m, _ = m.Update(press(10, 8))
	m, _ = m.Update(release(10, 12))
	assert.Equal(t, 0, m.Index())
}

func TestTutorial_ReleaseWithoutPressIgnored(t *testing.T) {
	m := newModel(t, &bridgetest.Fake{})

	m, _ = m.Update(release(10, 10))
	assert.Equal(t, 0, m.Index())

	m, _ = m.Update(tea.MouseMsg{X: 1, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	m, _ = m.Update(release(1, 1))
	assert.Equal(t, 0, m.Index(), "right button does not start a drag")
}

func TestTutorial_View(t *testing.T) {
	m := newModel(t, &bridgetest.Fake{})

	view := m.View()
	assert.Contains(t, view, "Welcome")
	assert.Contains(t, view, "1/4")
	assert.NotContains(t, view, "Back")

	m, _ = m.Update(key("enter"))
	view = m.View()
	assert.Contains(t, view, "Launcher")
	assert.Contains(t, view, "Back")

	for i := 0; i < 2; i++ {
		m, _ = m.Update(key("enter"))
	}
	assert.True(t, strings.Contains(m.View(), "Get started"))
}
