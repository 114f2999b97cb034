// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"errors"
	"testing"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/plates/internal/bridge"
	"github.com/jeranaias/plates/internal/bridge/bridgetest"
	"github.com/jeranaias/plates/internal/ui/styles"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func newModel(t *testing.T, fake *bridgetest.Fake) Model {
	t.Helper()
	m := New(fake, Options{Theme: styles.NewTheme("dark"), MarkdownStyle: "notty"})
	m.SetSize(100, 40)
	// A blinking cursor schedules timed commands.
	m.input.Cursor.SetMode(cursor.CursorStatic)
	return m
}

// ready returns a model whose speech-to-text initialised successfully.
func ready(t *testing.T, fake *bridgetest.Fake) Model {
	t.Helper()
	m := newModel(t, fake)
	m, _ = pump(m, m.Init())
	return m
}

// collect runs cmd and its batches, dropping spinner and cursor ticks.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, collect(c)...)
		}
		return out
	case spinner.TickMsg:
		return nil
	case sttStatusMsg, recordingStartedMsg, transcriptMsg, ResponseMsg, searchMsg, linkOpenedMsg:
		return []tea.Msg{msg}
	default:
		// Cursor blink and other widget housekeeping.
		return nil
	}
}

// pump runs cmd and feeds its messages back until the model settles.
func pump(m Model, cmd tea.Cmd) (Model, []tea.Msg) {
	var seen []tea.Msg
	queue := collect(cmd)
	for len(queue) > 0 {
		msg := queue[0]
		queue = queue[1:]
		seen = append(seen, msg)
		var next tea.Cmd
		m, next = m.Update(msg)
		queue = append(queue, collect(next)...)
	}
	return m, seen
}

func send(m Model, msg tea.Msg) (Model, []tea.Msg) {
	m, cmd := m.Update(msg)
	return pump(m, cmd)
}

func answering(fake *bridgetest.Fake) {
	fake.ProcessFn = func(text string) (string, error) { return "**Sunny** today", nil }
	fake.SearchFn = func(query string) ([]bridge.SearchResult, error) {
		return []bridge.SearchResult{
			{Title: "Forecast", Link: "https://weather.example/today", Snippet: "Clear skies"},
			{Title: "Radar", Link: "https://weather.example/radar", Snippet: "Live map"},
		}, nil
	}
}

// =============================================================================
// VOICE FLOW
// =============================================================================

func TestVoiceCapture_FullRoundTrip(t *testing.T) {
	fake := &bridgetest.Fake{Transcript: bridge.Transcription{Text: "weather today"}}
	answering(fake)
	m := ready(t, fake)
	assert.False(t, m.Visible())

	m, _ = send(m, StartCaptureMsg{})
	assert.Equal(t, Listening, m.Mode())
	assert.True(t, m.Recording())
	assert.Equal(t, 1, fake.Calls("start_recording"))
	assert.Contains(t, m.View(), "Listening")

	m, _ = send(m, StopCaptureMsg{})
	assert.Equal(t, Showing, m.Mode())
	assert.False(t, m.Recording())
	assert.Equal(t, 1, fake.Calls("stop_recording"))
	assert.Equal(t, 1, fake.Calls("process_text_input"))
	assert.Equal(t, 1, fake.Calls("fetch_search_results"))

	view := m.View()
	assert.Contains(t, view, "weather today")
	assert.Contains(t, view, "Sunny")
	assert.Contains(t, view, "Forecast")
	assert.Contains(t, view, "Radar")
}

func TestVoiceCapture_NotReady(t *testing.T) {
	fake := &bridgetest.Fake{InitSTTErr: errors.New("no recorder")}
	m := ready(t, fake)

	m, _ = send(m, StartCaptureMsg{})
	assert.Equal(t, Showing, m.Mode())
	assert.Zero(t, fake.Calls("start_recording"))
	assert.Contains(t, m.View(), "not ready")
	assert.Contains(t, m.View(), "no recorder")
}

func TestVoiceCapture_StartFailureShowsInline(t *testing.T) {
	fake := &bridgetest.Fake{StartErr: errors.New("device busy")}
	m := ready(t, fake)

	m, _ = send(m, StartCaptureMsg{})
	assert.Equal(t, Showing, m.Mode())
	assert.False(t, m.Recording())
	assert.Contains(t, m.View(), "device busy")

	m, _ = send(m, StopCaptureMsg{})
	assert.Zero(t, fake.Calls("stop_recording"), "no stop without a start")
}

func TestVoiceCapture_StopBeforeStartLands(t *testing.T) {
	fake := &bridgetest.Fake{Transcript: bridge.Transcription{Text: "hello"}}
	answering(fake)
	m := ready(t, fake)

	m, cmd := m.Update(StartCaptureMsg{})
	m, stopCmd := m.Update(StopCaptureMsg{})
	assert.Nil(t, stopCmd, "stop is deferred until recording starts")

	m, _ = pump(m, cmd)
	assert.Equal(t, 1, fake.Calls("stop_recording"))
	assert.Equal(t, Showing, m.Mode())
}

func TestVoiceCapture_EmptyTranscript(t *testing.T) {
	fake := &bridgetest.Fake{Transcript: bridge.Transcription{Text: "  "}}
	m := ready(t, fake)

	m, _ = send(m, StartCaptureMsg{})
	m, _ = send(m, StopCaptureMsg{})
	assert.Equal(t, Showing, m.Mode())
	assert.Zero(t, fake.Calls("process_text_input"))
	assert.Contains(t, m.View(), "Didn't catch that")
}

func TestVoiceCapture_CloseWhileRecording(t *testing.T) {
	fake := &bridgetest.Fake{Transcript: bridge.Transcription{Text: "ignored"}}
	answering(fake)
	m := ready(t, fake)

	m, _ = send(m, StartCaptureMsg{})
	m, _ = send(m, CloseMsg{})
	assert.False(t, m.Visible())
	assert.False(t, m.Recording())
	assert.Equal(t, 1, fake.Calls("stop_recording"), "microphone released")
	assert.Zero(t, fake.Calls("process_text_input"), "stale transcript dropped")
}

func TestVoiceCapture_CloseBeforeStartLands(t *testing.T) {
	fake := &bridgetest.Fake{}
	m := ready(t, fake)

	m, startCmd := m.Update(StartCaptureMsg{})
	m, closeCmd := m.Update(CloseMsg{})
	assert.Nil(t, closeCmd)
	assert.True(t, m.Recording(), "start still pending")

	m, _ = pump(m, startCmd)
	assert.False(t, m.Recording())
	assert.False(t, m.Visible())
	assert.Equal(t, 1, fake.Calls("stop_recording"))
}

// =============================================================================
// TEXT FLOW
// =============================================================================

func TestTextEntry_Submit(t *testing.T) {
	fake := &bridgetest.Fake{}
	answering(fake)
	m := ready(t, fake)

	m, _ = send(m, OpenTextEntryMsg{})
	assert.Equal(t, Entering, m.Mode())

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, Entering, m.Mode(), "blank input is not sent")
	assert.Zero(t, fake.Calls("process_text_input"))

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("rain?")})
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, Showing, m.Mode())
	assert.Equal(t, 1, fake.Calls("process_text_input"))
	assert.Contains(t, m.View(), "rain?")
}

func TestTextEntry_EscCloses(t *testing.T) {
	m := ready(t, &bridgetest.Fake{})

	m, _ = send(m, OpenTextEntryMsg{})
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.Visible())
	assert.Empty(t, m.View())
}

func TestFailuresShownInline(t *testing.T) {
	fake := &bridgetest.Fake{
		ProcessFn: func(string) (string, error) { return "", errors.New("quota exceeded") },
		SearchFn:  func(string) ([]bridge.SearchResult, error) { return nil, errors.New("offline") },
	}
	m := ready(t, fake)

	m, _ = send(m, OpenTextEntryMsg{})
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("hi")})
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, Showing, m.Mode())
	view := m.View()
	assert.Contains(t, view, "quota exceeded")
	assert.Contains(t, view, "Search is unavailable")
}

func TestStaleResultsDropped(t *testing.T) {
	fake := &bridgetest.Fake{}
	answering(fake)
	m := ready(t, fake)

	m, _ = send(m, OpenTextEntryMsg{})
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("first")})
	m, inflight := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, Thinking, m.Mode())

	// Reopen before the answers arrive.
	m, _ = send(m, CloseMsg{})
	m, _ = send(m, OpenTextEntryMsg{})
	m, seen := pump(m, inflight)

	require.NotEmpty(t, seen)
	assert.Equal(t, Entering, m.Mode(), "late results do not touch the new session")
	assert.NotContains(t, m.View(), "Sunny")
}

func TestOpenSelectedLink(t *testing.T) {
	fake := &bridgetest.Fake{}
	answering(fake)
	m := ready(t, fake)

	m, _ = send(m, OpenTextEntryMsg{})
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("weather")})
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, Showing, m.Mode())

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []string{"https://weather.example/radar"}, fake.Opened())
}

func TestSearchResultsCapped(t *testing.T) {
	fake := &bridgetest.Fake{
		SearchFn: func(string) ([]bridge.SearchResult, error) {
			return make([]bridge.SearchResult, maxResults+3), nil
		},
	}
	m := ready(t, fake)

	m, _ = send(m, OpenTextEntryMsg{})
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Len(t, m.results, maxResults)
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "hidden", Hidden.String())
	assert.Equal(t, "listening", Listening.String())
	assert.Equal(t, "entering", Entering.String())
	assert.Equal(t, "thinking", Thinking.String())
	assert.Equal(t, "showing", Showing.String())
}
