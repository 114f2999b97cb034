// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package assistant implements the voice and text assistant overlay.
//
// The overlay never blocks the event loop: every bridge call runs as a
// tea.Cmd and resumes through a message tagged with the overlay session
// that issued it.
package assistant

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/jeranaias/plates/internal/bridge"
	"github.com/jeranaias/plates/internal/engine"
	"github.com/jeranaias/plates/internal/ui/styles"
)

// DefaultRequestTimeout bounds each bridge call.
const DefaultRequestTimeout = 60 * time.Second

// Backend is the slice of the bridge the overlay calls.
type Backend interface {
	InitializeSTT(ctx context.Context) error
	StartRecording(ctx context.Context) error
	StopRecording(ctx context.Context) (bridge.Transcription, error)
	ProcessTextInput(ctx context.Context, text string) (string, error)
	FetchSearchResults(ctx context.Context, query string) ([]bridge.SearchResult, error)
	OpenLink(ctx context.Context, url string) error
}

// Mode is what the overlay is currently doing.
type Mode int

const (
	Hidden Mode = iota
	Listening
	Entering
	Thinking
	Showing
)

func (m Mode) String() string {
	switch m {
	case Listening:
		return "listening"
	case Entering:
		return "entering"
	case Thinking:
		return "thinking"
	case Showing:
		return "showing"
	default:
		return "hidden"
	}
}

// recState tracks the microphone across the async start call.
type recState int

const (
	recIdle recState = iota
	recStarting
	recActive
)

// Options configures New.
type Options struct {
	Theme  *styles.Theme
	Logger *zap.Logger
	// MarkdownStyle is a glamour standard style. Empty follows the theme.
	MarkdownStyle string
	// Timeout overrides DefaultRequestTimeout when positive.
	Timeout time.Duration
}

// Model is the assistant overlay.
type Model struct {
	backend Backend
	theme   *styles.Theme
	logger  *zap.Logger
	timeout time.Duration

	mode    Mode
	session uint64
	rec     recState
	// stopReq asks for a stop as soon as a pending start lands.
	stopReq bool
	// orphan marks a pending start whose overlay was closed.
	orphan bool

	sttReady bool
	sttErr   error

	input   textinput.Model
	spinner spinner.Model

	markdownStyle string
	renderer      *glamour.TermRenderer
	rendererWidth int

	query      string
	response   string
	respErr    error
	pending    int
	results    []bridge.SearchResult
	searchNote string
	selected   int
	notice     string

	width  int
	height int
}

// New creates a hidden overlay.
func New(backend Backend, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme("auto")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	markdownStyle := opts.MarkdownStyle
	if markdownStyle == "" {
		markdownStyle = "light"
		if theme.IsDark {
			markdownStyle = "dark"
		}
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask anything..."
	ti.CharLimit = engine.MaxInputLength
	ti.PromptStyle = theme.InputPrompt

	sp := spinner.New()
	sp.Spinner = styles.ThinkingSpinner
	sp.Style = theme.Spinner

	return Model{
		backend:       backend,
		theme:         theme,
		logger:        logger,
		timeout:       timeout,
		input:         ti,
		spinner:       sp,
		markdownStyle: markdownStyle,
		width:         80,
		height:        24,
	}
}

// Mode returns what the overlay is doing.
func (m Model) Mode() Mode { return m.mode }

// Visible reports whether the overlay is shown.
func (m Model) Visible() bool { return m.mode != Hidden }

// Session returns the current overlay session id.
func (m Model) Session() uint64 { return m.session }

// Recording reports whether a capture is starting or running.
func (m Model) Recording() bool { return m.rec != recIdle }

// SetSize sets the display dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = max(10, m.boxWidth()-8)
}

func (m Model) boxWidth() int {
	w := m.width - 8
	if w > 90 {
		w = 90
	}
	if w < 30 {
		w = 30
	}
	return w
}

// =============================================================================
// BRIDGE COMMANDS
// =============================================================================

func (m Model) call(fn func(ctx context.Context) tea.Msg) tea.Cmd {
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return fn(ctx)
	}
}

func (m Model) initSTT() tea.Cmd {
	b := m.backend
	return m.call(func(ctx context.Context) tea.Msg {
		return sttStatusMsg{err: b.InitializeSTT(ctx)}
	})
}

func (m Model) startRecording() tea.Cmd {
	b, session := m.backend, m.session
	return m.call(func(ctx context.Context) tea.Msg {
		return recordingStartedMsg{session: session, err: b.StartRecording(ctx)}
	})
}

func (m Model) stopRecording() tea.Cmd {
	b, session := m.backend, m.session
	return m.call(func(ctx context.Context) tea.Msg {
		t, err := b.StopRecording(ctx)
		return transcriptMsg{session: session, text: t.Text, err: err}
	})
}

func (m Model) process(text string) tea.Cmd {
	b, session := m.backend, m.session
	return m.call(func(ctx context.Context) tea.Msg {
		resp, err := b.ProcessTextInput(ctx, text)
		return ResponseMsg{Session: session, Query: text, Text: resp, Err: err}
	})
}

func (m Model) search(query string) tea.Cmd {
	b, session := m.backend, m.session
	return m.call(func(ctx context.Context) tea.Msg {
		results, err := b.FetchSearchResults(ctx, query)
		return searchMsg{session: session, results: results, err: err}
	})
}

func (m Model) openLink(url string) tea.Cmd {
	b := m.backend
	return m.call(func(ctx context.Context) tea.Msg {
		return linkOpenedMsg{url: url, err: b.OpenLink(ctx, url)}
	})
}

// =============================================================================
// STATE TRANSITIONS
// =============================================================================

// reset starts a new session with a clean slate.
func (m *Model) reset(mode Mode) {
	m.session++
	m.mode = mode
	m.query = ""
	m.response = ""
	m.respErr = nil
	m.pending = 0
	m.results = nil
	m.searchNote = ""
	m.selected = 0
	m.notice = ""
	m.input.Reset()
	m.input.Blur()
}

func (m *Model) startCapture() tea.Cmd {
	if m.rec != recIdle {
		return nil
	}
	m.reset(Listening)
	m.stopReq = false
	if !m.sttReady {
		m.mode = Showing
		m.notice = "Voice input is not ready"
		if m.sttErr != nil {
			m.notice += ": " + m.sttErr.Error()
		}
		return nil
	}
	m.rec = recStarting
	m.spinner.Spinner = styles.ListeningSpinner
	return tea.Batch(m.startRecording(), m.spinner.Tick)
}

func (m *Model) stopCapture() tea.Cmd {
	switch m.rec {
	case recStarting:
		m.stopReq = true
		return nil
	case recActive:
		m.rec = recIdle
		m.mode = Thinking
		m.spinner.Spinner = styles.ThinkingSpinner
		return m.stopRecording()
	default:
		return nil
	}
}

func (m *Model) openTextEntry() tea.Cmd {
	if m.rec != recIdle && !m.orphan {
		return nil
	}
	m.reset(Entering)
	return m.input.Focus()
}

// submit sends text to the assistant and the search backend together.
func (m *Model) submit(text string) tea.Cmd {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	m.query = text
	m.mode = Thinking
	m.pending = 2
	m.input.Blur()
	m.spinner.Spinner = styles.ThinkingSpinner
	return tea.Batch(m.process(text), m.search(text), m.spinner.Tick)
}

func (m *Model) close() tea.Cmd {
	var cmd tea.Cmd
	switch m.rec {
	case recActive:
		// Issued under the current session, so the transcript is dropped.
		cmd = m.stopRecording()
		m.rec = recIdle
	case recStarting:
		m.orphan = true
	}
	m.stopReq = false
	m.reset(Hidden)
	return cmd
}

func (m *Model) settle() {
	if m.pending > 0 {
		m.pending--
	}
	if m.pending == 0 && m.mode == Thinking {
		m.mode = Showing
	}
}

func (m *Model) renderMarkdown(text string) string {
	width := m.boxWidth() - 6
	if m.renderer == nil || m.rendererWidth != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(m.markdownStyle),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			m.logger.Debug("markdown renderer unavailable", zap.Error(err))
			return text
		}
		m.renderer, m.rendererWidth = r, width
	}
	out, err := m.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init prepares speech-to-text.
func (m Model) Init() tea.Cmd {
	return m.initSTT()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case StartCaptureMsg:
		cmd := m.startCapture()
		return m, cmd

	case StopCaptureMsg:
		cmd := m.stopCapture()
		return m, cmd

	case OpenTextEntryMsg:
		cmd := m.openTextEntry()
		return m, cmd

	case CloseMsg:
		cmd := m.close()
		return m, cmd

	case sttStatusMsg:
		m.sttReady = msg.err == nil
		m.sttErr = msg.err
		if msg.err != nil {
			m.logger.Warn("speech-to-text not ready", zap.Error(msg.err))
		}
		return m, nil

	case recordingStartedMsg:
		return m.handleRecordingStarted(msg)

	case transcriptMsg:
		if msg.session != m.session {
			return m, nil
		}
		if msg.err != nil {
			m.mode = Showing
			m.notice = "Transcription failed: " + msg.err.Error()
			return m, nil
		}
		if strings.TrimSpace(msg.text) == "" {
			m.mode = Showing
			m.notice = "Didn't catch that. Hold to try again or tap to type."
			return m, nil
		}
		cmd := m.submit(msg.text)
		return m, cmd

	case ResponseMsg:
		if msg.Session != m.session {
			m.logger.Debug("dropping stale response", zap.Uint64("session", msg.Session))
			return m, nil
		}
		if msg.Err != nil {
			m.respErr = msg.Err
			m.logger.Warn("assistant request failed", zap.Error(msg.Err))
		} else {
			m.response = m.renderMarkdown(msg.Text)
		}
		m.settle()
		return m, nil

	case searchMsg:
		if msg.session != m.session {
			return m, nil
		}
		m.results = msg.results
		if len(m.results) > maxResults {
			m.results = m.results[:maxResults]
		}
		m.selected = 0
		if msg.err != nil {
			m.results = nil
			m.searchNote = "Search is unavailable right now."
			m.logger.Warn("search failed", zap.Error(msg.err))
		} else if len(msg.results) == 0 {
			m.searchNote = "No results."
		}
		m.settle()
		return m, nil

	case linkOpenedMsg:
		if msg.err != nil {
			m.logger.Warn("failed to open link", zap.String("url", msg.url), zap.Error(msg.err))
		}
		return m, nil

	case spinner.TickMsg:
		if m.mode != Listening && m.mode != Thinking {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.mode == Entering {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleRecordingStarted(msg recordingStartedMsg) (Model, tea.Cmd) {
	if msg.session != m.session {
		if !m.orphan {
			return m, nil
		}
		m.orphan = false
		m.rec = recIdle
		if msg.err != nil {
			return m, nil
		}
		// Closed while starting: release the microphone.
		b := m.backend
		return m, m.call(func(ctx context.Context) tea.Msg {
			_, err := b.StopRecording(ctx)
			return transcriptMsg{session: msg.session, err: err}
		})
	}
	if msg.err != nil {
		m.rec = recIdle
		m.stopReq = false
		m.mode = Showing
		if errors.Is(msg.err, bridge.ErrAlreadyRecording) {
			m.notice = "Already listening."
		} else {
			m.notice = "Could not start recording: " + msg.err.Error()
		}
		return m, nil
	}
	m.rec = recActive
	if m.stopReq {
		m.stopReq = false
		cmd := m.stopCapture()
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.mode {
	case Hidden:
		return m, nil

	case Entering:
		switch msg.Type {
		case tea.KeyEsc:
			cmd := m.close()
			return m, cmd
		case tea.KeyEnter:
			cmd := m.submit(m.input.Value())
			return m, cmd
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case Listening, Thinking:
		if msg.Type == tea.KeyEsc {
			cmd := m.close()
			return m, cmd
		}
		return m, nil

	case Showing:
		switch msg.String() {
		case "esc", "q":
			cmd := m.close()
			return m, cmd
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
		case "down", "j":
			if m.selected < len(m.results)-1 {
				m.selected++
			}
		case "enter", "o":
			if m.selected < len(m.results) {
				return m, m.openLink(m.results[m.selected].Link)
			}
		case "/", "i":
			cmd := m.openTextEntry()
			return m, cmd
		}
	}
	return m, nil
}
