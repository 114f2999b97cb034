// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package home implements the root view: clock, date, weather and battery,
// the gesture surface, the assistant overlay and the first-run tutorial.
package home

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/plates/internal/bridge"
	"github.com/jeranaias/plates/internal/config"
	"github.com/jeranaias/plates/internal/gesture"
	"github.com/jeranaias/plates/internal/onboarding"
	"github.com/jeranaias/plates/internal/provider"
	"github.com/jeranaias/plates/internal/ticker"
	"github.com/jeranaias/plates/internal/ui/assistant"
	"github.com/jeranaias/plates/internal/ui/styles"
	"github.com/jeranaias/plates/internal/ui/tutorial"
)

// eventBuffer sizes the channel that carries provider and gesture events
// into the event loop.
const eventBuffer = 64

// gestureSendTimeout bounds how long a gesture event waits for room in a
// full event buffer.
const gestureSendTimeout = time.Second

// Options configures New.
type Options struct {
	Bridge bridge.Bridge
	Config *config.Config
	// Steps overrides the onboarding steps. Empty uses the defaults.
	Steps  []onboarding.Step
	Logger *zap.Logger

	// Clock drives the long-press timer. Nil uses the system clock.
	Clock gesture.Clock
	// Now replaces time.Now for the clock provider.
	Now func() time.Time
}

// Model is the root Bubble Tea model.
type Model struct {
	cfg    *config.Config
	bridge bridge.Bridge
	theme  *styles.Theme
	logger *zap.Logger
	clock  gesture.Clock
	now    func() time.Time

	events   chan tea.Msg
	subs     *ticker.Group
	detector *gesture.Detector
	// spaceDown is the keyboard pointer: space presses, space again releases.
	spaceDown bool

	assistant    assistant.Model
	tutorial     tutorial.Model
	showTutorial bool

	timeData provider.TimeData
	weather  bridge.WeatherData
	battery  provider.Battery

	width  int
	height int
}

// New builds the root model. Subscriptions start in Init and stop in
// Shutdown.
func New(opts Options) (Model, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := opts.Clock
	if clock == nil {
		clock = gesture.SystemClock()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	steps := opts.Steps
	if len(steps) == 0 {
		steps = onboarding.DefaultSteps()
	}
	theme := styles.NewTheme(cfg.UI.Theme)

	tut, err := tutorial.New(steps, opts.Bridge, tutorial.Options{
		Theme:          theme,
		Logger:         logger.Named("tutorial"),
		SwipeThreshold: cfg.Onboarding.SwipeThreshold,
		CellHeight:     cfg.Onboarding.CellHeight,
	})
	if err != nil {
		return Model{}, err
	}

	m := Model{
		cfg:       cfg,
		bridge:    opts.Bridge,
		theme:     theme,
		logger:    logger,
		clock:     clock,
		now:       now,
		events:    make(chan tea.Msg, eventBuffer),
		subs:      &ticker.Group{},
		assistant: assistant.New(opts.Bridge, assistant.Options{Theme: theme, Logger: logger.Named("assistant")}),
		tutorial:  tut,
		weather:   provider.WeatherPlaceholder,
		battery:   provider.BatteryFallback,
		width:     80,
		height:    24,
	}
	m.timeData = provider.NewTime().WithClock(now).With24Hour(cfg.UI.Clock24).FetchOnce(context.Background())
	m.detector = m.newDetector()
	return m, nil
}

// poster returns a function that delivers messages to the event loop
// without blocking the caller.
func (m Model) poster() func(tea.Msg) {
	events, logger := m.events, m.logger
	return func(msg tea.Msg) {
		select {
		case events <- msg:
		default:
			logger.Warn("event buffer full, dropping event")
		}
	}
}

// gesturePoster is like poster but waits up to gestureSendTimeout for a
// full buffer to drain, so a LongPressStart is not left without its
// LongPressEnd.
func (m Model) gesturePoster() func(tea.Msg) {
	events, logger := m.events, m.logger
	return func(msg tea.Msg) {
		select {
		case events <- msg:
			return
		default:
		}
		t := time.NewTimer(gestureSendTimeout)
		defer t.Stop()
		select {
		case events <- msg:
		case <-t.C:
			logger.Error("event loop stalled, dropping gesture", zap.Any("event", msg))
		}
	}
}

func (m Model) newDetector() *gesture.Detector {
	post := m.gesturePoster()
	return gesture.New(
		func(e gesture.Event) { post(GestureMsg{Event: e}) },
		gesture.WithThreshold(m.cfg.Gesture.LongPress()),
		gesture.WithClock(m.clock),
	)
}

// startProviders subscribes every provider into subs.
func (m Model) startProviders() {
	cfg, post := m.cfg, m.poster()
	timeP := provider.NewTime().WithClock(m.now).With24Hour(cfg.UI.Clock24)
	m.subs.Add(timeP.Subscribe(func(d provider.TimeData) { post(ClockMsg(d)) }, cfg.Polling.Time()))

	locator := provider.StaticLocation{
		Lat:   cfg.Location.Latitude,
		Lon:   cfg.Location.Longitude,
		Known: cfg.Location.Known(),
	}
	weatherP := provider.NewWeather(m.bridge, locator, m.logger.Named("weather"))
	m.subs.Add(weatherP.Subscribe(func(w bridge.WeatherData) { post(WeatherMsg(w)) }, cfg.Polling.Weather()))

	batteryP := provider.NewBattery(m.bridge, m.logger.Named("battery"))
	m.subs.Add(batteryP.Subscribe(func(b provider.Battery) { post(BatteryMsg(b)) }, cfg.Polling.Battery()))
}

// waitForEvent blocks on the event channel. It is re-armed after every
// event so exactly one reader is outstanding.
func (m Model) waitForEvent() tea.Cmd {
	ch := m.events
	return func() tea.Msg {
		return eventMsg{msg: <-ch}
	}
}

func (m Model) checkFirstRun() tea.Cmd {
	b := m.bridge
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		first, err := b.IsFirstRun(ctx)
		return firstRunMsg{firstRun: first, err: err}
	}
}

// Shutdown stops every subscription and the gesture timer. It is safe to
// call more than once.
func (m Model) Shutdown() {
	m.subs.Stop()
	m.detector.Close()
}

// TutorialVisible reports whether the first-run tutorial is on screen.
func (m Model) TutorialVisible() bool { return m.showTutorial }

// Assistant returns the overlay model.
func (m Model) Assistant() assistant.Model { return m.assistant }

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts the providers and asks whether this is the first run.
func (m Model) Init() tea.Cmd {
	m.startProviders()
	return tea.Batch(
		m.waitForEvent(),
		m.checkFirstRun(),
		m.assistant.Init(),
	)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		next, cmd := m.Update(msg.msg)
		return next, tea.Batch(cmd, m.waitForEvent())

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		m.tutorial.SetSize(msg.Width, msg.Height)
		m.assistant.SetSize(msg.Width, msg.Height)
		return m, nil

	case ClockMsg:
		m.timeData = provider.TimeData(msg)
		return m, nil

	case WeatherMsg:
		m.weather = bridge.WeatherData(msg)
		return m, nil

	case BatteryMsg:
		m.battery = provider.Battery(msg)
		return m, nil

	case firstRunMsg:
		if msg.err != nil {
			m.logger.Warn("first-run check failed", zap.Error(msg.err))
		}
		m.showTutorial = msg.firstRun && msg.err == nil && !m.tutorial.Done()
		return m, nil

	case tutorial.CompleteMsg:
		if msg.Err != nil {
			m.logger.Warn("failed to record tutorial completion", zap.Error(msg.Err))
		}
		m.showTutorial = false
		return m, nil

	case tutorial.ActionResultMsg:
		var cmd tea.Cmd
		m.tutorial, cmd = m.tutorial.Update(msg)
		return m, cmd

	case GestureMsg:
		return m.handleGesture(msg.Event)

	case ConfigReloadedMsg:
		return m.applyConfig(msg.Config)

	case tea.BlurMsg:
		m.spaceDown = false
		m.detector.Cancel()
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Overlay results, spinner ticks and cursor blinks.
	var cmd tea.Cmd
	m.assistant, cmd = m.assistant.Update(msg)
	return m, cmd
}

func (m Model) handleGesture(e gesture.Event) (tea.Model, tea.Cmd) {
	m.logger.Debug("gesture", zap.Stringer("event", e))

	var forward tea.Msg
	switch e {
	case gesture.LongPressStart:
		forward = assistant.StartCaptureMsg{}
	case gesture.LongPressEnd:
		forward = assistant.StopCaptureMsg{}
	case gesture.Tap:
		forward = assistant.OpenTextEntryMsg{}
	default:
		return m, nil
	}
	var cmd tea.Cmd
	m.assistant, cmd = m.assistant.Update(forward)
	return m, cmd
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showTutorial {
		var cmd tea.Cmd
		m.tutorial, cmd = m.tutorial.Update(msg)
		return m, cmd
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.detector.Press()
		}
	case tea.MouseActionRelease:
		m.detector.Release()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	if m.showTutorial {
		var cmd tea.Cmd
		m.tutorial, cmd = m.tutorial.Update(msg)
		return m, cmd
	}

	if m.assistant.Mode() != assistant.Entering {
		switch msg.String() {
		case " ":
			if m.spaceDown {
				m.spaceDown = false
				m.detector.Release()
			} else {
				m.spaceDown = true
				m.detector.Press()
			}
			return m, nil
		case "v":
			var cmd tea.Cmd
			if m.assistant.Recording() {
				m.assistant, cmd = m.assistant.Update(assistant.StopCaptureMsg{})
			} else {
				m.assistant, cmd = m.assistant.Update(assistant.StartCaptureMsg{})
			}
			return m, cmd
		}
		if m.spaceDown {
			m.spaceDown = false
			m.detector.Cancel()
		}
	}

	if m.assistant.Visible() {
		var cmd tea.Cmd
		m.assistant, cmd = m.assistant.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "enter", "t":
		var cmd tea.Cmd
		m.assistant, cmd = m.assistant.Update(assistant.OpenTextEntryMsg{})
		return m, cmd
	case "q":
		return m.quit()
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.Shutdown()
	return m, tea.Quit
}

// applyConfig swaps in a reloaded config. Providers restart with the new
// cadences and location; the detector is rebuilt if the threshold changed.
func (m Model) applyConfig(cfg *config.Config) (tea.Model, tea.Cmd) {
	if cfg == nil {
		return m, nil
	}
	old := m.cfg
	m.cfg = cfg
	m.logger.Info("config reloaded")

	m.subs.Stop()
	m.subs = &ticker.Group{}
	m.startProviders()

	if cfg.Gesture.LongPressMs != old.Gesture.LongPressMs {
		m.spaceDown = false
		m.detector.Close()
		m.detector = m.newDetector()
	}
	if cfg.UI.Theme != old.UI.Theme {
		// Children share the theme pointer.
		*m.theme = *styles.NewTheme(cfg.UI.Theme)
		m.theme.SetSize(m.width, m.height)
	}
	return m, nil
}
