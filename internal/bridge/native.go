// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package bridge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/jeranaias/plates/internal/search"
	"github.com/jeranaias/plates/internal/speech"
	"github.com/jeranaias/plates/internal/storage"
	"github.com/jeranaias/plates/internal/system"
	"github.com/jeranaias/plates/internal/weather"
)

// =============================================================================
// BACKEND CONTRACTS
// =============================================================================

// StateStore persists first-run state and assistant history.
type StateStore interface {
	IsFirstRun(ctx context.Context) (bool, error)
	MarkTutorialCompleted(ctx context.Context) error
	RecordExchange(ctx context.Context, ex storage.Exchange) (string, error)
}

// LauncherRegistrar registers plates as the session launcher.
type LauncherRegistrar interface {
	Register() error
}

// SpeechService records and transcribes audio.
type SpeechService interface {
	Ready() error
	Start() error
	Stop(ctx context.Context) (speech.Result, error)
	Transcribe(ctx context.Context, path string) (speech.Result, error)
	Mode() speech.Mode
	SetMode(m speech.Mode)
}

// TextEngine answers prompts.
type TextEngine interface {
	Process(ctx context.Context, text string) (string, error)
}

// Searcher runs web searches.
type Searcher interface {
	Search(ctx context.Context, query string) ([]search.Result, error)
}

// LinkOpener opens URLs outside plates.
type LinkOpener interface {
	Open(ctx context.Context, rawURL string) error
}

// WeatherSource reports current conditions.
type WeatherSource interface {
	Current(ctx context.Context, lat, lon float64) (weather.Conditions, error)
}

// BatteryReader lists batteries.
type BatteryReader interface {
	Batteries(ctx context.Context) ([]system.Battery, error)
}

// NetworkChecker reports connectivity.
type NetworkChecker interface {
	IsOnline(ctx context.Context) bool
}

// PermissionChecker verifies device access.
type PermissionChecker func(ctx context.Context) (system.Permissions, error)

// Deps holds the backends for Native. Nil backends make the matching
// commands fail with ErrUnavailable.
type Deps struct {
	Store       StateStore
	Launcher    LauncherRegistrar
	Speech      SpeechService
	Engine      TextEngine
	Search      Searcher
	Opener      LinkOpener
	Weather     WeatherSource
	Batteries   BatteryReader
	Network     NetworkChecker
	Permissions PermissionChecker
	Logger      *zap.Logger
}

// =============================================================================
// NATIVE
// =============================================================================

// Native implements Bridge with in-process backends.
type Native struct {
	d      Deps
	logger *zap.Logger

	mu        sync.Mutex
	lastVoice string
}

var _ Bridge = (*Native)(nil)

// NewNative creates a Native bridge.
func NewNative(d Deps) *Native {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Native{d: d, logger: logger.Named("bridge")}
}

func unavailable(what string) error {
	return fmt.Errorf("%w: %s", ErrUnavailable, what)
}

// IsFirstRun implements Bridge.
func (n *Native) IsFirstRun(ctx context.Context) (bool, error) {
	if n.d.Store == nil {
		return false, unavailable("state store")
	}
	return n.d.Store.IsFirstRun(ctx)
}

// CompleteTutorial implements Bridge.
func (n *Native) CompleteTutorial(ctx context.Context) error {
	if n.d.Store == nil {
		return unavailable("state store")
	}
	if err := n.d.Store.MarkTutorialCompleted(ctx); err != nil {
		return err
	}
	n.logger.Info("tutorial completed")
	return nil
}

// SetAsLauncher implements Bridge.
func (n *Native) SetAsLauncher(ctx context.Context) error {
	if n.d.Launcher == nil {
		return unavailable("launcher registration")
	}
	if err := n.d.Launcher.Register(); err != nil {
		return err
	}
	n.logger.Info("registered as launcher")
	return nil
}

// RequestPermissions implements Bridge.
func (n *Native) RequestPermissions(ctx context.Context) error {
	if n.d.Permissions == nil {
		return unavailable("permission check")
	}
	p, err := n.d.Permissions(ctx)
	n.logger.Info("permissions checked", zap.Bool("microphone", p.Microphone), zap.Bool("location", p.Location))
	return err
}

// InitializeSTT implements Bridge.
func (n *Native) InitializeSTT(ctx context.Context) error {
	if n.d.Speech == nil {
		return unavailable("speech")
	}
	return n.d.Speech.Ready()
}

// StartRecording implements Bridge.
func (n *Native) StartRecording(ctx context.Context) error {
	if n.d.Speech == nil {
		return unavailable("speech")
	}
	return n.d.Speech.Start()
}

// StopRecording implements Bridge.
func (n *Native) StopRecording(ctx context.Context) (Transcription, error) {
	if n.d.Speech == nil {
		return Transcription{}, unavailable("speech")
	}
	res, err := n.d.Speech.Stop(ctx)
	if err != nil {
		return Transcription{}, err
	}

	n.mu.Lock()
	n.lastVoice = res.Text
	n.mu.Unlock()
	return Transcription{Text: res.Text, Language: res.Language}, nil
}

// TranscribeAudio implements Bridge.
func (n *Native) TranscribeAudio(ctx context.Context, path string) (Transcription, error) {
	if n.d.Speech == nil {
		return Transcription{}, unavailable("speech")
	}
	if strings.TrimSpace(path) == "" {
		return Transcription{}, fmt.Errorf("%w: path is required", ErrBadArgs)
	}
	res, err := n.d.Speech.Transcribe(ctx, path)
	if err != nil {
		return Transcription{}, err
	}

	n.mu.Lock()
	n.lastVoice = res.Text
	n.mu.Unlock()
	return Transcription{Text: res.Text, Language: res.Language}, nil
}

// SetSTTMode implements Bridge.
func (n *Native) SetSTTMode(ctx context.Context, mode string) error {
	if n.d.Speech == nil {
		return unavailable("speech")
	}
	m, err := speech.ParseMode(mode)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadArgs, err)
	}
	n.d.Speech.SetMode(m)
	return nil
}

// STTMode implements Bridge.
func (n *Native) STTMode(ctx context.Context) (string, error) {
	if n.d.Speech == nil {
		return "", unavailable("speech")
	}
	return n.d.Speech.Mode().String(), nil
}

// ProcessTextInput implements Bridge. Every exchange, failed or not, is
// recorded in the history; text matching the last transcription is
// recorded as a voice exchange.
func (n *Native) ProcessTextInput(ctx context.Context, text string) (string, error) {
	if n.d.Engine == nil {
		return "", unavailable("text engine")
	}

	source := storage.SourceText
	n.mu.Lock()
	if n.lastVoice != "" && text == n.lastVoice {
		source = storage.SourceVoice
		n.lastVoice = ""
	}
	n.mu.Unlock()

	resp, err := n.d.Engine.Process(ctx, text)
	if errors.Is(err, ErrEmptyInput) {
		return "", err
	}

	if n.d.Store != nil {
		ex := storage.Exchange{Source: source, Prompt: text, Response: resp}
		if err != nil {
			ex.Error = err.Error()
		}
		if _, herr := n.d.Store.RecordExchange(ctx, ex); herr != nil {
			n.logger.Warn("failed to record exchange", zap.Error(herr))
		}
	}
	return resp, err
}

// FetchSearchResults implements Bridge.
func (n *Native) FetchSearchResults(ctx context.Context, query string) ([]SearchResult, error) {
	if n.d.Search == nil {
		return nil, unavailable("search")
	}
	results, err := n.d.Search.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	out := make([]SearchResult, len(results))
	for i, r := range results {
		out[i] = SearchResult{Title: r.Title, Link: r.Link, Snippet: r.Snippet, ImageURL: r.ImageURL}
	}
	return out, nil
}

// OpenLink implements Bridge.
func (n *Native) OpenLink(ctx context.Context, url string) error {
	if n.d.Opener == nil {
		return unavailable("link opener")
	}
	return n.d.Opener.Open(ctx, url)
}

// GetWeather implements Bridge.
func (n *Native) GetWeather(ctx context.Context, lat, lon float64) (WeatherData, error) {
	if n.d.Weather == nil {
		return WeatherData{}, unavailable("weather")
	}
	c, err := n.d.Weather.Current(ctx, lat, lon)
	if err != nil {
		return WeatherData{}, err
	}
	return WeatherData{Temperature: c.Temperature, Icon: c.Icon}, nil
}

// Batteries implements Bridge.
func (n *Native) Batteries(ctx context.Context) ([]BatteryInfo, error) {
	if n.d.Batteries == nil {
		return nil, unavailable("battery reader")
	}
	list, err := n.d.Batteries.Batteries(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]BatteryInfo, len(list))
	for i, b := range list {
		out[i] = BatteryInfo{StateOfCharge: b.StateOfCharge, State: string(b.State)}
	}
	return out, nil
}

// CheckNetworkStatus implements Bridge.
func (n *Native) CheckNetworkStatus(ctx context.Context) (bool, error) {
	if n.d.Network == nil {
		return false, unavailable("network detector")
	}
	return n.d.Network.IsOnline(ctx), nil
}
