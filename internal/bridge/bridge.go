// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package bridge

import (
	"context"
	"errors"

	"github.com/jeranaias/plates/internal/engine"
	"github.com/jeranaias/plates/internal/speech"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotRecording is returned by StopRecording without a prior start.
	ErrNotRecording = speech.ErrNotRecording

	// ErrAlreadyRecording is returned by StartRecording during a capture.
	ErrAlreadyRecording = speech.ErrAlreadyRecording

	// ErrEmptyInput is returned by ProcessTextInput for blank text.
	ErrEmptyInput = engine.ErrEmptyInput

	// ErrUnknownCommand is returned by Invoke for unregistered names.
	ErrUnknownCommand = errors.New("unknown bridge command")

	// ErrBadArgs is returned by Invoke when arguments do not decode.
	ErrBadArgs = errors.New("invalid bridge arguments")

	// ErrUnavailable is returned when a backend was not configured.
	ErrUnavailable = errors.New("backend unavailable")
)

// =============================================================================
// DATA TYPES
// =============================================================================

// WeatherData is the current weather summary.
type WeatherData struct {
	Temperature string `json:"temperature"`
	Icon        string `json:"icon"`
}

// BatteryInfo is one battery as reported by the host.
type BatteryInfo struct {
	StateOfCharge int    `json:"state_of_charge"`
	State         string `json:"state"`
}

// Transcription is the text recognized from a recording or audio file.
type Transcription struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// SearchResult is one search hit.
type SearchResult struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Snippet  string `json:"snippet"`
	ImageURL string `json:"image_url,omitempty"`
}

// =============================================================================
// INTERFACE
// =============================================================================

// Bridge is the set of native operations available to the UI.
type Bridge interface {
	IsFirstRun(ctx context.Context) (bool, error)
	CompleteTutorial(ctx context.Context) error
	SetAsLauncher(ctx context.Context) error
	RequestPermissions(ctx context.Context) error

	InitializeSTT(ctx context.Context) error
	StartRecording(ctx context.Context) error
	StopRecording(ctx context.Context) (Transcription, error)
	TranscribeAudio(ctx context.Context, path string) (Transcription, error)
	SetSTTMode(ctx context.Context, mode string) error
	STTMode(ctx context.Context) (string, error)

	ProcessTextInput(ctx context.Context, text string) (string, error)
	FetchSearchResults(ctx context.Context, query string) ([]SearchResult, error)
	OpenLink(ctx context.Context, url string) error

	GetWeather(ctx context.Context, lat, lon float64) (WeatherData, error)
	Batteries(ctx context.Context) ([]BatteryInfo, error)
	CheckNetworkStatus(ctx context.Context) (bool, error)
}
