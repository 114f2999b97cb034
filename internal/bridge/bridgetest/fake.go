// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package bridgetest provides a configurable in-memory Bridge for tests.
package bridgetest

import (
	"context"
	"sync"

	"github.com/jeranaias/plates/internal/bridge"
)

// Fake is a Bridge whose behaviour is set through its fields. Unset
// function fields return zero values. Calls are counted by command name.
type Fake struct {
	FirstRun    bool
	FirstRunErr error

	CompleteErr    error
	LauncherErr    error
	PermissionsErr error
	InitSTTErr     error
	StartErr       error

	Transcript  bridge.Transcription
	StopErr     error
	AudioErr    error
	Mode        string
	ProcessFn   func(text string) (string, error)
	SearchFn    func(query string) ([]bridge.SearchResult, error)
	OpenErr     error
	Weather     bridge.WeatherData
	WeatherErr  error
	BatteryList []bridge.BatteryInfo
	BatteryErr  error
	Online      bool

	mu     sync.Mutex
	calls  map[string]int
	opened []string
	audio  []string
}

var _ bridge.Bridge = (*Fake)(nil)

func (f *Fake) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[name]++
}

// Calls returns how often command was invoked.
func (f *Fake) Calls(command string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[command]
}

// Opened returns the URLs passed to OpenLink.
func (f *Fake) Opened() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.opened...)
}

func (f *Fake) IsFirstRun(context.Context) (bool, error) {
	f.record("is_first_run")
	return f.FirstRun, f.FirstRunErr
}

func (f *Fake) CompleteTutorial(context.Context) error {
	f.record("complete_tutorial")
	return f.CompleteErr
}

func (f *Fake) SetAsLauncher(context.Context) error {
	f.record("set_as_launcher")
	return f.LauncherErr
}

func (f *Fake) RequestPermissions(context.Context) error {
	f.record("request_permissions")
	return f.PermissionsErr
}

func (f *Fake) InitializeSTT(context.Context) error {
	f.record("initialize_stt")
	return f.InitSTTErr
}

func (f *Fake) StartRecording(context.Context) error {
	f.record("start_recording")
	return f.StartErr
}

func (f *Fake) StopRecording(context.Context) (bridge.Transcription, error) {
	f.record("stop_recording")
	return f.Transcript, f.StopErr
}

// TranscribeAudio returns Transcript, or AudioErr, for any path.
func (f *Fake) TranscribeAudio(_ context.Context, path string) (bridge.Transcription, error) {
	f.record("transcribe_audio")
	f.mu.Lock()
	f.audio = append(f.audio, path)
	f.mu.Unlock()
	return f.Transcript, f.AudioErr
}

// AudioFiles returns the paths passed to TranscribeAudio.
func (f *Fake) AudioFiles() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.audio...)
}

func (f *Fake) SetSTTMode(_ context.Context, mode string) error {
	f.record("set_stt_mode")
	f.mu.Lock()
	f.Mode = mode
	f.mu.Unlock()
	return nil
}

func (f *Fake) STTMode(context.Context) (string, error) {
	f.record("get_stt_mode")
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Mode, nil
}

func (f *Fake) ProcessTextInput(_ context.Context, text string) (string, error) {
	f.record("process_text_input")
	if f.ProcessFn == nil {
		return "", nil
	}
	return f.ProcessFn(text)
}

func (f *Fake) FetchSearchResults(_ context.Context, query string) ([]bridge.SearchResult, error) {
	f.record("fetch_search_results")
	if f.SearchFn == nil {
		return nil, nil
	}
	return f.SearchFn(query)
}

func (f *Fake) OpenLink(_ context.Context, url string) error {
	f.record("open_link")
	f.mu.Lock()
	f.opened = append(f.opened, url)
	f.mu.Unlock()
	return f.OpenErr
}

func (f *Fake) GetWeather(context.Context, float64, float64) (bridge.WeatherData, error) {
	f.record("get_weather")
	return f.Weather, f.WeatherErr
}

func (f *Fake) Batteries(context.Context) ([]bridge.BatteryInfo, error) {
	f.record("batteries")
	return f.BatteryList, f.BatteryErr
}

func (f *Fake) CheckNetworkStatus(context.Context) (bool, error) {
	f.record("check_network_status")
	return f.Online, nil
}
