// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package bridge

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/plates/internal/engine"
	"github.com/jeranaias/plates/internal/search"
	"github.com/jeranaias/plates/internal/speech"
	"github.com/jeranaias/plates/internal/storage"
	"github.com/jeranaias/plates/internal/system"
	"github.com/jeranaias/plates/internal/weather"
)

type fakeSpeech struct {
	recording bool
	text      string
	mode      speech.Mode
	ready     error
}

func (f *fakeSpeech) Ready() error { return f.ready }

func (f *fakeSpeech) Start() error {
	if f.recording {
		return speech.ErrAlreadyRecording
	}
	f.recording = true
	return nil
}

func (f *fakeSpeech) Stop(context.Context) (speech.Result, error) {
	if !f.recording {
		return speech.Result{}, speech.ErrNotRecording
	}
	f.recording = false
	return speech.Result{Text: f.text, Language: "en"}, nil
}

func (f *fakeSpeech) Transcribe(_ context.Context, path string) (speech.Result, error) {
	if path == "missing.wav" {
		return speech.Result{}, errors.New("audio file not found")
	}
	return speech.Result{Text: f.text, Language: "en"}, nil
}

func (f *fakeSpeech) Mode() speech.Mode     { return f.mode }
func (f *fakeSpeech) SetMode(m speech.Mode) { f.mode = m }

type echoGenerator struct{ err error }

func (g echoGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	return "re: " + prompt, g.err
}

type fakeWeather struct {
	c   weather.Conditions
	err error
}

func (f fakeWeather) Current(context.Context, float64, float64) (weather.Conditions, error) {
	return f.c, f.err
}

type fakeBatteries []system.Battery

func (f fakeBatteries) Batteries(context.Context) ([]system.Battery, error) { return f, nil }

type fakeLauncher struct{ registered int }

func (f *fakeLauncher) Register() error {
	f.registered++
	return nil
}

type fakeSearch struct{}

func (fakeSearch) Search(_ context.Context, q string) ([]search.Result, error) {
	return search.Placeholder(q), nil
}

type onlineChecker bool

func (o onlineChecker) IsOnline(context.Context) bool { return bool(o) }

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	s, err := storage.Open(filepath.Join(t.TempDir(), "plates.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNative_FirstRun(t *testing.T) {
	ctx := context.Background()
	n := NewNative(Deps{Store: openStore(t)})

	first, err := n.IsFirstRun(ctx)
	require.NoError(t, err)
	assert.True(t, first)

	require.NoError(t, n.CompleteTutorial(ctx))
	first, err = n.IsFirstRun(ctx)
	require.NoError(t, err)
	assert.False(t, first)
}

func TestNative_Recording(t *testing.T) {
	ctx := context.Background()
	sp := &fakeSpeech{text: "what time is it"}
	n := NewNative(Deps{Speech: sp})

	require.NoError(t, n.InitializeSTT(ctx))

	_, err := n.StopRecording(ctx)
	assert.ErrorIs(t, err, ErrNotRecording)

	require.NoError(t, n.StartRecording(ctx))
	assert.ErrorIs(t, n.StartRecording(ctx), ErrAlreadyRecording)

	tr, err := n.StopRecording(ctx)
	require.NoError(t, err)
	assert.Equal(t, Transcription{Text: "what time is it", Language: "en"}, tr)
}

func TestNative_TranscribeAudio(t *testing.T) {
	ctx := context.Background()
	n := NewNative(Deps{Speech: &fakeSpeech{text: "call mom"}})

	tr, err := n.TranscribeAudio(ctx, "memo.wav")
	require.NoError(t, err)
	assert.Equal(t, Transcription{Text: "call mom", Language: "en"}, tr)

	_, err = n.TranscribeAudio(ctx, "  ")
	assert.ErrorIs(t, err, ErrBadArgs)

	_, err = n.TranscribeAudio(ctx, "missing.wav")
	assert.Error(t, err)

	_, err = NewNative(Deps{}).TranscribeAudio(ctx, "memo.wav")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestNative_STTMode(t *testing.T) {
	ctx := context.Background()
	n := NewNative(Deps{Speech: &fakeSpeech{}})

	require.NoError(t, n.SetSTTMode(ctx, "online"))
	mode, err := n.STTMode(ctx)
	require.NoError(t, err)
	assert.Equal(t, "online", mode)

	assert.ErrorIs(t, n.SetSTTMode(ctx, "psychic"), ErrBadArgs)
}

func TestNative_ProcessTextInputRecordsHistory(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	sp := &fakeSpeech{text: "tell me a joke"}
	n := NewNative(Deps{Store: store, Speech: sp, Engine: engine.New(echoGenerator{}, nil)})

	resp, err := n.ProcessTextInput(ctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, "re: hello", resp)

	require.NoError(t, n.StartRecording(ctx))
	tr, err := n.StopRecording(ctx)
	require.NoError(t, err)
	_, err = n.ProcessTextInput(ctx, tr.Text)
	require.NoError(t, err)

	_, err = n.ProcessTextInput(ctx, "   ")
	assert.ErrorIs(t, err, ErrEmptyInput)

	history, err := store.RecentExchanges(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history, 2, "empty input is not recorded")
	assert.Equal(t, storage.SourceVoice, history[0].Source)
	assert.Equal(t, "tell me a joke", history[0].Prompt)
	assert.Equal(t, storage.SourceText, history[1].Source)
	assert.Equal(t, "re: hello", history[1].Response)
}

func TestNative_ProcessTextInputFailureIsRecorded(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	boom := errors.New("quota")
	n := NewNative(Deps{Store: store, Engine: engine.New(echoGenerator{err: boom}, nil)})

	_, err := n.ProcessTextInput(ctx, "hi")
	assert.ErrorIs(t, err, boom)

	history, err := store.RecentExchanges(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "quota", history[0].Error)
}

func TestNative_Backends(t *testing.T) {
	ctx := context.Background()
	launcher := &fakeLauncher{}
	n := NewNative(Deps{
		Launcher:  launcher,
		Search:    fakeSearch{},
		Weather:   fakeWeather{c: weather.Conditions{Temperature: "72°F", Icon: "i"}},
		Batteries: fakeBatteries{{Name: "BAT0", StateOfCharge: 42, State: system.BatteryCharging}},
		Network:   onlineChecker(true),
		Permissions: func(context.Context) (system.Permissions, error) {
			return system.Permissions{Microphone: true, Location: true}, nil
		},
	})

	require.NoError(t, n.SetAsLauncher(ctx))
	assert.Equal(t, 1, launcher.registered)
	require.NoError(t, n.RequestPermissions(ctx))

	results, err := n.FetchSearchResults(ctx, "go")
	require.NoError(t, err)
	require.Len(t, results, 4)
	assert.Equal(t, "https://example.com/result1", results[0].Link)

	w, err := n.GetWeather(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, WeatherData{Temperature: "72°F", Icon: "i"}, w)

	bats, err := n.Batteries(ctx)
	require.NoError(t, err)
	assert.Equal(t, []BatteryInfo{{StateOfCharge: 42, State: "charging"}}, bats)

	online, err := n.CheckNetworkStatus(ctx)
	require.NoError(t, err)
	assert.True(t, online)
}

func TestNative_MissingBackends(t *testing.T) {
	ctx := context.Background()
	n := NewNative(Deps{})

	_, err := n.IsFirstRun(ctx)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, n.CompleteTutorial(ctx), ErrUnavailable)
	assert.ErrorIs(t, n.SetAsLauncher(ctx), ErrUnavailable)
	assert.ErrorIs(t, n.RequestPermissions(ctx), ErrUnavailable)
	assert.ErrorIs(t, n.InitializeSTT(ctx), ErrUnavailable)
	assert.ErrorIs(t, n.StartRecording(ctx), ErrUnavailable)
	_, err = n.ProcessTextInput(ctx, "x")
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = n.FetchSearchResults(ctx, "x")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, n.OpenLink(ctx, "https://x"), ErrUnavailable)
	_, err = n.GetWeather(ctx, 0, 0)
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = n.Batteries(ctx)
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = n.CheckNetworkStatus(ctx)
	assert.ErrorIs(t, err, ErrUnavailable)
}
