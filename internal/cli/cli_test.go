// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jeranaias/plates/internal/bridge"
	"github.com/jeranaias/plates/internal/bridge/bridgetest"
	"github.com/jeranaias/plates/internal/config"
	"github.com/jeranaias/plates/internal/offline"
	"github.com/jeranaias/plates/internal/storage"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// isolate points HOME at a temp dir and writes a config file there.
func isolate(t *testing.T, mutate func(*config.Config)) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Cleanup(func() { offline.SetOfflineMode(false) })

	cfg := config.Default()
	cfg.Log.File = filepath.Join(home, "plates.log")
	cfg.Storage.Path = filepath.Join(home, "plates.db")
	if mutate != nil {
		mutate(cfg)
	}
	path := filepath.Join(home, "config.toml")
	require.NoError(t, config.SaveTOML(cfg, path))
	return path
}

func fakeApp(fake bridge.Bridge, store *storage.Store) *app {
	return &app{newBackend: func(context.Context, *config.Config, *zap.Logger) (*Backend, error) {
		return &Backend{Bridge: fake, Store: store, logger: zap.NewNop()}, nil
	}}
}

func run(a *app, args ...string) (string, error) {
	root := newRootCmd(a)
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

// =============================================================================
// ASK / SEARCH
// =============================================================================

func TestAsk(t *testing.T) {
	path := isolate(t, nil)
	var got string
	fake := &bridgetest.Fake{ProcessFn: func(text string) (string, error) {
		got = text
		return "**Sunny** all day", nil
	}}

	output, err := run(fakeApp(fake, nil), "--config", path, "ask", "--raw", "will", "it", "rain?")
	require.NoError(t, err)
	assert.Equal(t, "will it rain?", got)
	assert.Equal(t, "**Sunny** all day\n", output)
	assert.Zero(t, fake.Calls("fetch_search_results"))
}

func TestAsk_WithSearch(t *testing.T) {
	path := isolate(t, nil)
	fake := &bridgetest.Fake{
		ProcessFn: func(string) (string, error) { return "Go is a language.", nil },
		SearchFn: func(q string) ([]bridge.SearchResult, error) {
			return []bridge.SearchResult{{Title: "The Go Programming Language", Link: "https://go.dev", Snippet: "Build simple,\nsecure software"}}, nil
		},
	}

	output, err := run(fakeApp(fake, nil), "--config", path, "ask", "--raw", "-s", "golang")
	require.NoError(t, err)
	assert.Contains(t, output, "Go is a language.")
	assert.Contains(t, output, "1. The Go Programming Language")
	assert.Contains(t, output, "https://go.dev")
	assert.Contains(t, output, "Build simple, secure software")
}

func TestAsk_Error(t *testing.T) {
	path := isolate(t, nil)
	fake := &bridgetest.Fake{ProcessFn: func(string) (string, error) { return "", errors.New("quota exceeded") }}

	_, err := run(fakeApp(fake, nil), "--config", path, "ask", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "assistant: quota exceeded")
}

func TestAsk_RequiresText(t *testing.T) {
	path := isolate(t, nil)
	_, err := run(fakeApp(&bridgetest.Fake{}, nil), "--config", path, "ask")
	assert.Error(t, err)
}

func TestSearch_NoResults(t *testing.T) {
	path := isolate(t, nil)
	output, err := run(fakeApp(&bridgetest.Fake{}, nil), "--config", path, "search", "nothing")
	require.NoError(t, err)
	assert.Contains(t, output, "No results.")
}

// =============================================================================
// STATUS
// =============================================================================

func statusFake() *bridgetest.Fake {
	return &bridgetest.Fake{
		Weather:     bridge.WeatherData{Temperature: "72°F"},
		BatteryList: []bridge.BatteryInfo{{StateOfCharge: 42, State: "charging"}},
		Online:      true,
		Mode:        "auto",
	}
}

func withLocation(cfg *config.Config) {
	cfg.Location.Latitude = 40.7
	cfg.Location.Longitude = -74
	cfg.Location.Name = "New York"
}

func TestStatus_JSON(t *testing.T) {
	path := isolate(t, withLocation)

	output, err := run(fakeApp(statusFake(), nil), "--config", path, "status", "--json")
	require.NoError(t, err)

	var st Status
	require.NoError(t, json.Unmarshal([]byte(output), &st))
	assert.NotEmpty(t, st.Time)
	assert.NotEmpty(t, st.Date)
	assert.Equal(t, "72°F", st.Weather.Temperature)
	assert.Equal(t, 42, st.Battery.Level)
	assert.Equal(t, "charging", st.Battery.State)
	assert.True(t, st.Online)
	assert.False(t, st.Offline)
	assert.Equal(t, "ready", st.Voice)
	assert.Equal(t, "auto", st.STTMode)
	assert.Equal(t, "New York", st.Location)
}

func TestStatus_Text(t *testing.T) {
	path := isolate(t, withLocation)
	fake := statusFake()
	fake.InitSTTErr = errors.New("no audio recorder configured")

	output, err := run(fakeApp(fake, nil), "--config", path, "status")
	require.NoError(t, err)
	assert.Contains(t, output, "72°F")
	assert.Contains(t, output, "New York")
	assert.Contains(t, output, "42% charging")
	assert.Contains(t, output, "online")
	assert.Contains(t, output, "no audio recorder configured")
}

func TestStatus_Fallbacks(t *testing.T) {
	path := isolate(t, nil)
	fake := &bridgetest.Fake{BatteryErr: errors.New("no sysfs")}

	output, err := run(fakeApp(fake, nil), "--config", path, "status", "--json")
	require.NoError(t, err)

	var st Status
	require.NoError(t, json.Unmarshal([]byte(output), &st))
	assert.Equal(t, "--°F", st.Weather.Temperature, "no location")
	assert.Equal(t, 100, st.Battery.Level)
	assert.Zero(t, fake.Calls("get_weather"))
}

func TestOfflineFlag(t *testing.T) {
	path := isolate(t, nil)

	output, err := run(fakeApp(statusFake(), nil), "--config", path, "--offline", "status", "--json")
	require.NoError(t, err)
	assert.True(t, offline.IsOfflineMode())

	var st Status
	require.NoError(t, json.Unmarshal([]byte(output), &st))
	assert.True(t, st.Offline)
}

func TestMissingExplicitConfigFails(t *testing.T) {
	isolate(t, nil)
	_, err := run(fakeApp(statusFake(), nil), "--config", filepath.Join(t.TempDir(), "nope.toml"), "status")
	assert.Error(t, err)
}

// =============================================================================
// BRIDGE
// =============================================================================

func TestBridge_ListsCommands(t *testing.T) {
	path := isolate(t, nil)
	output, err := run(fakeApp(&bridgetest.Fake{}, nil), "--config", path, "bridge")
	require.NoError(t, err)
	for _, name := range []string{"get_weather", "process_text_input", "set_stt_mode", "batteries"} {
		assert.Contains(t, output, name+"\n")
	}
}

func TestBridge_Invoke(t *testing.T) {
	path := isolate(t, nil)
	fake := statusFake()

	output, err := run(fakeApp(fake, nil), "--config", path, "bridge", "batteries")
	require.NoError(t, err)
	var list []bridge.BatteryInfo
	require.NoError(t, json.Unmarshal([]byte(output), &list))
	assert.Equal(t, []bridge.BatteryInfo{{StateOfCharge: 42, State: "charging"}}, list)

	_, err = run(fakeApp(fake, nil), "--config", path, "bridge", "set_stt_mode", `{"mode": "offline"}`)
	require.NoError(t, err)
	assert.Equal(t, "offline", fake.Mode)
}

func TestBridge_Errors(t *testing.T) {
	path := isolate(t, nil)

	_, err := run(fakeApp(&bridgetest.Fake{}, nil), "--config", path, "bridge", "reboot")
	assert.ErrorIs(t, err, bridge.ErrUnknownCommand)

	_, err = run(fakeApp(&bridgetest.Fake{}, nil), "--config", path, "bridge", "get_weather", "{not json")
	assert.ErrorIs(t, err, bridge.ErrBadArgs)
}

// =============================================================================
// CONFIG
// =============================================================================

func TestConfigCommands(t *testing.T) {
	isolate(t, nil)
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	a := func() *app { return fakeApp(&bridgetest.Fake{}, nil) }

	output, err := run(a(), "--config", path, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, path+"\n", output)

	_, err = run(a(), "--config", path, "config", "show")
	assert.Error(t, err, "explicit config must exist")

	_, err = run(a(), "--config", path, "config", "init")
	require.NoError(t, err)
	_, err = run(a(), "--config", path, "config", "init")
	assert.ErrorIs(t, err, ErrConfigExists)
	_, err = run(a(), "--config", path, "config", "init", "--force")
	require.NoError(t, err)

	_, err = run(a(), "--config", path, "config", "set", "ui.theme", "light")
	require.NoError(t, err)
	output, err = run(a(), "--config", path, "config", "get", "ui.theme")
	require.NoError(t, err)
	assert.Equal(t, "light\n", output)

	_, err = run(a(), "--config", path, "config", "set", "ui.theme", "purple")
	assert.Error(t, err, "validated before saving")
	output, _ = run(a(), "--config", path, "config", "get", "ui.theme")
	assert.Equal(t, "light\n", output)

	_, err = run(a(), "--config", path, "config", "set", "weather.api_key", "sekrit")
	require.NoError(t, err)
	output, err = run(a(), "--config", path, "config", "show")
	require.NoError(t, err)
	assert.NotContains(t, output, "sekrit")
	assert.Contains(t, output, "[REDACTED]")

	_, err = run(a(), "--config", path, "config", "get", "ui.nope")
	assert.Error(t, err)
}

func TestConfigInit_DefaultPath(t *testing.T) {
	isolate(t, nil)

	_, err := run(fakeApp(&bridgetest.Fake{}, nil), "config", "init")
	require.NoError(t, err)

	want, err := config.ConfigPath()
	require.NoError(t, err)
	cfg, err := config.LoadFromPath(want)
	require.NoError(t, err)
	assert.Equal(t, config.Default().Gesture.LongPressMs, cfg.Gesture.LongPressMs)
}

func TestVersion(t *testing.T) {
	output, err := run(fakeApp(&bridgetest.Fake{}, nil), "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(output, "plates "+Version+"\n"), output)
	assert.Contains(t, output, "commit: "+GitCommit)
}

// =============================================================================
// HISTORY
// =============================================================================

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	return store
}

func TestHistory(t *testing.T) {
	path := isolate(t, nil)
	store := openStore(t)
	ctx := context.Background()
	_, err := store.RecordExchange(ctx, storage.Exchange{Source: storage.SourceVoice, Prompt: "turn on the lights", Response: "Done."})
	require.NoError(t, err)
	_, err = store.RecordExchange(ctx, storage.Exchange{Source: storage.SourceText, Prompt: "weather", Error: "quota exceeded"})
	require.NoError(t, err)

	output, err := run(fakeApp(&bridgetest.Fake{}, store), "--config", path, "history")
	require.NoError(t, err)
	assert.Contains(t, output, "[voice]")
	assert.Contains(t, output, "turn on the lights")
	assert.Contains(t, output, "Done.")
	assert.Contains(t, output, "error: quota exceeded")
	assert.Less(t, strings.Index(output, "turn on the lights"), strings.Index(output, "weather"), "oldest first")
}

func TestHistory_Unavailable(t *testing.T) {
	path := isolate(t, nil)
	_, err := run(fakeApp(&bridgetest.Fake{}, nil), "--config", path, "history")
	assert.Error(t, err)
}

// =============================================================================
// CHAT
// =============================================================================

type scriptedPrompter struct {
	lines   []string
	end     error
	history []string
}

func (p *scriptedPrompter) Prompt(string) (string, error) {
	if len(p.lines) == 0 {
		if p.end != nil {
			return "", p.end
		}
		return "", io.EOF
	}
	line := p.lines[0]
	p.lines = p.lines[1:]
	return line, nil
}

func (p *scriptedPrompter) AppendHistory(item string) {
	p.history = append(p.history, item)
}

func newChat(in prompter, fake bridge.Bridge, history historyLister) (*chatSession, *bytes.Buffer) {
	var buf bytes.Buffer
	return &chatSession{
		in:      in,
		out:     &buf,
		bridge:  fake,
		history: history,
		logger:  zap.NewNop(),
		timeout: DefaultAskTimeout,
		render:  chatRenderer(true),
	}, &buf
}

func TestChatSession(t *testing.T) {
	fake := &bridgetest.Fake{
		Mode:      "auto",
		ProcessFn: func(text string) (string, error) { return "echo: " + text, nil },
		SearchFn: func(q string) ([]bridge.SearchResult, error) {
			return []bridge.SearchResult{{Title: "Result for " + q, Link: "https://example.com"}}, nil
		},
	}
	store := openStore(t)
	t.Cleanup(func() { store.Close() })
	_, err := store.RecordExchange(context.Background(), storage.Exchange{Prompt: "earlier question", Response: "earlier answer"})
	require.NoError(t, err)

	in := &scriptedPrompter{lines: []string{
		"hello",
		"   ",
		"/mode offline",
		"/search go",
		"/history",
		"/bogus",
		"/quit",
		"never read",
	}}
	s, buf := newChat(in, fake, store)

	require.NoError(t, s.run(context.Background()))
	output := buf.String()

	assert.Contains(t, output, "echo: hello")
	assert.Contains(t, output, "speech mode: offline")
	assert.Contains(t, output, "Result for go")
	assert.Contains(t, output, "earlier question")
	assert.Contains(t, output, "unknown command /bogus")
	assert.Equal(t, []string{"never read"}, in.lines)
	assert.Equal(t, 1, fake.Calls("process_text_input"))
	assert.NotContains(t, in.history, "   ")
}

func TestChatSession_ExitPaths(t *testing.T) {
	for _, end := range []error{io.EOF, errors.New("prompt aborted")} {
		in := &scriptedPrompter{lines: []string{"hi"}, end: end}
		s, _ := newChat(in, &bridgetest.Fake{}, nil)
		err := s.run(context.Background())
		if errors.Is(end, io.EOF) {
			assert.NoError(t, err)
		} else {
			assert.Error(t, err, "unexpected prompt errors surface")
		}
	}

	in := &scriptedPrompter{lines: []string{"quit", "never read"}}
	s, _ := newChat(in, &bridgetest.Fake{}, nil)
	require.NoError(t, s.run(context.Background()))
	assert.Len(t, in.lines, 1)
}

func TestChatSession_ShowsErrorsAndContinues(t *testing.T) {
	fake := &bridgetest.Fake{ProcessFn: func(string) (string, error) { return "", errors.New("offline") }}
	in := &scriptedPrompter{lines: []string{"one", "two", "/history"}}
	s, buf := newChat(in, fake, nil)

	require.NoError(t, s.run(context.Background()))
	assert.Equal(t, 2, fake.Calls("process_text_input"))
	assert.Equal(t, 2, strings.Count(buf.String(), "[Error] offline"))
	assert.Contains(t, buf.String(), "History is not available.")
}

func TestChatSession_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	in := &scriptedPrompter{lines: []string{"hi"}}
	s, _ := newChat(in, &bridgetest.Fake{}, nil)

	require.NoError(t, s.run(ctx))
	assert.Len(t, in.lines, 1)
}

// =============================================================================
// BACKEND WIRING
// =============================================================================

func TestNewBackend(t *testing.T) {
	isolate(t, nil)
	offline.SetOfflineMode(true)

	cfg := config.Default()
	cfg.Storage.Path = filepath.Join(t.TempDir(), "plates.db")

	b, err := NewBackend(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, b.Store)

	ctx := context.Background()
	first, err := b.Bridge.IsFirstRun(ctx)
	require.NoError(t, err)
	assert.True(t, first)

	online, err := b.Bridge.CheckNetworkStatus(ctx)
	require.NoError(t, err)
	assert.False(t, online, "offline mode never probes")

	_, err = b.Bridge.ProcessTextInput(ctx, "hello")
	assert.Error(t, err, "no Gemini key")

	require.NoError(t, b.Close())
}
