// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
)

// Ack is the result of commands that return nothing.
type Ack struct {
	OK bool `json:"ok"`
}

type handler func(ctx context.Context, b Bridge, args json.RawMessage) (any, error)

var handlers = map[string]handler{
	"is_first_run": func(ctx context.Context, b Bridge, _ json.RawMessage) (any, error) {
		return b.IsFirstRun(ctx)
	},
	"complete_tutorial": ack(func(ctx context.Context, b Bridge) error { return b.CompleteTutorial(ctx) }),
	"set_as_launcher":   ack(func(ctx context.Context, b Bridge) error { return b.SetAsLauncher(ctx) }),
	"request_permissions": ack(func(ctx context.Context, b Bridge) error {
		return b.RequestPermissions(ctx)
	}),
	"initialize_stt":  ack(func(ctx context.Context, b Bridge) error { return b.InitializeSTT(ctx) }),
	"start_recording": ack(func(ctx context.Context, b Bridge) error { return b.StartRecording(ctx) }),
	"stop_recording": func(ctx context.Context, b Bridge, _ json.RawMessage) (any, error) {
		return b.StopRecording(ctx)
	},
	"transcribe_audio": func(ctx context.Context, b Bridge, raw json.RawMessage) (any, error) {
		var args struct {
			Path string `json:"path"`
		}
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		return b.TranscribeAudio(ctx, args.Path)
	},
	"set_stt_mode": func(ctx context.Context, b Bridge, raw json.RawMessage) (any, error) {
		var args struct {
			Mode string `json:"mode"`
		}
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		return Ack{OK: true}, b.SetSTTMode(ctx, args.Mode)
	},
	"get_stt_mode": func(ctx context.Context, b Bridge, _ json.RawMessage) (any, error) {
		return b.STTMode(ctx)
	},
	"process_text_input": func(ctx context.Context, b Bridge, raw json.RawMessage) (any, error) {
		var args struct {
			Text string `json:"text"`
		}
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		resp, err := b.ProcessTextInput(ctx, args.Text)
		if err != nil {
			return nil, err
		}
		return struct {
			Response string `json:"response"`
		}{resp}, nil
	},
	"fetch_search_results": func(ctx context.Context, b Bridge, raw json.RawMessage) (any, error) {
		var args struct {
			Query string `json:"query"`
		}
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		results, err := b.FetchSearchResults(ctx, args.Query)
		if results == nil {
			results = []SearchResult{}
		}
		return results, err
	},
	"open_link": func(ctx context.Context, b Bridge, raw json.RawMessage) (any, error) {
		var args struct {
			URL string `json:"url"`
		}
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		return Ack{OK: true}, b.OpenLink(ctx, args.URL)
	},
	"get_weather": func(ctx context.Context, b Bridge, raw json.RawMessage) (any, error) {
		var args struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		}
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		return b.GetWeather(ctx, args.Lat, args.Lon)
	},
	"batteries": func(ctx context.Context, b Bridge, _ json.RawMessage) (any, error) {
		list, err := b.Batteries(ctx)
		if list == nil {
			list = []BatteryInfo{}
		}
		return list, err
	},
	"check_network_status": func(ctx context.Context, b Bridge, _ json.RawMessage) (any, error) {
		return b.CheckNetworkStatus(ctx)
	},
}

func ack(fn func(ctx context.Context, b Bridge) error) handler {
	return func(ctx context.Context, b Bridge, _ json.RawMessage) (any, error) {
		if err := fn(ctx, b); err != nil {
			return nil, err
		}
		return Ack{OK: true}, nil
	}
}

func decodeArgs(raw json.RawMessage, v any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadArgs, err)
	}
	return nil
}

// Commands returns the registered command names in sorted order.
func Commands() []string {
	names := make([]string, 0, len(handlers))
	for name := range handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke runs command on b with JSON args and returns the JSON result.
func Invoke(ctx context.Context, b Bridge, command string, args json.RawMessage) (json.RawMessage, error) {
	h, ok := handlers[command]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, command)
	}

	result, err := h(ctx, b, args)
	if err != nil {
		return nil, err
	}

	out, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s result: %w", command, err)
	}
	return out, nil
}
