// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package bridge is the command surface between the UI and the native
// backends.
//
// The Bridge interface is what the UI consumes. Native implements it on top
// of the storage, speech, engine, search, weather and system packages.
// Invoke dispatches the same operations by command name with JSON
// arguments, which is how the CLI exposes them:
//
//	out, err := bridge.Invoke(ctx, b, "get_weather", json.RawMessage(`{"lat":40.7,"lon":-74}`))
package bridge
