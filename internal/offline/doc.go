// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package offline tracks whether plates may use the network.
//
// Offline mode is a process-wide switch (config offline_mode or the
// --offline flag). While it is on, remote backends (weather, search, text
// generation, online speech) refuse to run and the UI falls back to its
// placeholders. Independently, a Detector probes real connectivity so the
// speech service can pick online or offline transcription.
//
// # Usage
//
//	offline.SetOfflineMode(cfg.OfflineMode)
//
//	if err := offline.CheckNetworkAllowed(); err != nil {
//	    return Placeholder, err
//	}
//
//	online := offline.NewDetector(offline.DefaultProbeURL).IsOnline(ctx)
package offline
