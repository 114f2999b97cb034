// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for plates.
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (PLATES_*, plus the provider API key variables)
//   - ~/.plates/config.toml
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	cadence := cfg.Polling.Weather()
//
// A Watcher reloads the file when it changes on disk:
//
//	w, err := config.NewWatcher(path, func(c *config.Config) { ... }, nil)
//	defer w.Close()
package config
