// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists launcher state for plates.
//
// State lives in a single SQLite database (pure Go driver, no cgo) under
// the plates data directory:
//
//   - settings: small key/value facts such as tutorial completion
//   - exchanges: assistant history (prompt, response, voice or text)
//
// # Usage
//
//	store, err := storage.Open(filepath.Join(dir, "plates.db"))
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	first, _ := store.IsFirstRun(ctx)
package storage
