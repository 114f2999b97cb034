// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package search queries the Google Custom Search JSON API.
//
// When the API key or engine id is missing, or the API answers with a
// non-2xx status, the client returns a fixed set of placeholder results so
// the assistant overlay always has something to show.
package search
