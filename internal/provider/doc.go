// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package provider supplies the values shown on the home screen.
//
// Each provider has a one-shot FetchOnce and a Subscribe that repeats the
// fetch on a cadence through the ticker package. Fetches never fail: the
// weather and battery providers map every backend error to a fixed
// fallback value.
//
// Value is a small observable cell for consumers outside the UI event loop.
package provider
