// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package system wraps the host integration points: battery status,
// launcher registration, opening links and checking device access.
package system
