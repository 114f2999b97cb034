// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package engine answers assistant prompts with a text generation model.
//
// The Engine normalizes and validates user input, then hands it to a
// TextGenerator. Gemini is the production generator.
package engine
