// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the plates command line.
//
// Running plates with no arguments starts the home screen. The subcommands
// reach the same backends without the TUI:
//
//	plates                      Start the home screen
//	plates ask <text>           Ask the assistant once
//	plates search <query>       Print web search results
//	plates status               Show time, weather and battery
//	plates bridge <cmd> [json]  Invoke a bridge command directly
//	plates chat                 Interactive assistant prompt
//	plates history              List recent assistant exchanges
//	plates config show|path|init|get|set
//	plates version
//
// Global flags: --config, --verbose, --offline.
package cli
