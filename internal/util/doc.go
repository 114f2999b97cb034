// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util holds the small string and file helpers shared by plates
// packages.
//
// String helpers:
//   - TruncateWidth: cut to a number of terminal columns, wide runes count twice
//   - TruncateRunes: cut to a number of runes, for log fields
//   - SingleLine: collapse whitespace and newlines for one-line listings
//
// File helpers:
//   - AtomicWriteFile, AtomicWriteFileWithDir: write through a temp file and
//     rename, used for config and launcher entries
//
// # Usage
//
//	title := util.TruncateWidth(util.SingleLine(r.Title), width-4)
//	err := util.AtomicWriteFile(path, data, 0600)
package util
