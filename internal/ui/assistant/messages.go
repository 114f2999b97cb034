// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import "github.com/jeranaias/plates/internal/bridge"

// =============================================================================
// COMMANDS FROM THE HOME SCREEN
// =============================================================================

// StartCaptureMsg opens the overlay and starts recording.
type StartCaptureMsg struct{}

// StopCaptureMsg stops recording and submits the transcript.
type StopCaptureMsg struct{}

// OpenTextEntryMsg opens the overlay with a focused text box.
type OpenTextEntryMsg struct{}

// CloseMsg hides the overlay and discards anything still in flight.
type CloseMsg struct{}

// =============================================================================
// BRIDGE RESULTS
// =============================================================================

// Every result carries the session that issued it. Results from an older
// session arrive after the overlay was closed or reopened and are dropped.

type sttStatusMsg struct {
	err error
}

type recordingStartedMsg struct {
	session uint64
	err     error
}

type transcriptMsg struct {
	session uint64
	text    string
	err     error
}

// ResponseMsg carries the assistant's answer. Err is set instead of Text
// when the request failed.
type ResponseMsg struct {
	Session uint64
	Query   string
	Text    string
	Err     error
}

type searchMsg struct {
	session uint64
	results []bridge.SearchResult
	err     error
}

type linkOpenedMsg struct {
	url string
	err error
}
