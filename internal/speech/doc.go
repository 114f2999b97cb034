// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package speech records audio and turns it into text.
//
// A Service owns the recording flag: Start fails with ErrAlreadyRecording
// while a capture is running and Stop fails with ErrNotRecording when none
// is. Audio is captured by an external recorder command into a private
// temp directory. Transcription picks a backend by Mode:
//
//   - ModeOnline uses Gemini audio understanding, falling back to the
//     Whisper API when an OpenAI key is configured.
//   - ModeOffline runs a local transcription command.
//   - ModeAuto probes the network and picks one of the above.
package speech
