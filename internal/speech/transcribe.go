// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/jeranaias/plates/internal/engine"
	"github.com/jeranaias/plates/internal/offline"
)

// DefaultLanguage is reported for transcripts whose backend does not
// detect a language.
const DefaultLanguage = "en"

const transcribePrompt = "You are a speech-to-text transcription service. Transcribe the audio accurately. Reply with the transcript only."

// Result is a finished transcription.
type Result struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// Transcriber converts an audio file to text.
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (Result, error)
}

// =============================================================================
// GEMINI
// =============================================================================

// GeminiTranscriber sends the recording inline to a Gemini model.
type GeminiTranscriber struct {
	client *genai.Client
	model  string
}

// NewGeminiTranscriber wraps an existing genai client.
func NewGeminiTranscriber(client *genai.Client, model string) *GeminiTranscriber {
	if model == "" {
		model = engine.DefaultModel
	}
	return &GeminiTranscriber{client: client, model: model}
}

// Transcribe implements Transcriber.
func (g *GeminiTranscriber) Transcribe(ctx context.Context, path string) (Result, error) {
	if err := offline.CheckNetworkAllowed(); err != nil {
		return Result{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read audio file: %w", err)
	}

	parts := []*genai.Part{
		genai.NewPartFromText(transcribePrompt),
		genai.NewPartFromBytes(data, "audio/wav"),
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}, nil)
	if err != nil {
		return Result{}, fmt.Errorf("Gemini transcription error: %w", err)
	}
	text, err := engine.ResponseText(resp)
	if err != nil {
		return Result{}, err
	}
	return Result{Text: strings.TrimSpace(text), Language: DefaultLanguage}, nil
}

// =============================================================================
// WHISPER API
// =============================================================================

// DefaultWhisperURL is the OpenAI transcription endpoint.
const DefaultWhisperURL = "https://api.openai.com/v1/audio/transcriptions"

// WhisperTranscriber uses the OpenAI Whisper API.
type WhisperTranscriber struct {
	apiKey     string
	url        string
	language   string
	httpClient *http.Client
}

// NewWhisperTranscriber creates a Whisper API client.
func NewWhisperTranscriber(apiKey string) *WhisperTranscriber {
	return &WhisperTranscriber{
		apiKey:     strings.TrimSpace(apiKey),
		url:        DefaultWhisperURL,
		language:   DefaultLanguage,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// WithURL sets a custom endpoint.
func (w *WhisperTranscriber) WithURL(u string) *WhisperTranscriber {
	w.url = u
	return w
}

// Transcribe implements Transcriber.
func (w *WhisperTranscriber) Transcribe(ctx context.Context, path string) (Result, error) {
	if w.apiKey == "" {
		return Result{}, errors.New("OPENAI_API_KEY not configured")
	}
	if err := offline.CheckNetworkAllowed(); err != nil {
		return Result{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read audio file: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return Result{}, fmt.Errorf("failed to create multipart form: %w", err)
	}
	if _, err := io.Copy(fw, f); err != nil {
		return Result{}, fmt.Errorf("failed to copy audio: %w", err)
	}
	_ = mw.WriteField("model", "whisper-1")
	_ = mw.WriteField("language", w.language)
	if err := mw.Close(); err != nil {
		return Result{}, fmt.Errorf("failed to finish multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, &body)
	if err != nil {
		return Result{}, fmt.Errorf("failed to build Whisper request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+w.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("failed to send request to Whisper API: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Result{}, fmt.Errorf("failed to read Whisper response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{}, fmt.Errorf("Whisper API error (HTTP %d): %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return Result{}, fmt.Errorf("failed to parse Whisper response: %w", err)
	}
	return Result{Text: strings.TrimSpace(parsed.Text), Language: w.language}, nil
}

// =============================================================================
// LOCAL COMMAND
// =============================================================================

// CommandTranscriber runs a local program (for example whisper.cpp) and
// reads the transcript from its standard output.
type CommandTranscriber struct {
	Command string
	Args    []string
}

// NewCommandTranscriber parses a command line.
func NewCommandTranscriber(line string) (*CommandTranscriber, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, errors.New("transcriber command is empty")
	}
	return &CommandTranscriber{Command: fields[0], Args: fields[1:]}, nil
}

// Transcribe implements Transcriber.
func (c *CommandTranscriber) Transcribe(ctx context.Context, path string) (Result, error) {
	cmd := exec.CommandContext(ctx, c.Command, expandArgs(c.Args, path)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return Result{}, fmt.Errorf("local transcriber failed: %w: %s", err, msg)
		}
		return Result{}, fmt.Errorf("local transcriber failed: %w", err)
	}
	return Result{Text: strings.TrimSpace(string(out)), Language: DefaultLanguage}, nil
}
