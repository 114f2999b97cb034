// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/jeranaias/plates/internal/offline"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.0-flash"

var (
	// ErrNotConfigured indicates the Gemini API key is not set.
	ErrNotConfigured = errors.New("GEMINI_API_KEY not configured")

	// ErrNoText indicates the model answered without any text part.
	ErrNoText = errors.New("no response text found in Gemini response")
)

// Gemini generates text with the Gemini API.
type Gemini struct {
	client  *genai.Client
	model   string
	system  string
	limiter *rate.Limiter
}

// NewGemini creates a Gemini generator. An empty model selects DefaultModel.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Gemini{
		client:  client,
		model:   model,
		limiter: rate.NewLimiter(rate.Limit(2), 4),
	}, nil
}

// WithSystemPrompt sets a system instruction sent with every request.
func (g *Gemini) WithSystemPrompt(prompt string) *Gemini {
	g.system = strings.TrimSpace(prompt)
	return g
}

// Model returns the configured model name.
func (g *Gemini) Model() string {
	return g.model
}

// Client exposes the underlying genai client for other Gemini consumers.
func (g *Gemini) Client() *genai.Client {
	return g.client
}

// GenerateText sends prompt to the model and returns the concatenated text
// of the first candidate.
func (g *Gemini) GenerateText(ctx context.Context, prompt string) (string, error) {
	if err := offline.CheckNetworkAllowed(); err != nil {
		return "", err
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("gemini rate limit: %w", err)
	}

	var cfg *genai.GenerateContentConfig
	if g.system != "" {
		cfg = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(g.system, genai.RoleUser),
		}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}, cfg)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}
	return ResponseText(resp)
}

// ResponseText extracts the text parts of the first candidate.
func ResponseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", ErrNoText
	}
	c := resp.Candidates[0]
	if c.Content == nil {
		return "", ErrNoText
	}

	var sb strings.Builder
	for _, part := range c.Content.Parts {
		if part != nil && part.Text != "" && !part.Thought {
			sb.WriteString(part.Text)
		}
	}
	if sb.Len() == 0 {
		return "", ErrNoText
	}
	return sb.String(), nil
}
