// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

// MaxInputLength bounds a single prompt in runes.
const MaxInputLength = 8000

var (
	// ErrEmptyInput is returned for blank prompts.
	ErrEmptyInput = errors.New("input text is empty")

	// ErrInputTooLong is returned for prompts longer than MaxInputLength.
	ErrInputTooLong = errors.New("input text is too long")
)

// TextGenerator produces a reply for a prompt.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Engine processes assistant text input.
type Engine struct {
	gen    TextGenerator
	logger *zap.Logger
}

// New creates an Engine. gen may be nil, in which case every request
// fails with ErrNotConfigured.
func New(gen TextGenerator, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{gen: gen, logger: logger}
}

// Ready reports whether a generator is attached.
func (e *Engine) Ready() bool {
	return e.gen != nil
}

// Process normalizes text and returns the model's reply.
func (e *Engine) Process(ctx context.Context, text string) (string, error) {
	prompt, err := Normalize(text)
	if err != nil {
		return "", err
	}
	if e.gen == nil {
		return "", ErrNotConfigured
	}

	e.logger.Debug("processing text input", zap.Int("runes", utf8.RuneCountInString(prompt)))
	reply, err := e.gen.GenerateText(ctx, prompt)
	if err != nil {
		e.logger.Warn("text generation failed", zap.Error(err))
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

// Normalize converts text to NFC, trims it and enforces the length limits.
func Normalize(text string) (string, error) {
	text = strings.TrimSpace(norm.NFC.String(text))
	if text == "" {
		return "", ErrEmptyInput
	}
	if utf8.RuneCountInString(text) > MaxInputLength {
		return "", ErrInputTooLong
	}
	return text, nil
}
