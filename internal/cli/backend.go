// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/plates/internal/bridge"
	"github.com/jeranaias/plates/internal/config"
	"github.com/jeranaias/plates/internal/engine"
	"github.com/jeranaias/plates/internal/offline"
	"github.com/jeranaias/plates/internal/search"
	"github.com/jeranaias/plates/internal/speech"
	"github.com/jeranaias/plates/internal/storage"
	"github.com/jeranaias/plates/internal/system"
	"github.com/jeranaias/plates/internal/weather"
)

// Backend is a bridge together with the resources it owns.
type Backend struct {
	Bridge bridge.Bridge
	// Store is nil when the bridge is not backed by the state database.
	Store *storage.Store

	historyLimit int
	logger       *zap.Logger
}

// Close prunes the assistant history to the configured limit and closes
// the database.
func (b *Backend) Close() error {
	if b.Store == nil {
		return nil
	}
	if b.historyLimit > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if n, err := b.Store.PruneExchanges(ctx, b.historyLimit); err != nil {
			b.logger.Warn("failed to prune history", zap.Error(err))
		} else if n > 0 {
			b.logger.Debug("pruned history", zap.Int64("removed", n))
		}
		cancel()
	}
	return b.Store.Close()
}

// BackendFactory builds the backend for a loaded config.
type BackendFactory func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Backend, error)

// NewBackend wires the native bridge from cfg. Backends whose credentials
// are missing are left out or run in their placeholder mode; only the
// state database is required.
func NewBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Backend, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	dbPath, err := cfg.DatabasePath()
	if err != nil {
		return nil, err
	}
	store, err := storage.Open(dbPath)
	if err != nil {
		return nil, err
	}

	deps := bridge.Deps{
		Store:     store,
		Opener:    system.NewOpener(),
		Batteries: system.NewSysfsBatteries(),
		Logger:    logger,
	}

	if launcher, err := system.NewLauncher(); err != nil {
		logger.Warn("launcher registration unavailable", zap.Error(err))
	} else {
		deps.Launcher = launcher
	}

	network := offline.NewDetector(cfg.Speech.ProbeURL)
	deps.Network = network

	gemini, err := engine.NewGemini(ctx, cfg.Assistant.GeminiAPIKey, cfg.Assistant.Model)
	switch {
	case errors.Is(err, engine.ErrNotConfigured):
		logger.Info("assistant disabled: no Gemini API key")
		deps.Engine = engine.New(nil, logger.Named("engine"))
	case err != nil:
		logger.Warn("assistant disabled", zap.Error(err))
		deps.Engine = engine.New(nil, logger.Named("engine"))
	default:
		gemini.WithSystemPrompt(cfg.Assistant.SystemPrompt)
		deps.Engine = engine.New(gemini, logger.Named("engine"))
	}

	speechSvc, err := newSpeechService(cfg, gemini, network, logger.Named("speech"))
	if err != nil {
		logger.Warn("voice input disabled", zap.Error(err))
	} else {
		deps.Speech = speechSvc
	}

	searchClient := search.NewClient(cfg.Search.APIKey, cfg.Search.EngineID).
		WithLogger(logger.Named("search"))
	if cfg.Search.BaseURL != "" {
		searchClient.WithBaseURL(cfg.Search.BaseURL)
	}
	deps.Search = searchClient

	weatherClient := weather.NewClient(cfg.Weather.APIKey).
		WithUnits(weather.Units(cfg.Weather.Units)).
		WithMinInterval(time.Duration(cfg.Weather.MinIntervalSecs) * time.Second)
	if cfg.Weather.BaseURL != "" {
		weatherClient.WithBaseURL(cfg.Weather.BaseURL)
	}
	deps.Weather = weatherClient

	recorder, haveLocation := cfg.Speech.RecorderCommand, cfg.Location.Known()
	deps.Permissions = func(context.Context) (system.Permissions, error) {
		return system.CheckPermissions(recorder, haveLocation, nil)
	}

	return &Backend{
		Bridge:       bridge.NewNative(deps),
		Store:        store,
		historyLimit: cfg.Assistant.HistoryLimit,
		logger:       logger,
	}, nil
}

// newSpeechService assembles the recorder and transcribers. gemini may be
// nil.
func newSpeechService(cfg *config.Config, gemini *engine.Gemini, network speech.OnlineChecker, logger *zap.Logger) (*speech.Service, error) {
	mode, err := speech.ParseMode(cfg.Speech.Mode)
	if err != nil {
		return nil, err
	}

	sc := speech.Config{
		Mode:           mode,
		Network:        network,
		KeepRecordings: cfg.Speech.KeepRecordings,
		Logger:         logger,
	}
	if cfg.Speech.RecorderCommand != "" {
		rec, err := speech.NewCommandRecorder(cfg.Speech.RecorderCommand)
		if err != nil {
			return nil, fmt.Errorf("recorder: %w", err)
		}
		sc.Recorder = rec
	}
	if gemini != nil {
		sc.Online = speech.NewGeminiTranscriber(gemini.Client(), gemini.Model())
	}
	if cfg.Speech.OpenAIAPIKey != "" {
		sc.Fallback = speech.NewWhisperTranscriber(cfg.Speech.OpenAIAPIKey)
	}
	if cfg.Speech.LocalCommand != "" {
		local, err := speech.NewCommandTranscriber(cfg.Speech.LocalCommand)
		if err != nil {
			return nil, fmt.Errorf("local transcriber: %w", err)
		}
		sc.Local = local
	}
	return speech.NewService(sc)
}
