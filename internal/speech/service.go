// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package speech

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrAlreadyRecording is returned by Start while a capture is active.
	ErrAlreadyRecording = errors.New("already recording")

	// ErrNotRecording is returned by Stop when no capture is active.
	ErrNotRecording = errors.New("not recording")

	// ErrNoRecorder indicates no recorder command is configured.
	ErrNoRecorder = errors.New("no audio recorder configured")

	// ErrNoTranscriber indicates no backend can serve the selected mode.
	ErrNoTranscriber = errors.New("no speech transcriber available")
)

// OnlineChecker reports network reachability.
type OnlineChecker interface {
	IsOnline(ctx context.Context) bool
}

// Config wires a Service.
type Config struct {
	Mode     Mode
	Recorder Recorder

	// Online is the primary network transcriber (Gemini).
	Online Transcriber
	// Fallback is tried when Online fails or is missing (Whisper API).
	Fallback Transcriber
	// Local runs without the network.
	Local Transcriber

	Network OnlineChecker

	// TempDir holds recordings. Defaults to <os temp>/plates_audio.
	TempDir string

	// KeepRecordings leaves audio files on disk after transcription.
	KeepRecordings bool

	Logger *zap.Logger
}

// Service is the speech-to-text front end.
type Service struct {
	mu        sync.Mutex
	recording bool
	current   string
	mode      Mode

	recorder Recorder
	online   Transcriber
	fallback Transcriber
	local    Transcriber
	network  OnlineChecker
	tempDir  string
	keep     bool
	logger   *zap.Logger
}

// NewService creates the temp directory and returns a ready service.
func NewService(cfg Config) (*Service, error) {
	dir := cfg.TempDir
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "plates_audio")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		mode:     cfg.Mode,
		recorder: cfg.Recorder,
		online:   cfg.Online,
		fallback: cfg.Fallback,
		local:    cfg.Local,
		network:  cfg.Network,
		tempDir:  dir,
		keep:     cfg.KeepRecordings,
		logger:   logger,
	}, nil
}

// Ready reports whether the service can both record and transcribe.
func (s *Service) Ready() error {
	if s.recorder == nil {
		return ErrNoRecorder
	}
	if s.online == nil && s.fallback == nil && s.local == nil {
		return ErrNoTranscriber
	}
	return nil
}

// Mode returns the transcription mode.
func (s *Service) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetMode changes the transcription mode.
func (s *Service) SetMode(m Mode) {
	s.mu.Lock()
	s.mode = m
	s.mu.Unlock()
	s.logger.Info("speech mode changed", zap.Stringer("mode", m))
}

// IsRecording reports whether a capture is active.
func (s *Service) IsRecording() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recording
}

// Start begins a capture.
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.recording {
		return ErrAlreadyRecording
	}
	if s.recorder == nil {
		return ErrNoRecorder
	}

	path := filepath.Join(s.tempDir, "recording_"+uuid.NewString()+".wav")
	if err := s.recorder.Start(path); err != nil {
		return err
	}
	s.recording = true
	s.current = path
	s.logger.Debug("recording started", zap.String("path", path))
	return nil
}

// Stop ends the capture and transcribes it.
func (s *Service) Stop(ctx context.Context) (Result, error) {
	s.mu.Lock()
	if !s.recording {
		s.mu.Unlock()
		return Result{}, ErrNotRecording
	}
	path := s.current
	s.recording = false
	s.current = ""
	s.mu.Unlock()

	if err := s.recorder.Stop(); err != nil {
		s.logger.Warn("recorder stop failed", zap.Error(err))
	}
	s.logger.Debug("recording stopped", zap.String("path", path))

	if !s.keep {
		defer os.Remove(path)
	}
	return s.Transcribe(ctx, path)
}

// Transcribe converts an existing audio file to text using the current
// mode.
func (s *Service) Transcribe(ctx context.Context, path string) (Result, error) {
	if _, err := os.Stat(path); err != nil {
		return Result{}, fmt.Errorf("audio file not found: %w", err)
	}

	mode := s.Mode()
	if mode == ModeAuto {
		mode = ModeOffline
		if s.network != nil && s.network.IsOnline(ctx) {
			mode = ModeOnline
		}
	}
	s.logger.Debug("transcribing", zap.Stringer("mode", mode))

	if mode == ModeOnline {
		return s.transcribeOnline(ctx, path)
	}
	return s.transcribeOffline(ctx, path)
}

func (s *Service) transcribeOnline(ctx context.Context, path string) (Result, error) {
	if s.online != nil {
		res, err := s.online.Transcribe(ctx, path)
		if err == nil {
			return res, nil
		}
		if s.fallback == nil {
			return Result{}, err
		}
		s.logger.Warn("online transcription failed, trying fallback", zap.Error(err))
	}
	if s.fallback != nil {
		return s.fallback.Transcribe(ctx, path)
	}
	return Result{}, ErrNoTranscriber
}

func (s *Service) transcribeOffline(ctx context.Context, path string) (Result, error) {
	if s.local != nil {
		return s.local.Transcribe(ctx, path)
	}
	// No local model: use the network after all if it is there.
	if s.network != nil && s.network.IsOnline(ctx) {
		return s.transcribeOnline(ctx, path)
	}
	return Result{}, ErrNoTranscriber
}
