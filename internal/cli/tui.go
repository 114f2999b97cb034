// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/plates/internal/config"
	"github.com/jeranaias/plates/internal/offline"
	"github.com/jeranaias/plates/internal/onboarding"
	"github.com/jeranaias/plates/internal/ui/home"
)

// runTUI starts the home screen and keeps it in sync with the config file.
func (a *app) runTUI(cmd *cobra.Command, _ []string) error {
	if !IsTTY() || !IsStdoutTTY() {
		return ErrNotTerminal
	}

	steps, err := loadSteps(a.cfg)
	if err != nil {
		return err
	}

	return a.withBackend(cmd, func(_ context.Context, b *Backend) error {
		m, err := home.New(home.Options{
			Bridge: b.Bridge,
			Config: a.cfg,
			Steps:  steps,
			Logger: a.logger,
		})
		if err != nil {
			return err
		}

		opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithReportFocus()}
		if a.cfg.UI.Mouse {
			opts = append(opts, tea.WithMouseCellMotion())
		}
		p := tea.NewProgram(m, append(opts, tea.WithContext(cmd.Context()))...)

		if w := a.watchConfig(p); w != nil {
			defer w.Close()
		}

		a.logger.Info("home screen started")
		final, err := p.Run()
		if fm, ok := final.(home.Model); ok {
			fm.Shutdown()
		}
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	})
}

// watchConfig forwards config file changes to the running program. A
// missing file or watcher failure only disables live reload.
func (a *app) watchConfig(p *tea.Program) *config.Watcher {
	path, err := a.path()
	if err != nil {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		a.logger.Debug("config file not found, live reload disabled", zap.String("path", path))
		return nil
	}

	forceOffline := a.offline
	w, err := config.NewWatcher(path,
		func(cfg *config.Config) {
			if forceOffline {
				cfg.OfflineMode = true
			}
			offline.SetOfflineMode(cfg.OfflineMode)
			p.Send(home.ConfigReloadedMsg{Config: cfg})
		},
		func(err error) {
			a.logger.Warn("config reload failed, keeping previous config", zap.Error(err))
		},
	)
	if err != nil {
		a.logger.Warn("config watcher unavailable", zap.Error(err))
		return nil
	}
	return w
}

// loadSteps returns the tutorial steps from the configured file, or nil
// for the built-in steps.
func loadSteps(cfg *config.Config) ([]onboarding.Step, error) {
	if cfg.Onboarding.StepsFile == "" {
		return nil, nil
	}
	steps, err := onboarding.LoadSteps(cfg.Onboarding.StepsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load tutorial steps: %w", err)
	}
	return steps, nil
}
