// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/plates/internal/config"
	"github.com/jeranaias/plates/internal/logging"
	"github.com/jeranaias/plates/internal/offline"
)

// Version information, set from main.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// skipConfigAnnotation marks commands that load (or ignore) the config
// themselves.
const skipConfigAnnotation = "plates/skip-config"

// app carries the global flags and the state shared by every command.
type app struct {
	configPath string
	verbose    bool
	offline    bool

	newBackend BackendFactory

	cfg    *config.Config
	logger *zap.Logger
}

// NewRootCmd builds the plates command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{newBackend: NewBackend})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "plates",
		Short: "A smart launcher for the terminal",
		Long: `plates is a home screen for the terminal: clock, date, weather and
battery at a glance, with an assistant one gesture away.

Hold the mouse button (or press space twice) to talk, tap or press Enter
to type. Run without arguments to start the home screen.`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: a.teardown,
		RunE:              a.runTUI,
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (default ~/.plates/config.toml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging, mirrored to stderr for subcommands")
	root.PersistentFlags().BoolVar(&a.offline, "offline", false, "block every network request")

	root.AddCommand(
		a.askCmd(),
		a.searchCmd(),
		a.statusCmd(),
		a.bridgeCmd(),
		a.chatCmd(),
		a.historyCmd(),
		a.configCmd(),
		versionCmd(),
	)
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error:"), err)
		return 1
	}
	return 0
}

// =============================================================================
// SETUP
// =============================================================================

// setup loads the config, applies --offline and builds the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if cmd.Annotations[skipConfigAnnotation] != "" {
		a.logger = zap.NewNop()
		return nil
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	if a.offline {
		cfg.OfflineMode = true
	}
	offline.SetOfflineMode(cfg.OfflineMode)
	a.cfg = cfg

	logPath, err := cfg.LogPath()
	if err != nil {
		return err
	}
	logger, err := logging.New(logging.Options{
		Level:   cfg.Log.Level,
		Verbose: a.verbose,
		File:    logPath,
		Stderr:  a.verbose && cmd != cmd.Root(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger.With(zap.String("command", cmd.Name()))
	return nil
}

func (a *app) teardown(*cobra.Command, []string) {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// path returns the config file in use.
func (a *app) path() (string, error) {
	if a.configPath != "" {
		return a.configPath, nil
	}
	return config.ConfigPath()
}

// loadConfig reads --config when given (it must exist), otherwise the
// default file with defaults when it is missing.
func (a *app) loadConfig() (*config.Config, error) {
	if a.configPath != "" {
		return config.LoadFromPath(a.configPath)
	}
	return config.Load()
}

// withBackend builds the backend for one command and closes it afterwards.
func (a *app) withBackend(cmd *cobra.Command, fn func(ctx context.Context, b *Backend) error) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	b, err := a.newBackend(ctx, a.cfg, a.logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := b.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()
	return fn(ctx, b)
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
