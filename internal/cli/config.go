// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Configuration management commands.
//
// Examples:
//   plates config show                       Print the effective config (keys redacted)
//   plates config path                       Print the config file location
//   plates config init                       Write a default config file
//   plates config get ui.theme               Print one value
//   plates config set location.latitude 40.7 Change one value in the file

package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/plates/internal/config"
)

// ErrConfigExists is returned by config init when the file is present.
var ErrConfigExists = errors.New("config file already exists (use --force to overwrite)")

func (a *app) configCmd() *cobra.Command {
	skip := map[string]string{skipConfigAnnotation: "true"}

	cmd := &cobra.Command{
		Use:         "config",
		Short:       "Show or edit the configuration",
		Annotations: skip,
	}

	show := &cobra.Command{
		Use:         "show",
		Short:       "Print the effective configuration with API keys redacted",
		Args:        cobra.NoArgs,
		Annotations: skip,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), cfg.String())
			return nil
		},
	}

	path := &cobra.Command{
		Use:         "path",
		Short:       "Print the config file location",
		Args:        cobra.NoArgs,
		Annotations: skip,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.path()
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), p)
			return nil
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a default config file",
		Args:        cobra.NoArgs,
		Annotations: skip,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.path()
			if err != nil {
				return err
			}
			if _, err := os.Stat(p); err == nil && !force {
				return fmt.Errorf("%s: %w", p, ErrConfigExists)
			}
			if err := config.SaveTOML(config.Default(), p); err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), SuccessStyle.Render("Wrote"), p)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	get := &cobra.Command{
		Use:         "get <key>",
		Short:       "Print one configuration value",
		Long:        "Print one configuration value. Keys use dot notation:\n\n  " + strings.Join(config.AllKeys(), "\n  "),
		Args:        cobra.ExactArgs(1),
		Annotations: skip,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			v, err := cfg.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), v)
			return nil
		},
	}

	set := &cobra.Command{
		Use:         "set <key> <value>",
		Short:       "Change one value in the config file",
		Args:        cobra.ExactArgs(2),
		Annotations: skip,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.path()
			if err != nil {
				return err
			}
			// Edit the file itself, without environment overrides.
			cfg := config.Default()
			if _, err := os.Stat(p); err == nil {
				if err := config.LoadTOML(cfg, p); err != nil {
					return err
				}
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid value for %s: %w", args[0], err)
			}
			if err := config.SaveTOML(cfg, p); err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "%s %s = %s\n", SuccessStyle.Render("Set"), args[0], args[1])
			return nil
		},
	}

	cmd.AddCommand(show, path, initCmd, get, set)
	return cmd
}
