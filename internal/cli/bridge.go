// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeranaias/plates/internal/bridge"
)

func (a *app) bridgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bridge [command] [json-args]",
		Short: "Invoke a bridge command and print its JSON result",
		Long: `Invokes one of the native commands the home screen uses, with the
same JSON argument and result shapes. Without arguments the command
names are listed.

Examples:
  plates bridge get_weather '{"lat": 40.7, "lon": -74.0}'
  plates bridge process_text_input '{"text": "hello"}'
  plates bridge batteries`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				for _, name := range bridge.Commands() {
					fmt.Fprintln(out(cmd), name)
				}
				return nil
			}

			var raw json.RawMessage
			if len(args) == 2 {
				raw = json.RawMessage(args[1])
			}
			return a.withBackend(cmd, func(ctx context.Context, b *Backend) error {
				result, err := bridge.Invoke(ctx, b.Bridge, args[0], raw)
				if err != nil {
					return fmt.Errorf("%s: %w", args[0], err)
				}
				var pretty bytes.Buffer
				if err := json.Indent(&pretty, result, "", "  "); err != nil {
					pretty.Reset()
					pretty.Write(result)
				}
				fmt.Fprintln(out(cmd), pretty.String())
				return nil
			})
		},
	}
}
