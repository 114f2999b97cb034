// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"
)

func (a *app) historyCmd() *cobra.Command {
	var (
		limit  int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent assistant exchanges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withBackend(cmd, func(ctx context.Context, b *Backend) error {
				if b.Store == nil {
					return errors.New("history is not available")
				}
				list, err := b.Store.RecentExchanges(ctx, limit)
				if err != nil {
					return err
				}
				if asJSON {
					enc := json.NewEncoder(out(cmd))
					enc.SetIndent("", "  ")
					return enc.Encode(list)
				}
				printHistory(out(cmd), list, GetTerminalWidth())
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of exchanges")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output JSON")
	return cmd
}
