// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot assistant and search commands.
//
// Examples:
//   plates ask "what's on my calendar"     Ask once, render markdown
//   plates ask --search "rust vs go"       Also print search results
//   plates search "weather radar"          Search only

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/jeranaias/plates/internal/bridge"
	"github.com/jeranaias/plates/internal/util"
)

// DefaultAskTimeout bounds a one-shot assistant request.
const DefaultAskTimeout = 60 * time.Second

func (a *app) askCmd() *cobra.Command {
	var (
		withSearch bool
		raw        bool
		timeout    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "ask <text>",
		Short: "Ask the assistant a single question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			return a.withBackend(cmd, func(ctx context.Context, b *Backend) error {
				ctx, cancel := context.WithTimeout(ctx, timeout)
				defer cancel()

				resp, err := b.Bridge.ProcessTextInput(ctx, text)
				if err != nil {
					return fmt.Errorf("assistant: %w", err)
				}
				w := out(cmd)
				if raw || !ColorsEnabled() {
					fmt.Fprintln(w, strings.TrimSpace(resp))
				} else {
					fmt.Fprint(w, renderMarkdown(resp, GetTerminalWidth()))
				}

				if !withSearch {
					return nil
				}
				results, err := b.Bridge.FetchSearchResults(ctx, text)
				if err != nil {
					return fmt.Errorf("search: %w", err)
				}
				fmt.Fprintln(w)
				printResults(w, results, GetTerminalWidth())
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&withSearch, "search", "s", false, "also print web search results")
	cmd.Flags().BoolVar(&raw, "raw", false, "print the response without markdown rendering")
	cmd.Flags().DurationVar(&timeout, "timeout", DefaultAskTimeout, "request timeout")
	return cmd
}

func (a *app) searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Print web search results",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return a.withBackend(cmd, func(ctx context.Context, b *Backend) error {
				results, err := b.Bridge.FetchSearchResults(ctx, query)
				if err != nil {
					return fmt.Errorf("search: %w", err)
				}
				printResults(out(cmd), results, GetTerminalWidth())
				return nil
			})
		},
	}
}

// printResults writes a numbered list of results, one title, link and
// snippet line each.
func printResults(w io.Writer, results []bridge.SearchResult, width int) {
	if len(results) == 0 {
		fmt.Fprintln(w, DimStyle.Render("No results."))
		return
	}
	for i, r := range results {
		fmt.Fprintf(w, "%d. %s\n", i+1, TitleStyle.Render(util.TruncateWidth(util.SingleLine(r.Title), width-4)))
		fmt.Fprintf(w, "   %s\n", LinkStyle.Render(r.Link))
		if r.Snippet != "" {
			fmt.Fprintf(w, "   %s\n", DimStyle.Render(util.TruncateWidth(util.SingleLine(r.Snippet), width-4)))
		}
	}
}

// renderMarkdown renders text for the terminal, falling back to the plain
// text when glamour fails.
func renderMarkdown(text string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-4),
	)
	if err != nil {
		return text + "\n"
	}
	rendered, err := r.Render(text)
	if err != nil {
		return text + "\n"
	}
	return rendered
}
