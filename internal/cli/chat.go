// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive assistant prompt.
//
// Command: chat
// Short:   Talk to the assistant from a line prompt
//
// Interactive Commands:
//   /help, /h           Show available commands
//   /search <query>     Print search results
//   /mode [name]        Show or set the speech mode (auto, online, offline)
//   /history            Show recent exchanges
//   /quit, /q           Exit
//   Ctrl+C, Ctrl+D      Exit

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/plates/internal/bridge"
	"github.com/jeranaias/plates/internal/config"
	"github.com/jeranaias/plates/internal/storage"
	"github.com/jeranaias/plates/internal/util"
)

const chatPrompt = "plates> "

// prompter reads one line of input. *liner.State satisfies it.
type prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// historyLister is the part of the store the chat needs.
type historyLister interface {
	RecentExchanges(ctx context.Context, limit int) ([]storage.Exchange, error)
}

// chatSession is one REPL run.
type chatSession struct {
	in      prompter
	out     io.Writer
	bridge  bridge.Bridge
	history historyLister
	logger  *zap.Logger
	timeout time.Duration
	render  func(text string) string
}

func (a *app) chatCmd() *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the assistant from a line prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withBackend(cmd, func(ctx context.Context, b *Backend) error {
				line := liner.NewLiner()
				line.SetCtrlCAborts(true)
				historyFile := chatHistoryFile()
				loadChatHistory(line, historyFile)
				defer func() {
					saveChatHistory(line, historyFile)
					line.Close()
				}()

				s := &chatSession{
					in:      line,
					out:     out(cmd),
					bridge:  b.Bridge,
					logger:  a.logger,
					timeout: DefaultAskTimeout,
					render:  chatRenderer(raw),
				}
				if b.Store != nil {
					s.history = b.Store
				}
				return s.run(ctx)
			})
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print responses without markdown rendering")
	return cmd
}

func chatRenderer(raw bool) func(string) string {
	if raw || !ColorsEnabled() {
		return func(text string) string { return strings.TrimSpace(text) + "\n" }
	}
	return func(text string) string { return renderMarkdown(text, GetTerminalWidth()) }
}

// =============================================================================
// INPUT HISTORY
// =============================================================================

func chatHistoryFile() string {
	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "chat_history")
}

func loadChatHistory(line *liner.State, path string) {
	if f, err := os.Open(path); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
}

func saveChatHistory(line *liner.State, path string) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	line.WriteHistory(f)
}

// =============================================================================
// REPL
// =============================================================================

// run reads lines until EOF, Ctrl+C, /quit or ctx is done.
func (s *chatSession) run(ctx context.Context) error {
	fmt.Fprintln(s.out, DimStyle.Render("Type a question, /help for commands, Ctrl+D to exit."))
	for {
		if ctx.Err() != nil {
			return nil
		}
		input, err := s.in.Prompt(chatPrompt)
		if err != nil {
			fmt.Fprintln(s.out)
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				return nil
			}
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		s.in.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			if !s.command(ctx, input) {
				return nil
			}
			continue
		}
		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			return nil
		}
		s.ask(ctx, input)
	}
}

func (s *chatSession) ask(ctx context.Context, text string) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.bridge.ProcessTextInput(ctx, text)
	if err != nil {
		s.logger.Debug("assistant request failed", zap.Error(err))
		fmt.Fprintln(s.out, ErrorStyle.Render("[Error]"), err)
		return
	}
	fmt.Fprint(s.out, s.render(resp))
}

// command handles a slash command and reports whether to keep going.
func (s *chatSession) command(ctx context.Context, input string) bool {
	name, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case "/quit", "/q", "/exit":
		return false

	case "/help", "/h":
		fmt.Fprintln(s.out, "  /search <query>   print search results")
		fmt.Fprintln(s.out, "  /mode [name]      show or set the speech mode (auto, online, offline)")
		fmt.Fprintln(s.out, "  /history          show recent exchanges")
		fmt.Fprintln(s.out, "  /quit             exit")

	case "/search":
		if arg == "" {
			fmt.Fprintln(s.out, WarningStyle.Render("usage: /search <query>"))
			return true
		}
		results, err := s.bridge.FetchSearchResults(ctx, arg)
		if err != nil {
			fmt.Fprintln(s.out, ErrorStyle.Render("[Error]"), err)
			return true
		}
		printResults(s.out, results, DefaultTerminalWidth)

	case "/mode":
		if arg != "" {
			if err := s.bridge.SetSTTMode(ctx, arg); err != nil {
				fmt.Fprintln(s.out, ErrorStyle.Render("[Error]"), err)
				return true
			}
		}
		mode, err := s.bridge.STTMode(ctx)
		if err != nil {
			fmt.Fprintln(s.out, ErrorStyle.Render("[Error]"), err)
			return true
		}
		fmt.Fprintln(s.out, "speech mode:", mode)

	case "/history":
		if s.history == nil {
			fmt.Fprintln(s.out, DimStyle.Render("History is not available."))
			return true
		}
		list, err := s.history.RecentExchanges(ctx, 5)
		if err != nil {
			fmt.Fprintln(s.out, ErrorStyle.Render("[Error]"), err)
			return true
		}
		printHistory(s.out, list, DefaultTerminalWidth)

	default:
		fmt.Fprintln(s.out, WarningStyle.Render("unknown command "+name+", try /help"))
	}
	return true
}

// printHistory writes exchanges oldest first.
func printHistory(w io.Writer, list []storage.Exchange, width int) {
	if len(list) == 0 {
		fmt.Fprintln(w, DimStyle.Render("No exchanges yet."))
		return
	}
	for i := len(list) - 1; i >= 0; i-- {
		ex := list[i]
		stamp := ex.CreatedAt.Local().Format("Jan 2 15:04")
		fmt.Fprintf(w, "%s %s %s\n",
			DimStyle.Render(stamp),
			DimStyle.Render("["+string(ex.Source)+"]"),
			ValueStyle.Render(util.TruncateWidth(util.SingleLine(ex.Prompt), width-24)))
		reply := util.TruncateWidth(util.SingleLine(ex.Response), width-4)
		if ex.Error != "" {
			reply = ErrorStyle.Render("error:") + " " + util.TruncateWidth(util.SingleLine(ex.Error), width-11)
		}
		fmt.Fprintf(w, "    %s\n", reply)
	}
}
