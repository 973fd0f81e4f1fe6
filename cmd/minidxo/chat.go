package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"minidxo/internal/consultation"
	"minidxo/internal/logging"
	"minidxo/internal/relay"
	"minidxo/internal/tui"
)

func newChatCommand(opts *rootOptions) *cobra.Command {
	var archive bool
	var logFile string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive diagnostic conversation",
		Long: `Start an interactive diagnostic conversation in the terminal.

Enter sends a message, ctrl+r starts a new diagnosis and esc or ctrl+c quits.
With --archive, a concluded consultation is stored on the relay server.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The TUI owns the terminal; logs go to a file or nowhere.
			var w io.Writer = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
				if err != nil {
					return fmt.Errorf("open log file: %w", err)
				}
				defer f.Close() //nolint:errcheck
				w = f
			}
			level := slog.LevelInfo
			if opts.debug {
				level = slog.LevelDebug
			}
			logging.Init(level, "text", w)

			client := relay.NewClient(opts.relayURL, opts.relayToken)
			session := consultation.NewSession(client)

			var archiver tui.Archiver
			if archive {
				archiver = client
			}

			p := tea.NewProgram(tui.New(session, archiver), tea.WithAltScreen(), tea.WithMouseCellMotion())
			_, err := p.Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&archive, "archive", false, "Archive the consultation on the relay server once a diagnosis is reached")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file while the chat is running")

	return cmd
}
