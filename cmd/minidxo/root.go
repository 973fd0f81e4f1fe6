package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"minidxo/internal/config"
	"minidxo/internal/logging"
)

var version = "dev"

type rootOptions struct {
	relayURL   string
	relayToken string
	debug      bool
}

func newRootCommand() *cobra.Command {
	cfg := config.LoadClient()
	opts := &rootOptions{
		relayURL:   cfg.RelayURL,
		relayToken: cfg.RelayToken,
	}

	cmd := &cobra.Command{
		Use:   "minidxo",
		Short: "MiniDxO - the transparent AI diagnostician",
		Long: `MiniDxO is an educational chat client that walks through a structured
symptom interview with an LLM-backed diagnostic persona.

This is a simulation for learning purposes only and is not medical advice.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := logging.ParseLevel(cfg.Log.Level)
			if opts.debug {
				level = slog.LevelDebug
			}
			logging.Init(level, cfg.Log.Format, cmd.ErrOrStderr())
		},
	}

	cmd.PersistentFlags().StringVar(&opts.relayURL, "relay-url", opts.relayURL, "Base URL of the MiniDxO relay server")
	cmd.PersistentFlags().StringVar(&opts.relayToken, "relay-token", opts.relayToken, "Bearer token sent to the relay")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	chat := newChatCommand(opts)
	cmd.RunE = chat.RunE
	cmd.Flags().AddFlagSet(chat.Flags())

	cmd.AddCommand(chat)
	cmd.AddCommand(newRefsCommand())
	cmd.AddCommand(newReportCommand(opts))

	return cmd
}

func execute() error {
	return newRootCommand().Execute()
}
