package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"minidxo/internal/relay"
)

func newReportCommand(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "report <consultation-id>",
		Short: "Download the PDF report of an archived consultation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid consultation ID %q: %w", args[0], err)
			}

			client := relay.NewClient(opts.relayURL, opts.relayToken)
			pdf, err := client.Report(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("fetch report: %w", err)
			}

			if output == "" {
				output = fmt.Sprintf("report_%s.pdf", id)
			}
			if err := os.WriteFile(output, pdf, 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default report_<id>.pdf)")
	return cmd
}
