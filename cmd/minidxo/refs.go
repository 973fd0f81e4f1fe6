package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"minidxo/internal/reference"
)

func newRefsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "refs [symptom...]",
		Short: "List curated medical references, optionally filtered by symptom",
		RunE: func(cmd *cobra.Command, args []string) error {
			refs := reference.All()
			if len(args) > 0 {
				refs = reference.Find(args...)
			}
			out := cmd.OutOrStdout()
			if len(refs) == 0 {
				fmt.Fprintln(out, "No matching references.")
				return nil
			}
			for _, r := range refs {
				fmt.Fprintf(out, "%s (%s)\n  %s\n", r.Condition, r.Source, r.Snippet)
			}
			return nil
		},
	}
}
