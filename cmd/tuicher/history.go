package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHistoryCmd(opts *options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent selections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withEnv(func(e *env) error {
				entries, err := e.store.History().List(limit)
				if err != nil {
					return fmt.Errorf("failed to list history: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), e.renderer.RenderHistory(entries))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of entries (0 for all)")

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete all history entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withEnv(func(e *env) error {
				n, err := e.store.History().Clear()
				if err != nil {
					return fmt.Errorf("failed to clear history: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %d entries\n", n)
				return nil
			})
		},
	})
	return cmd
}
