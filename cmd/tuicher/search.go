package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ayusman/tuicher/internal/ui"
)

func newSearchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "search <text>...",
		Short: "Show the results for the launcher input",
		Long: "Show the results for the launcher input. Arguments are joined with single spaces;\n" +
			"quote the input to keep a trailing space after a keyword.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withEnv(func(e *env) error {
				l, err := e.app.Search(cmd.Context(), strings.Join(args, " "))
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), e.renderer.Render(l.Results, ui.NoSelection))
				return nil
			})
		},
	}
}

func newSelectCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "select <n> <text>...",
		Short: "Run the n-th result for the launcher input",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return fmt.Errorf("invalid result number %q", args[0])
			}

			return opts.withEnv(func(e *env) error {
				l, err := e.app.Search(cmd.Context(), strings.Join(args[1:], " "))
				if err != nil {
					return err
				}
				sel, err := l.Pick(n - 1)
				if err != nil {
					return err
				}

				out, err := e.app.Select(cmd.Context(), sel)
				if err != nil {
					return err
				}

				w := cmd.OutOrStdout()
				if out.Message != "" {
					fmt.Fprintln(w, e.renderer.RenderMessage(out.Message))
				}
				if len(out.Results) > 0 {
					fmt.Fprintln(w, e.renderer.Render(out.Results, ui.NoSelection))
				}
				return nil
			})
		},
	}
}
