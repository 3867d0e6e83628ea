package main

import (
	"context"
	"fmt"

	"github.com/glosario-lsc/glosario/internal/app"
	"github.com/spf13/cobra"
)

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every word with its signs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLibrary(cmd, func(ctx context.Context, a *app.App) error {
				out := cmd.OutOrStdout()
				words := a.Library.Words()
				if len(words) == 0 {
					fmt.Fprintln(out, "The library is empty. Add the first sign with `glosario add`.")
					return nil
				}
				for _, w := range words {
					printWord(out, w)
				}
				return nil
			})
		},
	}
}
