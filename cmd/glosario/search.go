package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/glosario-lsc/glosario/internal/app"
	"github.com/glosario-lsc/glosario/internal/library"
	"github.com/glosario-lsc/glosario/internal/matcher"
	"github.com/spf13/cobra"
)

func newSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search <phrase...>",
		Short: "Look up each word of a phrase",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLibrary(cmd, func(ctx context.Context, a *app.App) error {
				out := cmd.OutOrStdout()
				res := a.Library.Search(strings.Join(args, " "))
				switch a.Library.State(res) {
				case library.StateEmptyLibrary:
					fmt.Fprintln(out, "The library is empty.")
					return nil
				case library.StateNoMatches:
					fmt.Fprintln(out, "None of these words are in the library yet.")
				}
				for _, it := range res.Items {
					if it.Kind == matcher.Found {
						printWord(out, it.Word)
						continue
					}
					fmt.Fprintf(out, "%s (missing, add it with `glosario add %s --video <file>`)\n", it.Token, it.Token)
				}
				if res.IsMultiWordPhrase && res.HasMissingAny {
					fmt.Fprintf(out, "%d of %d words missing\n", len(res.MissingTokens()), len(res.Items))
				}
				return nil
			})
		},
	}
}
