package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/glosario-lsc/glosario/internal/app"
	"github.com/spf13/cobra"
)

func newClearCommand() *cobra.Command {
	var yes bool
	command := &cobra.Command{
		Use:   "clear",
		Short: "Delete every word and sign",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !yes {
				fmt.Fprint(out, "Delete every word and sign? This cannot be undone. [y/N] ")
				line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				switch strings.ToLower(strings.TrimSpace(line)) {
				case "y", "yes", "s", "si", "sí":
				default:
					fmt.Fprintln(out, "aborted")
					return nil
				}
			}
			return withLibrary(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Library.Clear(ctx); err != nil {
					return explain(err)
				}
				fmt.Fprintln(out, "library cleared")
				return nil
			})
		},
	}
	command.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return command
}
