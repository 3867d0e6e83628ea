// Command glosario is the command-line front end of the sign-language
// glossary: list and search words, add a sign video, clear the library and
// resolve coordinates to a city.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/glosario-lsc/glosario/internal/app"
	"github.com/glosario-lsc/glosario/internal/config"
	"github.com/glosario-lsc/glosario/pkg/logger"
	"github.com/spf13/cobra"
)

var logLevel string

// newApp builds the backends for one command run. Tests replace it.
var newApp = func(ctx context.Context) (*app.App, *config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	a, err := app.Build(ctx, cfg, logger.L())
	if err != nil {
		return nil, nil, fmt.Errorf("app.Build() > %w", err)
	}
	return a, cfg, nil
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "glosario",
		Short:         "Colombian Sign Language glossary",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetOutput(cmd.ErrOrStderr())
			logger.Init(logLevel)
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug|info|warn|error)")

	root.AddCommand(
		newListCommand(),
		newSearchCommand(),
		newAddCommand(),
		newClearCommand(),
		newCityCommand(),
	)
	return root
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
