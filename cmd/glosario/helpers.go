package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/glosario-lsc/glosario/internal/app"
	"github.com/glosario-lsc/glosario/internal/glossary"
	"github.com/spf13/cobra"
)

// withLibrary builds the app, loads the library and runs fn.
func withLibrary(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, _, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())
	if err := a.Library.Refresh(ctx); err != nil {
		return explain(err)
	}
	return fn(ctx, a)
}

// explain turns taxonomy errors into messages for a terminal user.
func explain(err error) error {
	switch {
	case errors.Is(err, glossary.ErrRepositoryUnavailable):
		return fmt.Errorf("the library is unavailable, try again later: %w", err)
	case errors.Is(err, glossary.ErrCaptureUnavailable):
		return fmt.Errorf("could not read the video: %w", err)
	}
	return err
}

func printWord(w io.Writer, word *glossary.Word) {
	fmt.Fprintf(w, "%s (%d %s)\n", glossary.DisplayName(word.Name), len(word.Signs), plural(len(word.Signs), "seña", "señas"))
	for _, s := range word.Signs {
		line := "  - " + s.VideoURL
		if s.Note != nil {
			line += "  " + *s.Note
		}
		if s.Location != nil && s.Location.City != nil {
			line += "  [" + *s.Location.City + "]"
		}
		if s.Test {
			line += "  (prueba)"
		}
		fmt.Fprintln(w, line)
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
