package main

import (
	"context"
	"fmt"

	"github.com/glosario-lsc/glosario/internal/app"
	"github.com/glosario-lsc/glosario/internal/capture"
	"github.com/glosario-lsc/glosario/internal/contribution"
	"github.com/glosario-lsc/glosario/internal/geo"
	"github.com/glosario-lsc/glosario/internal/glossary"
	"github.com/glosario-lsc/glosario/pkg/logger"
	"github.com/spf13/cobra"
)

func newAddCommand() *cobra.Command {
	var (
		video    string
		note     string
		lat, lng float64
		test     bool
	)
	command := &cobra.Command{
		Use:   "add <word> --video <file>",
		Short: "Add a sign video for a word, creating the word if needed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hasLoc := cmd.Flags().Changed("lat") || cmd.Flags().Changed("lng")
			if hasLoc && !(cmd.Flags().Changed("lat") && cmd.Flags().Changed("lng")) {
				return fmt.Errorf("--lat and --lng go together")
			}
			if hasLoc && !(glossary.Location{Latitude: lat, Longitude: lng}).Valid() {
				return fmt.Errorf("invalid coordinates %v, %v", lat, lng)
			}
			return withLibrary(cmd, func(ctx context.Context, a *app.App) error {
				out := cmd.OutOrStdout()
				_, existing := a.Library.Lookup(args[0])

				deps := contribution.Deps{
					Library:  a.Library,
					Device:   capture.FileDevice{Path: video},
					Cities:   a.Cities,
					Logger:   logger.Named("add"),
					Location: a.Location,
				}
				if hasLoc {
					deps.Locator = geo.StaticLocator{Latitude: lat, Longitude: lng}
				}
				flow := contribution.Open(ctx, deps, contribution.Prefill{Name: args[0], Existing: existing})
				defer flow.Close()

				if err := flow.StartCamera(); err != nil {
					return explain(err)
				}
				if err := flow.StartRecording(); err != nil {
					return explain(err)
				}
				if err := flow.StopRecording(); err != nil {
					return explain(err)
				}
				if hasLoc {
					if loc, err := flow.RequestLocation(); err != nil {
						fmt.Fprintf(out, "location ignored: %v\n", err)
					} else if loc.City != nil {
						fmt.Fprintf(out, "recorded in %s\n", *loc.City)
					}
				}

				res, err := flow.Submit(ctx, contribution.SubmitRequest{Note: note, Test: test})
				if err != nil {
					return explain(err)
				}
				verb := "added a sign to"
				if res.CreatedWord {
					verb = "created"
				}
				fmt.Fprintf(out, "%s %s\n%s\n", verb, glossary.DisplayName(res.WordName), res.Sign.VideoURL)
				return nil
			})
		},
	}
	command.Flags().StringVar(&video, "video", "", "video file to upload (webm, mp4, ...)")
	command.Flags().StringVar(&note, "note", "", "optional note shown with the sign")
	command.Flags().Float64Var(&lat, "lat", 0, "latitude where the sign was recorded")
	command.Flags().Float64Var(&lng, "lng", 0, "longitude where the sign was recorded")
	command.Flags().BoolVar(&test, "test", false, "mark the sign as a test upload")
	_ = command.MarkFlagRequired("video")
	return command
}
