package main

import (
	"fmt"
	"strconv"

	"github.com/glosario-lsc/glosario/internal/geo"
	"github.com/spf13/cobra"
)

func newCityCommand() *cobra.Command {
	var radius float64
	command := &cobra.Command{
		Use:   "city <latitude> <longitude>",
		Short: "Resolve coordinates to the nearest known city",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lat, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid latitude %q: %w", args[0], err)
			}
			lng, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid longitude %q: %w", args[1], err)
			}
			city, dist, ok := geo.NewResolver(nil, radius).NearestCity(lat, lng)
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "no known city nearby")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%.1f km)\n", city.Name, dist)
			return nil
		},
	}
	command.Flags().Float64Var(&radius, "radius", geo.DefaultRadiusKm, "maximum distance in km")
	return command
}
