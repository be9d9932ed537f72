package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <address>",
	Short: "Geocode a street address",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		g, st, err := openGeocoder(ctx)
		if err != nil {
			return err
		}
		defer closeGeocoder(ctx, g, st)

		res, err := g.Geocode(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		return printResult(res)
	},
}

func init() {
	rootCmd.AddCommand(lookupCmd)
}
