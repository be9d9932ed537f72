package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the persisted lookup caches",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show snapshot names and cached entry counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		g, st, err := openGeocoder(ctx)
		if err != nil {
			return err
		}
		defer closeGeocoder(ctx, g, st)

		names, err := st.Names(ctx)
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Printf("snapshot: %s\n", name)
		}

		forward, reverse := g.CacheSizes()
		fmt.Printf("forward entries: %d\n", forward)
		fmt.Printf("reverse entries: %d\n", reverse)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	rootCmd.AddCommand(cacheCmd)
}
