package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/baltgeo/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "baltgeo",
	Short: "Caching geocod.io lookup client",
	Long:  "Resolves street addresses to coordinates and census metadata (and back) through geocod.io, caching every result locally so repeated lookups cost nothing.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
