package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/travelblogr/placemedia/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "placemedia",
	Short: "Place media acquisition engine",
	Long:  "Acquires ranked location photos and POIs from third-party providers, walking a geographic fallback ladder with quality filtering, rate budgets, and TTL caching.",
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
