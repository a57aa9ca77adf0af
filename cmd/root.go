package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meridian-advisory/renewal-intel/internal/config"
	"github.com/meridian-advisory/renewal-intel/internal/flagengine"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "renewal-intel",
	Short: "Policy renewal intelligence engine",
	Long:  "Evaluates books of business for renewal, data-quality, and income-activation opportunities, and synthesizes product recommendations from client profiles.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		if err := flagengine.ValidateConfig(cfg.Engine); err != nil {
			return err
		}
		zap.L().Debug("engine config", zap.String("summary", flagengine.ConfigSummary(cfg.Engine)))

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
