package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/openhouse-labs/propscore/internal/config"
	"github.com/openhouse-labs/propscore/internal/engine"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "propscore",
	Short: "Cohort-relative property comparison scoring",
	Long:  "Scores 2-10 properties against each other across price, size, location, condition, and investment dimensions, producing 0-100 scores, rankings, and strength/weakness insights.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		// A bad engine config would score every cohort silently wrong,
		// so reject it before any command runs.
		if err := engine.ValidateConfig(cfg.Engine); err != nil {
			return fmt.Errorf("validate engine config: %w", err)
		}

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
