package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/openhouse-labs/propscore/internal/engine"
	"github.com/openhouse-labs/propscore/internal/server"
	"github.com/openhouse-labs/propscore/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP scoring service",
	Long: `Serves the comparison engine and the saved-comparison store over
HTTP. Shuts down gracefully on SIGINT/SIGTERM.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if port, _ := cmd.Flags().GetInt("port"); port > 0 {
			cfg.Server.Port = port
		}

		var st store.Store
		noStore, _ := cmd.Flags().GetBool("no-store")
		if !noStore {
			var err error
			st, err = openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
		} else {
			zap.L().Info("running without a store; persistence endpoints disabled")
		}

		srv := server.New(cfg.Server, engine.New(cfg.Engine), st)
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "listen port (overrides config)")
	serveCmd.Flags().Bool("no-store", false, "serve the stateless /v1/compare endpoint only")

	rootCmd.AddCommand(serveCmd)
}
