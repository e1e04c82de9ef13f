package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ksyq12/certkeeper/internal/config"
	"github.com/ksyq12/certkeeper/internal/logger"
	"github.com/ksyq12/certkeeper/internal/reconcile"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the reconciliation loop",
	Long: `Run a reconciliation cycle now and then once every schedule period
(24h by default) until interrupted.

A failed cycle is logged and the next one still runs on schedule.

Examples:
  certkeeper run
  certkeeper run --config /etc/certkeeper/certkeeper.toml -v`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return withReconciler(func(cfg *config.Config, r *reconcile.Reconciler) error {
		logger.InfoFields("Starting certkeeper", map[string]interface{}{
			"version": version,
			"store":   cfg.StoreDir,
			"backend": cfg.Backend,
			"period":  cfg.Schedule.Period.String(),
			"staging": cfg.Staging,
		})

		err := r.RunForever(ctx)
		if errors.Is(err, context.Canceled) {
			logger.Info("Shutting down")
			return nil
		}
		return err
	})
}
