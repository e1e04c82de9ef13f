package cli

import (
	"github.com/spf13/cobra"

	"github.com/ksyq12/certkeeper/internal/config"
	"github.com/ksyq12/certkeeper/internal/output"
	"github.com/ksyq12/certkeeper/internal/reconcile"
)

var cycleCmd = &cobra.Command{
	Use:   "cycle",
	Short: "Run one reconciliation cycle",
	Long: `Run a single reconciliation cycle and exit.

Exits non-zero when bootstrap or renewal fails, when a certificate is still
missing after bootstrap, or when the proxy never becomes ready.

Examples:
  certkeeper cycle
  certkeeper cycle --json`,
	Args: cobra.NoArgs,
	RunE: runCycle,
}

func init() {
	rootCmd.AddCommand(cycleCmd)
}

func runCycle(cmd *cobra.Command, args []string) error {
	return withReconciler(func(cfg *config.Config, r *reconcile.Reconciler) error {
		report, err := r.RunCycle(commandContext(cmd))
		if err != nil {
			if jsonOutput && report != nil {
				_ = output.JSON(report)
			}
			return err
		}

		if jsonOutput {
			return output.JSON(report)
		}

		for _, name := range report.Bootstrapped {
			output.Info("Bootstrapped %s", name)
		}
		for _, a := range report.Renewed {
			output.Success("Renewed %s (%d domains)", a.Name, len(a.Domains))
			for _, reason := range a.Reasons {
				output.Print("    %s", reason)
			}
		}
		output.Success("Cycle %s complete: %d checked, %d renewed", report.ID, len(report.Verdicts), len(report.Renewed))
		return nil
	})
}
