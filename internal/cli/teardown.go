package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ksyq12/certkeeper/internal/certstore"
	"github.com/ksyq12/certkeeper/internal/input"
	"github.com/ksyq12/certkeeper/internal/output"
)

var (
	assumeYes bool
)

var teardownCmd = &cobra.Command{
	Use:     "teardown <name>",
	Aliases: []string{"rm"},
	Short:   "Delete a certificate from the store",
	Long: `Delete live/<name>, archive/<name> and renewal/<name>.conf.

The next cycle will see the certificate as missing, bootstrap a placeholder
and issue a fresh one.

Examples:
  certkeeper teardown example.com
  certkeeper teardown example.com --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runTeardown,
}

func init() {
	teardownCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Delete without confirmation")

	rootCmd.AddCommand(teardownCmd)
}

func runTeardown(cmd *cobra.Command, args []string) error {
	name := args[0]
	if err := certstore.ValidateName(name); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if !assumeYes {
		ok, err := input.Confirm(deps.StdinReader, output.Writer(), fmt.Sprintf("Delete certificate '%s' from %s?", name, cfg.StoreDir))
		if err != nil {
			return err
		}
		if !ok {
			output.Info("Teardown cancelled")
			return nil
		}
	}

	store := certstore.New(cfg.StoreDir)
	if err := store.Teardown(name); err != nil {
		return fmt.Errorf("failed to tear down %s: %w", name, err)
	}

	return outputResult(
		map[string]interface{}{
			"success": true,
			"name":    name,
			"removed": true,
		},
		"Certificate %s removed", name,
	)
}
