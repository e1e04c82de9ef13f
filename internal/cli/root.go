package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ksyq12/certkeeper/internal/errors"
	"github.com/ksyq12/certkeeper/internal/logger"
)

var (
	configPath string
	jsonOutput bool
	verbose    bool
	version    = "dev"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "certkeeper",
	Short: "Certificate lifecycle daemon for nginx",
	Long: `certkeeper keeps the certificates referenced by your nginx virtual hosts
issued and current.

It scans ssl_certificate directives, bootstraps placeholder certificates so
nginx can start, renews certificates that expire within 10 days or no longer
cover every server_name, reloads nginx and mails a summary.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logger.Init(verbose, "")
	},
}

// Execute runs the root command. Configuration errors exit with 2,
// everything else with 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if errors.CodeOf(err) == errors.ErrCodeConfig {
		return 2
	}
	return 1
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (YAML or TOML, default /etc/certkeeper/certkeeper.yaml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging for debugging")
}
