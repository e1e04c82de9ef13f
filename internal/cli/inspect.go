package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ksyq12/certkeeper/internal/certstore"
	"github.com/ksyq12/certkeeper/internal/output"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <name>",
	Short: "Show one certificate from the store",
	Long: `Read live/<name>/fullchain.pem from the certificate store and print its
expiry and SANs.

Examples:
  certkeeper inspect example.com
  certkeeper inspect example.com --json`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

// InspectResult is the JSON output of inspect.
type InspectResult struct {
	Name     string     `json:"name"`
	Status   string     `json:"status"`
	Path     string     `json:"path"`
	ValidTo  *time.Time `json:"valid_to,omitempty"`
	DNSNames []string   `json:"dns_names,omitempty"`
	Error    string     `json:"error,omitempty"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	name := args[0]
	if err := certstore.ValidateName(name); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store := certstore.New(cfg.StoreDir)
	rec := store.Inspect(name)

	result := InspectResult{
		Name:   name,
		Status: rec.Status.String(),
		Path:   store.ChainPath(name),
	}
	if rec.Status == certstore.Present {
		validTo := rec.ValidTo
		result.ValidTo = &validTo
		result.DNSNames = rec.DNSNames
	} else if rec.Err != nil {
		result.Error = rec.Err.Error()
	}

	if jsonOutput {
		return output.JSON(result)
	}

	switch rec.Status {
	case certstore.Present:
		output.Success("%s", name)
		output.Print("  Path:     %s", result.Path)
		output.Print("  Expires:  %s (%s)", rec.ValidTo.Format(time.RFC3339), output.Expiry(rec.ValidTo, time.Now()))
		output.Print("  Domains:  %s", strings.Join(rec.DNSNames, ", "))
	case certstore.Absent:
		output.Warn("%s: no certificate at %s", name, result.Path)
	default:
		output.Error("%s: %s", name, result.Error)
	}
	return nil
}
