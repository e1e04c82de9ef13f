package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ksyq12/certkeeper/internal/output"
	"github.com/ksyq12/certkeeper/internal/reconcile"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Show what the next cycle would do",
	Long: `Scan the virtual hosts and certificate store and print the verdict for
every required certificate. Nothing is changed.

Certificates in the store that no virtual host references are listed as
orphans; they are never renewed.

Examples:
  certkeeper check
  certkeeper check --json`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// CheckResult is the JSON output of check.
type CheckResult struct {
	Verdicts []CheckEntry `json:"verdicts"`
	Orphans  []string     `json:"orphans"`
}

// CheckEntry is one verdict with its record.
type CheckEntry struct {
	Name     string     `json:"name"`
	State    string     `json:"state"`
	Domains  []string   `json:"domains"`
	ValidTo  *time.Time `json:"valid_to,omitempty"`
	DNSNames []string   `json:"dns_names,omitempty"`
	Reasons  []string   `json:"reasons,omitempty"`
}

func checkEntry(v reconcile.Verdict) CheckEntry {
	entry := CheckEntry{
		Name:    v.Name,
		State:   v.State(),
		Domains: v.Domains,
		Reasons: v.ReasonTexts(),
	}
	if !v.Missing {
		validTo := v.Record.ValidTo
		entry.ValidTo = &validTo
		entry.DNSNames = v.Record.DNSNames
	}
	return entry
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	r, store := newReconciler(cfg)
	verdicts, err := r.Evaluate()
	if err != nil {
		return err
	}

	names, err := store.Names()
	if err != nil {
		return err
	}
	required := make(map[string]bool, len(verdicts))
	for _, v := range verdicts {
		required[v.Name] = true
	}
	orphans := []string{}
	for _, n := range names {
		if !required[n] {
			orphans = append(orphans, n)
		}
	}

	result := CheckResult{Verdicts: make([]CheckEntry, 0, len(verdicts)), Orphans: orphans}
	for _, v := range verdicts {
		result.Verdicts = append(result.Verdicts, checkEntry(v))
	}

	if jsonOutput {
		return output.JSON(result)
	}

	if len(verdicts) == 0 {
		output.Info("No ssl_certificate references found in %s", strings.Join(cfg.VHostGlobs, ", "))
	} else {
		now := time.Now()
		rows := make([][]string, 0, len(verdicts))
		for _, v := range verdicts {
			expires := "-"
			if !v.Missing {
				expires = output.Expiry(v.Record.ValidTo, now)
			}
			rows = append(rows, []string{v.Name, output.State(v.State()), expires, strings.Join(v.Domains, ",")})
		}
		output.Table([]string{"NAME", "STATE", "EXPIRES", "DOMAINS"}, rows)

		for _, v := range verdicts {
			for _, reason := range v.ReasonTexts() {
				output.Warn("%s: %s", v.Name, reason)
			}
		}
	}

	for _, o := range orphans {
		output.Print("orphan: %s (not referenced by any virtual host)", o)
	}
	return nil
}
