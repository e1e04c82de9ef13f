package cli

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/ksyq12/certkeeper/internal/certstore/certstoretest"
)

func TestRunTeardown(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		yes        bool
		stdinInput string
		wantErr    bool
		wantGone   bool
		wantOutput string
	}{
		{
			name:       "confirmed",
			args:       []string{"a.com"},
			stdinInput: "yes\n",
			wantGone:   true,
			wantOutput: "Certificate a.com removed",
		},
		{
			name:       "yes flag skips prompt",
			args:       []string{"a.com"},
			yes:        true,
			wantGone:   true,
			wantOutput: "Certificate a.com removed",
		},
		{
			name:       "declined",
			args:       []string{"a.com"},
			stdinInput: "n\n",
			wantGone:   false,
			wantOutput: "Teardown cancelled",
		},
		{
			name:       "no input",
			args:       []string{"a.com"},
			stdinInput: "",
			wantGone:   false,
			wantOutput: "Teardown cancelled",
		},
		{
			name:    "invalid name",
			args:    []string{"../a.com"},
			yes:     true,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, _ := testConfig(t)
			certstoretest.Write(t, cfg.StoreDir, "a.com", time.Now().Add(60*24*time.Hour), "a.com")
			certstoretest.WriteArtifacts(t, cfg.StoreDir, "a.com")
			useDeps(t, NewMockDeps().WithConfig(cfg).WithStdinInput(tt.stdinInput).Build())

			var err error
			out := captureOutput(t, func() {
				assumeYes = tt.yes
				err = runTeardown(teardownCmd, tt.args)
			})

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("runTeardown() error = %v", err)
			}

			_, statErr := os.Stat(cfg.StoreDir + "/live/a.com")
			if gone := os.IsNotExist(statErr); gone != tt.wantGone {
				t.Errorf("live dir gone = %v, want %v", gone, tt.wantGone)
			}
			if !strings.Contains(out, tt.wantOutput) {
				t.Errorf("output %q does not contain %q", out, tt.wantOutput)
			}
			if !tt.yes && !strings.Contains(out, "[y/N]") {
				t.Errorf("expected confirmation prompt, got %q", out)
			}
		})
	}
}

func TestRunTeardownIdempotent(t *testing.T) {
	cfg, _ := testConfig(t)
	useDeps(t, NewMockDeps().WithConfig(cfg).Build())

	captureOutput(t, func() {
		assumeYes = true
		for i := 0; i < 2; i++ {
			if err := runTeardown(teardownCmd, []string{"never-issued.com"}); err != nil {
				t.Errorf("teardown %d error = %v", i, err)
			}
		}
	})
}
