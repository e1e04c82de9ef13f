package cli

import (
	"fmt"
	"testing"

	"github.com/ksyq12/certkeeper/internal/errors"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"config", errors.Wrap(errors.ErrCodeConfig, "failed to load config", fmt.Errorf("bad yaml")), 2},
		{"wrapped config", fmt.Errorf("cycle: %w", errors.Wrap(errors.ErrCodeConfig, "failed to load config", nil)), 2},
		{"execution", errors.Execution("certbot/certbot", "boom", fmt.Errorf("exit 1")), 1},
		{"plain", fmt.Errorf("unknown flag"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
