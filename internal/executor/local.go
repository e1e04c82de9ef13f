package executor

import (
	"context"
	"fmt"

	"github.com/ksyq12/certkeeper/internal/errors"
)

// LocalLocator runs every tag's commands on the host, for deployments where
// certbot and nginx are installed side by side with the daemon.
type LocalLocator struct {
	exec CommandExecutor
}

// NewLocalLocator creates a LocalLocator backed by exec.
// A nil exec uses the system executor.
func NewLocalLocator(exec CommandExecutor) *LocalLocator {
	if exec == nil {
		exec = NewSystemExecutor()
	}
	return &LocalLocator{exec: exec}
}

// Locate returns a local target. The tag is only used for labelling.
func (l *LocalLocator) Locate(ctx context.Context, tag string) (Target, error) {
	return &localTarget{tag: tag, exec: l.exec}, nil
}

type localTarget struct {
	tag  string
	exec CommandExecutor
}

func (t *localTarget) ID() string {
	return "local:" + t.tag
}

// State is always running; the host is the target.
func (t *localTarget) State(ctx context.Context) (string, error) {
	return StateRunning, nil
}

func (t *localTarget) Run(ctx context.Context, cmd []string) (string, error) {
	if len(cmd) == 0 {
		return "", errors.Validation("empty command")
	}
	if _, err := t.exec.LookPath(cmd[0]); err != nil {
		return "", errors.Execution(t.tag, "", fmt.Errorf("%s is not installed: %w", cmd[0], err))
	}
	out, err := t.exec.Execute(ctx, cmd[0], cmd[1:]...)
	if err != nil {
		return string(out), errors.Execution(t.tag, string(out), err)
	}
	return string(out), nil
}
