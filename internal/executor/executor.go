// Package executor abstracts where issuance and proxy commands run.
//
// A Locator finds the execution target for an image tag (a docker
// container, or the local host); a Target runs an argv command and returns
// its combined output. The ssl and proxy packages depend only on these
// interfaces.
package executor

import (
	"context"
	"os/exec"
)

// StateRunning is the state a ready target reports.
const StateRunning = "running"

// Target is a running process or container that can execute commands.
type Target interface {
	// ID identifies the target in logs (container id, "local")
	ID() string

	// State reports the target's lifecycle state, StateRunning when ready
	State(ctx context.Context) (string, error)

	// Run executes cmd and returns stdout and stderr combined. A non-zero
	// exit is returned as an error alongside the output.
	Run(ctx context.Context, cmd []string) (string, error)
}

// Locator finds the single execution target for a tag.
type Locator interface {
	Locate(ctx context.Context, tag string) (Target, error)
}

// CommandExecutor is an interface for executing system commands
type CommandExecutor interface {
	// Execute runs a command with the given name and arguments
	Execute(ctx context.Context, name string, args ...string) ([]byte, error)

	// LookPath searches for an executable in the directories named by the PATH
	LookPath(file string) (string, error)
}

// SystemExecutor implements CommandExecutor using os/exec
type SystemExecutor struct{}

// NewSystemExecutor creates a new SystemExecutor
func NewSystemExecutor() *SystemExecutor {
	return &SystemExecutor{}
}

// Execute runs a command and returns combined output
func (e *SystemExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

// LookPath searches for an executable
func (e *SystemExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}
