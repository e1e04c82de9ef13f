package executor

import (
	"context"
	"fmt"

	"github.com/ksyq12/certkeeper/internal/errors"
)

// MockExecutor is a mock CommandExecutor for testing
type MockExecutor struct {
	ExecuteFunc  func(name string, args ...string) ([]byte, error)
	LookPathFunc func(file string) (string, error)
	Calls        []CommandCall
}

// CommandCall records a command execution for verification
type CommandCall struct {
	Name string
	Args []string
}

// Execute calls the mock function
func (m *MockExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, error) {
	m.Calls = append(m.Calls, CommandCall{Name: name, Args: args})
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(name, args...)
	}
	return []byte(""), nil
}

// LookPath calls the mock function
func (m *MockExecutor) LookPath(file string) (string, error) {
	if m.LookPathFunc != nil {
		return m.LookPathFunc(file)
	}
	return "/usr/bin/" + file, nil
}

// MockTarget is a scriptable Target that records every command it runs.
type MockTarget struct {
	IDValue string

	// States is consumed one per State call; the last value repeats.
	// Empty means always running.
	States    []string
	StateErr  error
	RunFunc   func(cmd []string) (string, error)
	Runs      [][]string
	StateCall int
}

func (m *MockTarget) ID() string {
	if m.IDValue == "" {
		return "mock"
	}
	return m.IDValue
}

func (m *MockTarget) State(ctx context.Context) (string, error) {
	m.StateCall++
	if m.StateErr != nil {
		return "", m.StateErr
	}
	if len(m.States) == 0 {
		return StateRunning, nil
	}
	i := m.StateCall - 1
	if i >= len(m.States) {
		i = len(m.States) - 1
	}
	return m.States[i], nil
}

func (m *MockTarget) Run(ctx context.Context, cmd []string) (string, error) {
	m.Runs = append(m.Runs, append([]string(nil), cmd...))
	if m.RunFunc != nil {
		return m.RunFunc(cmd)
	}
	return "", nil
}

// MockLocator maps tags to targets and records lookups.
type MockLocator struct {
	Targets   map[string]*MockTarget
	LocateErr error
	Lookups   []string
}

// NewMockLocator creates a MockLocator with a fresh target for each tag.
func NewMockLocator(tags ...string) *MockLocator {
	m := &MockLocator{Targets: make(map[string]*MockTarget)}
	for _, tag := range tags {
		m.Targets[tag] = &MockTarget{IDValue: tag}
	}
	return m
}

func (m *MockLocator) Locate(ctx context.Context, tag string) (Target, error) {
	m.Lookups = append(m.Lookups, tag)
	if m.LocateErr != nil {
		return nil, m.LocateErr
	}
	t, ok := m.Targets[tag]
	if !ok {
		return nil, errors.Lookup(tag, fmt.Errorf("no target for %s", tag))
	}
	return t, nil
}
