package cli

import (
	"bufio"
	"os"

	"github.com/ksyq12/certkeeper/internal/config"
	"github.com/ksyq12/certkeeper/internal/executor"
	"github.com/ksyq12/certkeeper/internal/notify"
)

// Dependencies aggregates all CLI external dependencies for testability
type Dependencies struct {
	ConfigLoader   ConfigLoader
	LocatorFactory LocatorFactory
	SenderFactory  SenderFactory
	StdinReader    StdinReader
}

// ConfigLoader handles configuration loading
type ConfigLoader interface {
	Load(path string) (*config.Config, error)
}

// LocatorFactory creates the execution backend named by the config.
// The returned func releases it.
type LocatorFactory interface {
	Create(cfg *config.Config) (executor.Locator, func(), error)
}

// SenderFactory creates the mail transport. A nil Sender means mail is
// disabled.
type SenderFactory interface {
	Create(mail config.Mail) notify.Sender
}

// StdinReader reads from stdin
type StdinReader interface {
	ReadString(delim byte) (string, error)
}

// Package-level dependencies (can be overridden for testing)
var deps = &Dependencies{
	ConfigLoader:   &realConfigLoader{},
	LocatorFactory: &realLocatorFactory{},
	SenderFactory:  &realSenderFactory{},
	StdinReader:    &realStdinReader{},
}

// SetDeps replaces the package dependencies (for testing)
func SetDeps(d *Dependencies) {
	deps = d
}

// GetDeps returns the current dependencies (for testing)
func GetDeps() *Dependencies {
	return deps
}

// Real implementations

type realConfigLoader struct{}

func (r *realConfigLoader) Load(path string) (*config.Config, error) {
	return config.Load(path)
}

type realLocatorFactory struct{}

func (r *realLocatorFactory) Create(cfg *config.Config) (executor.Locator, func(), error) {
	if cfg.Backend == config.BackendLocal {
		return executor.NewLocalLocator(executor.NewSystemExecutor()), func() {}, nil
	}
	loc, err := executor.NewDockerLocator()
	if err != nil {
		return nil, nil, err
	}
	return loc, func() { _ = loc.Close() }, nil
}

type realSenderFactory struct{}

func (r *realSenderFactory) Create(mail config.Mail) notify.Sender {
	if !mail.Enabled() {
		return nil
	}
	return notify.SMTPSender{
		Host:     mail.Host,
		Port:     mail.Port,
		Username: mail.Username,
		Password: mail.Password,
		TLSMode:  mail.TLSMode,
	}
}

type realStdinReader struct {
	reader *bufio.Reader
}

func (r *realStdinReader) ReadString(delim byte) (string, error) {
	if r.reader == nil {
		r.reader = bufio.NewReader(os.Stdin)
	}
	return r.reader.ReadString(delim)
}
