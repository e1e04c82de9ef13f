package cli

import (
	"context"
	"io"
	"strings"

	"github.com/ksyq12/certkeeper/internal/config"
	"github.com/ksyq12/certkeeper/internal/executor"
	"github.com/ksyq12/certkeeper/internal/notify"
)

// MockConfigLoader is a test double for ConfigLoader
type MockConfigLoader struct {
	Cfg     *config.Config
	LoadErr error
	Paths   []string
}

func (m *MockConfigLoader) Load(path string) (*config.Config, error) {
	m.Paths = append(m.Paths, path)
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.Cfg == nil {
		m.Cfg = config.New()
	}
	return m.Cfg, nil
}

// MockLocatorFactory is a test double for LocatorFactory
type MockLocatorFactory struct {
	Locator  *executor.MockLocator
	Err      error
	Created  int
	Released int
}

func (m *MockLocatorFactory) Create(cfg *config.Config) (executor.Locator, func(), error) {
	if m.Err != nil {
		return nil, nil, m.Err
	}
	m.Created++
	if m.Locator == nil {
		m.Locator = executor.NewMockLocator(cfg.IssuerTag, cfg.ProxyTag)
	}
	return m.Locator, func() { m.Released++ }, nil
}

// MockSender records sent messages
type MockSender struct {
	Sent []notify.Message
	Err  error
}

func (m *MockSender) Send(ctx context.Context, msg notify.Message) error {
	m.Sent = append(m.Sent, msg)
	return m.Err
}

// MockSenderFactory is a test double for SenderFactory
type MockSenderFactory struct {
	Sender *MockSender
}

func (m *MockSenderFactory) Create(mail config.Mail) notify.Sender {
	if m.Sender == nil {
		m.Sender = &MockSender{}
	}
	return m.Sender
}

// MockStdinReader is a test double for StdinReader
type MockStdinReader struct {
	Input string
	pos   int
}

func (m *MockStdinReader) ReadString(delim byte) (string, error) {
	if m.pos >= len(m.Input) {
		return "", io.EOF
	}
	idx := strings.IndexByte(m.Input[m.pos:], delim)
	if idx == -1 {
		result := m.Input[m.pos:]
		m.pos = len(m.Input)
		return result, nil
	}
	result := m.Input[m.pos : m.pos+idx+1]
	m.pos += idx + 1
	return result, nil
}

// MockDependenciesBuilder helps create mock dependencies for tests
type MockDependenciesBuilder struct {
	deps *Dependencies
}

// NewMockDeps creates a new MockDependenciesBuilder with sensible defaults
func NewMockDeps() *MockDependenciesBuilder {
	return &MockDependenciesBuilder{
		deps: &Dependencies{
			ConfigLoader:   &MockConfigLoader{Cfg: config.New()},
			LocatorFactory: &MockLocatorFactory{},
			SenderFactory:  &MockSenderFactory{},
			StdinReader:    &MockStdinReader{Input: "y\n"},
		},
	}
}

// WithConfig sets the config for the mock
func (b *MockDependenciesBuilder) WithConfig(cfg *config.Config) *MockDependenciesBuilder {
	b.deps.ConfigLoader = &MockConfigLoader{Cfg: cfg}
	return b
}

// WithConfigLoader sets a custom config loader
func (b *MockDependenciesBuilder) WithConfigLoader(loader ConfigLoader) *MockDependenciesBuilder {
	b.deps.ConfigLoader = loader
	return b
}

// WithLocatorFactory sets a custom locator factory
func (b *MockDependenciesBuilder) WithLocatorFactory(factory LocatorFactory) *MockDependenciesBuilder {
	b.deps.LocatorFactory = factory
	return b
}

// WithSenderFactory sets a custom sender factory
func (b *MockDependenciesBuilder) WithSenderFactory(factory SenderFactory) *MockDependenciesBuilder {
	b.deps.SenderFactory = factory
	return b
}

// WithStdinInput sets the stdin input for the mock
func (b *MockDependenciesBuilder) WithStdinInput(input string) *MockDependenciesBuilder {
	b.deps.StdinReader = &MockStdinReader{Input: input}
	return b
}

// Build returns the configured Dependencies
func (b *MockDependenciesBuilder) Build() *Dependencies {
	return b.deps
}

// useDeps installs d for the duration of a test
func useDeps(t interface {
	Helper()
	Cleanup(func())
}, d *Dependencies) {
	t.Helper()
	old := deps
	deps = d
	t.Cleanup(func() {
		deps = old
	})
}
