package proxy

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/ksyq12/certkeeper/internal/errors"
	"github.com/ksyq12/certkeeper/internal/executor"
	"github.com/ksyq12/certkeeper/internal/logger"
)

// DefaultPollInterval is how often WaitUntilReady checks the proxy state.
const DefaultPollInterval = time.Second

// Default commands for an nginx proxy.
var (
	DefaultReloadCommand = []string{"nginx", "-s", "reload"}
	DefaultTestCommand   = []string{"nginx", "-t"}
)

// Options configures a Controller.
type Options struct {
	Locator executor.Locator
	Tag     string // proxy image tag, e.g. nginx:1.19-alpine

	// PollInterval defaults to DefaultPollInterval.
	PollInterval time.Duration
	// MaxWait bounds WaitUntilReady. Zero waits until ctx is done.
	MaxWait time.Duration

	ReloadCommand []string
	TestCommand   []string
}

// Controller waits for and reloads the proxy's execution target.
type Controller struct {
	opts Options
}

// NewController creates a Controller, filling in defaults.
func NewController(opts Options) *Controller {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if len(opts.ReloadCommand) == 0 {
		opts.ReloadCommand = DefaultReloadCommand
	}
	if len(opts.TestCommand) == 0 {
		opts.TestCommand = DefaultTestCommand
	}
	return &Controller{opts: opts}
}

// Tag returns the proxy image tag.
func (c *Controller) Tag() string {
	return c.opts.Tag
}

// WaitUntilReady polls until the proxy target reports running. The target is
// located again on every poll so a recreated container is picked up.
func (c *Controller) WaitUntilReady(ctx context.Context) error {
	if c.opts.MaxWait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.MaxWait)
		defer cancel()
	}

	check := func() error {
		target, err := c.opts.Locator.Locate(ctx, c.opts.Tag)
		if err != nil {
			return err
		}
		state, err := target.State(ctx)
		if err != nil {
			return err
		}
		if state != executor.StateRunning {
			return fmt.Errorf("proxy %s is %s", target.ID(), state)
		}
		return nil
	}

	b := backoff.WithContext(backoff.NewConstantBackOff(c.opts.PollInterval), ctx)
	notify := func(err error, next time.Duration) {
		logger.Debug("Waiting for proxy: %v", err)
	}
	if err := backoff.RetryNotify(check, b, notify); err != nil {
		return errors.WrapName(errors.ErrCodeLookup, c.opts.Tag, fmt.Errorf("proxy not ready: %w", err))
	}

	logger.Debug("Proxy %s is running", c.opts.Tag)
	return nil
}

// Reload sends the reload command to the proxy. The returned error carries
// RELOAD_FAILURE; callers log it and continue. A failed reload is followed
// by the configuration test, whose output is logged.
func (c *Controller) Reload(ctx context.Context) error {
	out, err := c.exec(ctx, c.opts.ReloadCommand)
	if err != nil {
		if testOut, testErr := c.Test(ctx); testErr != nil {
			logger.Error("Proxy %s configuration test failed:\n%s", c.opts.Tag, testOut)
		}
		return &errors.CertError{
			Code:    errors.ErrCodeReload,
			Message: "proxy reload failed",
			Name:    c.opts.Tag,
			Output:  out,
			Err:     err,
		}
	}
	logger.Info("Reloaded proxy %s", c.opts.Tag)
	return nil
}

// Test validates the proxy configuration syntax.
func (c *Controller) Test(ctx context.Context) (string, error) {
	return c.exec(ctx, c.opts.TestCommand)
}

func (c *Controller) exec(ctx context.Context, cmd []string) (string, error) {
	target, err := c.opts.Locator.Locate(ctx, c.opts.Tag)
	if err != nil {
		return "", err
	}
	out, err := target.Run(ctx, cmd)
	if out != "" {
		logger.Debug("%s output:\n%s", cmd[0], out)
	}
	return out, err
}
