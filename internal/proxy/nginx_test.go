package proxy

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	certerrors "github.com/ksyq12/certkeeper/internal/errors"
	"github.com/ksyq12/certkeeper/internal/executor"
)

const proxyTag = "nginx:1.19-alpine"

func newTestController(loc executor.Locator, maxWait time.Duration) *Controller {
	return NewController(Options{
		Locator:      loc,
		Tag:          proxyTag,
		PollInterval: time.Millisecond,
		MaxWait:      maxWait,
	})
}

func TestNewControllerDefaults(t *testing.T) {
	c := NewController(Options{Tag: proxyTag})
	if c.opts.PollInterval != DefaultPollInterval {
		t.Errorf("PollInterval = %v, want %v", c.opts.PollInterval, DefaultPollInterval)
	}
	if !reflect.DeepEqual(c.opts.ReloadCommand, []string{"nginx", "-s", "reload"}) {
		t.Errorf("ReloadCommand = %v", c.opts.ReloadCommand)
	}
	if c.Tag() != proxyTag {
		t.Errorf("Tag() = %s", c.Tag())
	}
}

func TestWaitUntilReady(t *testing.T) {
	t.Run("already running", func(t *testing.T) {
		loc := executor.NewMockLocator(proxyTag)
		c := newTestController(loc, 0)

		if err := c.WaitUntilReady(context.Background()); err != nil {
			t.Fatalf("WaitUntilReady() error = %v", err)
		}
		if loc.Targets[proxyTag].StateCall != 1 {
			t.Errorf("expected 1 state check, got %d", loc.Targets[proxyTag].StateCall)
		}
	})

	t.Run("becomes running after restarts", func(t *testing.T) {
		loc := executor.NewMockLocator(proxyTag)
		loc.Targets[proxyTag].States = []string{"restarting", "restarting", "running"}
		c := newTestController(loc, time.Second)

		if err := c.WaitUntilReady(context.Background()); err != nil {
			t.Fatalf("WaitUntilReady() error = %v", err)
		}
		if got := loc.Targets[proxyTag].StateCall; got != 3 {
			t.Errorf("expected 3 state checks, got %d", got)
		}
		if len(loc.Lookups) != 3 {
			t.Errorf("target should be located on every poll, got %d lookups", len(loc.Lookups))
		}
	})

	t.Run("gives up after max wait", func(t *testing.T) {
		loc := executor.NewMockLocator(proxyTag)
		loc.Targets[proxyTag].States = []string{"exited"}
		c := newTestController(loc, 20*time.Millisecond)

		err := c.WaitUntilReady(context.Background())
		if err == nil {
			t.Fatal("expected error when proxy never runs")
		}
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected deadline exceeded, got %v", err)
		}
	})

	t.Run("stops when context is cancelled", func(t *testing.T) {
		loc := executor.NewMockLocator()
		c := newTestController(loc, 0)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if err := c.WaitUntilReady(ctx); err == nil {
			t.Fatal("expected error for cancelled context")
		}
	})
}

func TestReload(t *testing.T) {
	t.Run("runs reload command", func(t *testing.T) {
		loc := executor.NewMockLocator(proxyTag)
		c := newTestController(loc, 0)

		if err := c.Reload(context.Background()); err != nil {
			t.Fatalf("Reload() error = %v", err)
		}
		runs := loc.Targets[proxyTag].Runs
		if len(runs) != 1 || !reflect.DeepEqual(runs[0], DefaultReloadCommand) {
			t.Errorf("runs = %v", runs)
		}
	})

	t.Run("failure is reload error", func(t *testing.T) {
		loc := executor.NewMockLocator(proxyTag)
		loc.Targets[proxyTag].RunFunc = func(cmd []string) (string, error) {
			return "nginx: [emerg] cannot load certificate", errors.New("exit code 1")
		}
		c := newTestController(loc, 0)

		err := c.Reload(context.Background())
		if !certerrors.Is(err, certerrors.ErrReload) {
			t.Fatalf("expected RELOAD_FAILURE, got %v", err)
		}
		var ce *certerrors.CertError
		if certerrors.As(err, &ce) && ce.Output == "" {
			t.Error("reload error should carry output")
		}

		runs := loc.Targets[proxyTag].Runs
		want := [][]string{DefaultReloadCommand, DefaultTestCommand}
		if !reflect.DeepEqual(runs, want) {
			t.Errorf("failed reload should be followed by a config test, runs = %v", runs)
		}
	})

	t.Run("missing target", func(t *testing.T) {
		c := newTestController(executor.NewMockLocator(), 0)
		if err := c.Reload(context.Background()); !certerrors.Is(err, certerrors.ErrReload) {
			t.Errorf("expected RELOAD_FAILURE, got %v", err)
		}
	})
}

func TestTest(t *testing.T) {
	loc := executor.NewMockLocator(proxyTag)
	loc.Targets[proxyTag].RunFunc = func(cmd []string) (string, error) {
		return "syntax is ok", nil
	}
	c := newTestController(loc, 0)

	out, err := c.Test(context.Background())
	if err != nil {
		t.Fatalf("Test() error = %v", err)
	}
	if out != "syntax is ok" {
		t.Errorf("output = %q", out)
	}
	if !reflect.DeepEqual(loc.Targets[proxyTag].Runs[0], DefaultTestCommand) {
		t.Errorf("ran %v", loc.Targets[proxyTag].Runs[0])
	}
}
