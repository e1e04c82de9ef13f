package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ksyq12/certkeeper/internal/assets"
	"github.com/ksyq12/certkeeper/internal/certstore"
	"github.com/ksyq12/certkeeper/internal/config"
	"github.com/ksyq12/certkeeper/internal/errors"
	"github.com/ksyq12/certkeeper/internal/executor"
	"github.com/ksyq12/certkeeper/internal/logger"
	"github.com/ksyq12/certkeeper/internal/notify"
	"github.com/ksyq12/certkeeper/internal/output"
	"github.com/ksyq12/certkeeper/internal/proxy"
	"github.com/ksyq12/certkeeper/internal/reconcile"
	"github.com/ksyq12/certkeeper/internal/ssl"
	"github.com/ksyq12/certkeeper/internal/vhost"
)

// loadConfig loads the config and applies its log level unless --verbose
// was given.
func loadConfig() (*config.Config, error) {
	cfg, err := deps.ConfigLoader.Load(configPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfig, "failed to load config", err)
	}
	if err := logger.Init(verbose, cfg.LogLevel); err != nil {
		logger.Warn("%v, using info", err)
	}
	return cfg, nil
}

// sourceFor combines the nginx files matched by the configured globs with
// the declarations listed in the config itself.
func sourceFor(cfg *config.Config) vhost.Source {
	static := make(vhost.StaticSource, 0, len(cfg.VHosts))
	for _, v := range cfg.VHosts {
		static = append(static, vhost.Declaration{
			Source:      "config",
			CertPath:    v.SSLCertificate,
			ServerNames: v.ServerNames,
		})
	}
	return vhost.MultiSource{
		&vhost.NginxSource{Globs: cfg.VHostGlobs},
		static,
	}
}

func engineFor(cfg *config.Config) *reconcile.Engine {
	return reconcile.NewEngine(cfg.Policy.ExpiryThresholdDays)
}

// newReconciler wires a read-only Reconciler used by check. Its side-effect
// components are absent, so only Evaluate may be called on it.
func newReconciler(cfg *config.Config) (*reconcile.Reconciler, *certstore.Store) {
	store := certstore.New(cfg.StoreDir)
	return reconcile.New(reconcile.Options{
		Source:    sourceFor(cfg),
		Inspector: store,
		Engine:    engineFor(cfg),
		Period:    cfg.Schedule.Period.D(),
	}), store
}

// buildReconciler wires every component of a full cycle from cfg.
func buildReconciler(cfg *config.Config, loc executor.Locator) *reconcile.Reconciler {
	store := certstore.New(cfg.StoreDir)

	issuer := ssl.NewIssuer(ssl.Options{
		Locator:    loc,
		Tag:        cfg.IssuerTag,
		Store:      store,
		TargetRoot: cfg.TargetStoreDir,
		Webroot:    cfg.Webroot,
		Email:      cfg.Email,
		Staging:    cfg.Staging,
		Policy: ssl.Policy{
			RSAKeySize:       cfg.Policy.RSAKeySize,
			BootstrapDays:    cfg.Policy.BootstrapDays,
			BootstrapKeySize: cfg.Policy.BootstrapKeySize,
			BootstrapSubject: cfg.Policy.BootstrapSubject,
		},
	})

	ctrl := proxy.NewController(proxy.Options{
		Locator:      loc,
		Tag:          cfg.ProxyTag,
		PollInterval: cfg.Schedule.ReadyPoll.D(),
		MaxWait:      cfg.Schedule.ReadyTimeout.D(),
	})

	notifier := notify.New(deps.SenderFactory.Create(cfg.Mail), notify.Envelope{
		From:    cfg.Mail.From,
		To:      notify.SplitAddresses(cfg.Mail.To),
		Subject: cfg.Mail.Subject,
	})

	return reconcile.New(reconcile.Options{
		Source:    sourceFor(cfg),
		Inspector: store,
		Issuer:    issuer,
		Proxy:     ctrl,
		Notifier:  notifier,
		Assets:    assets.NewFetcher(nil, cfg.StoreDir),
		AssetList: cfg.Assets,
		Engine:    engineFor(cfg),
		Period:    cfg.Schedule.Period.D(),
	})
}

// withReconciler creates the execution backend, builds a full Reconciler
// and releases the backend when fn returns.
func withReconciler(fn func(cfg *config.Config, r *reconcile.Reconciler) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	loc, release, err := deps.LocatorFactory.Create(cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeLookup, "failed to create execution backend", err)
	}
	defer release()

	return fn(cfg, buildReconciler(cfg, loc))
}

// outputResult handles JSON or human-readable output
func outputResult(data interface{}, successMsg string, args ...interface{}) error {
	if jsonOutput {
		return output.JSON(data)
	}
	output.Success(successMsg, args...)
	return nil
}

// commandContext returns cmd's context, or Background when the command was
// not started through Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
