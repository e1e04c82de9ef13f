package ssl

import (
	"context"
	"fmt"
	"path"
	"strconv"

	"github.com/ksyq12/certkeeper/internal/certstore"
	"github.com/ksyq12/certkeeper/internal/errors"
	"github.com/ksyq12/certkeeper/internal/executor"
	"github.com/ksyq12/certkeeper/internal/logger"
)

// Policy holds the fixed issuance parameters.
type Policy struct {
	RSAKeySize       int
	BootstrapDays    int
	BootstrapKeySize int
	BootstrapSubject string
}

// DefaultPolicy matches certbot's recommended nginx setup: 4096-bit real
// certificates and a 1-day, 1024-bit localhost placeholder.
var DefaultPolicy = Policy{
	RSAKeySize:       4096,
	BootstrapDays:    1,
	BootstrapKeySize: 1024,
	BootstrapSubject: "/CN=localhost",
}

// Options configures an Issuer.
type Options struct {
	Locator executor.Locator
	Tag     string           // issuer image tag, e.g. certbot/certbot
	Store   *certstore.Store // store as seen by this process
	// TargetRoot is the store root as seen inside the issuer target.
	// Empty means the same path as Store.
	TargetRoot string
	Webroot    string
	Email      string
	Staging    bool
	Policy     Policy
}

// Issuer drives certbot and openssl inside the issuer target.
type Issuer struct {
	opts Options
}

// NewIssuer creates an Issuer. A zero Policy uses DefaultPolicy.
func NewIssuer(opts Options) *Issuer {
	if opts.Policy == (Policy{}) {
		opts.Policy = DefaultPolicy
	}
	if opts.TargetRoot == "" {
		opts.TargetRoot = opts.Store.Root()
	}
	return &Issuer{opts: opts}
}

// BootstrapCommand builds the openssl command writing a self-signed
// placeholder into liveDir.
func BootstrapCommand(liveDir string, p Policy) []string {
	return []string{
		"openssl", "req", "-x509", "-nodes",
		"-newkey", "rsa:" + strconv.Itoa(p.BootstrapKeySize),
		"-days", strconv.Itoa(p.BootstrapDays),
		"-keyout", path.Join(liveDir, certstore.KeyFile),
		"-out", path.Join(liveDir, certstore.ChainFile),
		"-subj", p.BootstrapSubject,
	}
}

// RenewCommand builds the certbot webroot issuance command. primary is
// always the first -d; the other domains follow once each.
func RenewCommand(primary string, domains []string, email, webroot string, keySize int, staging bool) []string {
	args := []string{
		"certbot", "certonly",
		"--non-interactive",
		"--break-my-certs",
		"--webroot", "-w", webroot,
	}
	for _, d := range IssuanceDomains(primary, domains) {
		args = append(args, "-d", d)
	}
	args = append(args,
		"--email", email,
		"--rsa-key-size", strconv.Itoa(keySize),
		"--agree-tos",
		"--force-renewal",
	)
	if staging {
		args = append(args, "--staging")
	}
	return args
}

// IssuanceDomains returns primary followed by the other domains, without
// duplicates.
func IssuanceDomains(primary string, domains []string) []string {
	out := []string{primary}
	seen := map[string]bool{primary: true}
	for _, d := range domains {
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}

func (i *Issuer) run(ctx context.Context, name string, cmd []string) (string, error) {
	target, err := i.opts.Locator.Locate(ctx, i.opts.Tag)
	if err != nil {
		return "", err
	}

	logger.DebugFields("Running issuer command", map[string]interface{}{
		"name":   name,
		"target": target.ID(),
		"cmd":    cmd,
	})
	out, err := target.Run(ctx, cmd)
	logger.Debug("%s output:\n%s", cmd[0], out)
	if err != nil {
		if errors.Is(err, errors.ErrExecution) {
			return out, err
		}
		return out, errors.Execution(name, out, err)
	}
	return out, nil
}

// Bootstrap creates live/<name> and writes a placeholder certificate so the
// proxy can start before real issuance.
func (i *Issuer) Bootstrap(ctx context.Context, name string) (string, error) {
	created, err := i.opts.Store.EnsureLiveDir(name)
	if err != nil {
		return "", err
	}
	if created {
		logger.Info("Created directory %s", i.opts.Store.LiveDir(name))
	}

	liveDir := path.Join(i.opts.TargetRoot, "live", name)
	logger.Info("Creating bootstrap certificate for %s", name)
	return i.run(ctx, name, BootstrapCommand(liveDir, i.opts.Policy))
}

// Renew tears down the existing artifacts for primary and issues a new
// certificate covering primary and domains.
func (i *Issuer) Renew(ctx context.Context, primary string, domains []string) (string, error) {
	if err := i.opts.Store.Teardown(primary); err != nil {
		return "", errors.Execution(primary, "", fmt.Errorf("teardown: %w", err))
	}

	logger.Info("Renewing certificate %s for %v", primary, IssuanceDomains(primary, domains))
	cmd := RenewCommand(primary, domains, i.opts.Email, i.opts.Webroot, i.opts.Policy.RSAKeySize, i.opts.Staging)
	return i.run(ctx, primary, cmd)
}
