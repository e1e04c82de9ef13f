package reconcile

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ksyq12/certkeeper/internal/certstore"
	"github.com/ksyq12/certkeeper/internal/config"
	"github.com/ksyq12/certkeeper/internal/errors"
	"github.com/ksyq12/certkeeper/internal/logger"
	"github.com/ksyq12/certkeeper/internal/notify"
	"github.com/ksyq12/certkeeper/internal/vhost"
)

// DefaultPeriod is the time between cycle starts.
const DefaultPeriod = 24 * time.Hour

// Inspector loads certificate records keyed by name.
type Inspector interface {
	InspectAll(names []string) map[string]certstore.Record
}

// Issuer bootstraps and renews certificates.
type Issuer interface {
	Bootstrap(ctx context.Context, name string) (string, error)
	Renew(ctx context.Context, primary string, domains []string) (string, error)
}

// Proxy waits for and reloads the reverse proxy.
type Proxy interface {
	WaitUntilReady(ctx context.Context) error
	Reload(ctx context.Context) error
}

// Notifier reports renewal actions.
type Notifier interface {
	Notify(ctx context.Context, actions []notify.Action) error
}

// AssetFetcher refreshes static TLS assets.
type AssetFetcher interface {
	Fetch(ctx context.Context, assets []config.Asset) error
}

// Options wires a Reconciler. Assets and Notifier may be nil.
type Options struct {
	Source    vhost.Source
	Inspector Inspector
	Issuer    Issuer
	Proxy     Proxy
	Notifier  Notifier
	Assets    AssetFetcher
	AssetList []config.Asset
	Engine    *Engine
	Period    time.Duration
}

// Reconciler owns one proxy and certificate store pair and keeps the store
// in line with the proxy's declared domains.
type Reconciler struct {
	opts Options
}

// New creates a Reconciler. A nil Engine uses DefaultThresholdDays and a
// non-positive Period uses DefaultPeriod.
func New(opts Options) *Reconciler {
	if opts.Engine == nil {
		opts.Engine = NewEngine(DefaultThresholdDays)
	}
	if opts.Period <= 0 {
		opts.Period = DefaultPeriod
	}
	return &Reconciler{opts: opts}
}

// Report describes what one cycle did.
type Report struct {
	ID           string          `json:"id"`
	Started      time.Time       `json:"started"`
	Finished     time.Time       `json:"finished"`
	Verdicts     []Verdict       `json:"verdicts"`
	Bootstrapped []string        `json:"bootstrapped"`
	Renewed      []notify.Action `json:"renewed"`
	Reloads      int             `json:"reloads"`
}

// Evaluate scans the declarations, inspects the store and returns the
// verdicts. It changes nothing.
func (r *Reconciler) Evaluate() ([]Verdict, error) {
	reqs, err := vhost.Requirements(r.opts.Source)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(reqs))
	for i, req := range reqs {
		names[i] = req.Name
	}
	records := r.opts.Inspector.InspectAll(names)
	for _, name := range names {
		rec := records[name]
		switch {
		case errors.Is(rec.Err, errors.ErrParse):
			logger.Warn("Certificate %s is unreadable, treating as missing: %v", name, rec.Err)
		case errors.Is(rec.Err, errors.ErrNotFound):
			logger.Debug("Certificate %s not found", name)
		}
	}

	return r.opts.Engine.Decide(reqs, records), nil
}

// RunCycle runs one reconciliation cycle. Steps run strictly in order and
// the first propagated error aborts the rest.
func (r *Reconciler) RunCycle(ctx context.Context) (*Report, error) {
	report := &Report{
		ID:           uuid.NewString(),
		Started:      time.Now(),
		Bootstrapped: []string{},
		Renewed:      []notify.Action{},
	}
	log := logger.With(map[string]interface{}{"cycle": report.ID})
	log.Info("Starting reconciliation cycle")

	err := r.runCycle(ctx, report, log)
	report.Finished = time.Now()
	if err != nil {
		log.Error("Cycle failed: %v", err)
		return report, err
	}
	log.With(map[string]interface{}{
		"bootstrapped": len(report.Bootstrapped),
		"renewed":      len(report.Renewed),
		"took":         report.Finished.Sub(report.Started).Round(time.Millisecond),
	}).Info("Cycle complete")
	return report, nil
}

func (r *Reconciler) runCycle(ctx context.Context, report *Report, log *logger.Entry) error {
	if r.opts.Assets != nil && len(r.opts.AssetList) > 0 {
		if err := r.opts.Assets.Fetch(ctx, r.opts.AssetList); err != nil {
			log.Warn("Static asset refresh failed: %v", err)
		}
	}

	verdicts, err := r.Evaluate()
	if err != nil {
		return err
	}

	for _, v := range verdicts {
		if !v.Missing {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		log.With(map[string]interface{}{"name": v.Name}).Info("Bootstrapping missing certificate")
		if _, err := r.opts.Issuer.Bootstrap(ctx, v.Name); err != nil {
			return err
		}
		report.Bootstrapped = append(report.Bootstrapped, v.Name)
	}

	verdicts, err = r.Evaluate()
	if err != nil {
		return err
	}
	report.Verdicts = verdicts
	var still []string
	for _, v := range verdicts {
		if v.Missing {
			still = append(still, v.Name)
		}
	}
	if len(still) > 0 {
		return errors.StillMissing(still)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.opts.Proxy.WaitUntilReady(ctx); err != nil {
		return err
	}
	r.reload(ctx, report, log)

	for _, v := range verdicts {
		if !v.NeedsRenewal() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		reasons := v.ReasonTexts()
		log.With(map[string]interface{}{"name": v.Name, "reason": v.State()}).Info("Renewing certificate")
		if _, err := r.opts.Issuer.Renew(ctx, v.Name, v.Domains); err != nil {
			return err
		}
		report.Renewed = append(report.Renewed, notify.Action{
			Name:    v.Name,
			Domains: v.Domains,
			Reasons: reasons,
		})
	}

	if len(report.Renewed) == 0 {
		return nil
	}

	r.reload(ctx, report, log)
	if r.opts.Notifier != nil {
		if err := r.opts.Notifier.Notify(ctx, report.Renewed); err != nil {
			log.Error("Notification failed: %v", err)
		}
	}
	return nil
}

func (r *Reconciler) reload(ctx context.Context, report *Report, log *logger.Entry) {
	report.Reloads++
	if err := r.opts.Proxy.Reload(ctx); err != nil {
		log.Error("Proxy reload failed: %v", err)
	}
}

// RunForever runs a cycle immediately and then one every Period, measured
// start to start. A cycle that overruns the period is followed at once by
// the next; cycles never overlap. Cycle errors are logged and the schedule
// continues. It returns ctx.Err() when ctx is done.
func (r *Reconciler) RunForever(ctx context.Context) error {
	for {
		start := time.Now()
		_, _ = r.RunCycle(ctx)

		if err := ctx.Err(); err != nil {
			return err
		}

		wait := r.opts.Period - time.Since(start)
		if wait < 0 {
			wait = 0
		}
		logger.Debug("Next cycle in %s", wait.Round(time.Second))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
