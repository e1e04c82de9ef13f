package reconcile

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ksyq12/certkeeper/internal/certstore"
	"github.com/ksyq12/certkeeper/internal/vhost"
)

// DefaultThresholdDays is the expiry window that triggers a renewal.
const DefaultThresholdDays = 10

// ReasonKind identifies why a certificate needs renewal.
type ReasonKind int

const (
	ExpiringSoon ReasonKind = iota
	DomainMismatch
)

func (k ReasonKind) String() string {
	switch k {
	case ExpiringSoon:
		return "expiring"
	case DomainMismatch:
		return "mismatch"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name.
func (k ReasonKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *ReasonKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "expiring":
		*k = ExpiringSoon
	case "mismatch":
		*k = DomainMismatch
	default:
		return fmt.Errorf("unknown reason kind %q", b)
	}
	return nil
}

// Reason is one renewal trigger.
type Reason struct {
	Kind           ReasonKind `json:"kind"`
	DaysRemaining  int        `json:"days_remaining,omitempty"`
	Threshold      int        `json:"threshold,omitempty"`
	MissingDomains []string   `json:"missing_domains,omitempty"`
}

// MarshalJSON always writes days_remaining for expiring certificates, where
// zero means expiry within the day.
func (r Reason) MarshalJSON() ([]byte, error) {
	type wire struct {
		Kind           ReasonKind `json:"kind"`
		DaysRemaining  *int       `json:"days_remaining,omitempty"`
		Threshold      int        `json:"threshold,omitempty"`
		MissingDomains []string   `json:"missing_domains,omitempty"`
	}
	w := wire{Kind: r.Kind, Threshold: r.Threshold, MissingDomains: r.MissingDomains}
	if r.Kind == ExpiringSoon {
		days := r.DaysRemaining
		w.DaysRemaining = &days
	}
	return json.Marshal(w)
}

// String returns the text used in notifications.
func (r Reason) String() string {
	switch r.Kind {
	case ExpiringSoon:
		return fmt.Sprintf("Less than %d days before certificate expiry.", r.Threshold)
	case DomainMismatch:
		return "Domains mismatch, missing: " + strings.Join(r.MissingDomains, ", ")
	default:
		return "unknown reason"
	}
}

// Verdict is the classification of one required certificate name.
type Verdict struct {
	Name    string           `json:"name"`
	Domains []string         `json:"domains"`
	Record  certstore.Record `json:"-"`
	Missing bool             `json:"missing"`
	Reasons []Reason         `json:"reasons,omitempty"`
}

// Satisfied reports whether no action is needed.
func (v Verdict) Satisfied() bool {
	return !v.Missing && len(v.Reasons) == 0
}

// NeedsRenewal reports whether the certificate exists but must be reissued.
func (v Verdict) NeedsRenewal() bool {
	return !v.Missing && len(v.Reasons) > 0
}

// Has reports whether the verdict carries a reason of kind k.
func (v Verdict) Has(k ReasonKind) bool {
	for _, r := range v.Reasons {
		if r.Kind == k {
			return true
		}
	}
	return false
}

// ReasonTexts returns the notification text of every reason.
func (v Verdict) ReasonTexts() []string {
	out := make([]string, len(v.Reasons))
	for i, r := range v.Reasons {
		out[i] = r.String()
	}
	return out
}

// State is a one-word summary: missing, satisfied, expiring, mismatch or
// expiring+mismatch.
func (v Verdict) State() string {
	if v.Missing {
		return "missing"
	}
	if len(v.Reasons) == 0 {
		return "satisfied"
	}
	kinds := make([]string, len(v.Reasons))
	for i, r := range v.Reasons {
		kinds[i] = r.Kind.String()
	}
	return strings.Join(kinds, "+")
}

// Engine turns requirements and certificate records into verdicts.
type Engine struct {
	ThresholdDays int
	Now           func() time.Time
}

// NewEngine creates an Engine. A non-positive threshold uses
// DefaultThresholdDays.
func NewEngine(thresholdDays int) *Engine {
	if thresholdDays <= 0 {
		thresholdDays = DefaultThresholdDays
	}
	return &Engine{ThresholdDays: thresholdDays, Now: time.Now}
}

// DaysRemaining returns whole days until validTo, rounded down.
func DaysRemaining(validTo, now time.Time) int {
	return int(math.Floor(validTo.Sub(now).Hours() / 24))
}

// Decide returns one verdict per requirement, in requirement order. Records
// without a requirement are ignored.
func (e *Engine) Decide(reqs []vhost.Requirement, records map[string]certstore.Record) []Verdict {
	now := e.Now()
	verdicts := make([]Verdict, 0, len(reqs))
	for _, req := range reqs {
		rec, ok := records[req.Name]
		if !ok {
			rec = certstore.Record{Name: req.Name, Status: certstore.Absent}
		}
		verdicts = append(verdicts, e.decide(req, rec, now))
	}
	return verdicts
}

func (e *Engine) decide(req vhost.Requirement, rec certstore.Record, now time.Time) Verdict {
	v := Verdict{Name: req.Name, Domains: req.Domains, Record: rec}

	if rec.Missing() {
		v.Missing = true
		return v
	}

	if days := DaysRemaining(rec.ValidTo, now); days < e.ThresholdDays {
		v.Reasons = append(v.Reasons, Reason{
			Kind:          ExpiringSoon,
			DaysRemaining: days,
			Threshold:     e.ThresholdDays,
		})
	}

	if missing := difference(req.Domains, rec.DNSNames); len(missing) > 0 {
		v.Reasons = append(v.Reasons, Reason{
			Kind:           DomainMismatch,
			MissingDomains: missing,
		})
	}

	return v
}

// difference returns the elements of want absent from have, in want order.
func difference(want, have []string) []string {
	set := make(map[string]struct{}, len(have))
	for _, h := range have {
		set[h] = struct{}{}
	}
	var out []string
	for _, w := range want {
		if _, ok := set[w]; ok {
			continue
		}
		set[w] = struct{}{}
		out = append(out, w)
	}
	return out
}
