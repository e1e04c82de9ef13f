package reconcile

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksyq12/certkeeper/internal/certstore"
	"github.com/ksyq12/certkeeper/internal/vhost"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedEngine() *Engine {
	e := NewEngine(DefaultThresholdDays)
	e.Now = func() time.Time { return fixedNow }
	return e
}

func present(name string, validFor time.Duration, dnsNames ...string) certstore.Record {
	return certstore.Record{Name: name, Status: certstore.Present, ValidTo: fixedNow.Add(validFor), DNSNames: dnsNames}
}

func decideOne(t *testing.T, req vhost.Requirement, rec certstore.Record) Verdict {
	t.Helper()
	verdicts := fixedEngine().Decide([]vhost.Requirement{req}, map[string]certstore.Record{req.Name: rec})
	require.Len(t, verdicts, 1)
	return verdicts[0]
}

const day = 24 * time.Hour

func TestDecideExpiry(t *testing.T) {
	req := vhost.Requirement{Name: "a.com", Domains: []string{"a.com"}}

	tests := []struct {
		name     string
		validFor time.Duration
		expiring bool
		days     int
	}{
		{"5 days", 5 * day, true, 5},
		{"30 days", 30 * day, false, 30},
		{"exactly 10 days", 10 * day, false, 10},
		{"just under 10 days", 10*day - time.Minute, true, 9},
		{"just over 10 days", 10*day + time.Minute, false, 10},
		{"already expired", -2 * day, true, -2},
		{"expires within the hour", 30 * time.Minute, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := decideOne(t, req, present("a.com", tt.validFor, "a.com"))
			assert.False(t, v.Missing)
			assert.Equal(t, tt.expiring, v.Has(ExpiringSoon))
			if tt.expiring {
				require.Len(t, v.Reasons, 1)
				assert.Equal(t, tt.days, v.Reasons[0].DaysRemaining)
				assert.Equal(t, "Less than 10 days before certificate expiry.", v.Reasons[0].String())
				assert.True(t, v.NeedsRenewal())
			} else {
				assert.True(t, v.Satisfied())
			}
		})
	}
}

func TestDecideMismatch(t *testing.T) {
	t.Run("missing declared domain", func(t *testing.T) {
		req := vhost.Requirement{Name: "a.com", Domains: []string{"a.com", "b.com"}}
		v := decideOne(t, req, present("a.com", 60*day, "a.com"))

		require.True(t, v.Has(DomainMismatch))
		require.Len(t, v.Reasons, 1)
		assert.Equal(t, []string{"b.com"}, v.Reasons[0].MissingDomains)
		assert.Equal(t, "Domains mismatch, missing: b.com", v.Reasons[0].String())
		assert.Equal(t, "mismatch", v.State())
	})

	t.Run("extra certificate domains are ignored", func(t *testing.T) {
		req := vhost.Requirement{Name: "a.com", Domains: []string{"a.com"}}
		v := decideOne(t, req, present("a.com", 60*day, "a.com", "old.a.com"))
		assert.True(t, v.Satisfied())
		assert.Equal(t, "satisfied", v.State())
	})

	t.Run("no declared domains", func(t *testing.T) {
		req := vhost.Requirement{Name: "a.com", Domains: []string{}}
		v := decideOne(t, req, present("a.com", 60*day, "a.com"))
		assert.True(t, v.Satisfied())
	})

	t.Run("multiple missing listed once each", func(t *testing.T) {
		req := vhost.Requirement{Name: "a.com", Domains: []string{"a.com", "b.com", "c.com", "b.com"}}
		v := decideOne(t, req, present("a.com", 60*day, "a.com"))
		require.Len(t, v.Reasons, 1)
		assert.Equal(t, "Domains mismatch, missing: b.com, c.com", v.Reasons[0].String())
	})
}

func TestDecideBothReasons(t *testing.T) {
	req := vhost.Requirement{Name: "a.com", Domains: []string{"a.com", "b.com"}}
	v := decideOne(t, req, present("a.com", 2*day, "a.com"))

	require.Len(t, v.Reasons, 2)
	assert.True(t, v.Has(ExpiringSoon))
	assert.True(t, v.Has(DomainMismatch))
	assert.Equal(t, "expiring+mismatch", v.State())
	assert.Equal(t, []string{
		"Less than 10 days before certificate expiry.",
		"Domains mismatch, missing: b.com",
	}, v.ReasonTexts())
}

func TestDecideMissing(t *testing.T) {
	req := vhost.Requirement{Name: "a.com", Domains: []string{"a.com", "b.com"}}

	for _, status := range []certstore.Status{certstore.Absent, certstore.Corrupt} {
		t.Run(status.String(), func(t *testing.T) {
			v := decideOne(t, req, certstore.Record{Name: "a.com", Status: status})
			assert.True(t, v.Missing)
			assert.Empty(t, v.Reasons)
			assert.False(t, v.Satisfied())
			assert.False(t, v.NeedsRenewal())
			assert.Equal(t, "missing", v.State())
		})
	}

	t.Run("no record at all", func(t *testing.T) {
		verdicts := fixedEngine().Decide([]vhost.Requirement{req}, nil)
		require.Len(t, verdicts, 1)
		assert.True(t, verdicts[0].Missing)
	})
}

func TestDecideOrderAndOrphans(t *testing.T) {
	reqs := []vhost.Requirement{
		{Name: "z.com", Domains: []string{"z.com"}},
		{Name: "a.com", Domains: []string{"a.com"}},
	}
	records := map[string]certstore.Record{
		"a.com":      present("a.com", 60*day, "a.com"),
		"z.com":      present("z.com", 60*day, "z.com"),
		"orphan.com": present("orphan.com", day, "orphan.com"),
	}

	verdicts := fixedEngine().Decide(reqs, records)
	require.Len(t, verdicts, 2)
	assert.Equal(t, "z.com", verdicts[0].Name)
	assert.Equal(t, "a.com", verdicts[1].Name)
}

func TestNewEngineThreshold(t *testing.T) {
	assert.Equal(t, DefaultThresholdDays, NewEngine(0).ThresholdDays)
	assert.Equal(t, 30, NewEngine(30).ThresholdDays)

	e := NewEngine(30)
	e.Now = func() time.Time { return fixedNow }
	req := vhost.Requirement{Name: "a.com", Domains: []string{"a.com"}}
	v := e.Decide([]vhost.Requirement{req}, map[string]certstore.Record{"a.com": present("a.com", 20*day, "a.com")})[0]
	require.True(t, v.Has(ExpiringSoon))
	assert.Equal(t, "Less than 30 days before certificate expiry.", v.Reasons[0].String())
}

func TestDaysRemaining(t *testing.T) {
	assert.Equal(t, 9, DaysRemaining(fixedNow.Add(9*day+23*time.Hour), fixedNow))
	assert.Equal(t, -1, DaysRemaining(fixedNow.Add(-time.Hour), fixedNow))
}

func TestReasonJSON(t *testing.T) {
	r := Reason{Kind: DomainMismatch, MissingDomains: []string{"b.com"}}
	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"mismatch","missing_domains":["b.com"]}`, string(data))

	var back Reason
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, r, back)

	assert.Error(t, json.Unmarshal([]byte(`{"kind":"bogus"}`), &back))
}

func TestReasonJSONZeroDaysRemaining(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	e := &Engine{ThresholdDays: 10, Now: func() time.Time { return now }}
	reqs := []vhost.Requirement{{Name: "a.com", Domains: []string{"a.com"}}}
	records := map[string]certstore.Record{
		"a.com": {Name: "a.com", Status: certstore.Present, ValidTo: now.Add(5 * time.Hour), DNSNames: []string{"a.com"}},
	}

	v := e.Decide(reqs, records)[0]
	require.Len(t, v.Reasons, 1)
	assert.Equal(t, 0, v.Reasons[0].DaysRemaining)

	data, err := json.Marshal(v.Reasons[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"expiring","days_remaining":0,"threshold":10}`, string(data))

	var back Reason
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, v.Reasons[0], back)
}
