// Package certstore reads and tears down the certbot certificate store.
//
// Layout under the store root:
//
//	live/<name>/fullchain.pem
//	live/<name>/privkey.pem
//	archive/<name>/
//	renewal/<name>.conf
package certstore

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-acme/lego/v4/certcrypto"

	"github.com/ksyq12/certkeeper/internal/errors"
)

// File names inside live/<name>/
const (
	ChainFile = "fullchain.pem"
	KeyFile   = "privkey.pem"
)

// Status describes what Inspect found on disk.
type Status int

const (
	// Present means the chain file was read and parsed.
	Present Status = iota
	// Absent means no chain file exists.
	Absent
	// Corrupt means a chain file exists but could not be read or parsed.
	Corrupt
)

func (s Status) String() string {
	switch s {
	case Present:
		return "present"
	case Absent:
		return "absent"
	case Corrupt:
		return "corrupt"
	default:
		return "unknown"
	}
}

// Record is an immutable snapshot of one certificate.
type Record struct {
	Name     string    `json:"name"`
	Status   Status    `json:"-"`
	ValidTo  time.Time `json:"valid_to,omitempty"`
	DNSNames []string  `json:"dns_names,omitempty"`
	Err      error     `json:"-"`
}

// Missing reports whether the record cannot be used by the proxy.
// Corrupt certificates count as missing.
func (r Record) Missing() bool {
	return r.Status != Present
}

// Store is a certbot-style certificate store rooted at a directory.
type Store struct {
	root string
}

// New creates a Store rooted at root.
func New(root string) *Store {
	return &Store{root: root}
}

// Root returns the store root directory.
func (s *Store) Root() string {
	return s.root
}

// LiveDir returns live/<name>.
func (s *Store) LiveDir(name string) string {
	return filepath.Join(s.root, "live", name)
}

// ArchiveDir returns archive/<name>.
func (s *Store) ArchiveDir(name string) string {
	return filepath.Join(s.root, "archive", name)
}

// RenewalConf returns renewal/<name>.conf.
func (s *Store) RenewalConf(name string) string {
	return filepath.Join(s.root, "renewal", name+".conf")
}

// ChainPath returns live/<name>/fullchain.pem.
func (s *Store) ChainPath(name string) string {
	return filepath.Join(s.LiveDir(name), ChainFile)
}

// KeyPath returns live/<name>/privkey.pem.
func (s *Store) KeyPath(name string) string {
	return filepath.Join(s.LiveDir(name), KeyFile)
}

// ValidateName rejects names that would escape the store layout.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return errors.Validation(fmt.Sprintf("invalid certificate name %q", name))
	}
	return nil
}

// Inspect loads live/<name>/fullchain.pem. It never fails: a missing file
// yields Absent and an unreadable or undecodable one yields Corrupt, with
// Err holding a NOT_FOUND or PARSE_FAILURE error.
func (s *Store) Inspect(name string) Record {
	rec := Record{Name: name}
	if err := ValidateName(name); err != nil {
		rec.Status = Corrupt
		rec.Err = errors.Parse(name, err)
		return rec
	}

	data, err := os.ReadFile(s.ChainPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			rec.Status = Absent
			rec.Err = errors.NotFound(name, err)
		} else {
			rec.Status = Corrupt
			rec.Err = errors.Parse(name, err)
		}
		return rec
	}

	cert, err := certcrypto.ParsePEMCertificate(data)
	if err != nil {
		rec.Status = Corrupt
		rec.Err = errors.Parse(name, err)
		return rec
	}

	rec.Status = Present
	rec.ValidTo = cert.NotAfter
	rec.DNSNames = append([]string{}, cert.DNSNames...)
	return rec
}

// InspectAll inspects every name and keys the records by name.
func (s *Store) InspectAll(names []string) map[string]Record {
	records := make(map[string]Record, len(names))
	for _, n := range names {
		records[n] = s.Inspect(n)
	}
	return records
}

// Names lists the certificate names present under live/, sorted.
func (s *Store) Names() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, "live"))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read live directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// EnsureLiveDir creates live/<name> if needed and reports whether it did.
func (s *Store) EnsureLiveDir(name string) (bool, error) {
	if err := ValidateName(name); err != nil {
		return false, err
	}
	dir := s.LiveDir(name)
	if _, err := os.Stat(dir); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, fmt.Errorf("failed to create %s: %w", dir, err)
	}
	return true, nil
}

// Teardown removes live/<name>, archive/<name> and renewal/<name>.conf.
// Missing artifacts are skipped, so Teardown is idempotent.
func (s *Store) Teardown(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	for _, dir := range []string{s.LiveDir(name), s.ArchiveDir(name)} {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("failed to remove %s: %w", dir, err)
		}
	}
	if err := os.Remove(s.RenewalConf(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", s.RenewalConf(name), err)
	}
	return nil
}
