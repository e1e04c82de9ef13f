// Package assets downloads the static TLS configuration files the proxy
// includes next to its certificates.
package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/ksyq12/certkeeper/internal/config"
	"github.com/ksyq12/certkeeper/internal/logger"
)

// Fetcher downloads assets into a root directory once.
type Fetcher struct {
	client *http.Client
	root   string
}

// NewFetcher creates a Fetcher writing into root. A nil client uses one
// with a 30 second timeout.
func NewFetcher(client *http.Client, root string) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Fetcher{client: client, root: root}
}

// Fetch creates the root if needed and downloads every asset that is not
// already present. It stops at the first failure.
func (f *Fetcher) Fetch(ctx context.Context, assets []config.Asset) error {
	if err := os.MkdirAll(f.root, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", f.root, err)
	}

	for _, a := range assets {
		dest := filepath.Join(f.root, a.File)
		if _, err := os.Stat(dest); err == nil {
			logger.Debug("Asset %s already present", a.File)
			continue
		}
		if err := f.download(ctx, a.URL, dest); err != nil {
			return fmt.Errorf("failed to fetch %s: %w", a.File, err)
		}
		logger.Info("Fetched %s", a.File)
	}
	return nil
}

func (f *Fetcher) download(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: %s", url, resp.Status)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dest)
}
