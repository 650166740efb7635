// Package dataset makes sure the dataset file exists locally before the
// service starts, fetching it once from its remote location when absent.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"chinook-demo/internal/domain"
)

// Provisioner ensures dataset files exist locally.
type Provisioner struct {
	fetchers map[string]domain.Fetcher
	timeout  time.Duration
	logger   *slog.Logger
}

// Option configures a Provisioner.
type Option func(*Provisioner)

// WithFetcher routes locations with the given URL scheme to f, replacing any
// default for that scheme.
func WithFetcher(scheme string, f domain.Fetcher) Option {
	return func(p *Provisioner) { p.fetchers[scheme] = f }
}

// WithTimeout bounds a single fetch. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(p *Provisioner) { p.timeout = d }
}

// NewProvisioner creates a Provisioner that fetches http and https
// locations with an HTTPFetcher. Object-store schemes are added with
// WithFetcher.
func NewProvisioner(logger *slog.Logger, opts ...Option) *Provisioner {
	if logger == nil {
		logger = slog.Default()
	}
	httpFetcher := &HTTPFetcher{}
	p := &Provisioner{
		fetchers: map[string]domain.Fetcher{
			"http":  httpFetcher,
			"https": httpFetcher,
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Ensure returns the local path of res, fetching it first when the file is
// missing.
//
// An existing file is returned as is, without network activity or content
// checks. A remote that answers with a non-success status is logged as a
// warning and the path is still returned; whatever consumes the file fails
// later. Transport failures (unreachable host, timeout, unsupported scheme)
// return a *domain.ProvisioningError.
func (p *Provisioner) Ensure(ctx context.Context, res domain.DatasetResource) (string, error) {
	path := res.LocalPath()
	fail := func(err error) (string, error) {
		return "", &domain.ProvisioningError{Name: res.Name, Location: res.Location, Err: err}
	}

	exists, err := res.Exists()
	if err != nil {
		return fail(fmt.Errorf("check dataset: %w", err))
	}
	if exists {
		p.logger.Debug("dataset present", "path", path)
		return path, nil
	}

	u, err := url.Parse(res.Location)
	if err != nil {
		return fail(fmt.Errorf("parse location: %w", err))
	}
	fetcher, ok := p.fetchers[u.Scheme]
	if !ok {
		return fail(fmt.Errorf("unsupported location scheme %q", u.Scheme))
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	p.logger.Info("fetching dataset", "name", res.Name, "location", res.Location, "path", path)
	start := time.Now()

	written, err := p.fetchTo(ctx, fetcher, res.Location, path)
	var statusErr *domain.FetchStatusError
	switch {
	case errors.As(err, &statusErr):
		p.logger.Warn("dataset fetch returned non-success status, continuing without it",
			"name", res.Name,
			"location", res.Location,
			"status", statusErr.StatusCode,
		)
		return path, nil
	case err != nil:
		return fail(err)
	}

	p.logger.Info("dataset fetched",
		"name", res.Name,
		"bytes", written,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return path, nil
}

// fetchTo streams the remote into a temporary file next to path and renames
// it into place, so an interrupted fetch never leaves a partial dataset.
func (p *Provisioner) fetchTo(ctx context.Context, f domain.Fetcher, location, path string) (int64, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create dataset dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.part")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck

	counter := &countingWriter{w: tmp}
	fetchErr := f.Fetch(ctx, location, counter)
	closeErr := tmp.Close()
	if fetchErr != nil {
		return counter.n, fetchErr
	}
	if closeErr != nil {
		return counter.n, fmt.Errorf("close temp file: %w", closeErr)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return counter.n, fmt.Errorf("move dataset into place: %w", err)
	}
	return counter.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(b []byte) (int, error) {
	n, err := c.w.Write(b)
	c.n += int64(n)
	return n, err
}
