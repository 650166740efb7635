package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"chinook-demo/internal/domain"
)

// HTTPFetcher downloads datasets with an unauthenticated GET.
type HTTPFetcher struct {
	// Client defaults to http.DefaultClient.
	Client *http.Client
}

var _ domain.Fetcher = (*HTTPFetcher)(nil)

// Fetch copies the response body to w byte for byte. A non-2xx response is
// reported as *domain.FetchStatusError and nothing is written.
func (f *HTTPFetcher) Fetch(ctx context.Context, location string, w io.Writer) error {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", location, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &domain.FetchStatusError{Location: location, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("read %s: %w", location, err)
	}
	return nil
}
