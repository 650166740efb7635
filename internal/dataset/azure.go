package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"

	"chinook-demo/internal/domain"
)

// AzureFetcher downloads azblob://account/container/blob locations. The
// account key is optional; without it the blob must allow anonymous reads.
type AzureFetcher struct {
	AccountKey string
	// ServiceURL overrides https://<account>.blob.core.windows.net, e.g. for
	// a local storage emulator.
	ServiceURL string
}

var _ domain.Fetcher = (*AzureFetcher)(nil)

func (f *AzureFetcher) client(account string) (*azblob.Client, error) {
	serviceURL := f.ServiceURL
	if serviceURL == "" {
		serviceURL = fmt.Sprintf("https://%s.blob.core.windows.net", account)
	}
	if f.AccountKey == "" {
		return azblob.NewClientWithNoCredential(serviceURL, nil)
	}
	cred, err := azblob.NewSharedKeyCredential(account, f.AccountKey)
	if err != nil {
		return nil, fmt.Errorf("create shared key credential: %w", err)
	}
	return azblob.NewClientWithSharedKeyCredential(serviceURL, cred, nil)
}

// Fetch streams the blob to w.
func (f *AzureFetcher) Fetch(ctx context.Context, location string, w io.Writer) error {
	account, container, blob, err := parseAzureLocation(location)
	if err != nil {
		return err
	}

	client, err := f.client(account)
	if err != nil {
		return fmt.Errorf("create Azure blob client: %w", err)
	}

	resp, err := client.DownloadStream(ctx, container, blob, nil)
	if err != nil {
		if status, ok := azureStatus(err); ok {
			return &domain.FetchStatusError{Location: location, StatusCode: status, Status: http.StatusText(status)}
		}
		return fmt.Errorf("get %s: %w", location, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("read %s: %w", location, err)
	}
	return nil
}

// azureStatus extracts the HTTP status when the service answered the request.
func azureStatus(err error) (int, bool) {
	var re *azcore.ResponseError
	if errors.As(err, &re) && re.StatusCode > 0 {
		return re.StatusCode, true
	}
	return 0, false
}

// parseAzureLocation splits "azblob://account/container/path/to/blob".
func parseAzureLocation(location string) (account, container, blob string, err error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", "", "", fmt.Errorf("parse %q: %w", location, err)
	}
	if u.Scheme != "azblob" {
		return "", "", "", fmt.Errorf("expected azblob:// location, got %q", location)
	}
	account = u.Host
	parts := strings.SplitN(strings.TrimPrefix(u.Path, "/"), "/", 2)
	if account == "" || len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", "", fmt.Errorf("azure location %q needs an account, a container and a blob", location)
	}
	return account, parts[0], parts[1], nil
}
