package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"chinook-demo/internal/domain"
)

// GCSFetcher downloads gs://bucket/object locations, authenticating with a
// service-account key file when KeyFile is set.
type GCSFetcher struct {
	KeyFile string
}

var _ domain.Fetcher = (*GCSFetcher)(nil)

// Fetch streams the object to w.
func (f *GCSFetcher) Fetch(ctx context.Context, location string, w io.Writer) error {
	bucket, object, err := parseGCSLocation(location)
	if err != nil {
		return err
	}

	auth := option.WithoutAuthentication()
	if f.KeyFile != "" {
		auth = option.WithAuthCredentialsFile(option.ServiceAccount, f.KeyFile)
	}
	client, err := storage.NewClient(ctx, auth)
	if err != nil {
		return fmt.Errorf("create GCS client: %w", err)
	}
	defer client.Close() //nolint:errcheck

	r, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		if status, ok := gcsStatus(err); ok {
			return &domain.FetchStatusError{Location: location, StatusCode: status, Status: http.StatusText(status)}
		}
		return fmt.Errorf("get %s: %w", location, err)
	}
	defer r.Close() //nolint:errcheck

	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("read %s: %w", location, err)
	}
	return nil
}

// gcsStatus extracts the HTTP status when the service answered the request.
func gcsStatus(err error) (int, bool) {
	if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
		return http.StatusNotFound, true
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code > 0 {
		return gerr.Code, true
	}
	return 0, false
}

// parseGCSLocation splits "gs://bucket/path/to/object" into bucket and object.
func parseGCSLocation(location string) (bucket, object string, err error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", "", fmt.Errorf("parse %q: %w", location, err)
	}
	if u.Scheme != "gs" {
		return "", "", fmt.Errorf("expected gs:// location, got %q", location)
	}
	bucket = u.Host
	object = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || object == "" {
		return "", "", fmt.Errorf("gcs location %q needs a bucket and an object", location)
	}
	return bucket, object, nil
}
