package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"chinook-demo/internal/domain"
)

// S3Fetcher downloads s3://bucket/key locations. With an Endpoint it talks
// to S3-compatible stores using path-style addressing.
type S3Fetcher struct {
	Region   string
	KeyID    string
	Secret   string
	Endpoint string
}

var _ domain.Fetcher = (*S3Fetcher)(nil)

func (f *S3Fetcher) client() *s3.Client {
	region := f.Region
	if region == "" {
		region = "us-east-1"
	}
	opts := s3.Options{Region: region}
	if f.KeyID != "" && f.Secret != "" {
		opts.Credentials = credentials.NewStaticCredentialsProvider(f.KeyID, f.Secret, "")
	} else {
		opts.Credentials = aws.AnonymousCredentials{}
	}
	if f.Endpoint != "" {
		endpoint := f.Endpoint
		if !strings.Contains(endpoint, "://") {
			endpoint = "https://" + endpoint
		}
		opts.BaseEndpoint = aws.String(endpoint)
		opts.UsePathStyle = true
	}
	return s3.New(opts)
}

// Fetch streams the object to w.
func (f *S3Fetcher) Fetch(ctx context.Context, location string, w io.Writer) error {
	bucket, key, err := parseS3Location(location)
	if err != nil {
		return err
	}

	out, err := f.client().GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if status, ok := s3Status(err); ok {
			return &domain.FetchStatusError{Location: location, StatusCode: status, Status: http.StatusText(status)}
		}
		return fmt.Errorf("get %s: %w", location, err)
	}
	defer out.Body.Close() //nolint:errcheck

	if _, err := io.Copy(w, out.Body); err != nil {
		return fmt.Errorf("read %s: %w", location, err)
	}
	return nil
}

// s3Status extracts the HTTP status when the store answered the request.
func s3Status(err error) (int, bool) {
	var re *awshttp.ResponseError
	if errors.As(err, &re) && re.HTTPStatusCode() > 0 {
		return re.HTTPStatusCode(), true
	}
	return 0, false
}

// parseS3Location splits "s3://bucket/path/to/key" into bucket and key.
func parseS3Location(location string) (bucket, key string, err error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", "", fmt.Errorf("parse %q: %w", location, err)
	}
	if u.Scheme != "s3" {
		return "", "", fmt.Errorf("expected s3:// location, got %q", location)
	}
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 location %q needs a bucket and a key", location)
	}
	return bucket, key, nil
}
