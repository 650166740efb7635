package dataset

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chinook-demo/internal/domain"
	"chinook-demo/internal/testutil"
)

var datasetBytes = []byte("SQLite format 3\x00\x01\x02binary\xff\xfe")

func testLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestEnsure_FetchesOnceOverHTTP(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write(datasetBytes)
	}))
	t.Cleanup(srv.Close)

	var logs bytes.Buffer
	p := NewProvisioner(testLogger(&logs))
	res := domain.DatasetResource{
		Name:     "chinook.db",
		Location: srv.URL + "/chinook/Chinook.db",
		Path:     filepath.Join(t.TempDir(), "chinook.db"),
	}

	path, err := p.Ensure(context.Background(), res)
	require.NoError(t, err)
	assert.Equal(t, res.Path, path)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, datasetBytes, got, "body written byte for byte")

	path2, err := p.Ensure(context.Background(), res)
	require.NoError(t, err)
	assert.Equal(t, path, path2)
	assert.Equal(t, int32(1), hits.Load(), "second Ensure performs no network I/O")
}

func TestEnsure_ExistingFileIsNotValidated(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "chinook.db")
	require.NoError(t, os.WriteFile(path, []byte("not a database"), 0o644))

	fetcher := &testutil.MockFetcher{}
	p := NewProvisioner(testLogger(&bytes.Buffer{}), WithFetcher("https", fetcher))

	got, err := p.Ensure(context.Background(), domain.DatasetResource{
		Name: "chinook.db", Location: "https://example.invalid/Chinook.db", Path: path,
	})
	require.NoError(t, err)
	assert.Equal(t, path, got)
	assert.Zero(t, fetcher.Calls)
}

func TestEnsure_UnreadablePathIsFatal(t *testing.T) {
	t.Parallel()

	parent := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(parent, []byte("x"), 0o644))

	fetcher := &testutil.MockFetcher{}
	p := NewProvisioner(testLogger(&bytes.Buffer{}), WithFetcher("https", fetcher))
	_, err := p.Ensure(context.Background(), domain.DatasetResource{
		Name: "chinook.db", Location: "https://example.invalid/Chinook.db", Path: filepath.Join(parent, "chinook.db"),
	})

	var pe *domain.ProvisioningError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, err.Error(), "check dataset")
	assert.Zero(t, fetcher.Calls, "no fetch when the path cannot be checked")
}

func TestEnsure_NonSuccessStatusWarnsAndContinues(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	var logs bytes.Buffer
	p := NewProvisioner(testLogger(&logs))
	res := domain.DatasetResource{Name: "chinook.db", Location: srv.URL, Path: filepath.Join(dir, "chinook.db")}

	path, err := p.Ensure(context.Background(), res)
	require.NoError(t, err, "non-200 is not fatal")
	assert.Equal(t, res.Path, path)
	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "status=404")

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "no file is written for a failed fetch")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temporary file is cleaned up")
}

func TestEnsure_TransportFailureIsFatal(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close() // connection refused from here on

	p := NewProvisioner(testLogger(&bytes.Buffer{}))
	_, err := p.Ensure(context.Background(), domain.DatasetResource{
		Name: "chinook.db", Location: url + "/Chinook.db", Path: filepath.Join(t.TempDir(), "chinook.db"),
	})

	var pe *domain.ProvisioningError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "chinook.db", pe.Name)
	assert.Contains(t, err.Error(), "provision dataset")
}

func TestEnsure_TimeoutIsFatal(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	p := NewProvisioner(testLogger(&bytes.Buffer{}), WithTimeout(50*time.Millisecond))
	_, err := p.Ensure(context.Background(), domain.DatasetResource{
		Name: "chinook.db", Location: srv.URL, Path: filepath.Join(t.TempDir(), "chinook.db"),
	})

	var pe *domain.ProvisioningError
	require.ErrorAs(t, err, &pe)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestEnsure_UnsupportedScheme(t *testing.T) {
	t.Parallel()

	p := NewProvisioner(testLogger(&bytes.Buffer{}))
	_, err := p.Ensure(context.Background(), domain.DatasetResource{
		Name: "chinook.db", Location: "ftp://example.com/Chinook.db", Path: filepath.Join(t.TempDir(), "chinook.db"),
	})

	var pe *domain.ProvisioningError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, err.Error(), `unsupported location scheme "ftp"`)
}

func TestEnsure_PartialFetchLeavesNoFile(t *testing.T) {
	t.Parallel()

	fetcher := &testutil.MockFetcher{FetchFn: func(_ context.Context, _ string, w io.Writer) error {
		_, _ = w.Write([]byte("half a data"))
		return errors.New("connection reset by peer")
	}}
	dir := t.TempDir()
	p := NewProvisioner(testLogger(&bytes.Buffer{}), WithFetcher("s3", fetcher))

	_, err := p.Ensure(context.Background(), domain.DatasetResource{
		Name: "chinook.db", Location: "s3://bucket/Chinook.db", Path: filepath.Join(dir, "chinook.db"),
	})
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, 1, fetcher.Calls)
}

func TestEnsure_DefaultPathIsName(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	name := filepath.Join(dir, "chinook.db")
	fetcher := &testutil.MockFetcher{FetchFn: func(_ context.Context, _ string, w io.Writer) error {
		_, err := w.Write(datasetBytes)
		return err
	}}
	p := NewProvisioner(testLogger(&bytes.Buffer{}), WithFetcher("https", fetcher))

	path, err := p.Ensure(context.Background(), domain.DatasetResource{Name: name, Location: "https://example.com/x"})
	require.NoError(t, err)
	assert.Equal(t, name, path)
	assert.FileExists(t, name)
}
