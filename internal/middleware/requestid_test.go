package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureRequestID serves one request through RequestID and returns the ID
// seen by the handler and the response.
func captureRequestID(t *testing.T, header string) (string, *httptest.ResponseRecorder) {
	t.Helper()
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/run-query", nil)
	if header != "" {
		req.Header.Set("X-Request-ID", header)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return seen, rec
}

func TestRequestID_GeneratesUUID(t *testing.T) {
	t.Parallel()

	id, rec := captureRequestID(t, "")
	require.NotEmpty(t, id)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, rec.Header().Get("X-Request-ID"))
}

func TestRequestID_HeaderHandling(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		reused bool
	}{
		{name: "client id", header: "ui-7f3a_01", reused: true},
		{name: "max length", header: strings.Repeat("q", maxRequestIDLen), reused: true},
		{name: "too long", header: strings.Repeat("q", maxRequestIDLen+1)},
		{name: "newline", header: "abc\nlevel=ERROR msg=forged"},
		{name: "space", header: "two words"},
		{name: "markup", header: "<b>id</b>"},
		{name: "non-ascii", header: "idé"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			id, rec := captureRequestID(t, tc.header)
			assert.Equal(t, id, rec.Header().Get("X-Request-ID"))
			if tc.reused {
				assert.Equal(t, tc.header, id)
				return
			}
			assert.NotEqual(t, tc.header, id)
			_, err := uuid.Parse(id)
			assert.NoError(t, err, "replaced by a fresh uuid")
		})
	}
}

func TestRequestIDFromContext_Empty(t *testing.T) {
	t.Parallel()
	assert.Empty(t, RequestIDFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
}
