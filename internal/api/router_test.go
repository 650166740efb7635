package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chinook-demo/internal/testutil"
)

func TestGetSwagger(t *testing.T) {
	t.Parallel()

	doc, err := GetSwagger()
	require.NoError(t, err)
	require.NoError(t, doc.Validate(context.Background()))

	for _, path := range []string{"/api/run-query", "/api/ask-ai", "/api/health"} {
		assert.NotNil(t, doc.Paths.Find(path), path)
	}
	result := doc.Components.Schemas["TabularResult"].Value
	assert.ElementsMatch(t, []string{"columns", "rows", "row_count"}, result.Required)
}

func TestOpenAPIEndpoint(t *testing.T) {
	t.Parallel()
	srv := newServerOver(t, &testutil.MockSQLEngine{}, nil)

	resp, err := http.Get(srv.URL + "/openapi.json")
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	doc, err := openapi3.NewLoader().LoadFromData(body)
	require.NoError(t, err, "served document parses")
	assert.Equal(t, "Chinook Query API", doc.Info.Title)

	resp, err = http.Get(srv.URL + "/docs")
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}

func TestCORS(t *testing.T) {
	t.Parallel()
	srv := newServerOver(t, &testutil.MockSQLEngine{}, nil)

	tests := []struct {
		name       string
		origin     string
		wantOrigin string
	}{
		{name: "allowed origin", origin: "http://localhost:5173", wantOrigin: "http://localhost:5173"},
		{name: "other origin", origin: "http://evil.example.com", wantOrigin: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/run-query", nil)
			require.NoError(t, err)
			req.Header.Set("Origin", tc.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			req.Header.Set("Access-Control-Request-Headers", "Content-Type")

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close() //nolint:errcheck
			assert.Equal(t, tc.wantOrigin, resp.Header.Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestRouter_MountsUI(t *testing.T) {
	t.Parallel()

	ui := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ui:" + r.URL.Path))
	})
	h := NewHandler(&stubRunner{}, newPresenter(), &testutil.MockAsker{}, "d", "e", discardLogger())
	router := NewRouter(RouterConfig{Handler: h, UI: ui, Logger: discardLogger()})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/ui", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ui/ask", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ui:/ui/ask", rec.Body.String())
}

func TestRouter_ErrorBodyShape(t *testing.T) {
	t.Parallel()
	srv := newServerOver(t, &testutil.MockSQLEngine{}, nil)

	_, body := post(t, srv, "/api/run-query", `{`)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(body, &raw))
	assert.Len(t, raw, 2)
	assert.Contains(t, raw, "code")
	assert.Contains(t, raw, "detail")
}
