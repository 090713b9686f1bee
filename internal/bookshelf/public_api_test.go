package bookshelf_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"Bookshelf/internal/auth"
	"Bookshelf/internal/bookshelf"
	"Bookshelf/internal/catalog"
	"Bookshelf/internal/users"
)

const jwtSecret = "test-secret"

func newTS(t *testing.T, httpDeps bookshelf.HTTPDeps) *httptest.Server {
	t.Helper()

	seed, err := catalog.LoadSeed("")
	require.NoError(t, err)

	if httpDeps.Log == nil {
		httpDeps.Log = zap.NewNop()
	}
	httpDeps.Service = "bookshelf"

	h := bookshelf.NewHandler(
		bookshelf.Deps{
			Books:     catalog.NewMemStore(seed),
			Users:     users.NewMemDirectoryWithCost(bcrypt.MinCost),
			JWTSecret: jwtSecret,
		},
		httpDeps,
	)

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body any, headers map[string]string) (*http.Response, []byte) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func messageOf(t *testing.T, raw []byte) string {
	t.Helper()
	var m struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(raw, &m), string(raw))
	return m.Message
}

func bearer(t *testing.T, username string) map[string]string {
	t.Helper()
	tok, err := auth.NewTokenMaker(jwtSecret).New(username, 15*time.Minute)
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + tok}
}

func TestPublicAPI_HappyPath(t *testing.T) {
	ts := newTS(t, bookshelf.HTTPDeps{})

	resp, raw := doJSON(t, http.MethodPost, ts.URL+"/register", map[string]any{
		"username": "reader",
		"password": "password123",
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))

	resp, raw = doJSON(t, http.MethodGet, ts.URL+"/", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var all map[string]catalog.Book
	require.NoError(t, json.Unmarshal(raw, &all))
	require.Len(t, all, 10)

	resp, raw = doJSON(t, http.MethodGet, ts.URL+"/isbn/8", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"title":"Pride and Prejudice","author":"Jane Austen"}`, string(raw))

	resp, raw = doJSON(t, http.MethodGet, ts.URL+"/author/Unknown", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var unknown []catalog.Book
	require.NoError(t, json.Unmarshal(raw, &unknown))
	assert.Len(t, unknown, 4)

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/title/Le%20P%C3%A8re%20Goriot", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	hdr := bearer(t, "reader")

	resp, raw = doJSON(t, http.MethodPut, ts.URL+"/review/8", map[string]any{"review": "witty"}, hdr)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Equal(t, "Review added successfully", messageOf(t, raw))

	resp, raw = doJSON(t, http.MethodGet, ts.URL+"/isbn/8", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"title":"Pride and Prejudice","author":"Jane Austen","reviews":{"reader":"witty"}}`, string(raw))

	resp, raw = doJSON(t, http.MethodGet, ts.URL+"/review/8", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"reader":"witty"}`, string(raw))

	resp, raw = doJSON(t, http.MethodDelete, ts.URL+"/review/8", nil, hdr)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	resp, raw = doJSON(t, http.MethodGet, ts.URL+"/review/8", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{}`, string(raw))
}

func TestPublicAPI_RegisterTwice(t *testing.T) {
	ts := newTS(t, bookshelf.HTTPDeps{})

	body := map[string]any{"username": "reader", "password": "pw"}
	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/register", body, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw := doJSON(t, http.MethodPost, ts.URL+"/register", body, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "User already exists!", messageOf(t, raw))
}

func TestPublicAPI_NotFound(t *testing.T) {
	ts := newTS(t, bookshelf.HTTPDeps{})

	for path, want := range map[string]string{
		"/isbn/404":             "No book found with ISBN 404",
		"/author/jane%20austen": "No book found with author jane austen",
		"/title/Nope":           "No book found with title Nope",
		"/review/404":           "No book found with ISBN 404",
		"/no/such/route":        "not found",
	} {
		resp, raw := doJSON(t, http.MethodGet, ts.URL+path, nil, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		assert.Equal(t, want, messageOf(t, raw), path)
	}
}

func TestPublicAPI_ReviewRequiresToken(t *testing.T) {
	ts := newTS(t, bookshelf.HTTPDeps{})

	resp, raw := doJSON(t, http.MethodPut, ts.URL+"/review/1", map[string]any{"review": "x"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid token", messageOf(t, raw))

	resp, raw = doJSON(t, http.MethodDelete, ts.URL+"/review/1", nil, map[string]string{"Authorization": "Bearer x.y.z"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid token", messageOf(t, raw))
}

func TestPublicAPI_TokenForUnregisteredUser(t *testing.T) {
	ts := newTS(t, bookshelf.HTTPDeps{})

	resp, raw := doJSON(t, http.MethodPut, ts.URL+"/review/1", map[string]any{"review": "x"}, bearer(t, "ghost"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "User not found", messageOf(t, raw))
}

func TestPublicAPI_RegisterRateLimit(t *testing.T) {
	ts := newTS(t, bookshelf.HTTPDeps{RegisterRatePerMin: 1})

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/register", map[string]any{"username": "a", "password": "pw"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/register", map[string]any{"username": "b", "password": "pw"}, nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "limit only applies to /register")
}

func TestPublicAPI_HealthAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	ts := newTS(t, bookshelf.HTTPDeps{
		Registry:       reg,
		MetricsEnabled: true,
		MetricsToken:   "scrape",
	})

	resp, _ := doJSON(t, http.MethodGet, ts.URL+"/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/readyz", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/metrics", nil, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, raw := doJSON(t, http.MethodGet, ts.URL+"/metrics", nil, map[string]string{"Authorization": "Bearer scrape"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(raw), `http_requests_total{method="GET",path="/healthz",service="bookshelf",status="200"}`), string(raw))
}

func TestPublicAPI_CORSPreflight(t *testing.T) {
	ts := newTS(t, bookshelf.HTTPDeps{CORSOrigins: []string{"https://shop.example"}})

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/review/1", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://shop.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "https://shop.example", resp.Header.Get("Access-Control-Allow-Origin"))
}
