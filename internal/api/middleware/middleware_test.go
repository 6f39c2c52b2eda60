package middleware_test

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/claimsflow/internal/api/middleware"
)

func okHandler(status int, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

func TestLoggingMiddleware_PassesThrough(t *testing.T) {
	w := httptest.NewRecorder()
	middleware.LoggingMiddleware(okHandler(http.StatusTeapot, "hi")).
		ServeHTTP(w, httptest.NewRequest("GET", "/x", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "hi", w.Body.String())
}

func TestObservabilityMiddleware_WithoutMetrics(t *testing.T) {
	mux := http.NewServeMux()
	mux.Handle("GET /api/claims/{id}", okHandler(http.StatusOK, "{}"))

	w := httptest.NewRecorder()
	middleware.ObservabilityMiddleware(nil, mux)(mux).
		ServeHTTP(w, httptest.NewRequest("GET", "/api/claims/abc", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "http://reviewer.local")

	handler := middleware.CORSMiddleware(okHandler(http.StatusOK, "body"))

	req := httptest.NewRequest("OPTIONS", "/api/claims", nil)
	req.Header.Set("Origin", "http://reviewer.local")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://reviewer.local", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")
}

func TestCORSMiddleware_UnknownOrigin(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "http://reviewer.local")

	req := httptest.NewRequest("GET", "/api/claims", nil)
	req.Header.Set("Origin", "http://elsewhere")
	w := httptest.NewRecorder()
	middleware.CORSMiddleware(okHandler(http.StatusOK, "body")).ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCompression(t *testing.T) {
	handler := middleware.Compression(okHandler(http.StatusOK, `[{"id":"c1"}]`))

	req := httptest.NewRequest("GET", "/api/claims", nil)
	req.Header.Set("Accept-Encoding", "gzip, deflate")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
	gz, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(gz)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"c1"}]`, string(body))
}

func TestCompression_SkipsWrites(t *testing.T) {
	req := httptest.NewRequest("DELETE", "/api/messages/1", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	middleware.Compression(okHandler(http.StatusNoContent, "")).ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
