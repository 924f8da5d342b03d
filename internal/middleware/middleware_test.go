package middleware

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/AdeptTravel/adept-contact/internal/metrics"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	_, _ = w.Write([]byte("ok"))
})

func TestSecurity_SetsHeadersBeforeBody(t *testing.T) {
	rr := httptest.NewRecorder()
	Security(ok).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/contact", nil))

	res := rr.Result()
	assert.Equal(t, "DENY", res.Header.Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", res.Header.Get("X-Content-Type-Options"))
	assert.Contains(t, res.Header.Get("Content-Security-Policy"), "default-src 'self'")
	assert.NotEmpty(t, res.Header.Get("Strict-Transport-Security"))
}

func TestSecurity_HandlerMayOverride(t *testing.T) {
	h := Security(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-Frame-Options", "SAMEORIGIN")
		w.WriteHeader(http.StatusNoContent)
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "SAMEORIGIN", rr.Header().Get("X-Frame-Options"))
}

func TestForceHTTPS(t *testing.T) {
	cases := []struct {
		name     string
		enabled  bool
		host     string
		tls      bool
		proto    string
		redirect bool
	}{
		{"disabled", false, "example.com", false, "", false},
		{"plain http", true, "example.com", false, "", true},
		{"already tls", true, "example.com", true, "", false},
		{"tls proxy", true, "example.com", false, "https", false},
		{"localhost", true, "localhost:8080", false, "", false},
		{"loopback", true, "127.0.0.1:8080", false, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "http://"+tc.host+"/contact?x=1", nil)
			req.Host = tc.host
			if tc.tls {
				req.TLS = &tls.ConnectionState{}
			}
			if tc.proto != "" {
				req.Header.Set("X-Forwarded-Proto", tc.proto)
			}
			rr := httptest.NewRecorder()
			ForceHTTPS(tc.enabled)(ok).ServeHTTP(rr, req)

			if tc.redirect {
				assert.Equal(t, http.StatusPermanentRedirect, rr.Code)
				assert.Equal(t, "https://"+tc.host+"/contact?x=1", rr.Header().Get("Location"))
			} else {
				assert.Equal(t, http.StatusOK, rr.Code)
			}
		})
	}
}

func TestAccessLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	prev := zap.L()
	zap.ReplaceGlobals(zap.New(core))
	t.Cleanup(func() { zap.ReplaceGlobals(prev) })

	before := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("418"))

	h := chimw.RequestID(AccessLog(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	})))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/contact/submit", nil))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "/contact/submit", fields["path"])
	assert.EqualValues(t, http.StatusTeapot, fields["status"])
	assert.EqualValues(t, len("short and stout"), fields["bytes"])
	assert.NotEmpty(t, fields["req_id"])

	after := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("418"))
	assert.Equal(t, before+1, after)
}
