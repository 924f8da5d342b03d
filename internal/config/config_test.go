package config

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdeptTravel/adept-contact/internal/form"
)

// withRoot points the loader at a fresh temp root holding the given
// global.yaml (skipped when empty).
func withRoot(t *testing.T, yamlBody string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "conf"), 0o755))
	if yamlBody != "" {
		require.NoError(t, os.WriteFile(filepath.Join(root, "conf", "global.yaml"), []byte(yamlBody), 0o644))
	}
	t.Setenv("CONTACT_ROOT", root)
	return root
}

func TestLoad_DefaultsOnly(t *testing.T) {
	root := withRoot(t, "")

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.ListenAddr)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, "adept_contact", cfg.Session.CookieName)
	assert.Equal(t, 30*time.Minute, cfg.Session.IdleTTL)
	assert.Equal(t, 10000, cfg.Session.MaxEntries)
	assert.Equal(t, 2*time.Hour, cfg.CSRF.MaxAge)
	assert.Equal(t, root, cfg.Paths.Root)
	assert.Equal(t, filepath.Join(root, "logs"), cfg.Log.Dir)
	assert.Same(t, cfg, Get())
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	withRoot(t, `
http:
  listen_addr: "127.0.0.1:9000"
  force_https: true
session:
  idle_ttl: 5m
  max_entries: 50
log:
  level: debug
`)
	t.Setenv("CONTACT_SESSION__MAX_ENTRIES", "7")
	t.Setenv("CONTACT_HTTP__FORCE_HTTPS", "false")

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.HTTP.ListenAddr)
	assert.False(t, cfg.HTTP.ForceHTTPS)
	assert.Equal(t, 5*time.Minute, cfg.Session.IdleTTL)
	assert.Equal(t, 7, cfg.Session.MaxEntries)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_DotEnv(t *testing.T) {
	root := withRoot(t, "")
	require.NoError(t, os.WriteFile(filepath.Join(root, "conf", ".env"),
		[]byte("CONTACT_SESSION__COOKIE_NAME=from_dotenv\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("CONTACT_SESSION__COOKIE_NAME") })

	cfg, err := Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "from_dotenv", cfg.Session.CookieName)
}

func TestLoad_ValidationFails(t *testing.T) {
	withRoot(t, "log:\n  level: chatty\n")

	_, err := Load(context.Background())
	require.Error(t, err)
}

func TestLoad_CSRFKey(t *testing.T) {
	enc := func(n int) string {
		return base64.RawURLEncoding.EncodeToString(bytes.Repeat([]byte{'k'}, n))
	}
	cases := []struct {
		name string
		key  string
		ok   bool
	}{
		{"not base64", "not base64!", false},
		{"one byte short", enc(form.MinKeyBytes - 1), false},
		{"exact", enc(form.MinKeyBytes), true},
		{"longer", enc(64), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			withRoot(t, "csrf:\n  key: \""+tc.key+"\"\n")

			cfg, err := Load(context.Background())
			if !tc.ok {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "csrfkey")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.key, cfg.CSRF.Key)
		})
	}
}

func TestLoad_ResolvesVaultRefs(t *testing.T) {
	const key = "MDEyMzQ1Njc4OWFiY2RlZjAxMjM0NTY3ODlhYmNkZWY"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/secret/data/contact" || r.Header.Get("X-Vault-Token") != "test-token" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"data": map[string]any{"csrf_key": key},
				"metadata": map[string]any{
					"created_time":  "2018-03-22T02:24:06.945319214Z",
					"deletion_time": "",
					"destroyed":     false,
					"version":       1,
				},
			},
		})
	}))
	defer srv.Close()

	withRoot(t, "csrf:\n  key: \"vault:secret/contact#csrf_key\"\n")
	t.Setenv("CONTACT_VAULT__ADDR", srv.URL)
	t.Setenv("CONTACT_VAULT__TOKEN", "test-token")

	cfg, err := Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, key, cfg.CSRF.Key)
}

func TestLoad_VaultMissingKey(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	withRoot(t, "csrf:\n  key: \"vault:secret/contact#csrf_key\"\n")
	t.Setenv("CONTACT_VAULT__ADDR", srv.URL)
	t.Setenv("CONTACT_VAULT__TOKEN", "test-token")

	_, err := Load(context.Background())
	require.Error(t, err)
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "http.listen_addr", envKey("CONTACT_HTTP__LISTEN_ADDR"))
	assert.Equal(t, "session.idle_ttl", envKey("CONTACT_SESSION__IDLE_TTL"))
}
