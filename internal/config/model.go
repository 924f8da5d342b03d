// internal/config/model.go
//
// Typed configuration model for the contact service.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from four overlay layers:
//
//   • built-in defaults                          – Defaults(),
//   • optional `.env`                            – dotenv values,
//   • `conf/global.yaml`                         – primary static file,
//   • `CONTACT_`-prefixed environment overrides  – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client *before* unmarshalling, so the model never
// stores Vault URIs, only plain strings.
//
// Validation happens immediately after unmarshal; the app fails fast if
// required fields are missing.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.
//   • Durations are written as Go duration strings (“30m”, “15s”).
//   • The `Paths` block is filled at runtime; YAML must not try to set it.

package config

import "time"

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr      string        `koanf:"listen_addr"      validate:"required,hostname_port"`
	ForceHTTPS      bool          `koanf:"force_https"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"gt=0"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

//
// Log section
//

// Log controls the zap logger.  An empty Dir means `<root>/logs`.
type Log struct {
	Dir   string `koanf:"dir"`
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
}

//
// CSRF section
//

// CSRF holds the token signing key.  Key is base64url, 32 bytes or more, and
// is normally a `vault:` reference.  An empty key makes the process generate
// an ephemeral one.
type CSRF struct {
	Key    string        `koanf:"key"     validate:"omitempty,csrfkey"`
	MaxAge time.Duration `koanf:"max_age" validate:"gt=0"`
}

//
// Session section
//

// Session bounds the in-memory form store.
type Session struct {
	CookieName    string        `koanf:"cookie_name"    validate:"required,printascii"`
	SecureCookie  bool          `koanf:"secure_cookie"`
	IdleTTL       time.Duration `koanf:"idle_ttl"       validate:"gt=0"`
	MaxEntries    int           `koanf:"max_entries"    validate:"gt=0"`
	EvictInterval time.Duration `koanf:"evict_interval" validate:"gt=0"`
}

//
// Vault section
//

// Vault configures secret resolution.  Addr and Token fall back to the
// standard VAULT_ADDR and VAULT_TOKEN variables when empty.
type Vault struct {
	Addr     string        `koanf:"addr"      validate:"omitempty,url"`
	Token    string        `koanf:"token"`
	CacheTTL time.Duration `koanf:"cache_ttl" validate:"gte=0"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.
type Paths struct {
	Root string // CONTACT_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP    HTTP    `koanf:"http"`
	Log     Log     `koanf:"log"`
	CSRF    CSRF    `koanf:"csrf"`
	Session Session `koanf:"session"`
	Vault   Vault   `koanf:"vault"`
	Paths   Paths   `koanf:"-"` // not loaded from config files
}

// Defaults returns the lowest-precedence layer, keyed by koanf path.
func Defaults() map[string]any {
	return map[string]any{
		"http.listen_addr":       ":8080",
		"http.force_https":       false,
		"http.read_timeout":      "10s",
		"http.write_timeout":     "15s",
		"http.idle_timeout":      "60s",
		"http.shutdown_timeout":  "10s",
		"log.level":              "info",
		"csrf.max_age":           "2h",
		"session.cookie_name":    "adept_contact",
		"session.secure_cookie":  false,
		"session.idle_ttl":       "30m",
		"session.max_entries":    10000,
		"session.evict_interval": "1m",
		"vault.cache_ttl":        "5m",
	}
}
