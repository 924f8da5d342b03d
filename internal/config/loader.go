// internal/config/loader.go
//
// Configuration loader and hot-reloader.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from four layers (highest
precedence last):

  1. Built-in defaults from `Defaults()`.
  2. Optional `.env` file at `<root>/conf/.env`, merged into the process
     environment without overriding variables that are already set.
  3. `conf/global.yaml`, optional; a missing file leaves the defaults.
  4. Environment variables prefixed `CONTACT_`, where `__` maps to “.”
     (e.g., `CONTACT_HTTP__LISTEN_ADDR → http.listen_addr`).

String values that begin with `vault:` are then resolved through Vault.
After that the tree is unmarshalled into strongly-typed structs,
validated, enriched with the runtime root path, and cached in an
`atomic.Pointer` for lock-free reads.  `Reload()` simply calls `Load()`
again and swaps the pointer.

Instrumentation
---------------
  • DEBUG spans: root discovery, YAML read, env overlay, vault lookups.
  • ERROR spans: YAML parse, env overlay, vault, unmarshal, validation.
  • INFO  span : final “config loaded” with key highlights.
  • Logs use the global *sugared* logger (`zap.S()`) so early boot issues
    surface even before the file logger is installed (bootstrap console).

Notes
-----
  • `rootDir()` climbs the cwd tree until it finds `conf/global.yaml`;
    this lets `go run ./cmd/web` work from any sub-directory.
  • Oxford commas, two spaces after periods.
*/
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/AdeptTravel/adept-contact/internal/vault"
)

// EnvPrefix marks environment overrides.
const EnvPrefix = "CONTACT_"

var current atomic.Pointer[Config]

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves CONTACT_ROOT or climbs directories until conf/global.yaml
// is found.  Falls back to executable heuristic for production layout.
func rootDir() string {
	if r := os.Getenv(EnvPrefix + "ROOT"); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "conf", "global.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached filesystem root
			break
		}
		dir = parent
	}

	exe, _ := os.Executable()
	if filepath.Base(filepath.Dir(exe)) == "bin" {
		return filepath.Dir(filepath.Dir(exe))
	}
	return wd
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load reads defaults, .env, YAML, env overrides, resolves Vault
// references, validates, and caches Config.
func Load(ctx context.Context) (*Config, error) {
	root := rootDir()
	zap.S().Debugw("config root resolved", "root", root)

	// .env (optional, no error if missing)
	if err := godotenv.Load(filepath.Join(root, "conf", ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		zap.S().Warnw("config dotenv unreadable", "err", err)
	}

	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}

	yamlPath := filepath.Join(root, "conf", "global.yaml")
	switch _, err := os.Stat(yamlPath); {
	case err == nil:
		if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
			zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
			return nil, err
		}
		zap.S().Debugw("config yaml loaded", "file", yamlPath)
	case errors.Is(err, fs.ErrNotExist):
		zap.S().Debugw("config yaml absent, using defaults", "file", yamlPath)
	default:
		return nil, err
	}

	// Env overrides: CONTACT_HTTP__LISTEN_ADDR → http.listen_addr
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}

	if err := resolveSecrets(ctx, k); err != nil {
		zap.S().Errorw("config vault resolution failed", "err", err)
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, err
	}

	cfg.Paths.Root = root
	if cfg.Log.Dir == "" {
		cfg.Log.Dir = filepath.Join(root, "logs")
	}
	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, err
	}

	current.Store(&cfg)
	zap.S().Infow("config loaded",
		"listen_addr", cfg.HTTP.ListenAddr,
		"force_https", cfg.HTTP.ForceHTTPS,
		"root", cfg.Paths.Root,
	)
	return &cfg, nil
}

/*──────────────────────────── vault overlay ───────────────────────────────*/

// resolveSecrets replaces every `vault:` string in k with its secret.  The
// Vault client is only built when at least one reference exists.
func resolveSecrets(ctx context.Context, k *koanf.Koanf) error {
	refs := map[string]string{}
	for key, val := range k.All() {
		if s, ok := val.(string); ok && vault.IsRef(s) {
			refs[key] = s
		}
	}
	if len(refs) == 0 {
		return nil
	}

	cli, err := vault.New(ctx, vault.Options{
		Addr:  k.String("vault.addr"),
		Token: k.String("vault.token"),
	})
	if err != nil {
		return err
	}

	ttl := k.Duration("vault.cache_ttl")
	resolved := make(map[string]any, len(refs))
	for key, ref := range refs {
		val, err := cli.Resolve(ctx, ref, ttl)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		zap.S().Debugw("config secret resolved", "key", key)
		resolved[key] = val
	}
	return k.Load(confmap.Provider(resolved, "."), nil)
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

// envKey maps CONTACT_SESSION__IDLE_TTL to session.idle_ttl.
func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ToLower(strings.ReplaceAll(s, "__", "."))
}

func Get() *Config { return current.Load() }

func Reload(ctx context.Context) error { _, err := Load(ctx); return err }
