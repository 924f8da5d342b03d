// internal/vault/vault.go
//
// Vault client wrapper.
//
// Context
// -------
//   - Provides a concurrency‑safe wrapper around the HashiCorp Vault Go SDK.
//   - Adds optional background token renewal, KV‑v2 reads, and per‑key caching.
//   - Resolves config references of the form `vault:<mount>/<path>#<key>`.
//
// Public workflow
// ---------------
//  1. cli, err := vault.New(ctx, vault.Options{Addr: …})   // during boot.
//  2. val, err := cli.Resolve(ctx, "vault:secret/contact#csrf_key", ttl)
//
// Build tags: none.
package vault

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	vault "github.com/hashicorp/vault/api"
	"go.uber.org/zap"
)

// Prefix marks a config value as a Vault reference.
const Prefix = "vault:"

// ErrBadRef is returned for references that are not `vault:<path>#<key>`.
var ErrBadRef = errors.New("malformed vault reference")

//
// SECTION 1.  Public façade
//

// Options configures New.  Empty Addr and Token fall back to VAULT_ADDR and
// VAULT_TOKEN (and ~/.vault-token) via the SDK.
type Options struct {
	Addr  string
	Token string
	Renew bool // start the token renewal loop
}

// Client is safe for concurrent use.  Create once at startup.  Zero value is
// invalid.
type Client struct {
	api *vault.Client
	log *zap.SugaredLogger

	cacheMu sync.RWMutex
	cache   map[string]cached // canonical path#key → value + expiry.
}

type cached struct {
	val string
	exp time.Time
}

// New constructs a Vault client.  With opts.Renew it also starts a
// background token‑renewal loop bound to ctx.
func New(ctx context.Context, opts Options) (*Client, error) {
	cfg := vault.DefaultConfig()
	if err := cfg.ReadEnvironment(); err != nil {
		return nil, fmt.Errorf("vault env cfg: %w", err)
	}
	if opts.Addr != "" {
		cfg.Address = opts.Addr
	}

	apiCli, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault api: %w", err)
	}
	if opts.Token != "" {
		apiCli.SetToken(opts.Token)
	}

	c := &Client{
		api:   apiCli,
		log:   zap.S().Named("vault"),
		cache: make(map[string]cached),
	}

	if opts.Renew {
		go c.renewLoop(ctx)
	}
	return c, nil
}

// IsRef reports whether s is a Vault reference.
func IsRef(s string) bool { return strings.HasPrefix(s, Prefix) }

// ParseRef splits `vault:<path>#<key>` into its parts.
func ParseRef(ref string) (secretPath, key string, err error) {
	rest, ok := strings.CutPrefix(ref, Prefix)
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrBadRef, ref)
	}
	secretPath, key, ok = strings.Cut(rest, "#")
	if !ok || secretPath == "" || key == "" || !strings.Contains(secretPath, "/") {
		return "", "", fmt.Errorf("%w: %q", ErrBadRef, ref)
	}
	return secretPath, key, nil
}

// Resolve fetches the value a reference points at.
func (c *Client) Resolve(ctx context.Context, ref string, ttl time.Duration) (string, error) {
	p, k, err := ParseRef(ref)
	if err != nil {
		return "", err
	}
	return c.GetKV(ctx, p, k, ttl)
}

// GetKV fetches a single key from a KV‑v2 secret.  If ttl > 0 the result is
// cached for that duration.
func (c *Client) GetKV(ctx context.Context, secretPath, key string, ttl time.Duration) (string, error) {
	if secretPath == "" || key == "" {
		return "", errors.New("secret path and key must be non‑empty")
	}

	canonical := secretPath + "#" + key

	if ttl > 0 {
		c.cacheMu.RLock()
		if cv, ok := c.cache[canonical]; ok && time.Now().Before(cv.exp) {
			c.cacheMu.RUnlock()
			return cv.val, nil
		}
		c.cacheMu.RUnlock()
	}

	mount, rel := splitMount(secretPath)
	sec, err := c.api.KVv2(mount).Get(ctx, rel)
	if err != nil {
		return "", fmt.Errorf("vault get %s: %w", secretPath, err)
	}

	raw, ok := sec.Data[key]
	if !ok {
		return "", fmt.Errorf("key %q not found in secret %q", key, secretPath)
	}

	sval, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("value at %s#%s is not a string", secretPath, key)
	}

	if ttl > 0 {
		c.cacheMu.Lock()
		c.cache[canonical] = cached{val: sval, exp: time.Now().Add(ttl)}
		c.cacheMu.Unlock()
	}

	return sval, nil
}

//
// SECTION 2.  Background token renewal
//

func (c *Client) renewLoop(ctx context.Context) {
	for ctx.Err() == nil {
		sec, err := c.api.Auth().Token().RenewSelfWithContext(ctx, 0)
		if err != nil {
			c.log.Warnw("token renew self failed", "err", err)
			backoff(ctx, 30*time.Second)
			continue
		}
		if sec == nil || sec.Auth == nil || !sec.Auth.Renewable {
			c.log.Infow("token is not renewable, sleeping", "for", time.Hour)
			backoff(ctx, time.Hour)
			continue
		}

		watcher, err := c.api.NewLifetimeWatcher(&vault.LifetimeWatcherInput{
			Secret: sec,
		})
		if err != nil {
			c.log.Warnw("lifetime watcher init failed", "err", err)
			backoff(ctx, 30*time.Second)
			continue
		}

		c.watch(ctx, watcher)
		backoff(ctx, 15*time.Second)
	}
}

// watch blocks until the watcher stops or ctx is cancelled.
func (c *Client) watch(ctx context.Context, w *vault.LifetimeWatcher) {
	go w.Start()
	defer w.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case err := <-w.DoneCh():
			if err != nil {
				c.log.Warnw("token renewal stopped", "err", err)
			}
			return
		case ev := <-w.RenewCh():
			if ev != nil && ev.Secret != nil && ev.Secret.Auth != nil {
				c.log.Debugw("token renewed", "ttl_s", ev.Secret.Auth.LeaseDuration)
			}
		}
	}
}

//
// SECTION 3.  Helpers
//

func splitMount(p string) (mount, rel string) {
	mount, rel, _ = strings.Cut(p, "/")
	return mount, rel
}

func backoff(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
