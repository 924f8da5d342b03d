// internal/form/csrf.go
//
// Adept – Contact form: stateless CSRF token utilities.
//
// Context
//   Every rendered form embeds a hidden `csrf_token` input.  Each POST must
//   carry a token this process (or a sibling sharing the key) issued for the
//   same visitor session:
//
//      base64url( nonce | unixMicro | HMAC_SHA256(secret, nonce+unixMicro+sid) )
//
//   •  nonce – 16 random bytes.
//   •  unixMicro – issue time, 8 bytes, big-endian.
//   •  sid – the session ID the token was minted for.  It is signed but not
//      carried, so a token lifted from one visitor fails under another's
//      cookie.
//
//   Verification checks the signature and that the token is younger than
//   MaxAge.  No server-side token state is kept.
//
//------------------------------------------------------------------------------

package form

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"time"

	"go.uber.org/zap"
)

const (
	nonceBytes = 16
	tokenBytes = nonceBytes + 8 + sha256.Size // nonce + ts + sig

	// MinKeyBytes is the shortest accepted secret.
	MinKeyBytes = 32

	// DefaultMaxAge bounds token validity when the caller passes zero.
	DefaultMaxAge = 2 * time.Hour
)

// ErrBadToken is returned by callers when a POST carries a missing, forged, or
// expired token.
var ErrBadToken = errors.New("security token invalid")

// Guard issues and verifies CSRF tokens.  It is safe for concurrent use.
type Guard struct {
	secret []byte
	maxAge time.Duration
	now    func() time.Time
}

// NewGuard returns a Guard keyed with secret.  A secret shorter than
// MinKeyBytes is replaced by a random ephemeral key and a warning is logged;
// tokens then stop verifying after a restart.
func NewGuard(secret []byte, maxAge time.Duration) *Guard {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	if len(secret) < MinKeyBytes {
		secret = make([]byte, MinKeyBytes)
		_, _ = rand.Read(secret)
		zap.S().Warnw("csrf key not set or too short, using random key",
			"min_bytes", MinKeyBytes)
	}
	return &Guard{secret: secret, maxAge: maxAge, now: time.Now}
}

// DecodeKey parses a base64url secret as stored in config.  An empty string
// yields a nil key.
func DecodeKey(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	return base64.RawURLEncoding.DecodeString(s)
}

// Generate creates a new token bound to sid.  Call once per form render.
func (g *Guard) Generate(sid string) (string, error) {
	nonce := make([]byte, nonceBytes)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	ts := make([]byte, 8)
	binary.BigEndian.PutUint64(ts, uint64(g.now().UnixMicro()))

	buf := make([]byte, 0, tokenBytes)
	buf = append(buf, nonce...)
	buf = append(buf, ts...)
	buf = append(buf, g.sign(nonce, ts, sid)...)

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Verify reports whether tok was issued for sid and passes the age checks.
func (g *Guard) Verify(tok, sid string) bool {
	if tok == "" {
		return false
	}
	raw, err := base64.RawURLEncoding.DecodeString(tok)
	if err != nil || len(raw) != tokenBytes {
		return false
	}

	nonce := raw[:nonceBytes]
	tsBytes := raw[nonceBytes : nonceBytes+8]
	sig := raw[nonceBytes+8:]

	issued := time.UnixMicro(int64(binary.BigEndian.Uint64(tsBytes)))
	now := g.now()
	if now.Sub(issued) > g.maxAge || issued.Sub(now) > time.Minute {
		// Expired, or issued in the future beyond clock skew.
		return false
	}

	return hmac.Equal(sig, g.sign(nonce, tsBytes, sid))
}

func (g *Guard) sign(nonce, ts []byte, sid string) []byte {
	mac := hmac.New(sha256.New, g.secret)
	mac.Write(nonce)
	mac.Write(ts)
	mac.Write([]byte(sid))
	return mac.Sum(nil)
}
