// internal/session/session.go
//
// Adept – Session cookie helpers.
//
// Context
//   Each visitor's contact form lives in the Store under an opaque ID.  The ID
//   travels in an HttpOnly cookie; nothing else about the form is sent to the
//   browser.  The cookie carries no user data, so it is not signed.
//
// Style
//   Two-space sentence spacing, Oxford comma, terse inline notes.
//
//------------------------------------------------------------------------------

package session

import (
	"net/http"
	"time"
)

// DefaultCookieName is used when Options.CookieName is empty.
const DefaultCookieName = "adept_contact"

// Cookie reads and writes the session ID cookie.
type Cookie struct {
	Name   string
	TTL    time.Duration // browser-side lifetime; matches the store idle TTL
	Secure bool          // force Secure even on plain HTTP (behind a TLS proxy)
}

// Write sets the session cookie to id.
func (c Cookie) Write(w http.ResponseWriter, r *http.Request, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name(),
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Secure || r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(c.TTL),
	})
}

// Clear expires the session cookie.
func (c Cookie) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// Read returns the session ID from r, if any.
//
// ok == false when the cookie is missing or empty.
func (c Cookie) Read(r *http.Request) (id string, ok bool) {
	ck, err := r.Cookie(c.name())
	if err != nil || ck.Value == "" {
		return "", false
	}
	return ck.Value, true
}

func (c Cookie) name() string {
	if c.Name == "" {
		return DefaultCookieName
	}
	return c.Name
}
