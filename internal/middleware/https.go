// Package middleware holds small, composable HTTP wrappers.
package middleware

import (
	"net"
	"net/http"
)

// ForceHTTPS returns a wrapper.  When enabled and the request is plain HTTP
// to a host other than localhost or a loopback address, the wrapper issues a
// 308 Permanent Redirect to the HTTPS version of the same URL.  Otherwise it
// calls the next handler unchanged.
func ForceHTTPS(enabled bool) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		if !enabled {
			return h
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Already HTTPS, behind a TLS proxy, or dev host → continue.
			if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" || isLocal(r.Host) {
				h.ServeHTTP(w, r)
				return
			}
			target := "https://" + r.Host + r.URL.RequestURI()
			http.Redirect(w, r, target, http.StatusPermanentRedirect)
		})
	}
}

func isLocal(host string) bool {
	host = stripPort(host)
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// stripPort removes the :port suffix from Host when present.
func stripPort(h string) string {
	if host, _, err := net.SplitHostPort(h); err == nil {
		return host
	}
	return h
}
