// internal/server/timeouts.go
//
// HTTP server helper with robust timeouts.
//
// Production hardening recommends:
//
//   • ReadTimeout   – abort slow-loris headers (10 s default)
//   • WriteTimeout  – cap total response time (15 s default)
//   • IdleTimeout   – close keep-alives on idle clients (60 s default)
//
// The values come from the `http` config block; this helper centralises
// them so cmd/web doesn’t repeat boilerplate.
//

package server

import (
	"net/http"

	"github.com/AdeptTravel/adept-contact/internal/config"
)

// New constructs an *http.Server from the HTTP config block.
func New(cfg config.HTTP, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		// TLSConfig may be injected by callers (e.g., autocert).
	}
}
