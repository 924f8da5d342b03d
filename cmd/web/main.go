// cmd/web/main.go
//
// Adept contact service – HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Bootstrap console logger, then load config (defaults → .env →
//     conf/global.yaml → CONTACT_* env, with vault: references resolved).
//
//  2. Start daily rotating logger (tees to console when running in a TTY).
//
//  3. Build shared resources: session store (LRU + idle evictor), CSRF
//     guard, and view renderer; hand them to every registered component.
//
//  4. Root router:
//
//     • RequestID, RealIP, Recoverer, access log, security headers,
//       ForceHTTPS
//     • /healthz, /metrics
//     • every component under /<name> (the contact form at /contact)
//
//  5. Serve until SIGINT or SIGTERM, then shut down gracefully.  The HTTP
//     server and the evictor run under one errgroup so either failing
//     stops the other.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/AdeptTravel/adept-contact/internal/component"
	"github.com/AdeptTravel/adept-contact/internal/config"
	"github.com/AdeptTravel/adept-contact/internal/form"
	"github.com/AdeptTravel/adept-contact/internal/logger"
	"github.com/AdeptTravel/adept-contact/internal/middleware"
	"github.com/AdeptTravel/adept-contact/internal/server"
	"github.com/AdeptTravel/adept-contact/internal/session"
	"github.com/AdeptTravel/adept-contact/internal/view"

	_ "github.com/AdeptTravel/adept-contact/components/contact" // contact form
)

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalf("contact: %v", err)
	}
}

func run(ctx context.Context) error {
	logger.Bootstrap()

	//
	// ── 1.  Config ──────────────────────────────────────────────────────
	//
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	//
	// ── 2.  File logger ─────────────────────────────────────────────────
	//
	logOut, err := logger.New(cfg.Log.Dir, cfg.Log.Level, runningInTTY())
	if err != nil {
		return err
	}
	defer func() { _ = logOut.Sync() }()

	//
	// ── 3.  Shared resources ────────────────────────────────────────────
	//
	var key []byte
	if cfg.CSRF.Key != "" {
		if key, err = form.DecodeKey(cfg.CSRF.Key); err != nil {
			return err
		}
	}
	rend, err := view.New()
	if err != nil {
		return err
	}
	store := session.NewStore(session.Options{
		IdleTTL:       cfg.Session.IdleTTL,
		MaxEntries:    cfg.Session.MaxEntries,
		EvictInterval: cfg.Session.EvictInterval,
	})

	deps := component.Deps{
		Sessions: store,
		Cookie: session.Cookie{
			Name:   cfg.Session.CookieName,
			TTL:    cfg.Session.IdleTTL,
			Secure: cfg.Session.SecureCookie,
		},
		Guard:    form.NewGuard(key, cfg.CSRF.MaxAge),
		Renderer: rend,
	}
	if err := component.InitAll(deps); err != nil {
		return err
	}

	//
	// ── 4.  Root router ─────────────────────────────────────────────────
	//
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.AccessLog)
	r.Use(middleware.Security)
	r.Use(middleware.ForceHTTPS(cfg.HTTP.ForceHTTPS))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/contact", http.StatusFound)
	})
	component.Mount(r)

	srv := server.New(cfg.HTTP, r)

	//
	// ── 5.  Serve and shut down ─────────────────────────────────────────
	//
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		store.Run(gctx)
		return nil
	})

	g.Go(func() error {
		logOut.Infow("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logOut.Infow("shutting down", "active_sessions", store.Len())
		sctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	if err := g.Wait(); err != nil {
		zap.S().Errorw("server stopped", "err", err)
		return err
	}
	return nil
}
