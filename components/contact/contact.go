// components/contact/contact.go
//
// Adept contact component – the contact form page and its event endpoints.
//
// Routes (mounted under /contact)
//
//	GET  /contact          current state of the visitor's form
//	POST /contact/field    one change event: field, value
//	POST /contact/submit   every field, then submit
//	POST /contact/reset    back to mount state
//	GET  /contact/form.js  change-event script
//
// Each visitor's Form lives in the session store; every event runs inside
// Entry.Do, so events for one visitor apply strictly in order.  Requests
// that send `Accept: application/json` get the state as JSON instead of
// markup.
//
//------------------------------------------------------------------------------

package contact

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/AdeptTravel/adept-contact/internal/component"
	"github.com/AdeptTravel/adept-contact/internal/form"
	"github.com/AdeptTravel/adept-contact/internal/metrics"
	"github.com/AdeptTravel/adept-contact/internal/session"
	"github.com/AdeptTravel/adept-contact/internal/ua"
	"github.com/AdeptTravel/adept-contact/internal/view"
)

// maxBody caps posted bodies; four short fields never come close.
const maxBody = 64 << 10

// Compile-time assertions.
var (
	_ component.Component   = (*Component)(nil)
	_ component.Initializer = (*Component)(nil)
)

// Component serves the contact form.  The zero value is registered at init
// and receives its dependencies through Init.
type Component struct {
	deps component.Deps
}

// New returns a ready Component for d, bypassing the registry.
func New(d component.Deps) *Component { return &Component{deps: d} }

/*────────────────── component.Component methods ───────────────────────────*/

// Name returns the canonical component key.
func (c *Component) Name() string { return "contact" }

// Init stores the shared dependencies.
func (c *Component) Init(d component.Deps) error {
	if d.Sessions == nil || d.Guard == nil || d.Renderer == nil {
		return errors.New("contact: sessions, guard, and renderer are required")
	}
	c.deps = d
	return nil
}

// Routes builds and returns the router mounted at “/contact”.
func (c *Component) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", c.handlePage)
	r.Get("/form.js", c.handleScript)
	r.Group(func(r chi.Router) {
		r.Use(limitBody)
		r.Post("/field", c.handleField)
		r.Post("/submit", c.handleSubmit)
		r.Post("/reset", c.handleReset)
	})
	return r
}

// Register component at program start.
func init() { component.Register(&Component{}) }

/*──────────────────────────── Handlers ─────────────────────────────────────*/

func (c *Component) handlePage(w http.ResponseWriter, r *http.Request) {
	ent := c.entry(w, r)
	var p view.Page
	ent.Do(func(f *form.Form) { p = view.NewPage(f, "") })
	c.respond(w, r, ent, p, c.deps.Renderer.Page)
}

func (c *Component) handleField(w http.ResponseWriter, r *http.Request) {
	ent := c.entry(w, r)

	var (
		p       view.Page
		field   form.Field
		applied bool
		err     error
	)
	ent.Do(func(f *form.Form) {
		if field, applied, err = form.HandleChange(f, c.deps.Guard, ent.ID(), r); err == nil {
			p = view.NewPage(f, "")
		}
	})
	if err != nil {
		c.fail(w, r, ent, err)
		return
	}

	if applied {
		metrics.FieldChangesTotal.Inc()
	}
	zap.S().Debugw("contact field changed",
		"req_id", chimw.GetReqID(r.Context()),
		"session", ent.ID(),
		"field", field,
		"applied", applied,
		"errors", len(p.Errors),
	)
	c.respond(w, r, ent, p, c.deps.Renderer.Fragment)
}

func (c *Component) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ent := c.entry(w, r)

	var (
		p        view.Page
		accepted bool
		failing  form.Errors
		err      error
	)
	ent.Do(func(f *form.Form) {
		if accepted, err = form.HandleSubmit(f, c.deps.Guard, ent.ID(), r); err == nil {
			p = view.NewPage(f, "")
			failing = f.Errors()
		}
	})
	if err != nil {
		c.fail(w, r, ent, err)
		return
	}

	kv := append([]any{
		"req_id", chimw.GetReqID(r.Context()),
		"session", ent.ID(),
	}, ua.Parse(r.UserAgent()).LogFields()...)

	if accepted {
		metrics.SubmitTotal.WithLabelValues(metrics.ResultAccepted).Inc()
		kv = append(kv, "has_message", p.Submitted != nil && p.Submitted.HasMessage())
		zap.S().Infow("contact submitted", kv...)
	} else {
		metrics.SubmitTotal.WithLabelValues(metrics.ResultRejected).Inc()
		for _, fe := range failing.Ordered() {
			metrics.ValidationFailuresTotal.WithLabelValues(string(fe.Field)).Inc()
		}
		kv = append(kv, "failing", len(failing))
		zap.S().Infow("contact submit rejected", kv...)
	}
	c.respond(w, r, ent, p, c.deps.Renderer.Page)
}

func (c *Component) handleReset(w http.ResponseWriter, r *http.Request) {
	ent := c.entry(w, r)

	var (
		p   view.Page
		err error
	)
	ent.Do(func(f *form.Form) {
		if err = form.HandleReset(f, c.deps.Guard, ent.ID(), r); err == nil {
			p = view.NewPage(f, "")
		}
	})
	if err != nil {
		c.fail(w, r, ent, err)
		return
	}

	zap.S().Debugw("contact reset", "session", ent.ID())
	if wantsJSON(r) {
		c.respond(w, r, ent, p, nil)
		return
	}
	http.Redirect(w, r, "/contact", http.StatusSeeOther)
}

func (c *Component) handleScript(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(view.Script())
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

// entry returns the visitor's session entry and (re)writes the cookie so its
// browser lifetime tracks the store's idle TTL.
func (c *Component) entry(w http.ResponseWriter, r *http.Request) *session.Entry {
	id, _ := c.deps.Cookie.Read(r)
	ent := c.deps.Sessions.Acquire(id)
	c.deps.Cookie.Write(w, r, ent.ID())
	return ent
}

// state is the JSON shape of a render.  Token is good for the next POST.
type state struct {
	Values    form.Values  `json:"values"`
	Errors    form.Errors  `json:"errors"`
	Submitted *form.Values `json:"submitted"`
	Token     string       `json:"token"`
}

// respond writes p as JSON or through render, with a freshly minted CSRF
// token for ent either way.
func (c *Component) respond(w http.ResponseWriter, r *http.Request, ent *session.Entry,
	p view.Page, render func(io.Writer, view.Page) error) {

	tok, err := c.deps.Guard.Generate(ent.ID())
	if err != nil {
		zap.S().Errorw("csrf token generation failed", "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	p.Token = tok
	w.Header().Set("Cache-Control", "no-store")

	if wantsJSON(r) || render == nil {
		errs := p.Errors
		if errs == nil {
			errs = form.Errors{}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(state{
			Values:    p.Values,
			Errors:    errs,
			Submitted: p.Submitted,
			Token:     p.Token,
		})
		return
	}

	// The renderer buffers, so a failed render has written nothing yet.
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render(w, p); err != nil {
		zap.S().Errorw("contact render failed", "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// fail maps a system error to its status.  Validation failures never get
// here; they render as part of the form.
func (c *Component) fail(w http.ResponseWriter, r *http.Request, ent *session.Entry, err error) {
	status := http.StatusBadRequest
	var tooBig *http.MaxBytesError
	switch {
	case errors.Is(err, form.ErrBadToken):
		status = http.StatusForbidden
	case errors.As(err, &tooBig):
		status = http.StatusRequestEntityTooLarge
	}
	zap.S().Warnw("contact request refused",
		"req_id", chimw.GetReqID(r.Context()),
		"session", ent.ID(),
		"status", status,
		"err", err,
	)
	http.Error(w, http.StatusText(status), status)
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBody)
		next.ServeHTTP(w, r)
	})
}
