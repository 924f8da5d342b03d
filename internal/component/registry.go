// internal/component/registry.go
//
// Component registry (cycle-free).
//
// Each concrete component lives under components/<name> and calls
// component.Register() in an init() function.  At boot cmd/web builds the
// shared Deps, calls InitAll so every Initializer receives them, and then
// mounts every component’s Routes() under “/<name>”.

package component

import (
	"fmt"
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/AdeptTravel/adept-contact/internal/form"
	"github.com/AdeptTravel/adept-contact/internal/session"
	"github.com/AdeptTravel/adept-contact/internal/view"
)

// Deps are the process-wide resources handed to components during Init.
type Deps struct {
	Sessions *session.Store
	Cookie   session.Cookie
	Guard    *form.Guard
	Renderer *view.Renderer
}

// Initializer is optional.  If a Component implements it, InitAll calls
// Init(deps) once before routes are mounted.
type Initializer interface {
	Init(Deps) error
}

// Component contract.
//
// Routes() should mount BOTH page and API endpoints, relative to the
// component’s own prefix, e.g:
//
//	r := chi.NewRouter()
//	r.Get("/", getPage)            // GET /contact
//	r.Post("/submit", postSubmit)  // POST /contact/submit
//	return r
type Component interface {
	Name() string
	Routes() chi.Router
}

var (
	mu       sync.RWMutex
	registry = map[string]Component{}
)

// Register is invoked from component init() functions.
func Register(c Component) {
	mu.Lock()
	registry[c.Name()] = c
	mu.Unlock()
}

// All returns every registered component sorted by name, so mount order is
// stable across runs.
func All() []Component {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Component, 0, len(registry))
	for _, c := range registry {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// InitAll runs Init on every registered Initializer.
func InitAll(d Deps) error {
	for _, c := range All() {
		if in, ok := c.(Initializer); ok {
			if err := in.Init(d); err != nil {
				return fmt.Errorf("init component %s: %w", c.Name(), err)
			}
		}
	}
	return nil
}

// Mount attaches every registered component to r under /<name>.
func Mount(r chi.Router) {
	for _, c := range All() {
		r.Mount("/"+c.Name(), c.Routes())
	}
}
