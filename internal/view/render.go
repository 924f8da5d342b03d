// internal/view/render.go
//
// View engine for the contact form: embedded templates, func-map injection,
// and a Page model projected from form state.
//
// Public helpers
// --------------
//   - Renderer.Page      – full HTML document.
//   - Renderer.Fragment  – only the form region (#contact-form), used by the
//     change endpoint so the browser can swap it in place.
//   - Script             – the change-event script served at /contact/form.js.
//
// Rendering is a deterministic projection of (values, visible errors,
// submitted snapshot, CSRF token).  The summary region and its message row
// are emitted with {{ if }} so they are absent, not merely empty, when there
// is nothing to show.
//
// Style
// -----
// • Oxford commas, two spaces after periods.

package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/AdeptTravel/adept-contact/internal/form"
	"github.com/AdeptTravel/adept-contact/internal/head"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static/form.js
var script []byte

// ScriptPath is where the component serves Script.
const ScriptPath = "/contact/form.js"

// Template names defined under templates/.
const (
	tplPage     = "page"
	tplFragment = "contact"
)

//
// page model
//

// Page is everything a render needs.  Build it with NewPage.
type Page struct {
	Def       *form.FormDef
	Values    form.Values
	Errors    form.Errors  // visible errors only
	Submitted *form.Values // nil until the first accepted submit
	Token     string       // CSRF token for the hidden input
	Head      *head.Builder
}

// NewPage snapshots f for rendering.
func NewPage(f *form.Form, token string) Page {
	def := form.Definition()
	hb := head.New()
	hb.SetTitle(def.Title)
	hb.Meta("viewport", "width=device-width, initial-scale=1")
	hb.Script(ScriptPath)

	p := Page{
		Def:    def,
		Values: f.Values(),
		Errors: f.Visible(),
		Token:  token,
		Head:   hb,
	}
	if sub, ok := f.Submitted(); ok {
		p.Submitted = &sub
	}
	return p
}

//
// renderer
//

// Renderer executes the embedded templates.  It is safe for concurrent use.
type Renderer struct {
	t *template.Template
}

// New parses the embedded templates once.
func New() (*Renderer, error) {
	t, err := template.New("view").ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	for _, name := range []string{tplPage, tplFragment} {
		if t.Lookup(name) == nil {
			return nil, fmt.Errorf("template %q not defined", name)
		}
	}
	return &Renderer{t: t}, nil
}

// Page writes the full document to w.
func (r *Renderer) Page(w io.Writer, p Page) error {
	return r.execute(w, tplPage, p)
}

// Fragment writes only the form region to w.
func (r *Renderer) Fragment(w io.Writer, p Page) error {
	return r.execute(w, tplFragment, p)
}

// execute renders into a buffer first so a failed render never leaves a
// half-written response.
func (r *Renderer) execute(w io.Writer, name string, p Page) error {
	var buf bytes.Buffer
	if err := r.t.ExecuteTemplate(&buf, name, p); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Script returns the change-event script.
func Script() []byte { return script }
