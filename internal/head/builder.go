// internal/head/builder.go
//
// The Builder collects everything that should appear inside a page’s
// <head> element.  It is scoped to a single render call.  The view layer
// pushes the title, meta tags, and scripts, then the page template emits
// each slice where it belongs.
//
// Features
// --------
//   - SetTitle            – single <title> tag (last call wins).
//   - Meta, Link, Script  – typed tags, deduplicated, in insertion order.
//   - Render helpers      – return template.HTML with every attribute
//     escaped, so callers never pass raw markup.
package head

import (
	"html/template"
	"strings"
)

// Builder is not safe for concurrent use; build one per render.
type Builder struct {
	title string

	metas   []string
	links   []string
	scripts []string

	// seen tracks rendered tags for deduplication.
	seen map[string]struct{}
}

func New() *Builder {
	return &Builder{seen: make(map[string]struct{})}
}

// ------------------------------------------------------------------
// Single-value helper
// ------------------------------------------------------------------

// SetTitle overrides the page <title>.  The last caller wins.
func (b *Builder) SetTitle(t string) { b.title = t }

// Title returns a fully formed <title> tag or an empty string.
func (b *Builder) Title() template.HTML {
	if b.title == "" {
		return ""
	}
	return template.HTML("<title>" + esc(b.title) + "</title>")
}

// ------------------------------------------------------------------
// Slice helpers with deduplication
// ------------------------------------------------------------------

// Meta adds <meta name=… content=…>.
func (b *Builder) Meta(name, content string) {
	b.add(&b.metas, `<meta name="`+esc(name)+`" content="`+esc(content)+`">`)
}

// Link adds <link rel=… href=…>.
func (b *Builder) Link(rel, href string) {
	b.add(&b.links, `<link rel="`+esc(rel)+`" href="`+esc(href)+`">`)
}

// Script adds a deferred external <script>.
func (b *Builder) Script(src string) {
	b.add(&b.scripts, `<script src="`+esc(src)+`" defer></script>`)
}

func (b *Builder) add(tgt *[]string, tag string) {
	if _, dup := b.seen[tag]; dup {
		return
	}
	b.seen[tag] = struct{}{}
	*tgt = append(*tgt, tag)
}

// ------------------------------------------------------------------
// Rendering helpers called from page templates
// ------------------------------------------------------------------

func (b *Builder) Metas() template.HTML   { return concat(b.metas) }
func (b *Builder) Links() template.HTML   { return concat(b.links) }
func (b *Builder) Scripts() template.HTML { return concat(b.scripts) }

// concat joins pre-escaped tags, one per line.
func concat(sl []string) template.HTML {
	return template.HTML(strings.Join(sl, "\n"))
}

func esc(s string) string { return template.HTMLEscapeString(s) }
