// Package testutil holds helpers shared by package tests.
//
// Screen parses rendered markup and answers the questions a visitor would
// ask of the page: which input does this label name, which elements carry a
// test id, and where does this text appear.
package testutil

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Screen is a parsed HTML document.
type Screen struct {
	root *html.Node
}

// Parse parses markup, which may be a full document or a fragment.
func Parse(markup string) (*Screen, error) {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Screen{root: root}, nil
}

// MustParse is Parse for tests with known-good markup.
func MustParse(markup string) *Screen {
	s, err := Parse(markup)
	if err != nil {
		panic(err)
	}
	return s
}

// ByLabelText returns the control whose <label> text matches re, or nil.
func (s *Screen) ByLabelText(re *regexp.Regexp) *html.Node {
	for _, label := range s.all(func(n *html.Node) bool { return n.DataAtom == atom.Label }) {
		if !re.MatchString(Text(label)) {
			continue
		}
		id := Attr(label, "for")
		if id == "" {
			continue
		}
		if el := s.first(func(n *html.Node) bool { return Attr(n, "id") == id }); el != nil {
			return el
		}
	}
	return nil
}

// AllByTestID returns every element with data-testid == id.
func (s *Screen) AllByTestID(id string) []*html.Node {
	return s.all(func(n *html.Node) bool { return Attr(n, "data-testid") == id })
}

// QueryByTestID returns the first element with data-testid == id, or nil.
func (s *Screen) QueryByTestID(id string) *html.Node {
	return s.first(func(n *html.Node) bool { return Attr(n, "data-testid") == id })
}

// QueryByText returns the first element whose text matches re and none of
// whose child elements match on their own, or nil.
func (s *Screen) QueryByText(re *regexp.Regexp) *html.Node {
	return s.first(func(n *html.Node) bool {
		if !re.MatchString(Text(n)) {
			return false
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && re.MatchString(Text(c)) {
				return false
			}
		}
		return true
	})
}

// AllByTag returns every element named tag.
func (s *Screen) AllByTag(tag string) []*html.Node {
	return s.all(func(n *html.Node) bool { return n.Data == tag })
}

// Buttons returns every <button>.
func (s *Screen) Buttons() []*html.Node {
	return s.all(func(n *html.Node) bool { return n.DataAtom == atom.Button })
}

// ByName returns the first element with name == name, or nil.
func (s *Screen) ByName(name string) *html.Node {
	return s.first(func(n *html.Node) bool { return Attr(n, "name") == name })
}

// Text returns the whitespace-collapsed text content of n.
func Text(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(c *html.Node) {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
			sb.WriteByte(' ')
		}
		for k := c.FirstChild; k != nil; k = k.NextSibling {
			collect(k)
		}
	}
	collect(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

// Attr returns the value of attribute key on n, or "".
func Attr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

//
// traversal
//

func (s *Screen) all(match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	s.walk(s.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
		}
		return false
	})
	return out
}

func (s *Screen) first(match func(*html.Node) bool) *html.Node {
	var hit *html.Node
	s.walk(s.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && match(n) {
			hit = n
			return true
		}
		return false
	})
	return hit
}

// walk visits n depth-first until visit returns true.
func (s *Screen) walk(n *html.Node, visit func(*html.Node) bool) bool {
	if visit(n) {
		return true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if s.walk(c, visit) {
			return true
		}
	}
	return false
}
