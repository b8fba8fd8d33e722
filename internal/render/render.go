// Package render turns a built manual into derived output: per-page HTML for
// a viewer, and a plain-text table of contents. Page prose is treated as
// Markdown.
package render

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/dgallion1/manweave/internal/manual"
	"github.com/dgallion1/manweave/internal/xref"
)

// Renderer renders resolved pages. Link maps a page identifier to the href
// used for child and see-also links; the default is a relative "./{id}".
type Renderer struct {
	md   goldmark.Markdown
	Link func(id string) string
}

func New() *Renderer {
	return &Renderer{
		md:   goldmark.New(),
		Link: func(id string) string { return "./" + id },
	}
}

// PageHTML writes one page as an HTML fragment: breadcrumb, prose body,
// contents list in #SUBDOCS order, and see-also links in TOC order.
func (r *Renderer) PageHTML(w io.Writer, t *manual.Tree, refs map[string][]xref.Ref, id string) error {
	page := t.Lookup(id)
	if page == nil {
		return &manual.NotFoundError{ID: id}
	}

	var buf strings.Builder
	buf.WriteString(`<article class="manual-page">` + "\n")

	if crumbs := breadcrumb(t, id); len(crumbs) > 1 {
		buf.WriteString(`<nav class="breadcrumb">`)
		for i, cid := range crumbs {
			if i > 0 {
				buf.WriteString(" &raquo; ")
			}
			cp := t.Lookup(cid)
			fmt.Fprintf(&buf, `<a href="%s">%s</a>`, html.EscapeString(r.Link(cid)), html.EscapeString(cp.Title()))
		}
		buf.WriteString("</nav>\n")
	}

	if err := r.md.Convert([]byte(page.Prose), &buf); err != nil {
		return fmt.Errorf("render page %s: %w", id, err)
	}

	if len(page.Children) > 0 {
		buf.WriteString(`<nav class="contents"><ul>` + "\n")
		for _, cid := range page.Children {
			cp := t.Lookup(cid)
			fmt.Fprintf(&buf, `<li><a href="%s">%s</a></li>`+"\n",
				html.EscapeString(r.Link(cid)), html.EscapeString(cp.Title()))
		}
		buf.WriteString("</ul></nav>\n")
	}

	if targets := refs[id]; len(targets) > 0 {
		buf.WriteString(`<nav class="seealso"><ul>` + "\n")
		for _, ref := range targets {
			fmt.Fprintf(&buf, `<li><a href="%s">%s</a></li>`+"\n",
				html.EscapeString(r.Link(ref.ID)), html.EscapeString(ref.Title))
		}
		buf.WriteString("</ul></nav>\n")
	}

	buf.WriteString("</article>\n")

	_, err := io.WriteString(w, buf.String())
	return err
}

// WriteTOC writes the whole manual's table of contents as indented text, one
// page per line, in canonical order.
func (r *Renderer) WriteTOC(w io.Writer, t *manual.Tree) error {
	var buf strings.Builder
	t.Walk(func(n *manual.Node, depth int) {
		buf.WriteString(strings.Repeat("  ", depth))
		buf.WriteString(n.Page.Title())
		fmt.Fprintf(&buf, " [%s]\n", n.Page.ID)
	})
	_, err := io.WriteString(w, buf.String())
	return err
}

// breadcrumb returns the identifier chain from the root to a page, following
// the first parent that declares it. Pages outside the root's subtree get a
// single-element chain.
func breadcrumb(t *manual.Tree, id string) []string {
	parent := make(map[string]string)
	t.Walk(func(n *manual.Node, depth int) {
		for _, c := range n.Children {
			if _, ok := parent[c.Page.ID]; !ok && c.Page.ID != n.Page.ID {
				parent[c.Page.ID] = n.Page.ID
			}
		}
	})

	chain := []string{id}
	for {
		p, ok := parent[chain[0]]
		if !ok {
			break
		}
		chain = append([]string{p}, chain...)
	}
	return chain
}
