package manual

import "strings"

// Page is one unit of manual content after resolution.
type Page struct {
	ID       string   // Unique identifier, e.g. "getstarted".
	Raw      string   // Body text as loaded, directive blocks included.
	Prose    string   // Prose with placeholders substituted, directives stripped.
	Children []string // Child identifiers in #SUBDOCS order.
	SeeAlso  []string // #SEEALSO identifiers, duplicates collapsed.
}

// Title returns the first non-blank prose line, or the page ID if there is none.
func (p *Page) Title() string {
	for _, line := range strings.Split(p.Prose, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			return t
		}
	}
	return p.ID
}

// Node is a position in the composed manual hierarchy.
type Node struct {
	Page     *Page
	Children []*Node // Same order as Page.Children.
}

// Tree is the composed manual: one root plus every page reachable from it.
//
// Order is the canonical table-of-contents order (depth-first, following each
// page's #SUBDOCS list as written). Pages reachable only through #SEEALSO are
// appended after all TOC-ordered pages, in first-reference order.
type Tree struct {
	Root  *Node
	Pages map[string]*Page
	Order []string
}

// Position returns a page's index in the canonical order, or -1 if absent.
func (t *Tree) Position(id string) int {
	for i, pid := range t.Order {
		if pid == id {
			return i
		}
	}
	return -1
}

// Lookup returns the page for an identifier, or nil.
func (t *Tree) Lookup(id string) *Page {
	return t.Pages[id]
}

// Walk visits every node depth-first in TOC order.
func (t *Tree) Walk(fn func(n *Node, depth int)) {
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		fn(n, depth)
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	if t.Root != nil {
		walk(t.Root, 0)
	}
}
