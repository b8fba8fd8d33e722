package render

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/dgallion1/manweave/internal/builder"
	"github.com/dgallion1/manweave/internal/manual"
	"github.com/dgallion1/manweave/internal/placeholder"
	"github.com/dgallion1/manweave/internal/store"
	"github.com/dgallion1/manweave/internal/xref"
)

func buildTestManual(t *testing.T) (*manual.Tree, map[string][]xref.Ref) {
	t.Helper()
	pages := map[string]string{
		"root":       "The {appname} manual\n\n#SUBDOCS\ngetstarted\nediting\n",
		"getstarted": "Getting started\n\nInstall {appname} & enjoy.\n\n#SEEALSO\nediting\n",
		"editing":    "Editing\n\nHow to edit.",
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	b := builder.New(store.NewMemStore(pages), log, builder.Options{})
	tree, _, err := b.Build(context.Background(), "root", placeholder.Context{"appname": "Frescobaldi"})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	return tree, xref.Resolve(tree)
}

// collectLinks walks parsed HTML and returns hrefs of anchors under nodes with
// the given class, in document order.
func collectLinks(t *testing.T, doc *html.Node, class string) []string {
	t.Helper()
	var hrefs []string
	var inClass func(n *html.Node, active bool)
	inClass = func(n *html.Node, active bool) {
		if n.Type == html.ElementNode {
			for _, attr := range n.Attr {
				if attr.Key == "class" && attr.Val == class {
					active = true
				}
			}
			if active && n.Data == "a" {
				for _, attr := range n.Attr {
					if attr.Key == "href" {
						hrefs = append(hrefs, attr.Val)
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			inClass(c, active)
		}
	}
	inClass(doc, false)
	return hrefs
}

func TestPageHTML_ContentsInTOCOrder(t *testing.T) {
	tree, refs := buildTestManual(t)
	r := New()

	var buf strings.Builder
	if err := r.PageHTML(&buf, tree, refs, "root"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc, err := html.Parse(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("rendered page is not parseable HTML: %v", err)
	}

	links := collectLinks(t, doc, "contents")
	want := []string{"./getstarted", "./editing"}
	if len(links) != len(want) {
		t.Fatalf("contents links = %v, want %v", links, want)
	}
	for i := range want {
		if links[i] != want[i] {
			t.Errorf("contents link %d = %q, want %q", i, links[i], want[i])
		}
	}
}

func TestPageHTML_SeeAlsoAndProse(t *testing.T) {
	tree, refs := buildTestManual(t)
	r := New()

	var buf strings.Builder
	if err := r.PageHTML(&buf, tree, refs, "getstarted"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "Install Frescobaldi") {
		t.Errorf("resolved prose missing from output: %q", out)
	}
	// Markdown conversion escapes the ampersand.
	if !strings.Contains(out, "&amp; enjoy") {
		t.Errorf("expected escaped ampersand in output: %q", out)
	}

	doc, err := html.Parse(strings.NewReader(out))
	if err != nil {
		t.Fatalf("rendered page is not parseable HTML: %v", err)
	}
	links := collectLinks(t, doc, "seealso")
	if len(links) != 1 || links[0] != "./editing" {
		t.Errorf("seealso links = %v, want [./editing]", links)
	}
}

func TestPageHTML_UnknownPage(t *testing.T) {
	tree, refs := buildTestManual(t)
	r := New()

	var buf strings.Builder
	err := r.PageHTML(&buf, tree, refs, "nope")
	if err == nil {
		t.Fatal("expected error for unknown page")
	}
}

func TestPageHTML_CustomLink(t *testing.T) {
	tree, refs := buildTestManual(t)
	r := New()
	r.Link = func(id string) string { return "/manual/pages/" + id + "?format=html" }

	var buf strings.Builder
	if err := r.PageHTML(&buf, tree, refs, "root"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), `href="/manual/pages/getstarted?format=html"`) {
		t.Errorf("custom link func not applied: %q", buf.String())
	}
}

func TestWriteTOC(t *testing.T) {
	tree, _ := buildTestManual(t)
	r := New()

	var buf strings.Builder
	if err := r.WriteTOC(&buf, tree); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 TOC lines, got %d: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "[root]") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "  ") || !strings.Contains(lines[1], "[getstarted]") {
		t.Errorf("line 1 = %q", lines[1])
	}
	if !strings.Contains(lines[2], "[editing]") {
		t.Errorf("line 2 = %q", lines[2])
	}
}

func TestPageHTML_Breadcrumb(t *testing.T) {
	tree, refs := buildTestManual(t)
	r := New()

	var buf strings.Builder
	if err := r.PageHTML(&buf, tree, refs, "editing"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc, err := html.Parse(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatal(err)
	}
	links := collectLinks(t, doc, "breadcrumb")
	// Chain runs root -> editing.
	if len(links) != 2 || links[0] != "./root" || links[1] != "./editing" {
		t.Errorf("breadcrumb links = %v", links)
	}
}
