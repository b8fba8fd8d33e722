package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/manweave/internal/manual"
	"github.com/dgallion1/manweave/internal/viewer"
	"github.com/dgallion1/manweave/internal/xref"
)

// tocEntry is one row of the table of contents, in canonical order.
type tocEntry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Depth int    `json:"depth"`
}

func (s *Server) handleTOC(w http.ResponseWriter, r *http.Request) {
	b := s.currentBuild(w)
	if b == nil {
		return
	}

	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := s.renderer.WriteTOC(w, b.Tree); err != nil {
			s.log.Error("toc render failed", "error", err)
		}
		return
	}

	var entries []tocEntry
	b.Tree.Walk(func(n *manual.Node, depth int) {
		entries = append(entries, tocEntry{
			ID:    n.Page.ID,
			Title: n.Page.Title(),
			Depth: depth,
		})
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"root":    b.Tree.Root.Page.ID,
		"locale":  b.Locale,
		"entries": entries,
	})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	b := s.currentBuild(w)
	if b == nil {
		return
	}

	pageID := chi.URLParam(r, "pageID")
	page := b.Tree.Lookup(pageID)
	if page == nil {
		jsonError(w, "page not found: "+pageID, http.StatusNotFound)
		return
	}

	if r.URL.Query().Get("format") == "html" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := s.renderer.PageHTML(w, b.Tree, b.Refs, pageID); err != nil {
			s.log.Error("page render failed", "page", pageID, "error", err)
		}
		return
	}

	children := make([]xref.Ref, 0, len(page.Children))
	for _, cid := range page.Children {
		cp := b.Tree.Lookup(cid)
		children = append(children, xref.Ref{
			ID:       cid,
			Title:    cp.Title(),
			Position: b.Tree.Position(cid),
		})
	}
	seealso := b.Refs[pageID]
	if seealso == nil {
		seealso = []xref.Ref{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"id":       page.ID,
		"title":    page.Title(),
		"prose":    page.Prose,
		"children": children,
		"see_also": seealso,
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	b := s.currentBuild(w)
	if b == nil {
		return
	}

	warnings := b.Report.Warnings
	if warnings == nil {
		warnings = []manual.Warning{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"locale":   b.Locale,
		"built_at": b.BuiltAt,
		"pages":    len(b.Tree.Pages),
		"warnings": warnings,
	})
}

func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	b, err := s.viewer.Rebuild(r.Context())
	if err != nil {
		jsonBuildError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"pages":    len(b.Tree.Pages),
		"warnings": len(b.Report.Warnings),
		"built_at": b.BuiltAt,
	})
}

// currentBuild writes a 503 and returns nil when no build has succeeded yet.
func (s *Server) currentBuild(w http.ResponseWriter) *viewer.Build {
	b := s.viewer.Current()
	if b == nil {
		jsonError(w, "manual not built yet", http.StatusServiceUnavailable)
	}
	return b
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// jsonBuildError maps the build error taxonomy onto a 422 with a stable kind,
// so authoring tools can tell a dangling link from a cycle.
func jsonBuildError(w http.ResponseWriter, err error) {
	kind := "build_failed"
	var missing *manual.MissingPageError
	var cyclic *manual.CyclicReferenceError
	var notFound *manual.NotFoundError
	switch {
	case errors.As(err, &missing):
		kind = "missing_page"
	case errors.As(err, &cyclic):
		kind = "cyclic_reference"
	case errors.As(err, &notFound):
		kind = "not_found"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	json.NewEncoder(w).Encode(map[string]string{"kind": kind, "error": err.Error()})
}
