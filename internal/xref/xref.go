// Package xref resolves #SEEALSO entries against a built manual tree,
// producing navigable link targets.
package xref

import (
	"sort"

	"github.com/dgallion1/manweave/internal/manual"
)

// Ref is a resolved cross-reference target.
type Ref struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Position int    `json:"position"` // Index in the canonical TOC-order traversal.
}

// Resolve maps each page with #SEEALSO entries to its targets. Targets are
// ordered by their position in the canonical TOC traversal, not by how the
// author listed them, so output is stable across edits to the set.
func Resolve(t *manual.Tree) map[string][]Ref {
	refs := make(map[string][]Ref)
	for _, id := range t.Order {
		page := t.Pages[id]
		if len(page.SeeAlso) == 0 {
			continue
		}
		targets := make([]Ref, 0, len(page.SeeAlso))
		for _, target := range page.SeeAlso {
			tp := t.Pages[target]
			if tp == nil {
				// The builder never produces unknown targets.
				continue
			}
			targets = append(targets, Ref{
				ID:       target,
				Title:    tp.Title(),
				Position: t.Position(target),
			})
		}
		sort.Slice(targets, func(i, j int) bool {
			return targets[i].Position < targets[j].Position
		})
		refs[id] = targets
	}
	return refs
}
