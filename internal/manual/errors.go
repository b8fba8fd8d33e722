package manual

import (
	"fmt"
	"strings"
)

// NotFoundError reports a page store miss.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("page %q not found", e.ID)
}

// MissingPageError reports a #SUBDOCS or #SEEALSO entry that no stored page
// satisfies. Referrer is the page that declared the dangling identifier.
type MissingPageError struct {
	Referrer string
	ID       string
}

func (e *MissingPageError) Error() string {
	return fmt.Sprintf("page %q references missing page %q", e.Referrer, e.ID)
}

// CyclicReferenceError reports a #SUBDOCS chain that revisits a page already
// on the traversal path. Cycle lists the identifiers on the loop, starting and
// ending at the repeated page.
type CyclicReferenceError struct {
	Cycle []string
}

func (e *CyclicReferenceError) Error() string {
	return fmt.Sprintf("cyclic reference: %s", strings.Join(e.Cycle, " -> "))
}

// Warning records one unresolved placeholder occurrence. The literal token is
// kept in the output; the warning is for page authors and translators.
type Warning struct {
	PageID string `json:"page_id"`
	Name   string `json:"name"`
	Offset int    `json:"offset"` // Byte offset of the token in the resolved prose.
}

// BuildReport accumulates non-fatal findings across a whole build.
type BuildReport struct {
	Warnings []Warning `json:"warnings"`
}

// Add appends warnings for a page.
func (r *BuildReport) Add(ws ...Warning) {
	r.Warnings = append(r.Warnings, ws...)
}
