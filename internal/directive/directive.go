// Package directive extracts #SUBDOCS and #SEEALSO blocks from a page body,
// separating them from prose.
package directive

import (
	"bufio"
	"fmt"
	"strings"
)

// Markers recognized as directive block openers.
const (
	MarkerSubdocs = "#SUBDOCS"
	MarkerSeealso = "#SEEALSO"
)

// Kind tags a Segment.
type Kind int

const (
	Prose Kind = iota
	Subdocs
	Seealso
)

// Segment is one run of the page body: either a stretch of prose lines or one
// directive block. A page body scans to an ordered slice of segments.
type Segment struct {
	Kind Kind
	Text string   // Prose segments only.
	IDs  []string // Directive segments only, in file order.
}

// Result is the collapsed view of a scanned body.
type Result struct {
	Prose   string   // All prose, concatenated in original order.
	Subdocs []string // #SUBDOCS identifiers, order preserved.
	SeeAlso []string // #SEEALSO identifiers, duplicates collapsed.
}

// Scan splits a raw body into a segment stream with a single top-to-bottom
// pass. A line holding exactly a marker opens a block; subsequent non-blank
// lines are identifiers, one per line, until a blank line or another marker.
// Everything else, blank separator lines included, is prose. A body the
// scanner cannot read in full is an error, never a shortened result.
func Scan(body string) ([]Segment, error) {
	scanner := bufio.NewScanner(strings.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var segs []Segment
	var prose []string

	flushProse := func() {
		if len(prose) > 0 {
			segs = append(segs, Segment{Kind: Prose, Text: strings.Join(prose, "\n")})
			prose = nil
		}
	}

	inBlock := false
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if trimmed == MarkerSubdocs || trimmed == MarkerSeealso {
			flushProse()
			kind := Subdocs
			if trimmed == MarkerSeealso {
				kind = Seealso
			}
			segs = append(segs, Segment{Kind: kind})
			inBlock = true
			continue
		}

		if inBlock {
			if trimmed == "" {
				// Blank line ends the block and belongs to prose.
				inBlock = false
				prose = append(prose, line)
				continue
			}
			cur := &segs[len(segs)-1]
			cur.IDs = append(cur.IDs, trimmed)
			continue
		}

		prose = append(prose, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan body: %w", err)
	}
	flushProse()

	return segs, nil
}

// Parse scans a body and collapses the segments: prose concatenated in order,
// #SUBDOCS appended in file order, #SEEALSO deduplicated. Repeated marker
// blocks accumulate rather than replace.
func Parse(body string) (Result, error) {
	var res Result
	segs, err := Scan(body)
	if err != nil {
		return res, err
	}

	seen := make(map[string]bool)
	var proseParts []string

	for _, seg := range segs {
		switch seg.Kind {
		case Prose:
			proseParts = append(proseParts, seg.Text)
		case Subdocs:
			res.Subdocs = append(res.Subdocs, seg.IDs...)
		case Seealso:
			for _, id := range seg.IDs {
				if !seen[id] {
					seen[id] = true
					res.SeeAlso = append(res.SeeAlso, id)
				}
			}
		}
	}

	res.Prose = strings.Join(proseParts, "\n")
	return res, nil
}
