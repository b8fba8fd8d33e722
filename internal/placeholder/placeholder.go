// Package placeholder substitutes {name} tokens in prose using a caller-supplied
// context mapping, typically one per locale.
package placeholder

import (
	"regexp"
	"strings"

	"github.com/dgallion1/manweave/internal/manual"
)

// Context maps placeholder names to replacement strings. The name set is
// open-ended; the engine hard-codes nothing.
type Context map[string]string

// A token is a bare identifier in a single pair of braces, e.g. {appname}.
// Anything else involving braces passes through untouched.
var tokenPattern = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Resolve replaces every recognized token with its mapped value. Tokens whose
// name has no context entry are kept verbatim and reported as warnings, so a
// partially translated manual still renders. Warning offsets are byte offsets
// into the returned text; PageID is left for the caller to fill in.
func Resolve(text string, ctx Context) (string, []manual.Warning) {
	matches := tokenPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text, nil
	}

	var out strings.Builder
	out.Grow(len(text))
	var warnings []manual.Warning
	last := 0

	for _, m := range matches {
		start, end := m[0], m[1]
		name := text[m[2]:m[3]]
		out.WriteString(text[last:start])
		if val, ok := ctx[name]; ok {
			out.WriteString(val)
		} else {
			warnings = append(warnings, manual.Warning{Name: name, Offset: out.Len()})
			out.WriteString(text[start:end])
		}
		last = end
	}
	out.WriteString(text[last:])

	return out.String(), warnings
}

// Merge overlays contexts left to right; later entries win. Useful for a base
// context plus a locale-specific overlay.
func Merge(ctxs ...Context) Context {
	merged := make(Context)
	for _, c := range ctxs {
		for k, v := range c {
			merged[k] = v
		}
	}
	return merged
}
