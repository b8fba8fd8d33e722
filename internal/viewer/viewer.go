// Package viewer holds the host application's current manual build. Builds
// are wholesale: a rebuild composes a fresh tree and swaps it in atomically,
// and a failed rebuild keeps the last good build in place.
package viewer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/manweave/internal/builder"
	"github.com/dgallion1/manweave/internal/manual"
	"github.com/dgallion1/manweave/internal/placeholder"
	"github.com/dgallion1/manweave/internal/store"
	"github.com/dgallion1/manweave/internal/xref"
)

// Build is one complete, immutable composition result.
type Build struct {
	Tree    *manual.Tree
	Report  *manual.BuildReport
	Refs    map[string][]xref.Ref
	Locale  string
	BuiltAt time.Time
}

// Viewer owns the page store, the substitution context, and the current build.
type Viewer struct {
	builder *builder.Builder
	log     *slog.Logger
	rootID  string
	locale  string
	sub     placeholder.Context

	mu      sync.Mutex
	current *Build
}

func New(st store.Store, log *slog.Logger, rootID, locale string, sub placeholder.Context, prefetch int) *Viewer {
	return &Viewer{
		builder: builder.New(st, log, builder.Options{Prefetch: prefetch}),
		log:     log,
		rootID:  rootID,
		locale:  locale,
		sub:     sub,
	}
}

// Rebuild composes the manual from scratch. On success the new build replaces
// the current one; on failure the current build is untouched and the error is
// returned.
func (v *Viewer) Rebuild(ctx context.Context) (*Build, error) {
	start := time.Now()
	tree, report, err := v.builder.Build(ctx, v.rootID, v.sub)
	if err != nil {
		v.log.Error("rebuild failed", "root", v.rootID, "error", err)
		return nil, err
	}

	b := &Build{
		Tree:    tree,
		Report:  report,
		Refs:    xref.Resolve(tree),
		Locale:  v.locale,
		BuiltAt: time.Now(),
	}

	v.mu.Lock()
	v.current = b
	v.mu.Unlock()

	v.log.Info("rebuild complete",
		"root", v.rootID,
		"locale", v.locale,
		"pages", len(tree.Pages),
		"warnings", len(report.Warnings),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return b, nil
}

// Current returns the latest successful build, or nil before the first one.
func (v *Viewer) Current() *Build {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}
