// Package builder composes pages into a manual tree: it loads pages from a
// store, follows #SUBDOCS recursively in listed order, detects cycles and
// dangling references, and resolves placeholders along the way.
package builder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dgallion1/manweave/internal/directive"
	"github.com/dgallion1/manweave/internal/manual"
	"github.com/dgallion1/manweave/internal/placeholder"
	"github.com/dgallion1/manweave/internal/store"
)

// Options tunes a Builder.
type Options struct {
	Prefetch int // Max concurrent store loads warmed ahead of the walk.
}

// Builder assembles manual trees. One Builder may serve concurrent builds for
// different locales; all per-build state lives in the build struct.
type Builder struct {
	store    store.Store
	log      *slog.Logger
	prefetch int
}

func New(st store.Store, log *slog.Logger, opts Options) *Builder {
	prefetch := opts.Prefetch
	if prefetch <= 0 {
		prefetch = 4
	}
	return &Builder{store: st, log: log, prefetch: prefetch}
}

// Build loads the root page and every page reachable from it, and returns the
// composed tree plus a report of non-fatal findings. The first fatal error
// (NotFound on the root, MissingPage, CyclicReference) aborts the whole build;
// no partial tree is ever returned.
func (b *Builder) Build(ctx context.Context, rootID string, sub placeholder.Context) (*manual.Tree, *manual.BuildReport, error) {
	buildCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	bd := &build{
		builder: b,
		ctx:     buildCtx,
		sub:     sub,
		cache:   make(map[string]loadResult),
		nodes:   make(map[string]*manual.Node),
		sem:     make(chan struct{}, b.prefetch),
		tree: &manual.Tree{
			Pages: make(map[string]*manual.Page),
		},
		report: &manual.BuildReport{},
	}

	root, err := bd.visit(rootID, "", nil)
	if err != nil {
		return nil, nil, err
	}
	bd.tree.Root = root

	// Pages referenced only through #SEEALSO still have to exist; load them
	// (and their subtrees) after the TOC-ordered pages.
	if err := bd.resolveSeeAlso(); err != nil {
		return nil, nil, err
	}

	b.log.Info("manual built",
		"root", rootID,
		"pages", len(bd.tree.Pages),
		"warnings", len(bd.report.Warnings),
	)
	return bd.tree, bd.report, nil
}

// loadResult caches one store load so the prefetcher and the walk share work.
type loadResult struct {
	body string
	err  error
}

type build struct {
	builder *Builder
	ctx     context.Context
	sub     placeholder.Context

	mu    sync.Mutex // Guards cache.
	cache map[string]loadResult

	nodes  map[string]*manual.Node
	sem    chan struct{}
	tree   *manual.Tree
	report *manual.BuildReport
}

// visit builds the node for one page, recursing into its children. path holds
// the identifiers currently on the traversal stack, for cycle detection.
// referrer is the parent page, "" for a root.
func (bd *build) visit(id, referrer string, path []string) (*manual.Node, error) {
	for i, onPath := range path {
		if onPath == id {
			cycle := append(append([]string{}, path[i:]...), id)
			return nil, &manual.CyclicReferenceError{Cycle: cycle}
		}
	}

	// A page listed under more than one parent is built once and shared.
	if node, ok := bd.nodes[id]; ok {
		return node, nil
	}

	body, err := bd.load(id)
	if err != nil {
		var nf *manual.NotFoundError
		if errors.As(err, &nf) && referrer != "" {
			return nil, &manual.MissingPageError{Referrer: referrer, ID: id}
		}
		return nil, err
	}

	parsed, err := directive.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse page %s: %w", id, err)
	}
	prose, warnings := placeholder.Resolve(parsed.Prose, bd.sub)
	for i := range warnings {
		warnings[i].PageID = id
	}
	bd.report.Add(warnings...)

	page := &manual.Page{
		ID:       id,
		Raw:      body,
		Prose:    prose,
		Children: parsed.Subdocs,
		SeeAlso:  parsed.SeeAlso,
	}
	node := &manual.Node{Page: page}
	bd.nodes[id] = node
	bd.tree.Pages[id] = page
	bd.tree.Order = append(bd.tree.Order, id)

	// Warm the cache for all declared children before recursing; the store is
	// the slow part, so its loads overlap while traversal order stays fixed.
	bd.prefetch(parsed.Subdocs)

	childPath := append(path, id)
	for _, childID := range parsed.Subdocs {
		child, err := bd.visit(childID, id, childPath)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}

	return node, nil
}

// resolveSeeAlso loads #SEEALSO targets that the #SUBDOCS walk never reached.
// Each becomes an auxiliary root appended after the TOC-ordered pages, so
// cross-reference links always have a live target.
func (bd *build) resolveSeeAlso() error {
	// Iterate over a snapshot: auxiliary roots may append to Order.
	for i := 0; i < len(bd.tree.Order); i++ {
		id := bd.tree.Order[i]
		page := bd.tree.Pages[id]
		for _, target := range page.SeeAlso {
			if _, ok := bd.tree.Pages[target]; ok {
				continue
			}
			if _, err := bd.visit(target, id, nil); err != nil {
				return err
			}
		}
	}
	return nil
}

// load reads a page body through the shared cache.
func (bd *build) load(id string) (string, error) {
	bd.mu.Lock()
	if res, ok := bd.cache[id]; ok {
		bd.mu.Unlock()
		return res.body, res.err
	}
	bd.mu.Unlock()

	body, err := bd.builder.store.Load(bd.ctx, id)

	bd.mu.Lock()
	bd.cache[id] = loadResult{body: body, err: err}
	bd.mu.Unlock()
	return body, err
}

// prefetch warms the load cache for a page's declared children with bounded
// concurrency. Errors are cached, not acted on; the walk surfaces them in
// deterministic order.
func (bd *build) prefetch(ids []string) {
	if len(ids) < 2 {
		return
	}
	var wg sync.WaitGroup
	for _, id := range ids {
		bd.mu.Lock()
		_, cached := bd.cache[id]
		bd.mu.Unlock()
		if cached {
			continue
		}
		select {
		case bd.sem <- struct{}{}:
		case <-bd.ctx.Done():
			wg.Wait()
			return
		}
		wg.Add(1)
		go func(id string) {
			defer func() { <-bd.sem; wg.Done() }()
			bd.load(id)
		}(id)
	}
	wg.Wait()
}
