// Package resolver materializes a block tree by recursively fetching and
// attaching children before rendering.
package resolver

import (
	"context"
	"fmt"
	"sync"

	"github.com/Emre-C/notion-to-md/fetch"
	"github.com/Emre-C/notion-to-md/notion"
	"github.com/Emre-C/notion-to-md/types"
	"github.com/reconquest/karma-go"
	"github.com/reconquest/pkg/log"
)

// ResolutionError wraps the fetch failure that stopped a resolve call,
// carrying the id of the block whose children could not be retrieved.
type ResolutionError struct {
	BlockID string
	Err     error
}

func (err *ResolutionError) Error() string {
	return fmt.Sprintf(
		"unable to resolve children of block %q: %s",
		err.BlockID,
		err.Err,
	)
}

func (err *ResolutionError) Unwrap() error {
	return err.Err
}

// Resolver walks a root set of blocks depth-first per branch, fetching
// sibling branches concurrently under the fetcher's global bound.
type Resolver struct {
	fetcher *fetch.Fetcher
	cfg     types.Config
}

func New(fetcher *fetch.Fetcher, cfg types.Config) *Resolver {
	return &Resolver{
		fetcher: fetcher,
		cfg:     cfg,
	}
}

// Resolve returns the given blocks with children populated. Sibling order
// always matches input order regardless of fetch completion order. Any
// branch failing permanently aborts the whole call; in-flight sibling
// fetches are cancelled and no partial tree is returned.
func (resolver *Resolver) Resolve(
	ctx context.Context,
	roots []notion.Block,
) ([]notion.Block, error) {
	return resolver.ResolvePage(ctx, "", roots)
}

// ResolvePage behaves like Resolve but also registers the enclosing page
// id in the visited set, so child pages linking back to their own root
// resolve empty instead of recursing.
func (resolver *Resolver) ResolvePage(
	ctx context.Context,
	pageID string,
	roots []notion.Block,
) ([]notion.Block, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	resolved := make([]notion.Block, len(roots))
	copy(resolved, roots)

	walk := &walker{
		resolver: resolver,
		cancel:   cancel,
		visited:  map[string]bool{},
	}

	if pageID != "" {
		walk.visited[pageID] = true
	}

	walk.siblings(ctx, resolved)
	walk.group.Wait()

	if walk.err != nil {
		return nil, walk.err
	}

	return resolved, nil
}

// walker carries the per-call traversal state: the cycle-breaking visited
// set and the first failure, which cancels everything else in flight.
type walker struct {
	resolver *Resolver

	group  sync.WaitGroup
	cancel context.CancelFunc

	mutex   sync.Mutex
	visited map[string]bool
	err     error
}

func (walk *walker) siblings(ctx context.Context, blocks []notion.Block) {
	for i := range blocks {
		block := &blocks[i]

		if !walk.resolver.descends(*block) {
			continue
		}

		walk.group.Add(1)
		go func() {
			defer walk.group.Done()

			if err := walk.branch(ctx, block); err != nil {
				walk.fail(err)
			}
		}()
	}
}

func (walk *walker) branch(ctx context.Context, block *notion.Block) error {
	source := block.ID

	if block.Type == notion.TypeSyncedBlock && block.SyncedFrom != "" {
		source = block.SyncedFrom
	}

	// Synced references and child pages can form cycles; a revisited id
	// resolves to an empty child list instead of descending forever.
	if block.Type == notion.TypeSyncedBlock || block.Type == notion.TypeChildPage {
		if !walk.visit(source) {
			log.Debugf(
				karma.Describe("block", block.ID),
				"reference cycle detected on %q, resolving empty",
				source,
			)

			block.Children = []notion.Block{}
			return nil
		}
	}

	children, err := walk.resolver.fetcher.Children(ctx, source)
	if err != nil {
		return &ResolutionError{
			BlockID: block.ID,
			Err:     err,
		}
	}

	block.Children = children
	walk.siblings(ctx, block.Children)

	return nil
}

// descends reports whether the resolver should fetch children for the
// given block at all.
func (resolver *Resolver) descends(block notion.Block) bool {
	switch block.Type {
	case notion.TypeSyncedBlock:
		// A synced copy carries a reference instead of own children.
		return block.HasChildren || block.SyncedFrom != ""

	case notion.TypeChildPage:
		return resolver.cfg.ParseChildPages && block.HasChildren

	case notion.TypeChildDatabase:
		// Databases hold rows, not blocks; never descended.
		return false

	case notion.TypeTemplate, notion.TypeUnsupported:
		// Never rendered, so their children are never fetched either.
		return false

	default:
		return block.HasChildren
	}
}

// visit marks an id as seen and reports whether it was new.
func (walk *walker) visit(id string) bool {
	walk.mutex.Lock()
	defer walk.mutex.Unlock()

	if walk.visited[id] {
		return false
	}

	walk.visited[id] = true
	return true
}

func (walk *walker) fail(err error) {
	walk.mutex.Lock()
	defer walk.mutex.Unlock()

	if walk.err == nil {
		walk.err = err
		walk.cancel()
	}
}
