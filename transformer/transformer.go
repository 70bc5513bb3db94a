// Package transformer maps one resolved block to its Markdown content. It
// holds a built-in transformer per block kind and lets callers override
// any of them, with a per-call escape hatch back to the default.
package transformer

import (
	"context"
	"sync"

	"github.com/Emre-C/notion-to-md/notion"
	"github.com/Emre-C/notion-to-md/types"
)

// Action is the three-way outcome of a transformer call.
type Action int

const (
	// ActionRender means Markdown was produced for the block.
	ActionRender Action = iota

	// ActionDefer falls back to the built-in transformer for this block.
	ActionDefer

	// ActionSkip renders nothing for the block or its children.
	ActionSkip
)

// Result carries a transformer's outcome. Consumed marks the block's
// children as already handled, so the renderer will not recurse into them.
type Result struct {
	Action   Action
	Markdown string
	Consumed bool
}

// Text produces Markdown for the block itself; the renderer still walks
// the children.
func Text(markdown string) Result {
	return Result{Action: ActionRender, Markdown: markdown}
}

// Replace produces Markdown covering the block and its children.
func Replace(markdown string) Result {
	return Result{Action: ActionRender, Markdown: markdown, Consumed: true}
}

// Deferred hands the block back to the built-in transformer.
func Deferred() Result {
	return Result{Action: ActionDefer}
}

// Skipped renders nothing.
func Skipped() Result {
	return Result{Action: ActionSkip, Consumed: true}
}

// BinaryFetcher downloads raw bytes, used by the image transformer for
// base64 inlining.
type BinaryFetcher interface {
	GetBinary(ctx context.Context, url string) ([]byte, error)
}

// Env is the per-call environment a transformer renders against.
type Env struct {
	Config types.Config

	// Binary may be nil when the converter has no client attached.
	Binary BinaryFetcher

	// Number is the current ordered-list counter for numbered list
	// items at their depth, 0 for every other kind.
	Number int
}

// Func renders one block. Returning an error is contained by the renderer
// as a per-block failure, it never aborts the surrounding tree.
type Func func(ctx context.Context, env Env, block notion.Block) (Result, error)

// Registry resolves the transformer for a block kind: the caller-installed
// override when present, the built-in default otherwise.
type Registry struct {
	mutex  sync.RWMutex
	custom map[notion.BlockType]Func
}

func NewRegistry() *Registry {
	return &Registry{
		custom: map[notion.BlockType]Func{},
	}
}

// Register installs fn as the transformer for the given kind. The mapping
// is swapped as a whole, so a render in flight sees either the old or the
// new registration, never a partial state.
func (registry *Registry) Register(kind notion.BlockType, fn Func) {
	registry.mutex.Lock()
	defer registry.mutex.Unlock()

	custom := make(map[notion.BlockType]Func, len(registry.custom)+1)
	for key, value := range registry.custom {
		custom[key] = value
	}

	custom[kind] = fn
	registry.custom = custom
}

// Resolve returns the transformer for the given kind and whether it is a
// caller-installed override. It never returns nil: unrecognized kinds get
// the placeholder default.
func (registry *Registry) Resolve(kind notion.BlockType) (Func, bool) {
	registry.mutex.RLock()
	custom := registry.custom
	registry.mutex.RUnlock()

	if fn, ok := custom[kind]; ok && fn != nil {
		return fn, true
	}

	return Default(kind), false
}
