// Package converter ties the fetch, resolve, and render stages into the
// long-lived conversion entry point.
package converter

import (
	"context"
	"errors"
	"sync"

	"github.com/Emre-C/notion-to-md/fetch"
	"github.com/Emre-C/notion-to-md/notion"
	"github.com/Emre-C/notion-to-md/renderer"
	"github.com/Emre-C/notion-to-md/resolver"
	"github.com/Emre-C/notion-to-md/transformer"
	"github.com/Emre-C/notion-to-md/types"
	"github.com/reconquest/karma-go"
)

// Converter owns the transformer registry and the configuration across
// any number of render calls. The fetch concurrency budget is shared by
// all calls on one instance, since it models the API's rate budget.
type Converter struct {
	client   notion.Client
	registry *transformer.Registry

	mutex   sync.RWMutex
	cfg     types.Config
	fetcher *fetch.Fetcher
}

// New creates a converter around the given client. A nil client is only
// usable with BlocksToMarkdown on pre-resolved trees.
func New(client notion.Client, cfg types.Config) *Converter {
	return &Converter{
		client:   client,
		registry: transformer.NewRegistry(),
		cfg:      cfg,
		fetcher:  fetch.New(client, cfg),
	}
}

// WithTransformer installs a custom transformer for the given block kind
// and returns the converter for chaining. Safe to call while renders are
// in flight; those see either the old or the new registration.
func (converter *Converter) WithTransformer(
	kind notion.BlockType,
	fn transformer.Func,
) *Converter {
	converter.registry.Register(kind, fn)
	return converter
}

// SetConfig replaces the configuration. The fetch budget is rebuilt, so
// renders already in flight keep the budget they started with.
func (converter *Converter) SetConfig(cfg types.Config) {
	converter.mutex.Lock()
	defer converter.mutex.Unlock()

	converter.cfg = cfg
	converter.fetcher = fetch.New(converter.client, cfg)
}

func (converter *Converter) Config() types.Config {
	converter.mutex.RLock()
	defer converter.mutex.RUnlock()

	return converter.cfg
}

// PageToMarkdown fetches the page's block tree and renders it, returning
// one Markdown document per output unit.
func (converter *Converter) PageToMarkdown(
	ctx context.Context,
	pageID string,
) (map[string]string, error) {
	if converter.client == nil {
		return nil, errors.New("a notion client is required to fetch pages")
	}

	converter.mutex.RLock()
	cfg, fetcher := converter.cfg, converter.fetcher
	converter.mutex.RUnlock()

	roots, err := fetcher.Children(ctx, pageID)
	if err != nil {
		return nil, karma.Format(
			err,
			"unable to fetch blocks of page %q",
			pageID,
		)
	}

	resolved, err := resolver.New(fetcher, cfg).ResolvePage(ctx, pageID, roots)
	if err != nil {
		return nil, err
	}

	return renderer.New(converter.registry, converter.client, cfg).Render(
		ctx,
		resolved,
	), nil
}

// BlocksToMarkdown resolves children for the given root blocks and
// renders them. Callers needing partial results on failure should issue
// separate calls per branch; a failing branch aborts the whole call.
func (converter *Converter) BlocksToMarkdown(
	ctx context.Context,
	roots []notion.Block,
) (map[string]string, error) {
	converter.mutex.RLock()
	cfg, fetcher := converter.cfg, converter.fetcher
	converter.mutex.RUnlock()

	resolved := roots
	if converter.client != nil {
		var err error
		resolved, err = resolver.New(fetcher, cfg).Resolve(ctx, roots)
		if err != nil {
			return nil, err
		}
	}

	var binary transformer.BinaryFetcher
	if converter.client != nil {
		binary = converter.client
	}

	return renderer.New(converter.registry, binary, cfg).Render(
		ctx,
		resolved,
	), nil
}
