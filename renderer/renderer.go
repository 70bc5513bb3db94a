// Package renderer walks a resolved block tree and assembles the final
// Markdown, one output unit per page.
package renderer

import (
	"context"
	"fmt"
	"strings"

	"github.com/Emre-C/notion-to-md/markdown"
	"github.com/Emre-C/notion-to-md/notion"
	"github.com/Emre-C/notion-to-md/transformer"
	"github.com/Emre-C/notion-to-md/types"
	"github.com/reconquest/karma-go"
	"github.com/reconquest/pkg/log"
)

// ParentUnit keys the root document in the render result. Split-out child
// pages are keyed by their block id.
const ParentUnit = "parent"

// Renderer converts resolved trees to Markdown. It is stateless across
// calls; all traversal state lives in one render pass.
type Renderer struct {
	registry *transformer.Registry
	binary   transformer.BinaryFetcher
	cfg      types.Config
}

func New(
	registry *transformer.Registry,
	binary transformer.BinaryFetcher,
	cfg types.Config,
) *Renderer {
	return &Renderer{
		registry: registry,
		binary:   binary,
		cfg:      cfg,
	}
}

// Render walks the tree and returns the mapping from output unit id to
// Markdown text. Transformer failures are contained per block: a visible
// placeholder is emitted and the remaining siblings keep rendering.
func (renderer *Renderer) Render(
	ctx context.Context,
	tree []notion.Block,
) map[string]string {
	walk := &pass{
		Renderer: renderer,
		units:    map[string]*strings.Builder{},
	}

	root := walk.unit(ParentUnit)
	walk.blocks(ctx, tree, root, ParentUnit, 0)

	result := make(map[string]string, len(walk.units))
	for id, unit := range walk.units {
		result[id] = finalize(unit.String())
	}

	return result
}

type pass struct {
	*Renderer

	units map[string]*strings.Builder
}

func (walk *pass) unit(id string) *strings.Builder {
	if unit, ok := walk.units[id]; ok {
		return unit
	}

	unit := &strings.Builder{}
	walk.units[id] = unit
	return unit
}

func (walk *pass) blocks(
	ctx context.Context,
	blocks []notion.Block,
	target *strings.Builder,
	unitID string,
	depth int,
) {
	// The ordered-list counter lives per traversal frame, so each depth
	// numbers independently and a non-numbered sibling resets the run.
	number := 0

	for i := range blocks {
		block := blocks[i]

		if block.Type == notion.TypeNumberedListItem {
			number++
		} else {
			number = 0
		}

		env := transformer.Env{
			Config: walk.cfg,
			Binary: walk.binary,
			Number: number,
		}

		fn, custom := walk.registry.Resolve(block.Type)

		result, err := fn(ctx, env, block)
		if err == nil && result.Action == transformer.ActionDefer {
			custom = false
			result, err = transformer.Default(block.Type)(ctx, env, block)
		}

		if err != nil {
			log.Warningf(
				karma.Describe("block", block.ID).
					Describe("type", string(block.Type)).
					Reason(err),
				"transformer failed, emitting placeholder",
			)

			walk.write(
				target,
				fmt.Sprintf("<!-- block %s could not be rendered -->", block.ID),
				block.Type,
				depth,
			)

			continue
		}

		if result.Action == transformer.ActionSkip {
			continue
		}

		// A custom transformer's output stands as produced. The kind
		// special cases below (child page splitting, toggle and quote
		// folding, container dissolving) shape built-in results only.
		if custom {
			walk.write(target, result.Markdown, block.Type, depth)

			if !result.Consumed && len(block.Children) > 0 {
				walk.blocks(ctx, block.Children, target, unitID, depth+1)
			}

			continue
		}

		switch block.Type {
		case notion.TypeChildPage:
			walk.childPage(ctx, block, result.Markdown, target, unitID, depth)

		case notion.TypeToggle:
			children := walk.capture(ctx, block.Children, unitID)
			walk.write(
				target,
				markdown.Toggle(result.Markdown, children),
				block.Type,
				depth,
			)

		case notion.TypeQuote:
			content := result.Markdown
			if children := walk.capture(ctx, block.Children, unitID); children != "" {
				content += "\n\n" + children
			}
			walk.write(target, markdown.Quote(content), block.Type, depth)

		case notion.TypeSyncedBlock, notion.TypeColumnList, notion.TypeColumn:
			// Containers dissolve: children flow through at the same
			// depth as if they were siblings of the container.
			walk.blocks(ctx, block.Children, target, unitID, depth)

		default:
			walk.write(target, result.Markdown, block.Type, depth)

			if !result.Consumed && len(block.Children) > 0 {
				walk.blocks(ctx, block.Children, target, unitID, depth+1)
			}
		}
	}
}

func (walk *pass) childPage(
	ctx context.Context,
	block notion.Block,
	title string,
	target *strings.Builder,
	unitID string,
	depth int,
) {
	switch {
	case !walk.cfg.ParseChildPages:
		// Not descended: a reference link is all that remains.
		walk.write(target, markdown.Link(title, block.ID), block.Type, depth)

	case walk.cfg.SeparateChildPage:
		walk.write(target, markdown.Link(title, block.ID), block.Type, depth)
		walk.blocks(ctx, block.Children, walk.unit(block.ID), block.ID, 0)

	default:
		walk.write(target, markdown.Heading(2, title), block.Type, depth)
		walk.blocks(ctx, block.Children, target, unitID, depth)
	}
}

// capture renders blocks into a detached buffer, for kinds that wrap
// their children (toggle, quote). Child pages encountered inside still
// split into their own units.
func (walk *pass) capture(
	ctx context.Context,
	blocks []notion.Block,
	unitID string,
) string {
	var detached strings.Builder
	walk.blocks(ctx, blocks, &detached, unitID, 0)

	return strings.TrimRight(detached.String(), "\n")
}

func (walk *pass) write(
	target *strings.Builder,
	content string,
	kind notion.BlockType,
	depth int,
) {
	if content == "" {
		return
	}

	target.WriteString(markdown.Indent(content, depth))

	// List items stack line by line; every other block gets a blank line.
	switch kind {
	case notion.TypeBulletedListItem, notion.TypeNumberedListItem, notion.TypeToDo:
		target.WriteString("\n")
	default:
		target.WriteString("\n\n")
	}
}

func finalize(content string) string {
	content = strings.TrimRight(content, "\n")
	if content == "" {
		return ""
	}

	return content + "\n"
}
