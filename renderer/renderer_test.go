package renderer

import (
	"bytes"
	"context"
	"testing"

	"github.com/Emre-C/notion-to-md/notion"
	"github.com/Emre-C/notion-to-md/transformer"
	"github.com/Emre-C/notion-to-md/types"
	"github.com/reconquest/karma-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
)

func spans(text string) []notion.RichText {
	return []notion.RichText{{PlainText: text}}
}

func paragraph(id string, text string) notion.Block {
	return notion.Block{
		ID:       id,
		Type:     notion.TypeParagraph,
		RichText: spans(text),
	}
}

func numbered(id string, text string) notion.Block {
	return notion.Block{
		ID:       id,
		Type:     notion.TypeNumberedListItem,
		RichText: spans(text),
	}
}

func bulleted(id string, text string, children ...notion.Block) notion.Block {
	return notion.Block{
		ID:       id,
		Type:     notion.TypeBulletedListItem,
		RichText: spans(text),
		Children: children,
	}
}

func render(t *testing.T, cfg types.Config, tree []notion.Block) map[string]string {
	t.Helper()

	return New(transformer.NewRegistry(), nil, cfg).
		Render(context.Background(), tree)
}

func TestRenderer_Render_ParagraphAndNumberedList(t *testing.T) {
	tree := []notion.Block{
		{
			ID:   "p1",
			Type: notion.TypeParagraph,
			RichText: []notion.RichText{
				{PlainText: "Hello, "},
				{PlainText: "world", Annotations: notion.Annotations{Bold: true}},
			},
		},
		numbered("n1", "First"),
		numbered("n2", "Second"),
	}

	units := render(t, types.DefaultConfig(), tree)

	require.Len(t, units, 1)
	assert.Equal(t, "Hello, **world**\n\n1. First\n2. Second\n", units[ParentUnit])
}

func TestRenderer_Render_NumberingResetsAfterInterruption(t *testing.T) {
	tree := []notion.Block{
		numbered("n1", "a"),
		numbered("n2", "b"),
		paragraph("p1", "between"),
		numbered("n3", "c"),
	}

	units := render(t, types.DefaultConfig(), tree)

	assert.Equal(t, "1. a\n2. b\nbetween\n\n1. c\n", units[ParentUnit])
}

func TestRenderer_Render_NestedListsIndentPerDepth(t *testing.T) {
	tree := []notion.Block{
		bulleted("b1", "top",
			bulleted("b2", "nested",
				bulleted("b3", "deeper"),
			),
		),
	}

	units := render(t, types.DefaultConfig(), tree)

	assert.Equal(t, "- top\n\t- nested\n\t\t- deeper\n", units[ParentUnit])
}

func TestRenderer_Render_NestedNumberingIsIndependentPerDepth(t *testing.T) {
	tree := []notion.Block{
		{
			ID:       "n1",
			Type:     notion.TypeNumberedListItem,
			RichText: spans("outer one"),
			Children: []notion.Block{
				numbered("n1a", "inner one"),
				numbered("n1b", "inner two"),
			},
		},
		numbered("n2", "outer two"),
	}

	units := render(t, types.DefaultConfig(), tree)

	assert.Equal(t,
		"1. outer one\n\t1. inner one\n\t2. inner two\n2. outer two\n",
		units[ParentUnit],
	)
}

func TestRenderer_Render_ChildPageModes(t *testing.T) {
	childPage := notion.Block{
		ID:       "page-2",
		Type:     notion.TypeChildPage,
		Title:    "Sub Page",
		Children: []notion.Block{paragraph("p2", "Inside")},
	}

	tree := []notion.Block{paragraph("p1", "Intro"), childPage}

	t.Run("inlined by default", func(t *testing.T) {
		units := render(t, types.DefaultConfig(), tree)

		require.Len(t, units, 1)
		assert.Equal(t,
			"Intro\n\n## Sub Page\n\nInside\n",
			units[ParentUnit],
		)
	})

	t.Run("split into a separate unit", func(t *testing.T) {
		cfg := types.DefaultConfig()
		cfg.SeparateChildPage = true

		units := render(t, cfg, tree)

		require.Len(t, units, 2)
		assert.Equal(t, "Intro\n\n[Sub Page](page-2)\n", units[ParentUnit])
		assert.Equal(t, "Inside\n", units["page-2"])
	})

	t.Run("reduced to a link when parsing is off", func(t *testing.T) {
		cfg := types.DefaultConfig()
		cfg.ParseChildPages = false

		units := render(t, cfg, tree)

		require.Len(t, units, 1)
		assert.Equal(t, "Intro\n\n[Sub Page](page-2)\n", units[ParentUnit])
	})
}

func TestRenderer_Render_ToggleWrapsChildren(t *testing.T) {
	tree := []notion.Block{
		{
			ID:       "t1",
			Type:     notion.TypeToggle,
			RichText: spans("More"),
			Children: []notion.Block{paragraph("p1", "hidden")},
		},
	}

	units := render(t, types.DefaultConfig(), tree)

	assert.Equal(t,
		"<details>\n<summary>More</summary>\n\nhidden\n</details>\n",
		units[ParentUnit],
	)
}

func TestRenderer_Render_QuoteFoldsChildrenIntoBlockquote(t *testing.T) {
	tree := []notion.Block{
		{
			ID:       "q1",
			Type:     notion.TypeQuote,
			RichText: spans("q"),
			Children: []notion.Block{paragraph("p1", "inner")},
		},
	}

	units := render(t, types.DefaultConfig(), tree)

	assert.Equal(t, "> q\n>\n> inner\n", units[ParentUnit])
}

func TestRenderer_Render_ContainersDissolveWithoutIndenting(t *testing.T) {
	tree := []notion.Block{
		{
			ID:   "cl",
			Type: notion.TypeColumnList,
			Children: []notion.Block{
				{
					ID:       "c1",
					Type:     notion.TypeColumn,
					Children: []notion.Block{paragraph("p1", "left")},
				},
				{
					ID:       "c2",
					Type:     notion.TypeColumn,
					Children: []notion.Block{paragraph("p2", "right")},
				},
			},
		},
	}

	units := render(t, types.DefaultConfig(), tree)

	assert.Equal(t, "left\n\nright\n", units[ParentUnit])
}

func TestRenderer_Render_TransformerFailureIsContainedPerBlock(t *testing.T) {
	registry := transformer.NewRegistry()
	registry.Register(notion.TypeCallout, func(
		ctx context.Context,
		env transformer.Env,
		block notion.Block,
	) (transformer.Result, error) {
		return transformer.Result{}, karma.Format(nil, "boom")
	})

	tree := []notion.Block{
		paragraph("p1", "before"),
		{ID: "bad", Type: notion.TypeCallout, RichText: spans("tip")},
		paragraph("p2", "after"),
	}

	units := New(registry, nil, types.DefaultConfig()).
		Render(context.Background(), tree)

	assert.Equal(t,
		"before\n\n<!-- block bad could not be rendered -->\n\nafter\n",
		units[ParentUnit],
	)
}

func TestRenderer_Render_CustomTransformerOnContainerKindWins(t *testing.T) {
	registry := transformer.NewRegistry()
	registry.Register(notion.TypeSyncedBlock, func(
		ctx context.Context,
		env transformer.Env,
		block notion.Block,
	) (transformer.Result, error) {
		return transformer.Replace("CUSTOM SYNCED OUTPUT"), nil
	})

	tree := []notion.Block{
		{
			ID:       "s1",
			Type:     notion.TypeSyncedBlock,
			Children: []notion.Block{paragraph("p1", "inner")},
		},
	}

	units := New(registry, nil, types.DefaultConfig()).
		Render(context.Background(), tree)

	assert.Equal(t, "CUSTOM SYNCED OUTPUT\n", units[ParentUnit])
}

func TestRenderer_Render_CustomConsumedToggleRendersChildrenOnce(t *testing.T) {
	registry := transformer.NewRegistry()
	registry.Register(notion.TypeToggle, func(
		ctx context.Context,
		env transformer.Env,
		block notion.Block,
	) (transformer.Result, error) {
		return transformer.Replace("TOGGLE ALL INCLUSIVE"), nil
	})

	tree := []notion.Block{
		{
			ID:       "t1",
			Type:     notion.TypeToggle,
			RichText: spans("More"),
			Children: []notion.Block{paragraph("p1", "hidden")},
		},
	}

	units := New(registry, nil, types.DefaultConfig()).
		Render(context.Background(), tree)

	assert.Equal(t, "TOGGLE ALL INCLUSIVE\n", units[ParentUnit])
}

func TestRenderer_Render_CustomUnconsumedResultStillWalksChildren(t *testing.T) {
	registry := transformer.NewRegistry()
	registry.Register(notion.TypeQuote, func(
		ctx context.Context,
		env transformer.Env,
		block notion.Block,
	) (transformer.Result, error) {
		return transformer.Text("QUOTE HEAD"), nil
	})

	tree := []notion.Block{
		{
			ID:       "q1",
			Type:     notion.TypeQuote,
			RichText: spans("q"),
			Children: []notion.Block{paragraph("p1", "inner")},
		},
	}

	units := New(registry, nil, types.DefaultConfig()).
		Render(context.Background(), tree)

	// No blockquote folding for custom output; children nest below it.
	assert.Equal(t, "QUOTE HEAD\n\n\tinner\n", units[ParentUnit])
}

func TestRenderer_Render_DeferredTransformerFallsBackToDefault(t *testing.T) {
	registry := transformer.NewRegistry()
	registry.Register(notion.TypeParagraph, func(
		ctx context.Context,
		env transformer.Env,
		block notion.Block,
	) (transformer.Result, error) {
		if block.ID == "special" {
			return transformer.Replace("SPECIAL"), nil
		}

		return transformer.Deferred(), nil
	})

	tree := []notion.Block{
		paragraph("ordinary", "plain text"),
		paragraph("special", "ignored"),
	}

	units := New(registry, nil, types.DefaultConfig()).
		Render(context.Background(), tree)

	assert.Equal(t, "plain text\n\nSPECIAL\n", units[ParentUnit])
}

func TestRenderer_Render_EmptyTreeProducesEmptyParentUnit(t *testing.T) {
	units := render(t, types.DefaultConfig(), nil)

	require.Len(t, units, 1)
	assert.Equal(t, "", units[ParentUnit])
}

func TestRenderer_Render_OutputParsesAsMarkdown(t *testing.T) {
	tree := []notion.Block{
		{
			ID:   "h1",
			Type: notion.TypeHeading1,
			RichText: []notion.RichText{
				{PlainText: "Title", Annotations: notion.Annotations{Bold: true}},
			},
		},
		{
			ID:   "p1",
			Type: notion.TypeParagraph,
			RichText: []notion.RichText{
				{PlainText: "Hello, "},
				{PlainText: "world", Annotations: notion.Annotations{Bold: true}},
			},
		},
		numbered("n1", "First"),
		numbered("n2", "Second"),
		{
			ID:       "c1",
			Type:     notion.TypeCode,
			Language: "go",
			RichText: spans("x := 1"),
		},
	}

	units := render(t, types.DefaultConfig(), tree)

	var html bytes.Buffer
	err := goldmark.New().Convert([]byte(units[ParentUnit]), &html)
	require.NoError(t, err)

	assert.Contains(t, html.String(), "<strong>world</strong>")
	assert.Contains(t, html.String(), "<ol>")
	assert.Contains(t, html.String(), "x := 1")
}
