package transformer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Emre-C/notion-to-md/markdown"
	"github.com/Emre-C/notion-to-md/notion"
	"github.com/reconquest/karma-go"
	"github.com/reconquest/pkg/log"
)

// Default returns the built-in transformer for the given kind. Every
// recognized kind has one; anything else gets a visible placeholder
// comment so unknown content never disappears silently.
func Default(kind notion.BlockType) Func {
	if fn, ok := defaults[kind]; ok {
		return fn
	}

	return placeholder
}

var defaults = map[notion.BlockType]Func{
	notion.TypeParagraph: text(func(env Env, block notion.Block, text string) string {
		return text
	}),

	notion.TypeHeading1: text(func(env Env, block notion.Block, text string) string {
		return markdown.Heading(1, text)
	}),

	notion.TypeHeading2: text(func(env Env, block notion.Block, text string) string {
		return markdown.Heading(2, text)
	}),

	notion.TypeHeading3: text(func(env Env, block notion.Block, text string) string {
		return markdown.Heading(3, text)
	}),

	notion.TypeBulletedListItem: text(func(env Env, block notion.Block, text string) string {
		return markdown.Bullet(text)
	}),

	notion.TypeNumberedListItem: text(func(env Env, block notion.Block, text string) string {
		return markdown.NumberedItem(env.Number, text)
	}),

	notion.TypeToDo: text(func(env Env, block notion.Block, text string) string {
		return markdown.Todo(text, block.Checked)
	}),

	// Quote and toggle return their own text only; the renderer folds the
	// rendered children into the blockquote or details wrapper.
	notion.TypeQuote:  text(func(env Env, block notion.Block, text string) string { return text }),
	notion.TypeToggle: text(func(env Env, block notion.Block, text string) string { return text }),

	notion.TypeCallout: func(ctx context.Context, env Env, block notion.Block) (Result, error) {
		return Replace(markdown.Callout(
			markdown.RenderRichText(block.RichText),
			block.Icon,
		)), nil
	},

	notion.TypeCode: func(ctx context.Context, env Env, block notion.Block) (Result, error) {
		return Replace(markdown.CodeBlock(
			notion.PlainText(block.RichText),
			block.Language,
		)), nil
	},

	notion.TypeEquation: func(ctx context.Context, env Env, block notion.Block) (Result, error) {
		return Replace(markdown.Equation(block.Expression)), nil
	},

	notion.TypeDivider:         rule,
	notion.TypeTableOfContents: rule,
	notion.TypeBreadcrumb:      rule,

	notion.TypeImage: image,

	notion.TypeVideo: media("video"),
	notion.TypeFile:  media("file"),
	notion.TypePDF:   media("pdf"),
	notion.TypeAudio: media("audio"),
	notion.TypeEmbed: media("embed"),

	notion.TypeBookmark: media("bookmark"),

	notion.TypeLinkPreview: func(ctx context.Context, env Env, block notion.Block) (Result, error) {
		if block.URL == "" {
			return Skipped(), nil
		}

		return Replace(markdown.Link(block.URL, block.URL)), nil
	},

	notion.TypeLinkToPage: func(ctx context.Context, env Env, block notion.Block) (Result, error) {
		if block.PageID == "" {
			return Skipped(), nil
		}

		return Replace(markdown.Link(block.PageID, block.PageID)), nil
	},

	// The title is the block's whole content here; the renderer decides
	// between inlining children, splitting them out, or a bare link.
	notion.TypeChildPage: func(ctx context.Context, env Env, block notion.Block) (Result, error) {
		return Text(block.Title), nil
	},

	notion.TypeChildDatabase: func(ctx context.Context, env Env, block notion.Block) (Result, error) {
		if !env.Config.ParseChildPages {
			return Skipped(), nil
		}

		title := block.Title
		if title == "" {
			title = "Child Database"
		}

		return Replace(markdown.Heading(3, title)), nil
	},

	notion.TypeTable: table,

	// Rows are consumed by the table transformer.
	notion.TypeTableRow: skip,

	// Containers contribute no content of their own; their children flow
	// through at the same depth.
	notion.TypeSyncedBlock: container,
	notion.TypeColumnList:  container,
	notion.TypeColumn:      container,

	notion.TypeTemplate:    skip,
	notion.TypeUnsupported: skip,
}

// text adapts a plain formatting function over the block's rendered rich
// text spans.
func text(format func(env Env, block notion.Block, text string) string) Func {
	return func(ctx context.Context, env Env, block notion.Block) (Result, error) {
		return Text(format(env, block, markdown.RenderRichText(block.RichText))), nil
	}
}

func rule(ctx context.Context, env Env, block notion.Block) (Result, error) {
	return Replace(markdown.Divider()), nil
}

func skip(ctx context.Context, env Env, block notion.Block) (Result, error) {
	return Skipped(), nil
}

func container(ctx context.Context, env Env, block notion.Block) (Result, error) {
	return Text(""), nil
}

func placeholder(ctx context.Context, env Env, block notion.Block) (Result, error) {
	return Replace(fmt.Sprintf("<!-- unsupported block type: %s -->", block.Type)), nil
}

// media renders caption-or-kind as a link to the block's URL.
func media(kind string) Func {
	return func(ctx context.Context, env Env, block notion.Block) (Result, error) {
		if block.URL == "" {
			return Skipped(), nil
		}

		caption := notion.PlainText(block.Caption)
		if caption == "" {
			caption = kind
		}

		return Replace(markdown.Link(caption, block.URL)), nil
	}
}

// image emits an image reference, inlining the bytes as a data URI when
// the configuration asks for it. A failed download degrades to the plain
// URL with an inline note instead of failing the render.
func image(ctx context.Context, env Env, block notion.Block) (Result, error) {
	if block.URL == "" {
		return Skipped(), nil
	}

	alt := notion.PlainText(block.Caption)
	if alt == "" {
		alt = "image"
	}

	if !env.Config.ConvertImagesToBase64 || env.Binary == nil {
		return Replace(markdown.Image(alt, block.URL)), nil
	}

	data, err := env.Binary.GetBinary(ctx, block.URL)
	if err != nil {
		log.Warningf(
			karma.Describe("block", block.ID).Reason(err),
			"unable to inline image, falling back to URL reference",
		)

		return Replace(
			markdown.Image(alt, block.URL) +
				" <!-- image could not be inlined -->",
		), nil
	}

	return Replace(markdown.ImageBase64(
		alt,
		http.DetectContentType(data),
		data,
	)), nil
}

// table assembles the pipe table from the resolved table_row children.
func table(ctx context.Context, env Env, block notion.Block) (Result, error) {
	rows := make([][]string, 0, len(block.Children))
	for _, row := range block.Children {
		if row.Type != notion.TypeTableRow {
			continue
		}

		cells := make([]string, 0, len(row.Cells))
		for _, cell := range row.Cells {
			cells = append(cells, markdown.RenderRichText(cell))
		}

		rows = append(rows, cells)
	}

	if len(rows) == 0 {
		return Skipped(), nil
	}

	return Replace(markdown.Table(rows, block.HasColumnHeader)), nil
}
