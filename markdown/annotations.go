package markdown

import (
	"strings"

	"github.com/Emre-C/notion-to-md/notion"
)

// RenderRichText renders a run of styled spans into inline Markdown. It is
// pure: no I/O, no state, identical input yields identical output.
//
// Annotation markers nest in one canonical order regardless of how the
// flags were set: code innermost, then bold, italic, strikethrough, and
// underline outermost. Underline degrades to inline HTML. Color has no
// Markdown equivalent and is dropped without altering the text. A link
// target wraps the fully annotated text as the link label.
func RenderRichText(spans []notion.RichText) string {
	var sb strings.Builder
	for _, span := range spans {
		sb.WriteString(renderSpan(span))
	}

	return sb.String()
}

func renderSpan(span notion.RichText) string {
	if span.Type == "equation" {
		return InlineEquation(span.Expression)
	}

	text := span.PlainText
	if text == "" {
		return ""
	}

	flags := span.Annotations
	if flags.Code {
		text = InlineCode(text)
	}
	if flags.Bold {
		text = Bold(text)
	}
	if flags.Italic {
		text = Italic(text)
	}
	if flags.Strikethrough {
		text = Strikethrough(text)
	}
	if flags.Underline {
		text = Underline(text)
	}

	if span.Href != "" {
		text = Link(text, span.Href)
	}

	return text
}
