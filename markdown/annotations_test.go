package markdown

import (
	"testing"

	"github.com/Emre-C/notion-to-md/notion"
	"github.com/stretchr/testify/assert"
)

func TestRenderRichText(t *testing.T) {
	tests := map[string]struct {
		spans []notion.RichText
		want  string
	}{
		"plain": {
			spans: []notion.RichText{{PlainText: "hello"}},
			want:  "hello",
		},
		"concatenates spans in order": {
			spans: []notion.RichText{
				{PlainText: "Hello, "},
				{PlainText: "world", Annotations: notion.Annotations{Bold: true}},
			},
			want: "Hello, **world**",
		},
		"bold italic nests canonically": {
			spans: []notion.RichText{
				{PlainText: "x", Annotations: notion.Annotations{Bold: true, Italic: true}},
			},
			want: "***x***",
		},
		"code stays innermost": {
			spans: []notion.RichText{
				{PlainText: "ls", Annotations: notion.Annotations{Code: true, Bold: true}},
			},
			want: "**`ls`**",
		},
		"underline degrades to html": {
			spans: []notion.RichText{
				{PlainText: "u", Annotations: notion.Annotations{Underline: true}},
			},
			want: "<u>u</u>",
		},
		"everything at once": {
			spans: []notion.RichText{
				{PlainText: "x", Annotations: notion.Annotations{
					Bold:          true,
					Italic:        true,
					Strikethrough: true,
					Underline:     true,
					Code:          true,
				}},
			},
			want: "<u>~~***`x`***~~</u>",
		},
		"link wraps the annotated text": {
			spans: []notion.RichText{
				{
					PlainText:   "docs",
					Href:        "https://example.com",
					Annotations: notion.Annotations{Bold: true},
				},
			},
			want: "[**docs**](https://example.com)",
		},
		"color is dropped without altering text": {
			spans: []notion.RichText{
				{PlainText: "red", Annotations: notion.Annotations{Color: "red"}},
			},
			want: "red",
		},
		"inline equation": {
			spans: []notion.RichText{
				{Type: "equation", Expression: "a^2 + b^2"},
			},
			want: "$a^2 + b^2$",
		},
		"empty spans render nothing": {
			spans: []notion.RichText{
				{PlainText: ""},
				{PlainText: "", Annotations: notion.Annotations{Bold: true}},
			},
			want: "",
		},
		"no spans": {
			spans: nil,
			want:  "",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenderRichText(tt.spans))

			// Rendering is pure: a second pass over the same spans must
			// yield identical output.
			assert.Equal(t, tt.want, RenderRichText(tt.spans))
		})
	}
}
