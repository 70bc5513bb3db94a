package notion

import (
	"context"
	"encoding/json"
	"strings"
)

type BlockType string

const (
	TypeParagraph        BlockType = "paragraph"
	TypeHeading1         BlockType = "heading_1"
	TypeHeading2         BlockType = "heading_2"
	TypeHeading3         BlockType = "heading_3"
	TypeBulletedListItem BlockType = "bulleted_list_item"
	TypeNumberedListItem BlockType = "numbered_list_item"
	TypeQuote            BlockType = "quote"
	TypeToDo             BlockType = "to_do"
	TypeToggle           BlockType = "toggle"
	TypeCode             BlockType = "code"
	TypeImage            BlockType = "image"
	TypeVideo            BlockType = "video"
	TypeFile             BlockType = "file"
	TypePDF              BlockType = "pdf"
	TypeBookmark         BlockType = "bookmark"
	TypeCallout          BlockType = "callout"
	TypeSyncedBlock      BlockType = "synced_block"
	TypeTable            BlockType = "table"
	TypeTableRow         BlockType = "table_row"
	TypeColumnList       BlockType = "column_list"
	TypeColumn           BlockType = "column"
	TypeLinkPreview      BlockType = "link_preview"
	TypeLinkToPage       BlockType = "link_to_page"
	TypeEquation         BlockType = "equation"
	TypeDivider          BlockType = "divider"
	TypeTableOfContents  BlockType = "table_of_contents"
	TypeChildPage        BlockType = "child_page"
	TypeChildDatabase    BlockType = "child_database"
	TypeBreadcrumb       BlockType = "breadcrumb"
	TypeTemplate         BlockType = "template"
	TypeUnsupported      BlockType = "unsupported"
	TypeAudio            BlockType = "audio"
	TypeEmbed            BlockType = "embed"
)

// Annotations are the style flags a rich text span may carry.
type Annotations struct {
	Bold          bool   `json:"bold"`
	Italic        bool   `json:"italic"`
	Strikethrough bool   `json:"strikethrough"`
	Underline     bool   `json:"underline"`
	Code          bool   `json:"code"`
	Color         string `json:"color,omitempty"`
}

// RichText is one styled run of text. Equation spans carry the expression
// instead of plain text.
type RichText struct {
	Type        string      `json:"type"`
	PlainText   string      `json:"plain_text"`
	Href        string      `json:"href,omitempty"`
	Annotations Annotations `json:"annotations"`
	Expression  string      `json:"expression,omitempty"`
}

// Block is one node of a Notion page tree. The type-specific payload is
// flattened into the fields relevant for that kind; Children is populated
// by the resolver, never by the API client.
type Block struct {
	ID          string
	Type        BlockType
	HasChildren bool

	RichText        []RichText // text-bearing kinds
	Caption         []RichText // media kinds
	Checked         bool       // to_do
	Language        string     // code
	Title           string     // child_page, child_database
	URL             string     // media, bookmark, embed, link_preview
	Expression      string     // equation
	Icon            string     // callout emoji
	Cells           [][]RichText
	HasColumnHeader bool   // table
	PageID          string // link_to_page target
	SyncedFrom      string // synced_block source id, empty for originals

	Children []Block
}

// ChildrenPage is one page of a paginated block-children listing.
type ChildrenPage struct {
	Results    []Block `json:"results"`
	NextCursor string  `json:"next_cursor"`
	HasMore    bool    `json:"has_more"`
}

// Client is the fetch surface the converter depends on. Implementations
// are expected to be safe for concurrent use.
type Client interface {
	// GetBlockChildren lists one page of direct children of the given
	// block. Pass an empty cursor for the first page.
	GetBlockChildren(ctx context.Context, blockID string, cursor string) (*ChildrenPage, error)

	// GetBinary downloads raw bytes, used for inlining images.
	GetBinary(ctx context.Context, url string) ([]byte, error)
}

// PlainText concatenates the unstyled text of the given spans.
func PlainText(spans []RichText) string {
	var sb strings.Builder
	for _, span := range spans {
		sb.WriteString(span.PlainText)
	}
	return sb.String()
}

type fileRef struct {
	URL string `json:"url"`
}

type payload struct {
	RichText        []RichText      `json:"rich_text"`
	Caption         []RichText      `json:"caption"`
	Checked         bool            `json:"checked"`
	Language        string          `json:"language"`
	Title           string          `json:"title"`
	URL             string          `json:"url"`
	External        *fileRef        `json:"external"`
	File            *fileRef        `json:"file"`
	Expression      string          `json:"expression"`
	Cells           [][]RichText    `json:"cells"`
	HasColumnHeader bool            `json:"has_column_header"`
	PageID          string          `json:"page_id"`
	Icon            json.RawMessage `json:"icon"`
	SyncedFrom      *struct {
		BlockID string `json:"block_id"`
	} `json:"synced_from"`
}

type envelope struct {
	ID          string    `json:"id"`
	Type        BlockType `json:"type"`
	HasChildren bool      `json:"has_children"`
}

// UnmarshalJSON decodes the API wire shape, where the kind-specific payload
// lives under a key named after the block type.
func (block *Block) UnmarshalJSON(data []byte) error {
	var head envelope
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	block.ID = head.ID
	block.Type = head.Type
	block.HasChildren = head.HasChildren

	raw, ok := fields[string(head.Type)]
	if !ok {
		return nil
	}

	var body payload
	if err := json.Unmarshal(raw, &body); err != nil {
		return err
	}

	block.RichText = body.RichText
	block.Caption = body.Caption
	block.Checked = body.Checked
	block.Language = body.Language
	block.Title = body.Title
	block.Expression = body.Expression
	block.Cells = body.Cells
	block.HasColumnHeader = body.HasColumnHeader

	block.PageID = body.PageID

	block.URL = body.URL
	if block.URL == "" && body.External != nil {
		block.URL = body.External.URL
	}
	if block.URL == "" && body.File != nil {
		block.URL = body.File.URL
	}

	if body.SyncedFrom != nil {
		block.SyncedFrom = body.SyncedFrom.BlockID
	}

	if len(body.Icon) > 0 {
		var icon struct {
			Emoji string `json:"emoji"`
		}
		if err := json.Unmarshal(body.Icon, &icon); err == nil {
			block.Icon = icon.Emoji
		}
	}

	return nil
}

// UnmarshalJSON also fills in rich text spans of type "equation", which
// carry the expression under a nested key on the wire.
func (span *RichText) UnmarshalJSON(data []byte) error {
	type plain RichText
	var decoded struct {
		plain
		Equation *struct {
			Expression string `json:"expression"`
		} `json:"equation"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}

	*span = RichText(decoded.plain)
	if decoded.Equation != nil {
		span.Expression = decoded.Equation.Expression
	}

	return nil
}
