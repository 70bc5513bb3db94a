package markdown

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Inline helpers. All of them are pure string assembly; escaping the text
// content is intentionally left to the caller, matching the source system
// which exports text verbatim.

func Bold(text string) string {
	return "**" + text + "**"
}

func Italic(text string) string {
	return "*" + text + "*"
}

func Strikethrough(text string) string {
	return "~~" + text + "~~"
}

// Underline has no native Markdown marker and degrades to inline HTML.
func Underline(text string) string {
	return "<u>" + text + "</u>"
}

func InlineCode(text string) string {
	return "`" + text + "`"
}

func InlineEquation(expression string) string {
	return "$" + expression + "$"
}

func Link(text string, href string) string {
	return "[" + text + "](" + href + ")"
}

func Image(alt string, url string) string {
	return "![" + alt + "](" + url + ")"
}

// ImageBase64 emits a data-URI image reference for the given raw bytes.
func ImageBase64(alt string, contentType string, data []byte) string {
	encoded := base64.StdEncoding.EncodeToString(data)
	return fmt.Sprintf("![%s](data:%s;base64,%s)", alt, contentType, encoded)
}

func Heading(level int, text string) string {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}

	return strings.Repeat("#", level) + " " + text
}

func CodeBlock(code string, language string) string {
	return "```" + language + "\n" + code + "\n```"
}

func Equation(expression string) string {
	return "$$\n" + expression + "\n$$"
}

func Divider() string {
	return "---"
}

func Todo(text string, checked bool) string {
	if checked {
		return "- [x] " + text
	}

	return "- [ ] " + text
}

func Bullet(text string) string {
	return "- " + text
}

func NumberedItem(number int, text string) string {
	return fmt.Sprintf("%d. %s", number, text)
}

// Quote prefixes every line of the given content with a blockquote marker,
// chaining markers for already-quoted lines.
func Quote(content string) string {
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")

	quoted := make([]string, 0, len(lines))
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, ">"):
			quoted = append(quoted, ">"+line)
		case line == "":
			quoted = append(quoted, ">")
		default:
			quoted = append(quoted, "> "+line)
		}
	}

	return strings.Join(quoted, "\n")
}

// Toggle renders a collapsible section. Markdown has no native marker for
// it, so details/summary HTML is used.
func Toggle(summary string, content string) string {
	content = strings.TrimRight(content, "\n")
	if content == "" {
		return fmt.Sprintf("<details>\n<summary>%s</summary>\n</details>", summary)
	}

	return fmt.Sprintf(
		"<details>\n<summary>%s</summary>\n\n%s\n</details>",
		summary,
		content,
	)
}

func Callout(text string, emoji string) string {
	if emoji != "" {
		return Quote(emoji + " " + text)
	}

	return Quote(text)
}

// Table renders rows as a pipe table. The first row becomes the header;
// when the source table carries none, an empty header row is emitted so
// the table stays valid Markdown.
func Table(rows [][]string, hasHeader bool) string {
	if len(rows) == 0 {
		return ""
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	pad := func(row []string) []string {
		for len(row) < width {
			row = append(row, "")
		}
		return row
	}

	var sb strings.Builder

	writeRow := func(row []string) {
		sb.WriteString("| ")
		sb.WriteString(strings.Join(pad(row), " | "))
		sb.WriteString(" |\n")
	}

	if hasHeader {
		writeRow(rows[0])
		rows = rows[1:]
	} else {
		writeRow(make([]string, width))
	}

	separator := make([]string, width)
	for i := range separator {
		separator[i] = "---"
	}
	writeRow(separator)

	for _, row := range rows {
		writeRow(row)
	}

	return strings.TrimRight(sb.String(), "\n")
}

// Indent prefixes every line of the given content with the indentation
// unit for one nesting level, repeated depth times.
func Indent(content string, depth int) string {
	if depth <= 0 || content == "" {
		return content
	}

	unit := strings.Repeat("\t", depth)

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if line == "" {
			continue
		}
		lines[i] = unit + line
	}

	return strings.Join(lines, "\n")
}
