package content

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
)

var plainEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

// ToHTML converts content of the given detected format to HTML.
//
// HTML input is the identity: never re-escaped, never re-wrapped, so
// ToHTML is a fixed point on its own output. Markdown goes through
// goldmark (CommonMark). Plain text is escaped and wrapped in a single
// paragraph, with line breaks kept as explicit <br> markers.
func ToHTML(raw string, format Format) (string, error) {
	switch format {
	case FormatEmpty, FormatHTML:
		return raw, nil
	case FormatMarkdown:
		var buf strings.Builder
		if err := goldmark.Convert([]byte(raw), &buf); err != nil {
			return "", fmt.Errorf("converting markdown: %w", err)
		}
		return strings.TrimSpace(buf.String()), nil
	case FormatPlainText:
		escaped := plainEscaper.Replace(strings.ReplaceAll(raw, "\r\n", "\n"))
		return "<p>" + strings.ReplaceAll(escaped, "\n", "<br>") + "</p>", nil
	default:
		return "", fmt.Errorf("unhandled content format %d", format)
	}
}
