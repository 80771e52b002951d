// Package content classifies note content, converts it to the shape a
// note type requires, and enforces per-type content contracts.
//
// Detection and conversion are pure: no I/O, no store access. The
// validator is a decision table over (detected format × policy class) —
// every branch is enumerable and tested on its own.
package content

import "regexp"

// Format is the classification of a content string.
type Format int

const (
	FormatEmpty Format = iota
	FormatHTML
	FormatMarkdown
	FormatPlainText
)

// String returns the classification name for logs and error messages.
func (f Format) String() string {
	switch f {
	case FormatEmpty:
		return "empty"
	case FormatHTML:
		return "html"
	case FormatMarkdown:
		return "markdown"
	case FormatPlainText:
		return "plain text"
	default:
		return "unknown"
	}
}

var (
	// A well-formed opening (or self-closing) tag. Comparisons like
	// "a < b" in code do not match: the tag name must start right after
	// the bracket.
	htmlTagPattern = regexp.MustCompile(`</?[a-zA-Z][a-zA-Z0-9-]*(\s[^<>]*)?/?>`)

	markdownPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?m)^#{1,6}\s`),            // heading
		regexp.MustCompile(`\*\*[^*\n]+\*\*`),          // bold
		regexp.MustCompile(`(?m)^\s*[-*]\s+\S`),        // unordered list
		regexp.MustCompile(`\[[^\]\n]+\]\([^)\n]*\)`),  // link
	}

	whitespaceOnly = regexp.MustCompile(`^\s*$`)
)

// Detect classifies a raw content string. It is total: every input maps
// to exactly one Format.
//
// HTML wins over Markdown — a string that already contains markup must
// never be re-wrapped, even if it also carries Markdown signals.
func Detect(raw string) Format {
	switch {
	case whitespaceOnly.MatchString(raw):
		return FormatEmpty
	case htmlTagPattern.MatchString(raw):
		return FormatHTML
	default:
		for _, p := range markdownPatterns {
			if p.MatchString(raw) {
				return FormatMarkdown
			}
		}
		return FormatPlainText
	}
}
