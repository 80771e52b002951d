package content

import "fmt"

// NoteType is a TriliumNext note type. The set is closed: every valid
// type appears in the policy table below, and an absent type is an
// UnknownNoteTypeError, never a silent default.
type NoteType string

const (
	NoteTypeText          NoteType = "text"
	NoteTypeCode          NoteType = "code"
	NoteTypeRender        NoteType = "render"
	NoteTypeFile          NoteType = "file"
	NoteTypeImage         NoteType = "image"
	NoteTypeSearch        NoteType = "search"
	NoteTypeRelationMap   NoteType = "relationMap"
	NoteTypeBook          NoteType = "book"
	NoteTypeNoteMap       NoteType = "noteMap"
	NoteTypeMermaid       NoteType = "mermaid"
	NoteTypeWebView       NoteType = "webView"
	NoteTypeShortcut      NoteType = "shortcut"
	NoteTypeDoc           NoteType = "doc"
	NoteTypeContentWidget NoteType = "contentWidget"
	NoteTypeLauncher      NoteType = "launcher"
)

// PolicyClass groups note types by the shape of content they accept.
type PolicyClass int

const (
	// ClassStructuredMarkup types store HTML; anything convertible is
	// auto-corrected into it.
	ClassStructuredMarkup PolicyClass = iota
	// ClassPlainTextOnly types store literal text (source code,
	// diagram definitions); markup is rejected, nothing is rewritten.
	ClassPlainTextOnly
	// ClassFlexible types accept any content, including empty.
	ClassFlexible
)

// Policy is the immutable per-note-type content contract.
type Policy struct {
	Class                    PolicyClass
	RequiresStructuredMarkup bool
	AllowsEmpty              bool
	RejectsMarkup            bool
	Description              string
	Examples                 []string
}

var structuredPolicy = Policy{
	Class:                    ClassStructuredMarkup,
	RequiresStructuredMarkup: true,
	Description:              "content is stored as HTML; Markdown and plain text are converted automatically",
	Examples: []string{
		"<p>Hello world</p>",
		"<h2>Section</h2><p>Body text with <strong>emphasis</strong>.</p>",
	},
}

var plainTextPolicy = Policy{
	Class:         ClassPlainTextOnly,
	RejectsMarkup: true,
	Description:   "content is stored byte-exact as plain text; HTML markup is not accepted",
	Examples: []string{
		"def hello():\n    print(\"hi\")",
		"graph TD;\n    A-->B;",
	},
}

var flexiblePolicy = Policy{
	Class:       ClassFlexible,
	AllowsEmpty: true,
	Description: "content has no format constraint and may be empty",
	Examples: []string{
		"",
		"any content",
	},
}

// policies is the complete NoteType → Policy table, built once. Exactly
// one policy maps to each note type.
var policies = map[NoteType]Policy{
	NoteTypeText:    structuredPolicy,
	NoteTypeRender:  structuredPolicy,
	NoteTypeWebView: structuredPolicy,

	NoteTypeCode:    plainTextPolicy,
	NoteTypeMermaid: plainTextPolicy,

	NoteTypeBook:          flexiblePolicy,
	NoteTypeSearch:        flexiblePolicy,
	NoteTypeRelationMap:   flexiblePolicy,
	NoteTypeShortcut:      flexiblePolicy,
	NoteTypeDoc:           flexiblePolicy,
	NoteTypeContentWidget: flexiblePolicy,
	NoteTypeLauncher:      flexiblePolicy,
	NoteTypeNoteMap:       flexiblePolicy,
	NoteTypeFile:          flexiblePolicy,
	NoteTypeImage:         flexiblePolicy,
}

// UnknownNoteTypeError marks a note type absent from the policy table.
// It is a fatal caller error, not a fallback.
type UnknownNoteTypeError struct {
	Type string
}

func (e *UnknownNoteTypeError) Error() string {
	return fmt.Sprintf("unknown note type %q: must be one of %s", e.Type, KnownTypes())
}

// ParseNoteType validates a raw string against the closed note type set.
func ParseNoteType(raw string) (NoteType, error) {
	t := NoteType(raw)
	if _, ok := policies[t]; !ok {
		return "", &UnknownNoteTypeError{Type: raw}
	}
	return t, nil
}

// PolicyFor returns the content policy for a note type.
func PolicyFor(t NoteType) (Policy, error) {
	p, ok := policies[t]
	if !ok {
		return Policy{}, &UnknownNoteTypeError{Type: string(t)}
	}
	return p, nil
}

// KnownTypes returns the valid note type names in a stable order, for
// error messages.
func KnownTypes() []string {
	return []string{
		"text", "code", "render", "file", "image", "search",
		"relationMap", "book", "noteMap", "mermaid", "webView",
		"shortcut", "doc", "contentWidget", "launcher",
	}
}

// Requirements describes, mechanically from the policy table, what
// content a note type accepts. Exposed to callers so they can shape
// content before submitting it.
type Requirements struct {
	RequiresHTML bool     `json:"requiresHtml"`
	AllowsEmpty  bool     `json:"allowsEmpty"`
	Description  string   `json:"description"`
	Examples     []string `json:"examples"`
}

// RequirementsFor derives the content requirements for a note type.
func RequirementsFor(t NoteType) (Requirements, error) {
	p, err := PolicyFor(t)
	if err != nil {
		return Requirements{}, err
	}
	return Requirements{
		RequiresHTML: p.RequiresStructuredMarkup,
		AllowsEmpty:  p.AllowsEmpty,
		Description:  p.Description,
		Examples:     p.Examples,
	}, nil
}
