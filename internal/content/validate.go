package content

import (
	"fmt"
	"strings"
)

// Result is the outcome of a successful validation. Content is what must
// be written to the store; AutoCorrected reports whether it differs from
// the caller's input.
type Result struct {
	Content       string
	AutoCorrected bool
}

// MismatchError rejects content whose shape violates the note type's
// policy. The message always names the type's contract and its literal
// accepted examples, so the caller can fix the content without guessing.
type MismatchError struct {
	NoteType NoteType
	Detected Format
	Policy   Policy
}

func (e *MismatchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "content type mismatch for note type %q: detected %s, but %s.",
		e.NoteType, e.Detected, e.Policy.Description)
	if len(e.Policy.Examples) > 0 {
		b.WriteString(" Accepted examples:")
		for _, ex := range e.Policy.Examples {
			fmt.Fprintf(&b, " %q", ex)
		}
	}
	return b.String()
}

// action is one cell of the validation decision table.
type action int

const (
	actAccept  action = iota // pass through byte-exact
	actConvert               // Markdown → HTML, auto-corrected
	actWrap                  // plain text → <p>…</p>, auto-corrected
	actReject                // content shape violates the policy
)

// decisionKey indexes the table by policy class and detected format.
type decisionKey struct {
	class  PolicyClass
	format Format
}

// decisionTable enumerates every (policy class × detected format) pair.
// Empty content never reaches the table when the policy allows empty —
// Validate short-circuits that case first.
var decisionTable = map[decisionKey]action{
	{ClassStructuredMarkup, FormatEmpty}:     actReject,
	{ClassStructuredMarkup, FormatHTML}:      actAccept,
	{ClassStructuredMarkup, FormatMarkdown}:  actConvert,
	{ClassStructuredMarkup, FormatPlainText}: actWrap,

	{ClassPlainTextOnly, FormatEmpty}:     actReject,
	{ClassPlainTextOnly, FormatHTML}:      actReject,
	{ClassPlainTextOnly, FormatMarkdown}:  actAccept,
	{ClassPlainTextOnly, FormatPlainText}: actAccept,

	{ClassFlexible, FormatEmpty}:     actAccept,
	{ClassFlexible, FormatHTML}:      actAccept,
	{ClassFlexible, FormatMarkdown}:  actAccept,
	{ClassFlexible, FormatPlainText}: actAccept,
}

// Validate accepts, auto-corrects, or rejects raw content for the given
// note type. It is pure: no side effects, no store access.
func Validate(raw string, noteType NoteType) (Result, error) {
	policy, err := PolicyFor(noteType)
	if err != nil {
		return Result{}, err
	}

	detected := Detect(raw)
	if policy.AllowsEmpty && detected == FormatEmpty {
		return Result{Content: raw}, nil
	}

	act, ok := decisionTable[decisionKey{policy.Class, detected}]
	if !ok {
		return Result{}, fmt.Errorf("no decision for policy class %d, format %s", policy.Class, detected)
	}

	switch act {
	case actAccept:
		return Result{Content: raw}, nil
	case actConvert, actWrap:
		html, err := ToHTML(raw, detected)
		if err != nil {
			return Result{}, err
		}
		return Result{Content: html, AutoCorrected: true}, nil
	case actReject:
		return Result{}, &MismatchError{NoteType: noteType, Detected: detected, Policy: policy}
	default:
		return Result{}, fmt.Errorf("unhandled validation action %d", act)
	}
}
