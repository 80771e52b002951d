package content

import (
	"errors"
	"testing"
)

func TestPolicyFor_EveryKnownType(t *testing.T) {
	for _, name := range KnownTypes() {
		nt, err := ParseNoteType(name)
		if err != nil {
			t.Fatalf("ParseNoteType(%q): %v", name, err)
		}
		if _, err := PolicyFor(nt); err != nil {
			t.Errorf("PolicyFor(%q): %v", name, err)
		}
	}
}

func TestPolicyFor_Classes(t *testing.T) {
	tests := []struct {
		noteType NoteType
		class    PolicyClass
	}{
		{NoteTypeText, ClassStructuredMarkup},
		{NoteTypeRender, ClassStructuredMarkup},
		{NoteTypeWebView, ClassStructuredMarkup},
		{NoteTypeCode, ClassPlainTextOnly},
		{NoteTypeMermaid, ClassPlainTextOnly},
		{NoteTypeBook, ClassFlexible},
		{NoteTypeSearch, ClassFlexible},
		{NoteTypeRelationMap, ClassFlexible},
		{NoteTypeShortcut, ClassFlexible},
		{NoteTypeDoc, ClassFlexible},
		{NoteTypeContentWidget, ClassFlexible},
		{NoteTypeLauncher, ClassFlexible},
		{NoteTypeNoteMap, ClassFlexible},
		{NoteTypeFile, ClassFlexible},
		{NoteTypeImage, ClassFlexible},
	}
	if len(tests) != len(KnownTypes()) {
		t.Fatalf("test covers %d types, policy table has %d", len(tests), len(KnownTypes()))
	}
	for _, tt := range tests {
		p, err := PolicyFor(tt.noteType)
		if err != nil {
			t.Fatalf("PolicyFor(%q): %v", tt.noteType, err)
		}
		if p.Class != tt.class {
			t.Errorf("PolicyFor(%q).Class = %d, want %d", tt.noteType, p.Class, tt.class)
		}
	}
}

func TestPolicyFor_FlagsConsistent(t *testing.T) {
	for _, name := range KnownTypes() {
		p, err := PolicyFor(NoteType(name))
		if err != nil {
			t.Fatal(err)
		}
		switch p.Class {
		case ClassStructuredMarkup:
			if !p.RequiresStructuredMarkup || p.AllowsEmpty || p.RejectsMarkup {
				t.Errorf("%s: structured policy flags wrong: %+v", name, p)
			}
		case ClassPlainTextOnly:
			if p.RequiresStructuredMarkup || p.AllowsEmpty || !p.RejectsMarkup {
				t.Errorf("%s: plain-text policy flags wrong: %+v", name, p)
			}
		case ClassFlexible:
			if p.RequiresStructuredMarkup || !p.AllowsEmpty || p.RejectsMarkup {
				t.Errorf("%s: flexible policy flags wrong: %+v", name, p)
			}
		}
	}
}

func TestParseNoteType_Unknown(t *testing.T) {
	for _, bad := range []string{"", "TEXT", "canvas", "markdown"} {
		_, err := ParseNoteType(bad)
		var unknownErr *UnknownNoteTypeError
		if !errors.As(err, &unknownErr) {
			t.Errorf("ParseNoteType(%q) err = %v, want UnknownNoteTypeError", bad, err)
		}
	}
}

func TestRequirementsFor_DerivedFromPolicy(t *testing.T) {
	reqs, err := RequirementsFor(NoteTypeText)
	if err != nil {
		t.Fatal(err)
	}
	if !reqs.RequiresHTML {
		t.Error("text requirements should require HTML")
	}
	if reqs.AllowsEmpty {
		t.Error("text requirements should not allow empty")
	}
	if reqs.Description == "" || len(reqs.Examples) == 0 {
		t.Errorf("requirements missing description or examples: %+v", reqs)
	}

	codeReqs, err := RequirementsFor(NoteTypeCode)
	if err != nil {
		t.Fatal(err)
	}
	if codeReqs.RequiresHTML {
		t.Error("code requirements should not require HTML")
	}
}

func TestRequirementsFor_Unknown(t *testing.T) {
	_, err := RequirementsFor(NoteType("bogus"))
	var unknownErr *UnknownNoteTypeError
	if !errors.As(err, &unknownErr) {
		t.Errorf("err = %v, want UnknownNoteTypeError", err)
	}
}
