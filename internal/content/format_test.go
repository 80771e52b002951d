package content

import "testing"

func TestDetect_Empty(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty string", ""},
		{"spaces", "   "},
		{"newlines and tabs", "\n\t \n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.in); got != FormatEmpty {
				t.Errorf("Detect(%q) = %v, want FormatEmpty", tt.in, got)
			}
		})
	}
}

func TestDetect_HTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"paragraph", "<p>Hello</p>"},
		{"heading", "<h1>Title</h1>"},
		{"self-closing", "line one<br/>line two"},
		{"tag with attributes", `<a href="http://example.com">link</a>`},
		{"closing tag only", "text</div>"},
		{"html inside markdown signals", "# Heading\n<p>mixed</p>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.in); got != FormatHTML {
				t.Errorf("Detect(%q) = %v, want FormatHTML", tt.in, got)
			}
		})
	}
}

// A string already containing HTML must never be classified as Markdown,
// even when Markdown signals are also present.
func TestDetect_HTMLWinsOverMarkdown(t *testing.T) {
	in := "**bold** and <em>emphasis</em>"
	if got := Detect(in); got != FormatHTML {
		t.Errorf("Detect(%q) = %v, want FormatHTML", in, got)
	}
}

func TestDetect_Markdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"heading", "# Title"},
		{"deep heading", "###### Small"},
		{"bold", "some **bold** text"},
		{"list", "- first\n- second"},
		{"star list", "* item one"},
		{"link", "see [docs](http://example.com)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.in); got != FormatMarkdown {
				t.Errorf("Detect(%q) = %v, want FormatMarkdown", tt.in, got)
			}
		})
	}
}

func TestDetect_PlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"sentence", "Hello world"},
		{"multiline", "line one\nline two"},
		{"code with comparison", "if a < b:\n    return a"},
		{"hash not at line start", "see issue #42"},
		{"lone asterisks", "a * b * c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.in); got != FormatPlainText {
				t.Errorf("Detect(%q) = %v, want FormatPlainText", tt.in, got)
			}
		})
	}
}

// Detection is total: every input maps to exactly one classification.
func TestDetect_Total(t *testing.T) {
	inputs := []string{"", "x", "<p>x</p>", "# x", "\x00\xff", "<<>>", "< not a tag"}
	for _, in := range inputs {
		got := Detect(in)
		switch got {
		case FormatEmpty, FormatHTML, FormatMarkdown, FormatPlainText:
		default:
			t.Errorf("Detect(%q) returned out-of-range classification %d", in, got)
		}
	}
}
