package xmlcheck

import (
	"fmt"
	"strings"
	"testing"

	"xmlscope/internal/diag"
	"xmlscope/internal/source"
)

func assertConsistent(t *testing.T, text string, problems []diag.Problem) {
	t.Helper()
	for _, p := range problems {
		if p.Line < 1 || p.Column < 1 {
			t.Errorf("non-positive position %d:%d in %v", p.Line, p.Column, p)
		}
		line, col := source.OffsetToLineCol(text, p.Offset)
		if line != p.Line || col != p.Column {
			t.Errorf("offset %d maps to %d:%d but problem says %d:%d", p.Offset, line, col, p.Line, p.Column)
		}
	}
}

func singleError(t *testing.T, text string) diag.Problem {
	t.Helper()
	problems := Problems(text)
	assertConsistent(t, text, problems)
	if len(problems) != 1 {
		t.Fatalf("expected exactly one problem, got %d: %v", len(problems), problems)
	}
	if problems[0].Severity != diag.SevError {
		t.Fatalf("expected an error, got %v", problems[0])
	}
	return problems[0]
}

func TestBlankTextHasNoProblems(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t\r\n"} {
		if got := Problems(text); len(got) != 0 {
			t.Errorf("Problems(%q) = %v, want none", text, got)
		}
	}
}

func TestWellFormedDocumentHasNoProblems(t *testing.T) {
	text := "<?xml version=\"1.0\" encoding=\"utf-8\"?>\n<root>\n  <a x=\"1\">one</a>\n  <b/>\n  <!-- note -->\n  <c><![CDATA[<raw>]]></c>\n</root>\n"
	if got := Problems(text); len(got) != 0 {
		t.Fatalf("expected no problems, got %v", got)
	}
}

func TestTextBetweenElementsWarns(t *testing.T) {
	text := "<a><b>x</b>oops<c>y</c></a>"
	problems := Problems(text)
	assertConsistent(t, text, problems)
	if len(problems) != 1 {
		t.Fatalf("expected one warning, got %v", problems)
	}
	p := problems[0]
	if p.Severity != diag.SevWarning || p.Code != diag.LintTextBetweenElements {
		t.Fatalf("unexpected problem %v", p)
	}
	if want := strings.Index(text, "oops"); p.Offset != want {
		t.Errorf("offset = %d, want %d", p.Offset, want)
	}
	if !strings.Contains(p.Message, "oops") {
		t.Errorf("message %q does not quote the text", p.Message)
	}
}

func TestLeadingTextIsNotLinted(t *testing.T) {
	if got := Problems("<r>lead<a/></r>"); len(got) != 0 {
		t.Fatalf("expected no problems, got %v", got)
	}
}

func TestLintIsCapped(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("<r>")
	for i := 0; i < 60; i++ {
		sb.WriteString("<e/>t")
	}
	sb.WriteString("</r>")
	text := sb.String()

	got := Problems(text)
	if len(got) != DefaultMaxLint {
		t.Fatalf("expected %d warnings, got %d", DefaultMaxLint, len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].Offset >= got[i].Offset {
			t.Fatalf("warnings not ordered by offset at %d", i)
		}
	}

	if got := Check(text, Options{MaxLint: 3}); len(got) != 3 {
		t.Fatalf("expected 3 warnings with MaxLint=3, got %d", len(got))
	}
}

func TestUnclosedTagIsOneError(t *testing.T) {
	p := singleError(t, "<root><item>")
	if p.Code != diag.XMLUnexpectedEOF {
		t.Errorf("code = %s, want %s", p.Code.ID(), diag.XMLUnexpectedEOF.ID())
	}
	if !strings.Contains(p.Message, "item, root") {
		t.Errorf("message %q should list unclosed elements innermost first", p.Message)
	}
}

func TestMismatchedEndTag(t *testing.T) {
	text := "<a>\n<b></c>\n</a>"
	p := singleError(t, text)
	if p.Code != diag.XMLMismatchedTag {
		t.Fatalf("code = %s", p.Code.ID())
	}
	if want := strings.Index(text, "</c>"); p.Offset != want {
		t.Errorf("offset = %d, want %d", p.Offset, want)
	}
	if !strings.Contains(p.Message, "'b' start tag on line 2") {
		t.Errorf("unexpected message %q", p.Message)
	}
}

func TestMismatchRelocatesToSecondOpening(t *testing.T) {
	text := "<r><i>1<i>2</i></r>"
	p := singleError(t, text)
	if p.Code != diag.XMLMismatchedTag {
		t.Fatalf("code = %s", p.Code.ID())
	}
	if p.Offset != 7 {
		t.Errorf("offset = %d, want 7 (second <i)", p.Offset)
	}
}

func TestRelocationRespectsNameBoundary(t *testing.T) {
	if _, ok := relocateMismatch("<Items><Item>", "Item", 1); ok {
		t.Fatal("<Items must not count as an opening of Item")
	}
	off, ok := relocateMismatch("x\n<Items><Item><Item>", "Item", 2)
	if !ok || off != 15 {
		t.Fatalf("relocateMismatch = %d, %v; want 15, true", off, ok)
	}
}

func TestUnterminatedTagBacksUpToTagEnd(t *testing.T) {
	text := "<root>\n  <a\n  <b/>\n</root>"
	p := singleError(t, text)
	if p.Code != diag.XMLUnterminatedTag {
		t.Fatalf("code = %s, message %q", p.Code.ID(), p.Message)
	}
	if want := strings.Index(text, "<a") + 1; p.Offset != want {
		t.Errorf("offset = %d, want %d", p.Offset, want)
	}
	if p.Line != 2 || p.Column != 4 {
		t.Errorf("position = %d:%d, want 2:4", p.Line, p.Column)
	}
	if !strings.Contains(p.Message, "The expected token is '>'") {
		t.Errorf("unexpected message %q", p.Message)
	}
}

func TestStructuralErrors(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		code   diag.Code
		offset int
	}{
		{"dtd", "<!DOCTYPE r [<!ENTITY x \"y\">]>\n<r/>", diag.XMLDTDProhibited, 0},
		{"multiple roots", "<a/><b/>", diag.XMLMultipleRoots, 4},
		{"root level data", "<r/>\njunk", diag.XMLRootLevelData, 5},
		{"missing root", "<!-- only a comment -->", diag.XMLMissingRoot, 23},
		{"stray end tag", "<r/></x>", diag.XMLMismatchedTag, 4},
		{"unknown encoding", "<?xml version=\"1.0\" encoding=\"no-such-charset\"?><r/>", diag.XMLUnsupportedReader, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := singleError(t, tt.text)
			if p.Code != tt.code {
				t.Fatalf("code = %s, want %s (%s)", p.Code.ID(), tt.code.ID(), p.Message)
			}
			if p.Offset != tt.offset {
				t.Errorf("offset = %d, want %d", p.Offset, tt.offset)
			}
		})
	}
}

func TestDeclaredLegacyEncodingIsAccepted(t *testing.T) {
	text := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><r/>"
	if got := Problems(text); len(got) != 0 {
		t.Fatalf("expected no problems, got %v", got)
	}
}

func TestMalformedInputsAlwaysPositioned(t *testing.T) {
	inputs := []string{
		"<",
		"<a",
		"<a b=>",
		"<a>&bogus;</a>",
		"<a>\r\n<b attr='x></a>",
		"</a>",
		"<a></a><",
		"<a>\xff</a>",
	}
	for i, text := range inputs {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			singleError(t, text)
		})
	}
}
