package diag

import "testing"

func TestBagRespectsLimit(t *testing.T) {
	bag := NewBag(2)
	r := BagReporter{Bag: bag}
	for i := range 5 {
		added := r.Report(Problem{Severity: SevWarning, Code: LintTextBetweenElements, Offset: i})
		if want := i < 2; added != want {
			t.Fatalf("Report #%d returned %v, want %v", i, added, want)
		}
	}
	if bag.Len() != 2 || !bag.Full() {
		t.Fatalf("expected full bag of 2, got len=%d full=%v", bag.Len(), bag.Full())
	}
	if bag.HasErrors() {
		t.Error("warnings must not count as errors")
	}
	if !bag.HasWarnings() {
		t.Error("expected HasWarnings")
	}
}

func TestBagSortAndMerge(t *testing.T) {
	a := NewBag(4)
	a.Add(Problem{Severity: SevWarning, Code: LintTextBetweenElements, Offset: 10})
	b := NewBag(1)
	b.Add(Problem{Severity: SevError, Code: XMLMismatchedTag, Offset: 10})
	b.Add(Problem{Severity: SevError, Code: XMLMalformed, Offset: 1}) // dropped

	a.Merge(b)
	a.Sort()
	items := a.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Severity != SevError {
		t.Errorf("errors must sort before warnings at the same offset, got %v", items[0])
	}

	a.Filter(func(p Problem) bool { return p.Severity == SevWarning })
	if a.Len() != 1 || a.HasErrors() {
		t.Errorf("filter kept %v", a.Items())
	}
}

func TestFormatShort(t *testing.T) {
	files := []FileProblems{
		{Path: "b.xml", Problems: []Problem{{Severity: SevWarning, Code: LintTextBetweenElements, Message: "stray", Line: 2, Column: 1}}},
		{Path: "a.xml", Problems: []Problem{{Severity: SevError, Code: XMLUnexpectedEOF, Message: "first line\nsecond", Line: 3, Column: 4}}},
	}

	expected := "error XML1004 a.xml:3:4 first line second\n" +
		"warning LNT2001 b.xml:2:1 stray"
	if got := FormatShort(files); got != expected {
		t.Fatalf("unexpected short output:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
	if FormatShort(nil) != "" {
		t.Error("expected empty output for no problems")
	}
}

func TestCodeIDs(t *testing.T) {
	tests := map[Code]string{
		XMLMismatchedTag:        "XML1002",
		LintTextBetweenElements: "LNT2001",
		IOLoadFileError:         "IO4001",
		UnknownCode:             "E0000",
	}
	for code, want := range tests {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", code, got, want)
		}
	}
}
