package testkit

import (
	"strings"
	"testing"

	"xmlscope/internal/diag"
	"xmlscope/internal/scope"
	"xmlscope/internal/xmlcheck"
)

func TestCheckProblemsAcceptsEngineOutput(t *testing.T) {
	inputs := []string{
		"",
		"<a>",
		"<r><a/>x<b/>y</r>",
		"<root>\r\n  <a>\r\n</root>",
		"<!DOCTYPE r><r/>",
		"<r/><r/>",
	}
	for _, in := range inputs {
		if err := CheckProblems(in, xmlcheck.Problems(in)); err != nil {
			t.Errorf("%q: %v", in, err)
		}
	}
}

func TestCheckProblemsRejects(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		problems []diag.Problem
		want     string
	}{
		{"offset past end", "<a/>", []diag.Problem{{Offset: 9, Line: 1, Column: 10}}, "outside"},
		{"line mismatch", "<a>\n</a>", []diag.Problem{{Offset: 4, Line: 1, Column: 5}}, "reported 1:5"},
		{"error with company", "<a/>", []diag.Problem{
			{Severity: diag.SevError, Offset: 0, Line: 1, Column: 1},
			{Severity: diag.SevWarning, Offset: 0, Line: 1, Column: 1},
		}, "alongside"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckProblems(tt.text, tt.problems)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("got %v, want error containing %q", err, tt.want)
			}
		})
	}
}

func TestCheckRanges(t *testing.T) {
	text := "<root>\n  <a>\n    <b/>\n  </a>\n</root>"
	ranges, _ := scope.Resolve(text)
	if err := CheckRanges(text, ranges); err != nil {
		t.Errorf("resolved ranges: %v", err)
	}

	crText := "<r>\r\n<s>\r</s>\r\n</r>"
	for _, kind := range []string{"tolerant", "conformant"} {
		var ranges []scope.Range
		var err error
		if kind == "tolerant" {
			ranges, err = scope.Tolerant{}.Scopes(crText)
		} else {
			ranges, err = scope.Conformant{}.Scopes(crText)
		}
		if err != nil {
			t.Fatalf("%s: %v", kind, err)
		}
		if err := CheckRanges(crText, ranges); err != nil {
			t.Errorf("%s ranges over carriage returns: %v", kind, err)
		}
	}

	bad := []struct {
		name   string
		ranges []scope.Range
	}{
		{"inverted", []scope.Range{{StartLine: 3, EndLine: 2}}},
		{"past end", []scope.Range{{StartLine: 1, EndLine: 9}}},
		{"orphan", []scope.Range{{StartLine: 1, EndLine: 1, Depth: 1}}},
		{"unordered", []scope.Range{{StartLine: 2, EndLine: 2}, {StartLine: 1, EndLine: 1}}},
	}
	for _, tt := range bad {
		t.Run(tt.name, func(t *testing.T) {
			if err := CheckRanges(text, tt.ranges); err == nil {
				t.Error("expected error")
			}
		})
	}
}
