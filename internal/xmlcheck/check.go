// Package xmlcheck reports well-formedness errors and lint warnings for XML text.
//
// A document that is not well-formed yields exactly one error. A well-formed
// document is linted instead and may yield warnings. Every problem carries a
// byte offset into the exact text that was checked.
package xmlcheck

import (
	"strings"

	"xmlscope/internal/diag"
	"xmlscope/internal/source"
)

// DefaultMaxLint caps the number of lint warnings reported per document.
const DefaultMaxLint = 50

// Options tune a check run.
type Options struct {
	// MaxLint caps lint warnings. Zero means DefaultMaxLint.
	MaxLint int
}

func (o Options) maxLint() int {
	if o.MaxLint <= 0 {
		return DefaultMaxLint
	}
	return o.MaxLint
}

// Problems checks text with default options.
func Problems(text string) []diag.Problem {
	return Check(text, Options{})
}

// Check returns every problem found in text. Blank text yields none.
// Problems are ordered by offset.
func Check(text string, opts Options) []diag.Problem {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	if f := conform(text); f != nil {
		return []diag.Problem{f.problem(text)}
	}

	bag := diag.NewBag(opts.maxLint())
	lint(text, diag.BagReporter{Bag: bag})
	bag.Sort()
	return bag.Items()
}

// problem converts the failure into a single positioned error, applying the
// position heuristics that point at the actionable site.
func (f *failure) problem(text string) diag.Problem {
	var offset int
	switch f.kind {
	case kindNotWellFormed:
		offset = 0
	case kindMismatch:
		offset = source.LineColToOffset(text, f.line, f.col)
		if alt, ok := relocateMismatch(text, f.startName, f.startLine); ok {
			offset = alt
		}
	case kindExpectGT:
		offset = backUpToTagEnd(text, source.LineColToOffset(text, f.line, f.col))
	default:
		offset = source.LineColToOffset(text, f.line, f.col)
	}

	line, col := source.OffsetToLineCol(text, offset)
	return diag.Problem{
		Severity: diag.SevError,
		Code:     f.code,
		Message:  f.message,
		Offset:   offset,
		Line:     line,
		Column:   col,
	}
}
