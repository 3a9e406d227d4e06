// Package testkit holds invariant checks shared by package tests and fuzz
// harnesses.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"xmlscope/internal/diag"
	"xmlscope/internal/scope"
	"xmlscope/internal/source"
)

// CheckProblems verifies the positional contract of a problem list:
//  1. every offset lies within [0, len(text)]
//  2. Line and Column describe the same position as Offset
//  3. a well-formedness error is the only problem reported
func CheckProblems(text string, problems []diag.Problem) error {
	file := source.NewFile("check.xml", text, 0)
	for i, p := range problems {
		if p.Offset < 0 || p.Offset > len(text) {
			return fmt.Errorf("problem %d (%s): offset %d outside [0, %d]", i, p.Code.ID(), p.Offset, len(text))
		}
		pos := file.Position(p.Offset)
		line, err := safecast.Conv[int](pos.Line)
		if err != nil {
			return fmt.Errorf("problem %d: line overflow: %w", i, err)
		}
		col, err := safecast.Conv[int](pos.Col)
		if err != nil {
			return fmt.Errorf("problem %d: column overflow: %w", i, err)
		}
		if p.Line != line || p.Column != col {
			return fmt.Errorf("problem %d (%s): offset %d is %d:%d, reported %d:%d", i, p.Code.ID(), p.Offset, line, col, p.Line, p.Column)
		}
		if p.IsError() && len(problems) != 1 {
			return fmt.Errorf("error %s reported alongside %d other problems", p.Code.ID(), len(problems)-1)
		}
	}
	return nil
}

// CheckRanges verifies a scope range list against the text it came from:
//  1. lines are within the text (\r, \r\n and \n end lines) and StartLine <= EndLine
//  2. ranges are ordered by start line, then depth
//  3. a range at depth d > 0 lies inside an earlier range at depth d-1
func CheckRanges(text string, ranges []scope.Range) error {
	lines := scope.LineCount(text)
	for i, r := range ranges {
		if r.StartLine < 1 || r.EndLine < r.StartLine || r.EndLine > lines {
			return fmt.Errorf("range %d %q: bad lines %d-%d (text has %d)", i, r.Name, r.StartLine, r.EndLine, lines)
		}
		if r.Depth < 0 {
			return fmt.Errorf("range %d %q: negative depth", i, r.Name)
		}
		if i > 0 {
			prev := ranges[i-1]
			if prev.StartLine > r.StartLine || (prev.StartLine == r.StartLine && prev.Depth > r.Depth) {
				return fmt.Errorf("range %d %q is out of order", i, r.Name)
			}
		}
		if r.Depth == 0 {
			continue
		}
		found := false
		for j := i - 1; j >= 0; j-- {
			p := ranges[j]
			if p.Depth == r.Depth-1 && p.StartLine <= r.StartLine && p.EndLine >= r.EndLine {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("range %d %q at depth %d has no enclosing parent", i, r.Name, r.Depth)
		}
	}
	return nil
}
