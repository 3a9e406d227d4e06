package xmlcheck

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"xmlscope/internal/diag"
	"xmlscope/internal/source"
)

// lint walks a well-formed document and warns about non-whitespace text that
// follows an element child inside the same parent. Reporting stops as soon as
// the reporter refuses a problem.
func lint(text string, r diag.Reporter) {
	d := newDecoder(text)
	// hasChild[i] records whether the i-th open element already had an element child.
	var hasChild []bool

	for {
		start := int(d.InputOffset())
		tok, err := d.Token()
		if err != nil {
			return
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if n := len(hasChild); n > 0 {
				hasChild[n-1] = true
			}
			hasChild = append(hasChild, false)
		case xml.EndElement:
			if n := len(hasChild); n > 0 {
				hasChild = hasChild[:n-1]
			}
		case xml.CharData:
			n := len(hasChild)
			if n == 0 || !hasChild[n-1] {
				continue
			}
			trimmed := strings.TrimSpace(string(t))
			if trimmed == "" {
				continue
			}
			line, col := source.OffsetToLineCol(text, start)
			p := diag.Problem{
				Severity: diag.SevWarning,
				Code:     diag.LintTextBetweenElements,
				Message:  fmt.Sprintf("Unexpected text %q between elements.", runewidth.Truncate(trimmed, 40, "…")),
				Offset:   source.LineColToOffset(text, line, col),
				Line:     line,
				Column:   col,
			}
			if !r.Report(p) {
				return
			}
		}
	}
}
