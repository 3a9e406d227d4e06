package diag

import (
	"fmt"
	"sort"
	"strings"
)

// FileProblems pairs a path with the problems reported for it.
type FileProblems struct {
	Path     string
	Problems []Problem
}

// FormatShort renders problems into a stable, single-line-per-entry form:
//
//	<severity> <code> <path>:<line>:<col> <message>
//
// Entries are sorted by path, position, severity and code. Multi-line
// messages are folded onto one line.
func FormatShort(files []FileProblems) string {
	type row struct {
		path string
		p    Problem
	}
	var rows []row
	for _, f := range files {
		for _, p := range f.Problems {
			rows = append(rows, row{path: f.Path, p: p})
		}
	}
	if len(rows) == 0 {
		return ""
	}

	sort.SliceStable(rows, func(i, j int) bool {
		ri, rj := rows[i], rows[j]
		if ri.path != rj.path {
			return ri.path < rj.path
		}
		if ri.p.Line != rj.p.Line {
			return ri.p.Line < rj.p.Line
		}
		if ri.p.Column != rj.p.Column {
			return ri.p.Column < rj.p.Column
		}
		if ri.p.Severity != rj.p.Severity {
			return ri.p.Severity > rj.p.Severity
		}
		return ri.p.Code < rj.p.Code
	})

	var b strings.Builder
	for i, r := range rows {
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s", severityLabel(r.p.Severity), r.p.Code.ID(), r.path, r.p.Line, r.p.Column, sanitizeMessage(r.p.Message))
		if i < len(rows)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
