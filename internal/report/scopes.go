package report

import (
	"fmt"
	"io"
	"strings"

	"xmlscope/internal/scope"
)

// ScopeResult is the scope ranges of one file.
type ScopeResult struct {
	Path   string
	Kind   scope.Kind
	Ranges []scope.Range
	Err    error
}

// Scopes prints one indented line per range.
func Scopes(w io.Writer, files []ScopeResult, mode PathMode, baseDir string) {
	for _, f := range files {
		path := formatPath(f.Path, mode, baseDir)
		if f.Err != nil {
			fmt.Fprintf(w, "%s: %v\n", path, f.Err)
			continue
		}
		fmt.Fprintf(w, "%s (%s, %d ranges)\n", path, f.Kind, len(f.Ranges))
		for _, r := range f.Ranges {
			name := r.Name
			if name == "" {
				name = "?"
			}
			fmt.Fprintf(w, "  %s%d-%d %s\n", strings.Repeat("  ", r.Depth), r.StartLine, r.EndLine, name)
		}
	}
}

type scopeFileJSON struct {
	Path    string        `json:"path"`
	Scanner string        `json:"scanner,omitempty"`
	Error   string        `json:"error,omitempty"`
	Ranges  []scope.Range `json:"ranges"`
}

// ScopesJSON writes ranges as JSON.
func ScopesJSON(w io.Writer, files []ScopeResult, mode PathMode, baseDir string) error {
	out := make([]scopeFileJSON, 0, len(files))
	for _, f := range files {
		fj := scopeFileJSON{Path: formatPath(f.Path, mode, baseDir), Ranges: f.Ranges}
		if f.Err != nil {
			fj.Error = f.Err.Error()
		} else {
			fj.Scanner = f.Kind.String()
		}
		if fj.Ranges == nil {
			fj.Ranges = []scope.Range{}
		}
		out = append(out, fj)
	}
	return encodeJSON(w, map[string]any{"files": out})
}
