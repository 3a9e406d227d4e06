package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"xmlscope/internal/diag"
	"xmlscope/internal/source"
)

// FileResult is the check outcome for one file.
type FileResult struct {
	Path     string
	Text     string // the checked text; used for context lines
	Problems []diag.Problem
	Cached   bool
	Err      error // set when the file could not be read
}

const tabWidth = 4

// Pretty prints each problem as
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//
// followed by the offending line, opts.Context lines before it and a caret
// under the column. Unreadable files get a single IO line.
func Pretty(w io.Writer, files []FileResult, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for _, f := range files {
		path := formatPath(f.Path, opts.PathMode, opts.BaseDir)
		if f.Err != nil {
			fmt.Fprintf(w, "%s: %s %s: %s\n", pal.path.Sprint(path), pal.err.Sprint("ERROR"),
				pal.code.Sprint(diag.IOLoadFileError.ID()), f.Err)
			continue
		}
		if len(f.Problems) == 0 {
			continue
		}
		file := source.NewFile(f.Path, f.Text, 0)
		for _, p := range f.Problems {
			fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n", pal.path.Sprint(path), p.Line, p.Column,
				severityColor(pal, p.Severity).Sprint(p.Severity.String()), pal.code.Sprint(p.Code.ID()), p.Message)
			writeContext(w, file, p, opts.Context, pal)
		}
	}
}

func severityColor(pal palette, sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return pal.err
	case diag.SevWarning:
		return pal.warn
	default:
		return pal.info
	}
}

func writeContext(w io.Writer, file *source.File, p diag.Problem, context int, pal palette) {
	if file.Content == "" || p.Line < 1 {
		return
	}
	first := max(1, p.Line-max(context, 0))
	gutter := len(fmt.Sprint(p.Line))
	for n := first; n <= p.Line; n++ {
		line := file.GetLine(uint32(n))
		fmt.Fprintf(w, "%s %s\n", pal.gutter.Sprintf("%*d |", gutter, n), expandTabs(line))
	}
	line := file.GetLine(uint32(p.Line))
	prefix := line[:min(max(p.Column-1, 0), len(line))]
	pad := runewidth.StringWidth(expandTabs(prefix))
	fmt.Fprintf(w, "%s %s%s\n", pal.gutter.Sprintf("%*s |", gutter, ""), strings.Repeat(" ", pad), pal.caret.Sprint("^"))
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

// Summary counts errors and warnings across files.
type Summary struct {
	Files    int `json:"files"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Failed   int `json:"unreadable"`
}

// Summarize tallies files.
func Summarize(files []FileResult) Summary {
	s := Summary{Files: len(files)}
	for _, f := range files {
		if f.Err != nil {
			s.Failed++
			continue
		}
		for _, p := range f.Problems {
			switch {
			case p.IsError():
				s.Errors++
			case p.Severity == diag.SevWarning:
				s.Warnings++
			}
		}
	}
	return s
}

func (s Summary) String() string {
	msg := fmt.Sprintf("%d file(s) checked: %d error(s), %d warning(s)", s.Files, s.Errors, s.Warnings)
	if s.Failed > 0 {
		msg += fmt.Sprintf(", %d unreadable", s.Failed)
	}
	return msg
}

// Short writes the stable one-line-per-problem form.
func Short(w io.Writer, files []FileResult, mode PathMode, baseDir string) {
	sets := make([]diag.FileProblems, 0, len(files))
	for _, f := range files {
		problems := f.Problems
		if f.Err != nil {
			problems = []diag.Problem{{
				Severity: diag.SevError,
				Code:     diag.IOLoadFileError,
				Message:  f.Err.Error(),
				Line:     1,
				Column:   1,
			}}
		}
		sets = append(sets, diag.FileProblems{Path: formatPath(f.Path, mode, baseDir), Problems: problems})
	}
	if out := diag.FormatShort(sets); out != "" {
		fmt.Fprintln(w, out)
	}
}
