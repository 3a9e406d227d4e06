package report

import (
	"encoding/json"
	"io"

	"xmlscope/internal/diag"
)

// FileJSON is one file in the problems document.
type FileJSON struct {
	Path     string         `json:"path"`
	Cached   bool           `json:"cached,omitempty"`
	Error    string         `json:"error,omitempty"`
	Problems []diag.Problem `json:"problems"`
}

// ProblemsOutput is the root of the JSON check output.
type ProblemsOutput struct {
	Files   []FileJSON `json:"files"`
	Count   int        `json:"count"`
	Summary Summary    `json:"summary"`
}

// BuildProblemsOutput assembles the JSON document without serializing it.
// opts.Max caps the number of problems across all files.
func BuildProblemsOutput(files []FileResult, opts JSONOpts) ProblemsOutput {
	out := ProblemsOutput{
		Files:   make([]FileJSON, 0, len(files)),
		Summary: Summarize(files),
	}
	remaining := opts.Max
	for _, f := range files {
		fj := FileJSON{
			Path:     formatPath(f.Path, opts.PathMode, opts.BaseDir),
			Cached:   f.Cached,
			Problems: []diag.Problem{},
		}
		if f.Err != nil {
			fj.Error = f.Err.Error()
		}
		problems := f.Problems
		if opts.Max > 0 {
			problems = problems[:min(len(problems), remaining)]
			remaining -= len(problems)
		}
		fj.Problems = append(fj.Problems, problems...)
		out.Count += len(problems)
		out.Files = append(out.Files, fj)
	}
	return out
}

// JSON writes check results as indented JSON.
func JSON(w io.Writer, files []FileResult, opts JSONOpts) error {
	return encodeJSON(w, BuildProblemsOutput(files, opts))
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
