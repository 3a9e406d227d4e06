// Package report renders check results, scope ranges, search hits and
// friendly views for the command line.
package report

import (
	"fmt"
	"path/filepath"

	"xmlscope/internal/source"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto keeps short or relative paths and shortens long absolute ones.
	PathModeAuto PathMode = iota
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// ParsePathMode accepts auto, absolute, relative and basename.
func ParsePathMode(s string) (PathMode, error) {
	switch s {
	case "", "auto":
		return PathModeAuto, nil
	case "absolute":
		return PathModeAbsolute, nil
	case "relative":
		return PathModeRelative, nil
	case "basename":
		return PathModeBasename, nil
	}
	return PathModeAuto, fmt.Errorf("unknown path mode %q (expected auto|absolute|relative|basename)", s)
}

// PrettyOpts configures Pretty.
type PrettyOpts struct {
	Color    bool
	Context  int // lines shown around the problem line
	PathMode PathMode
	BaseDir  string // for PathModeRelative; defaults to the working directory
}

// JSONOpts configures the JSON writers.
type JSONOpts struct {
	PathMode PathMode
	BaseDir  string
	Max      int // trims output, 0 means everything
}

func formatPath(path string, mode PathMode, baseDir string) string {
	switch mode {
	case PathModeAbsolute:
		if abs, err := source.AbsolutePath(path); err == nil {
			return abs
		}
	case PathModeRelative:
		if baseDir == "" {
			baseDir = "."
		}
		if rel, err := source.RelativePath(path, baseDir); err == nil {
			return rel
		}
	case PathModeBasename:
		return source.BaseName(path)
	case PathModeAuto:
		if len(path) >= 40 && filepath.IsAbs(path) {
			return source.BaseName(path)
		}
	}
	return filepath.ToSlash(path)
}
