package report

import (
	"fmt"
	"io"

	"xmlscope/internal/search"
)

// RawHits prints "path:line:col: preview" per hit.
func RawHits(w io.Writer, hits []search.RawHit, mode PathMode, baseDir string, color bool) {
	pal := newPalette(color)
	for _, h := range hits {
		fmt.Fprintf(w, "%s:%d:%d: %s\n", pal.path.Sprint(formatPath(h.Path, mode, baseDir)), h.Line, h.Column, h.Preview)
	}
}

// FieldHits prints "path [collection] key#n field: preview" per hit.
func FieldHits(w io.Writer, hits []search.FriendlyHit, mode PathMode, baseDir string, color bool) {
	pal := newPalette(color)
	for _, h := range hits {
		fmt.Fprintf(w, "%s [%s] %s#%d %s: %s\n", pal.path.Sprint(formatPath(h.Path, mode, baseDir)),
			h.Collection, h.EntryKey, h.Occurrence, pal.code.Sprint(h.FieldKey), h.Preview)
	}
}

type hitsJSON[T any] struct {
	Query     string `json:"query"`
	Mode      string `json:"mode"`
	Count     int    `json:"count"`
	Truncated bool   `json:"truncated"`
	Hits      []T    `json:"hits"`
}

// HitsJSON writes hits with their query metadata. A full result list is
// flagged as truncated.
func HitsJSON[T any](w io.Writer, query, searchMode string, hits []T, limit int) error {
	if hits == nil {
		hits = []T{}
	}
	return encodeJSON(w, hitsJSON[T]{
		Query:     query,
		Mode:      searchMode,
		Count:     len(hits),
		Truncated: limit > 0 && len(hits) >= limit,
		Hits:      hits,
	})
}

// RelocateRawHits rewrites hit paths for display.
func RelocateRawHits(hits []search.RawHit, mode PathMode, baseDir string) []search.RawHit {
	out := make([]search.RawHit, len(hits))
	for i, h := range hits {
		h.Path = formatPath(h.Path, mode, baseDir)
		out[i] = h
	}
	return out
}

// RelocateFieldHits rewrites hit paths for display.
func RelocateFieldHits(hits []search.FriendlyHit, mode PathMode, baseDir string) []search.FriendlyHit {
	out := make([]search.FriendlyHit, len(hits))
	for i, h := range hits {
		h.Path = formatPath(h.Path, mode, baseDir)
		out[i] = h
	}
	return out
}
