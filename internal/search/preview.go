package search

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// PreviewWidth is the maximum display width of a hit preview.
const PreviewWidth = 240

var flatten = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ")

// preview renders s on a single trimmed line, cut to PreviewWidth cells with a
// trailing ellipsis.
func preview(s string) string {
	s = strings.TrimSpace(flatten.Replace(s))
	return runewidth.Truncate(s, PreviewWidth, "…")
}
