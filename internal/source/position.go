package source

import "strings"

// OffsetToLineCol converts a 0-based byte offset in text into a 1-based
// line and column. Lines are delimited by '\n'; a '\r' before it counts as a
// column of the line it ends. The offset is clamped to [0, len(text)].
func OffsetToLineCol(text string, offset int) (line, col int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(text) {
		offset = len(text)
	}
	prefix := text[:offset]
	line = strings.Count(prefix, "\n") + 1
	lastLineStart := strings.LastIndexByte(prefix, '\n') + 1
	return line, offset - lastLineStart + 1
}

// LineColToOffset converts a 1-based line and column into a byte offset.
// Line and column are clamped to at least 1; a line past the end of text maps
// to the last line and the result is clamped to len(text).
func LineColToOffset(text string, line, col int) int {
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}

	lineStart := 0
	for current := 1; current < line; current++ {
		next := strings.IndexByte(text[lineStart:], '\n')
		if next < 0 {
			break
		}
		lineStart += next + 1
	}

	offset := lineStart + col - 1
	if offset > len(text) {
		offset = len(text)
	}
	return offset
}
