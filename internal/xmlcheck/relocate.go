package xmlcheck

import (
	"strings"

	"xmlscope/internal/source"
)

// relocateMismatch looks for a second "<name" on the start tag's line. When a
// sibling was opened twice on one line, that second opening is where the
// missing end tag belongs.
func relocateMismatch(text, name string, line int) (int, bool) {
	if name == "" || line < 1 {
		return 0, false
	}
	lineStart := source.LineColToOffset(text, line, 1)
	lineEnd := len(text)
	if nl := strings.IndexByte(text[lineStart:], '\n'); nl >= 0 {
		lineEnd = lineStart + nl
	}
	seg := text[lineStart:lineEnd]
	needle := "<" + name

	seen := 0
	for from := 0; from < len(seg); {
		idx := strings.Index(seg[from:], needle)
		if idx < 0 {
			break
		}
		at := from + idx
		end := at + len(needle)
		if end >= len(seg) || !isNameByte(seg[end]) {
			seen++
			if seen == 2 {
				return lineStart + at, true
			}
		}
		from = end
	}
	return 0, false
}

// backUpToTagEnd moves an offset that lands on '<' back over whitespace to the
// last character of the preceding, unterminated tag.
func backUpToTagEnd(text string, offset int) int {
	if offset >= len(text) || text[offset] != '<' {
		return offset
	}
	i := offset - 1
	for i >= 0 && isSpace(text[i]) {
		i--
	}
	if i < 0 {
		return offset
	}
	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func isNameByte(c byte) bool {
	return c == '_' || c == '-' || c == '.' || c == ':' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') ||
		c >= 0x80
}
