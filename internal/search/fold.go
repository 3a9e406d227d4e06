package search

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// matcher finds query occurrences and reports exact byte spans of the text,
// which a fold-then-search approach cannot do once folding changes lengths.
type matcher struct {
	query         string
	caseSensitive bool
}

// next returns the offset and byte length of the first match at or after from,
// or -1.
func (m matcher) next(s string, from int) (int, int) {
	if m.query == "" || from > len(s) {
		return -1, 0
	}
	if m.caseSensitive {
		i := strings.Index(s[from:], m.query)
		if i < 0 {
			return -1, 0
		}
		return from + i, len(m.query)
	}
	for i := from; i < len(s); {
		if n, ok := matchFoldAt(s, i, m.query); ok {
			return i, n
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return -1, 0
}

func matchFoldAt(s string, i int, q string) (int, bool) {
	j := i
	for _, qr := range q {
		if j >= len(s) {
			return 0, false
		}
		sr, size := utf8.DecodeRuneInString(s[j:])
		if !equalFoldRune(sr, qr) {
			return 0, false
		}
		j += size
	}
	return j - i, true
}

func equalFoldRune(a, b rune) bool {
	if a == b {
		return true
	}
	if a < utf8.RuneSelf && b < utf8.RuneSelf {
		return lowerASCII(a) == lowerASCII(b)
	}
	for r := unicode.SimpleFold(a); r != a; r = unicode.SimpleFold(r) {
		if r == b {
			return true
		}
	}
	return false
}

func lowerASCII(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + 'a' - 'A'
	}
	return r
}
