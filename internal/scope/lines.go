package scope

import "sort"

// lineStarts holds the byte offset of every line start. "\r\n", a lone "\r"
// and "\n" each end a line, matching the tolerant scanner.
type lineStarts []int

func newLineStarts(text string) lineStarts {
	starts := lineStarts{0}
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			starts = append(starts, i+1)
		case '\n':
			starts = append(starts, i+1)
		}
	}
	return starts
}

// line returns the 1-based line holding offset.
func (ls lineStarts) line(offset int) int {
	return sort.Search(len(ls), func(i int) bool { return ls[i] > offset })
}

// LineCount returns the number of lines in text as both scanners count them.
func LineCount(text string) int {
	return len(newLineStarts(text))
}
