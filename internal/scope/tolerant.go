package scope

import "strings"

// Tolerant scans text character by character and never fails. Malformed
// fragments are skipped, unmatched end tags are ignored and elements still
// open at the end of input are closed on the last line reached.
type Tolerant struct{}

type frame struct {
	line  int
	depth int
	name  string
}

// Scopes always returns a nil error.
func (Tolerant) Scopes(text string) ([]Range, error) {
	s := tolerantScan{text: text, line: 1}
	s.run()
	for len(s.stack) > 0 {
		top := s.pop()
		s.ranges = append(s.ranges, Range{StartLine: top.line, EndLine: s.line, Depth: top.depth, Name: top.name})
	}
	sortRanges(s.ranges)
	return s.ranges, nil
}

type tolerantScan struct {
	text   string
	pos    int
	line   int
	stack  []frame
	ranges []Range
}

func (s *tolerantScan) pop() frame {
	top := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	return top
}

// advanceTo moves pos to end, counting the line breaks it passes.
func (s *tolerantScan) advanceTo(end int) {
	for s.pos < end {
		s.step()
	}
}

// step consumes one character; "\r\n" counts as a single break.
func (s *tolerantScan) step() {
	switch s.text[s.pos] {
	case '\r':
		s.line++
		if s.pos+1 < len(s.text) && s.text[s.pos+1] == '\n' {
			s.pos++
		}
	case '\n':
		s.line++
	}
	s.pos++
}

// skipPast jumps over a construct opened at pos and closed by term. It
// reports false when the terminator is missing; the rest of the text is then
// consumed.
func (s *tolerantScan) skipPast(openLen int, term string) bool {
	idx := strings.Index(s.text[s.pos+openLen:], term)
	if idx < 0 {
		s.advanceTo(len(s.text))
		return false
	}
	s.advanceTo(s.pos + openLen + idx + len(term))
	return true
}

func (s *tolerantScan) run() {
	text := s.text
	for s.pos < len(text) {
		if text[s.pos] != '<' {
			s.step()
			continue
		}
		rest := text[s.pos:]
		switch {
		case strings.HasPrefix(rest, "<!--"):
			s.skipPast(4, "-->")
			continue
		case strings.HasPrefix(rest, "<![CDATA["):
			s.skipPast(9, "]]>")
			continue
		case strings.HasPrefix(rest, "<?"):
			s.skipPast(2, "?>")
			continue
		}
		if !s.tag() {
			return
		}
	}
}

// tag handles a start or end tag at pos. It returns false when the tag has no
// closing '>' and scanning must stop.
func (s *tolerantScan) tag() bool {
	text := s.text
	i := s.pos + 1
	isEnd := i < len(text) && text[i] == '/'
	if isEnd {
		i++
	}
	nameStart := i
	for i < len(text) && isNameChar(text[i]) {
		i++
	}
	name := text[nameStart:i]
	if name == "" {
		s.step()
		return true
	}

	closeAt := findTagEnd(text, i)
	if closeAt < 0 {
		return false
	}

	tagLine := s.line
	body := text[i:closeAt]
	s.advanceTo(closeAt + 1)

	if isEnd {
		if len(s.stack) > 0 {
			top := s.pop()
			s.ranges = append(s.ranges, Range{StartLine: top.line, EndLine: tagLine, Depth: top.depth, Name: top.name})
		}
		return true
	}
	if strings.HasSuffix(strings.TrimRight(body, " \t\r\n"), "/") {
		s.ranges = append(s.ranges, Range{StartLine: tagLine, EndLine: tagLine, Depth: len(s.stack), Name: name})
		return true
	}
	s.stack = append(s.stack, frame{line: tagLine, depth: len(s.stack), name: name})
	return true
}

// findTagEnd returns the index of the '>' closing a tag whose body starts at
// from, skipping quoted attribute values, or -1.
func findTagEnd(text string, from int) int {
	var quote byte
	for k := from; k < len(text); k++ {
		c := text[k]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '>':
			return k
		}
	}
	return -1
}

func isNameChar(c byte) bool {
	return c == '_' || c == ':' || c == '-' || c == '.' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
