package scope

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Conformant computes ranges with a strict XML decoder. It fails on any
// well-formedness error.
type Conformant struct{}

type openElem struct {
	name  string
	line  int
	depth int
}

func (Conformant) Scopes(text string) ([]Range, error) {
	d := xml.NewDecoder(strings.NewReader(text))
	d.Strict = true
	d.CharsetReader = func(_ string, r io.Reader) (io.Reader, error) { return r, nil }

	var (
		lines  = newLineStarts(text)
		stack  []openElem
		ranges []Range
	)
	for {
		before := d.InputOffset()
		// the decoder only counts '\n'; lines here also break on '\r'
		line := lines.line(int(before))
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("scan scopes: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			stack = append(stack, openElem{name: t.Name.Local, line: line, depth: len(stack)})
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("scan scopes: unexpected end element </%s>", t.Name.Local)
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			end := line
			// A synthesized end of a self-closing tag consumes no input.
			if d.InputOffset() == before {
				end = top.line
			}
			ranges = append(ranges, Range{StartLine: top.line, EndLine: end, Depth: top.depth, Name: top.name})
		}
	}
	if len(stack) > 0 {
		return nil, fmt.Errorf("scan scopes: %d unclosed elements", len(stack))
	}
	sortRanges(ranges)
	return ranges, nil
}
