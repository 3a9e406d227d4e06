package xmlcheck

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/ianaindex"

	"xmlscope/internal/diag"
	"xmlscope/internal/source"
)

// failureKind selects the position heuristic applied to a well-formedness failure.
type failureKind uint8

const (
	kindPlain failureKind = iota
	kindMismatch
	kindExpectGT
	kindNotWellFormed // not a well-formedness error at all; reported at offset 0
)

// failure describes why the conformance scan stopped.
type failure struct {
	kind    failureKind
	code    diag.Code
	message string
	line    int // 1-based position reported by the scanner
	col     int

	// mismatched end tags only
	startName string
	startLine int
}

type openTag struct {
	name   string
	offset int
}

var closedByRe = regexp.MustCompile(`^element <([^>]*)> closed by </([^>]*)>$`)

func newDecoder(text string) *xml.Decoder {
	d := xml.NewDecoder(strings.NewReader(text))
	d.Strict = true
	d.CharsetReader = passThroughCharset
	return d
}

// passThroughCharset accepts any IANA-registered encoding label. The input is
// already decoded text, so the declaration only has to name a real charset.
func passThroughCharset(label string, r io.Reader) (io.Reader, error) {
	if _, err := ianaindex.IANA.Encoding(label); err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", label, err)
	}
	return r, nil
}

// conform runs a strict, DTD-prohibited scan over text. It returns nil when
// the document is well-formed.
func conform(text string) *failure {
	d := newDecoder(text)
	var (
		stack    []openTag
		rootSeen bool
	)

	for {
		start := int(d.InputOffset())
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return classify(err, text, d, start, stack)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) == 0 {
				if rootSeen {
					return positioned(text, start, diag.XMLMultipleRoots, "There are multiple root elements.")
				}
				rootSeen = true
			}
			stack = append(stack, openTag{name: t.Name.Local, offset: start})
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) == 0 && strings.TrimSpace(string(t)) != "" {
				off := start + leadingSpace(string(t))
				return positioned(text, off, diag.XMLRootLevelData, "Data at the root level is invalid.")
			}
		case xml.Directive:
			if isDoctype(t) {
				return positioned(text, start, diag.XMLDTDProhibited,
					"For security reasons DTD is prohibited in this XML document.")
			}
		}
	}

	if !rootSeen {
		return positioned(text, len(text), diag.XMLMissingRoot, "Root element is missing.")
	}
	return nil
}

func positioned(text string, offset int, code diag.Code, msg string) *failure {
	line, col := source.OffsetToLineCol(text, offset)
	return &failure{kind: kindPlain, code: code, message: msg, line: line, col: col}
}

func classify(err error, text string, d *xml.Decoder, tokenStart int, stack []openTag) *failure {
	var se *xml.SyntaxError
	if !errors.As(err, &se) {
		return &failure{
			kind:    kindNotWellFormed,
			code:    diag.XMLUnsupportedReader,
			message: err.Error(),
			line:    1,
			col:     1,
		}
	}

	line, col := d.InputPos()
	msg := se.Msg

	if m := closedByRe.FindStringSubmatch(msg); m != nil && len(stack) > 0 {
		top := stack[len(stack)-1]
		startLine, startCol := source.OffsetToLineCol(text, top.offset)
		endLine, endCol := source.OffsetToLineCol(text, tokenStart)
		return &failure{
			kind: kindMismatch,
			code: diag.XMLMismatchedTag,
			message: fmt.Sprintf("The '%s' start tag on line %d position %d does not match the end tag of '%s'. Line %d, position %d.",
				top.name, startLine, startCol, m[2], endLine, endCol),
			line:      endLine,
			col:       endCol,
			startName: top.name,
			startLine: startLine,
		}
	}

	switch {
	case msg == "unexpected EOF":
		text := "Unexpected end of file has occurred."
		if len(stack) > 0 {
			names := make([]string, 0, len(stack))
			for i := len(stack) - 1; i >= 0; i-- {
				names = append(names, stack[i].name)
			}
			text += " The following elements are not closed: " + strings.Join(names, ", ") + "."
		}
		return &failure{kind: kindPlain, code: diag.XMLUnexpectedEOF, message: withPos(text, line, col), line: line, col: col}

	case msg == "expected attribute name in element",
		msg == "expected /> in element",
		strings.HasPrefix(msg, "invalid characters between </"):
		off := source.LineColToOffset(text, line, col)
		return &failure{
			kind:    kindExpectGT,
			code:    diag.XMLUnterminatedTag,
			message: withPos(fmt.Sprintf("%s is an unexpected token. The expected token is '>'.", describeChar(text, off)), line, col),
			line:    line,
			col:     col,
		}

	case strings.HasPrefix(msg, "unexpected end element"):
		endLine, endCol := source.OffsetToLineCol(text, tokenStart)
		return &failure{kind: kindPlain, code: diag.XMLMismatchedTag, message: withPos(capitalize(msg)+".", endLine, endCol), line: endLine, col: endCol}
	}

	return &failure{kind: kindPlain, code: diag.XMLMalformed, message: withPos(capitalize(msg)+".", line, col), line: line, col: col}
}

func withPos(msg string, line, col int) string {
	return fmt.Sprintf("%s Line %d, position %d.", msg, line, col)
}

func describeChar(text string, off int) string {
	if off >= len(text) {
		return "End of file"
	}
	switch c := text[off]; c {
	case '\n':
		return "'\\n'"
	case '\r':
		return "'\\r'"
	case '\t':
		return "'\\t'"
	default:
		return fmt.Sprintf("'%c'", c)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func isDoctype(d xml.Directive) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(string(d))), "DOCTYPE")
}

func leadingSpace(s string) int {
	return len(s) - len(strings.TrimLeft(s, " \t\r\n"))
}
