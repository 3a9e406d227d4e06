// Package scope derives the line extent and nesting depth of every element in
// an XML text. Ranges feed folding and outline consumers and are computed even
// when the document does not parse.
package scope

import "sort"

// Range is the line extent of one element.
type Range struct {
	StartLine int    `json:"start_line" msgpack:"s"` // 1-based, inclusive
	EndLine   int    `json:"end_line" msgpack:"e"`   // 1-based, inclusive
	Depth     int    `json:"depth" msgpack:"d"`      // 0 for the root
	Name      string `json:"name,omitempty" msgpack:"n,omitempty"`
}

// Source produces ranges for a text.
type Source interface {
	Scopes(text string) ([]Range, error)
}

// Kind names the scanner that produced a result.
type Kind uint8

const (
	KindConformant Kind = iota
	KindTolerant
)

func (k Kind) String() string {
	if k == KindTolerant {
		return "tolerant"
	}
	return "conformant"
}

// Resolve returns the conformant ranges for text, or the tolerant ones when
// the conformant scanner rejects the input.
func Resolve(text string) ([]Range, Kind) {
	if ranges, err := (Conformant{}).Scopes(text); err == nil {
		return ranges, KindConformant
	}
	ranges, _ := (Tolerant{}).Scopes(text)
	return ranges, KindTolerant
}

func sortRanges(ranges []Range) {
	sort.SliceStable(ranges, func(i, j int) bool {
		if ranges[i].StartLine != ranges[j].StartLine {
			return ranges[i].StartLine < ranges[j].StartLine
		}
		return ranges[i].Depth < ranges[j].Depth
	})
}
