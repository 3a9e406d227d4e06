package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// well-formedness
	XMLMalformed         Code = 1001
	XMLMismatchedTag     Code = 1002
	XMLUnterminatedTag   Code = 1003
	XMLUnexpectedEOF     Code = 1004
	XMLDTDProhibited     Code = 1005
	XMLMultipleRoots     Code = 1006
	XMLRootLevelData     Code = 1007
	XMLMissingRoot       Code = 1008
	XMLUnsupportedReader Code = 1009

	// lint
	LintTextBetweenElements Code = 2001

	// io
	IOLoadFileError Code = 4001
)

var codeDescription = map[Code]string{
	UnknownCode:             "Unknown problem",
	XMLMalformed:            "Document is not well-formed",
	XMLMismatchedTag:        "End tag does not match start tag",
	XMLUnterminatedTag:      "Tag is not terminated",
	XMLUnexpectedEOF:        "Unexpected end of file",
	XMLDTDProhibited:        "DTD is prohibited",
	XMLMultipleRoots:        "Multiple root elements",
	XMLRootLevelData:        "Data at the root level",
	XMLMissingRoot:          "Root element is missing",
	XMLUnsupportedReader:    "Document could not be read",
	LintTextBetweenElements: "Unexpected text between elements",
	IOLoadFileError:         "I/O error while loading file",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("XML%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("LNT%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// MarshalText renders the stable code ID.
func (c Code) MarshalText() ([]byte, error) {
	return []byte(c.ID()), nil
}
