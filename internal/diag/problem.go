package diag

import "fmt"

// Problem is one localized finding about an XML text.
//
// Offset is a 0-based byte offset into the exact string that was checked;
// Line and Column are 1-based and always describe the same position.
type Problem struct {
	Severity Severity `json:"severity" msgpack:"sev"`
	Code     Code     `json:"code" msgpack:"code"`
	Message  string   `json:"message" msgpack:"msg"`
	Offset   int      `json:"offset" msgpack:"off"`
	Line     int      `json:"line" msgpack:"line"`
	Column   int      `json:"column" msgpack:"col"`
}

// IsError reports whether the problem is a well-formedness error.
func (p Problem) IsError() bool {
	return p.Severity >= SevError
}

func (p Problem) String() string {
	return fmt.Sprintf("%d:%d: %s %s: %s", p.Line, p.Column, severityLabel(p.Severity), p.Code.ID(), p.Message)
}
