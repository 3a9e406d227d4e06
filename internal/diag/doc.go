// Package diag defines the problem model shared by the XML checkers.
//
// # Data model
//
// Problem is the central record:
//
//   - Severity: Info, Warning (lint) or Error (well-formedness).
//   - Code: compact numeric identifier with a stable string form (XML1002,
//     LNT2001, ...), see codes.go.
//   - Message: human oriented text.
//   - Offset/Line/Column: the position inside the exact text that was checked.
//
// Bag collects problems up to a limit; checkers emit through a Reporter so the
// lint pass can stop as soon as the Bag is full.
//
// Package diag does not perform formatting beyond the stable short form used
// in tests and CLI short output; rendering lives in internal/report.
package diag
