// Package fuzztests houses Go fuzz harnesses for the text-facing engines:
// problem reporting, scope scanning and friendly view building. They guard
// against panics, hangs and broken positional invariants on arbitrary input.
package fuzztests
