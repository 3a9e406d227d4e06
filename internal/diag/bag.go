package diag

import (
	"sort"
)

// Bag accumulates problems up to a fixed limit.
type Bag struct {
	items []Problem
	max   int
}

func NewBag(max int) *Bag {
	if max < 0 {
		max = 0
	}
	return &Bag{
		items: make([]Problem, 0, min(max, 64)),
		max:   max,
	}
}

// Add appends p unless the limit is reached.
// Returns false when the problem was dropped.
func (b *Bag) Add(p Problem) bool {
	if len(b.items) >= b.max {
		return false
	}
	b.items = append(b.items, p)
	return true
}

// Full reports whether further Add calls will be dropped.
func (b *Bag) Full() bool {
	return len(b.items) >= b.max
}

func (b *Bag) Cap() int {
	return b.max
}

// HasErrors reports whether any problem has Severity >= SevError.
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// HasWarnings reports whether any problem has Severity >= SevWarning.
func (b *Bag) HasWarnings() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevWarning {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns the backing slice. Do not modify it.
func (b *Bag) Items() []Problem {
	return b.items
}

// Merge appends all problems of other, growing the limit when needed.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	if total := len(b.items) + len(other.items); total > b.max {
		b.max = total
	}
	b.items = append(b.items, other.items...)
}

// Sort orders problems by offset, then severity (errors first), then code.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Offset != dj.Offset {
			return di.Offset < dj.Offset
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}

// Filter keeps only problems for which keep returns true.
func (b *Bag) Filter(keep func(Problem) bool) {
	out := b.items[:0]
	for _, p := range b.items {
		if keep(p) {
			out = append(out, p)
		}
	}
	b.items = out
}
