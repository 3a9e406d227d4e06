package diag

// Reporter is the minimal contract between checkers and problem storage.
type Reporter interface {
	Report(p Problem) bool
}

// BagReporter writes into a *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(p Problem) bool {
	if r.Bag == nil {
		return false
	}
	return r.Bag.Add(p)
}
