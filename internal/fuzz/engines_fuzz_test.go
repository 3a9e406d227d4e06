package fuzztests

import (
	"testing"
	"time"

	"xmlscope/internal/friendly"
	"xmlscope/internal/scope"
	"xmlscope/internal/testkit"
	"xmlscope/internal/xmlcheck"
)

const maxFuzzInput = 1 << 16

// scanTimeout flags inputs that make a scanner loop.
const scanTimeout = 5 * time.Second

func clampInput(input []byte) string {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return string(input)
}

func FuzzProblems(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		text := clampInput(input)
		if err := testkit.CheckProblems(text, xmlcheck.Problems(text)); err != nil {
			t.Fatal(err)
		}
	})
}

func FuzzScopes(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		text := clampInput(input)

		done := make(chan struct{})
		go func() {
			defer close(done)
			ranges, err := scope.Tolerant{}.Scopes(text)
			if err != nil {
				t.Errorf("tolerant scanner failed: %v", err)
				return
			}
			if err := testkit.CheckRanges(text, ranges); err != nil {
				t.Errorf("tolerant: %v", err)
			}
			if ranges, err := (scope.Conformant{}).Scopes(text); err == nil {
				if err := testkit.CheckRanges(text, ranges); err != nil {
					t.Errorf("conformant: %v", err)
				}
			}
		}()

		select {
		case <-done:
		case <-time.After(scanTimeout):
			t.Fatalf("scope scan did not finish within %v on %d bytes", scanTimeout, len(text))
		}
	})
}

func FuzzFriendlyView(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		doc, ok := friendly.TryBuild(clampInput(input))
		if !ok {
			return
		}
		for _, c := range doc.Collections {
			for _, e := range c.Entries {
				if e.Occurrence < 1 {
					t.Fatalf("%s/%s: occurrence %d", c.Title, e.Key, e.Occurrence)
				}
				_ = e.Display()
				for _, fld := range e.Fields().List() {
					_ = fld.Value()
				}
			}
		}
		if len(doc.Collections) > 0 && len(doc.Collections[0].Entries) > 0 {
			src := doc.Collections[0].Entries[0]
			clone, err := doc.TryDuplicateEntry(src, true)
			if err != nil {
				return
			}
			if clone.Occurrence < 1 || clone.Collection() != src.Collection() {
				t.Fatalf("clone %q: occurrence %d", clone.Key, clone.Occurrence)
			}
		}
	})
}
