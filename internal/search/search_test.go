package search

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/mattn/go-runewidth"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

const boltDoc = "<Root>\n  <Item><ID>7</ID><Name>Bolt</Name></Item>\n  <Item><ID>8</ID><Name>Screw</Name></Item>\n</Root>\n"

func TestRawCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.xml", "<r>\n  <Name>Bolt</Name>\n  <name>bolt</name>\n</r>")

	hits, err := Raw(context.Background(), []string{path}, Options{Query: "bolt"})
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %+v", hits)
	}
	first := hits[0]
	if first.Line != 2 || first.Column != 9 || first.Length != 4 {
		t.Errorf("first hit at %d:%d len %d", first.Line, first.Column, first.Length)
	}
	if first.Preview != "<Name>Bolt</Name>" {
		t.Errorf("preview = %q", first.Preview)
	}

	hits, _ = Raw(context.Background(), []string{path}, Options{Query: "bolt", CaseSensitive: true})
	if len(hits) != 1 || hits[0].Line != 3 {
		t.Fatalf("case-sensitive hits = %+v", hits)
	}
}

func TestRawFoldKeepsExactByteSpan(t *testing.T) {
	dir := t.TempDir()
	text := "<r>\u212Aelvin</r>" // KELVIN SIGN folds to 'k'
	path := writeFile(t, dir, "k.xml", text)

	hits, err := Raw(context.Background(), []string{path}, Options{Query: "kelvin"})
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 {
		t.Fatalf("hits = %+v", hits)
	}
	h := hits[0]
	if got := text[h.Offset : h.Offset+h.Length]; got != "\u212Aelvin" {
		t.Errorf("span = %q", got)
	}
}

func TestRawStopsAtMaxResults(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.xml", "<r>x x x</r>")
	b := writeFile(t, dir, "b.xml", "<r>x x x</r>")

	var done []string
	hits, err := Raw(context.Background(), []string{a, b}, Options{
		Query:      "x",
		MaxResults: 2,
		OnFileDone: func(p string) { done = append(done, p) },
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if !reflect.DeepEqual(done, []string{a}) {
		t.Errorf("done = %v, want only %s", done, a)
	}
}

func TestRawSkipsUnreadableFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.xml", "<r>needle</r>")
	missing := filepath.Join(dir, "missing.xml")
	c := writeFile(t, dir, "c.xml", "<r>needle</r>")

	var (
		current, done []string
		statuses      = map[string]Status{}
	)
	hits, err := Raw(context.Background(), []string{a, missing, c}, Options{
		Query:         "needle",
		OnCurrentFile: func(p string) { current = append(current, p) },
		OnFileDone:    func(p string) { done = append(done, p) },
		Sink:          SinkFunc(func(e Event) { statuses[e.File] = e.Status }),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 2 || hits[0].Path != a || hits[1].Path != c {
		t.Fatalf("hits = %+v", hits)
	}
	want := []string{a, missing, c}
	if !reflect.DeepEqual(current, want) || !reflect.DeepEqual(done, want) {
		t.Errorf("callbacks current=%v done=%v", current, done)
	}
	if statuses[missing] != StatusError || statuses[a] != StatusDone {
		t.Errorf("statuses = %v", statuses)
	}
}

func TestRawCancelled(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.xml", "<r>x</r>")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	hits, err := Raw(ctx, []string{a}, Options{Query: "x"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("hits after cancel = %+v", hits)
	}
}

func TestRawPreviewIsTruncated(t *testing.T) {
	dir := t.TempDir()
	line := strings.Repeat("a", 300) + "needle"
	path := writeFile(t, dir, "long.xml", "<r>"+line+"</r>")

	hits, err := Raw(context.Background(), []string{path}, Options{Query: "needle"})
	if err != nil || len(hits) != 1 {
		t.Fatalf("hits = %+v, err = %v", hits, err)
	}
	p := hits[0].Preview
	if !strings.HasSuffix(p, "…") || runewidth.StringWidth(p) > PreviewWidth {
		t.Errorf("preview not truncated: width %d", runewidth.StringWidth(p))
	}
}

func TestFieldsFindsKeysAndValues(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "parts.xml", boltDoc)

	hits, err := Fields(context.Background(), []string{path}, FieldOptions{Options: Options{Query: "BOLT"}})
	if err != nil {
		t.Fatal(err)
	}
	want := []FriendlyHit{{
		Path:       path,
		Collection: "Item",
		EntryKey:   "7",
		Occurrence: 1,
		FieldKey:   "Name",
		Preview:    "Name: Bolt",
	}}
	if !reflect.DeepEqual(hits, want) {
		t.Fatalf("hits = %+v\nwant %+v", hits, want)
	}

	hits, _ = Fields(context.Background(), []string{path}, FieldOptions{Options: Options{Query: "id"}})
	if len(hits) != 2 || hits[0].FieldKey != "ID" || hits[1].EntryKey != "8" {
		t.Fatalf("key hits = %+v", hits)
	}
}

func TestFieldsPrefilterFoldsLikeFieldMatch(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "streets.xml",
		"<r><Item><ID>1</ID><Street>Straße</Street></Item><Item><ID>2</ID><Street>Weg</Street></Item></r>")

	hits, err := Fields(context.Background(), []string{path}, FieldOptions{Options: Options{Query: "STRASSE"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].EntryKey != "1" || hits[0].FieldKey != "Street" {
		t.Fatalf("hits = %+v", hits)
	}

	hits, _ = Fields(context.Background(), []string{path}, FieldOptions{Options: Options{Query: "STRASSE", CaseSensitive: true}})
	if len(hits) != 0 {
		t.Fatalf("case-sensitive hits = %+v", hits)
	}
}

func TestFieldsSequentialOrderIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < 4; i++ {
		paths = append(paths, writeFile(t, dir, fmt.Sprintf("f%d.xml", i), boltDoc))
	}

	var first []FriendlyHit
	for run := 0; run < 3; run++ {
		hits, err := Fields(context.Background(), paths, FieldOptions{Options: Options{Query: "e"}})
		if err != nil {
			t.Fatal(err)
		}
		if run == 0 {
			first = hits
			continue
		}
		if !reflect.DeepEqual(hits, first) {
			t.Fatal("sequential search returned a different order")
		}
	}
	for i := 1; i < len(first); i++ {
		if first[i-1].Path > first[i].Path {
			t.Fatalf("hits not in file order at %d", i)
		}
	}
}

func TestFieldsParallelRespectsMaxResults(t *testing.T) {
	dir := t.TempDir()
	var sb strings.Builder
	sb.WriteString("<Root>")
	for i := 0; i < 5; i++ {
		fmt.Fprintf(&sb, "<Item><ID>%d</ID><Name>match %d</Name></Item>", i, i)
	}
	sb.WriteString("</Root>")

	var paths []string
	for i := 0; i < 10; i++ {
		paths = append(paths, writeFile(t, dir, fmt.Sprintf("p%02d.xml", i), sb.String()))
	}

	var mu sync.Mutex
	done := map[string]int{}
	hits, err := Fields(context.Background(), paths, FieldOptions{
		Options: Options{
			Query:      "match",
			MaxResults: 7,
			OnFileDone: func(p string) {
				mu.Lock()
				done[p]++
				mu.Unlock()
			},
		},
		Parallel: true,
		Workers:  4,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 7 {
		t.Fatalf("expected 7 hits, got %d", len(hits))
	}
	for p, n := range done {
		if n != 1 {
			t.Errorf("%s reported done %d times", p, n)
		}
	}

	all, _ := Fields(context.Background(), paths, FieldOptions{Options: Options{Query: "match"}, Parallel: true})
	if len(all) != 50 {
		t.Fatalf("expected 50 hits without a tight limit, got %d", len(all))
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Path != all[j].Path {
			return all[i].Path < all[j].Path
		}
		return all[i].EntryKey < all[j].EntryKey
	})
	if all[0].EntryKey != "0" || all[0].FieldKey != "Name" {
		t.Errorf("unexpected first hit %+v", all[0])
	}
}

func TestFieldsPreFilterSkipsFiles(t *testing.T) {
	dir := t.TempDir()
	hit := writeFile(t, dir, "hit.xml", boltDoc)
	miss := writeFile(t, dir, "miss.xml", "<Root><Item><ID>1</ID></Item><Item><ID>2</ID></Item></Root>")
	broken := writeFile(t, dir, "broken.xml", "<Root><Item>Bolt</Root>")

	var mu sync.Mutex
	statuses := map[string]Status{}
	sink := SinkFunc(func(e Event) {
		mu.Lock()
		statuses[e.File] = e.Status
		mu.Unlock()
	})
	hits, err := Fields(context.Background(), []string{hit, miss, broken}, FieldOptions{Options: Options{Query: "bolt", Sink: sink}})
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 {
		t.Fatalf("hits = %+v", hits)
	}
	if statuses[hit] != StatusDone || statuses[miss] != StatusSkipped || statuses[broken] != StatusSkipped {
		t.Errorf("statuses = %v", statuses)
	}
}

func TestFieldsCancelled(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.xml", boltDoc)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	hits, err := Fields(ctx, []string{path}, FieldOptions{Options: Options{Query: "bolt"}, Parallel: true})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("hits after cancel = %+v", hits)
	}
}

func TestEmptyQueryFindsNothing(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.xml", boltDoc)
	if hits, err := Raw(context.Background(), []string{path}, Options{}); err != nil || hits != nil {
		t.Errorf("Raw = %v, %v", hits, err)
	}
	if hits, err := Fields(context.Background(), []string{path}, FieldOptions{}); err != nil || hits != nil {
		t.Errorf("Fields = %v, %v", hits, err)
	}
}
