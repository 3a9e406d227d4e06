package report

import (
	"fmt"
	"io"

	"github.com/goccy/go-yaml"

	"xmlscope/internal/friendly"
)

// FieldView is one flattened field.
type FieldView struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// EntryView is one entry with its fields.
type EntryView struct {
	Key        string      `json:"key" yaml:"key"`
	Occurrence int         `json:"occurrence" yaml:"occurrence"`
	Display    string      `json:"display,omitempty" yaml:"display,omitempty"`
	Fields     []FieldView `json:"fields" yaml:"fields"`
}

// CollectionView is one titled collection.
type CollectionView struct {
	Title   string      `json:"title" yaml:"title"`
	Entries []EntryView `json:"entries" yaml:"entries"`
}

// DocumentView is the serializable snapshot of a friendly document.
type DocumentView struct {
	Path        string           `json:"path" yaml:"path"`
	Primary     string           `json:"primary,omitempty" yaml:"primary,omitempty"`
	Collections []CollectionView `json:"collections" yaml:"collections"`
}

// NewDocumentView snapshots doc. When only is non-empty, just that
// collection is kept.
func NewDocumentView(path string, doc *friendly.Document, only string) (DocumentView, error) {
	v := DocumentView{Path: path, Primary: doc.PrimaryCollectionKey, Collections: []CollectionView{}}
	cols := doc.Collections
	if only != "" {
		c, ok := doc.Collection(only)
		if !ok {
			return DocumentView{}, fmt.Errorf("no collection %q", only)
		}
		cols = []*friendly.Collection{c}
	}
	for _, c := range cols {
		cv := CollectionView{Title: c.Title, Entries: make([]EntryView, 0, len(c.Entries))}
		for _, e := range c.Entries {
			ev := EntryView{Key: e.Key, Occurrence: e.Occurrence, Fields: []FieldView{}}
			if d := e.Display(); d != e.Key {
				ev.Display = d
			}
			for _, f := range e.Fields().List() {
				ev.Fields = append(ev.Fields, FieldView{Key: f.Key, Value: f.Value()})
			}
			cv.Entries = append(cv.Entries, ev)
		}
		v.Collections = append(v.Collections, cv)
	}
	return v, nil
}

// ViewText prints collections, entries and fields as an indented outline.
func ViewText(w io.Writer, v DocumentView, color bool) {
	pal := newPalette(color)
	fmt.Fprintf(w, "%s\n", pal.path.Sprint(v.Path))
	for _, c := range v.Collections {
		marker := ""
		if c.Title == v.Primary {
			marker = " *"
		}
		fmt.Fprintf(w, "%s (%d)%s\n", pal.hunk.Sprint(c.Title), len(c.Entries), marker)
		for _, e := range c.Entries {
			label := e.Key
			if e.Occurrence > 1 {
				label = fmt.Sprintf("%s#%d", e.Key, e.Occurrence)
			}
			if e.Display != "" {
				label += " (" + e.Display + ")"
			}
			fmt.Fprintf(w, "  %s\n", label)
			for _, f := range e.Fields {
				fmt.Fprintf(w, "    %s = %s\n", pal.code.Sprint(f.Key), f.Value)
			}
		}
	}
}

// ViewJSON writes v as JSON.
func ViewJSON(w io.Writer, v DocumentView) error {
	return encodeJSON(w, v)
}

// ViewYAML writes v as YAML.
func ViewYAML(w io.Writer, v DocumentView) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
