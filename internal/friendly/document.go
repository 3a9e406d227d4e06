// Package friendly derives a browsable record model from schema-less XML.
//
// A Document keeps the parsed etree document alive. Collections, entries and
// fields are views onto that tree: edits made through them change the tree and
// are visible in Document.String.
package friendly

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/text/encoding/ianaindex"
)

// Document is the friendly view of one XML text.
type Document struct {
	tree        *etree.Document
	Collections []*Collection
	// PrimaryCollectionKey is the title of the largest collection.
	PrimaryCollectionKey string
}

// Collection is a titled group of entries.
type Collection struct {
	Title   string
	Entries []*Entry
}

// Entry is one record of a collection, backed by a live element.
type Entry struct {
	Key string
	// Occurrence is the 1-based position among entries of the same collection
	// sharing Key, taken when the entry was created.
	Occurrence int

	elem       *etree.Element
	collection *Collection

	display    string
	hasDisplay bool
	fields     *Fields
}

// Tree returns the underlying etree document.
func (d *Document) Tree() *etree.Document { return d.tree }

// Collection finds a collection by title, ignoring case.
func (d *Document) Collection(title string) (*Collection, bool) {
	for _, c := range d.Collections {
		if strings.EqualFold(c.Title, title) {
			return c, true
		}
	}
	return nil, false
}

// String serialises the live tree.
func (d *Document) String() string {
	if d == nil || d.tree == nil {
		return ""
	}
	s, err := d.tree.WriteToString()
	if err != nil {
		return ""
	}
	return s
}

// Find returns the entry with the given key and occurrence. Occurrence values
// below 1 select the first match.
func (c *Collection) Find(key string, occurrence int) (*Entry, bool) {
	if occurrence < 1 {
		occurrence = 1
	}
	for _, e := range c.Entries {
		if e.Key == key && e.Occurrence == occurrence {
			return e, true
		}
	}
	n := 0
	for _, e := range c.Entries {
		if e.Key == key {
			n++
			if n == occurrence {
				return e, true
			}
		}
	}
	return nil, false
}

func (c *Collection) insertAfter(anchor, e *Entry) {
	for i, x := range c.Entries {
		if x == anchor {
			c.Entries = append(c.Entries[:i+1], append([]*Entry{e}, c.Entries[i+1:]...)...)
			return
		}
	}
	c.Entries = append(c.Entries, e)
}

// Element returns the backing element.
func (e *Entry) Element() *etree.Element { return e.elem }

// Collection returns the collection the entry belongs to.
func (e *Entry) Collection() *Collection { return e.collection }

// Display is the human-readable label of the entry, resolved once.
func (e *Entry) Display() string {
	if !e.hasDisplay {
		e.display = e.Key
		if v, ok := Resolve(e.elem, ModeDisplay); ok {
			e.display = v
		}
		e.hasDisplay = true
	}
	return e.display
}

// Fields flattens the entry on first use.
func (e *Entry) Fields() *Fields {
	if e.fields == nil {
		e.fields = Flatten(e.elem)
	}
	return e.fields
}

// TrySetField writes value into the field at path.
func (e *Entry) TrySetField(path, value string) error {
	if e == nil || e.elem == nil {
		return ErrNilEntry
	}
	f, ok := e.Fields().Get(path)
	if !ok {
		return fmt.Errorf("%w: %s", ErrFieldNotFound, path)
	}
	if err := f.set(value); err != nil {
		return err
	}
	e.hasDisplay = false
	return nil
}

var errDTD = errors.New("DTD is prohibited")

func passThroughCharset(label string, r io.Reader) (io.Reader, error) {
	if _, err := ianaindex.IANA.Encoding(label); err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", label, err)
	}
	return r, nil
}

// parse reads text into a tree that keeps whitespace and CDATA sections.
func parse(text string) (*etree.Document, error) {
	tree := etree.NewDocument()
	tree.ReadSettings.PreserveCData = true
	tree.ReadSettings.CharsetReader = passThroughCharset
	if err := tree.ReadFromString(text); err != nil {
		return nil, err
	}

	roots := 0
	for _, t := range tree.Child {
		switch t := t.(type) {
		case *etree.Element:
			roots++
		case *etree.Directive:
			if strings.HasPrefix(strings.ToUpper(strings.TrimSpace(t.Data)), "DOCTYPE") {
				return nil, errDTD
			}
		}
	}
	if roots != 1 {
		return nil, fmt.Errorf("expected one root element, found %d", roots)
	}
	return tree, nil
}
