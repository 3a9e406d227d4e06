package friendly

import "github.com/beevik/etree"

// TryDuplicateEntry clones src and inserts the copy into the tree and into
// src's collection. With insertAfter the clone lands right after src and the
// surrounding whitespace is repeated; otherwise it is appended to the parent,
// before any trailing whitespace. The tree is untouched when an error is
// returned.
func (d *Document) TryDuplicateEntry(src *Entry, insertAfter bool) (*Entry, error) {
	if d == nil || d.tree == nil {
		return nil, ErrNilDocument
	}
	if src == nil || src.elem == nil {
		return nil, ErrNilEntry
	}
	parent := src.elem.Parent()
	if parent == nil {
		return nil, ErrDetached
	}

	clone := src.elem.Copy()
	if insertAfter {
		insertCloneAfter(parent, src.elem, clone)
	} else {
		appendClone(parent, src.elem, clone)
	}

	entry := &Entry{Key: entryKey(clone), elem: clone, collection: src.collection}
	if c := src.collection; c != nil {
		if insertAfter {
			c.insertAfter(src, entry)
		} else {
			c.Entries = append(c.Entries, entry)
		}
		entry.Occurrence = occurrenceOf(c, entry)
	} else {
		entry.Occurrence = 1
	}
	return entry, nil
}

func insertCloneAfter(parent, src, clone *etree.Element) {
	idx := src.Index()
	next := tokenAt(parent, idx+1)
	if ws, ok := whitespace(next); ok {
		if _, isElem := tokenAt(parent, idx+2).(*etree.Element); isElem {
			parent.InsertChildAt(idx+2, clone)
			parent.InsertChildAt(idx+3, etree.NewText(ws))
			return
		}
	}

	sep := separatorBefore(parent, idx)
	parent.InsertChildAt(idx+1, etree.NewText(sep))
	parent.InsertChildAt(idx+2, clone)
	if _, isElem := tokenAt(parent, idx+3).(*etree.Element); isElem {
		parent.InsertChildAt(idx+3, etree.NewText(sep))
	}
}

func appendClone(parent, src, clone *etree.Element) {
	sep := separatorBefore(parent, src.Index())
	at := len(parent.Child)
	if _, ok := whitespace(tokenAt(parent, at-1)); ok {
		at--
	}
	parent.InsertChildAt(at, etree.NewText(sep))
	parent.InsertChildAt(at+1, clone)
}

// separatorBefore returns the whitespace preceding the child at idx, or a
// newline when there is none.
func separatorBefore(parent *etree.Element, idx int) string {
	if ws, ok := whitespace(tokenAt(parent, idx-1)); ok {
		return ws
	}
	return "\n"
}

func tokenAt(parent *etree.Element, i int) etree.Token {
	if i < 0 || i >= len(parent.Child) {
		return nil
	}
	return parent.Child[i]
}

// whitespace reports whether t is a whitespace-only text node.
func whitespace(t etree.Token) (string, bool) {
	cd, ok := t.(*etree.CharData)
	if !ok || cd.IsCData() || !cd.IsWhitespace() {
		return "", false
	}
	return cd.Data, true
}

func occurrenceOf(c *Collection, e *Entry) int {
	n := 0
	for _, x := range c.Entries {
		if x.Key == e.Key {
			n++
		}
		if x == e {
			return n
		}
	}
	return n
}
