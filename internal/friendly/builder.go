package friendly

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// TryBuild parses text and derives its collections. It reports false for
// blank or unparsable text, a root without child elements, or when no
// collection could be derived.
func TryBuild(text string) (*Document, bool) {
	if strings.TrimSpace(text) == "" {
		return nil, false
	}
	tree, err := parse(text)
	if err != nil {
		return nil, false
	}
	root := tree.Root()
	children := root.ChildElements()
	if len(children) == 0 {
		return nil, false
	}

	var b builder
	for _, child := range children {
		b.visit(child)
	}

	doc := &Document{tree: tree}
	doc.Collections = append(b.repeating.list, b.fallback.list...)
	if len(doc.Collections) == 0 {
		return nil, false
	}
	for _, c := range doc.Collections {
		numberOccurrences(c)
	}
	doc.PrimaryCollectionKey = primary(doc.Collections)
	return doc, true
}

// collectionSet keeps collections in discovery order and merges titles that
// differ only in case.
type collectionSet struct {
	list  []*Collection
	index map[string]*Collection
}

func (s *collectionSet) get(title string) *Collection {
	if s.index == nil {
		s.index = make(map[string]*Collection)
	}
	k := foldKey(title)
	if c, ok := s.index[k]; ok {
		return c
	}
	c := &Collection{Title: title}
	s.index[k] = c
	s.list = append(s.list, c)
	return c
}

type builder struct {
	repeating collectionSet
	fallback  collectionSet
}

type group struct {
	name  string
	elems []*etree.Element
}

func (b *builder) visit(child *etree.Element) {
	grand := child.ChildElements()
	if len(grand) < 2 {
		b.direct(child)
		return
	}

	var groups []*group
	byName := make(map[string]*group)
	for _, g := range grand {
		k := foldKey(g.Tag)
		grp, ok := byName[k]
		if !ok {
			grp = &group{name: g.Tag}
			byName[k] = grp
			groups = append(groups, grp)
		}
		grp.elems = append(grp.elems, g)
	}

	var qualifying []*group
	for _, g := range groups {
		if len(g.elems) >= 2 {
			qualifying = append(qualifying, g)
		}
	}
	if len(qualifying) == 0 {
		b.direct(child)
		return
	}

	for _, g := range qualifying {
		title := child.Tag
		if len(qualifying) > 1 {
			title = child.Tag + "/" + g.name
		}
		c := b.repeating.get(title)
		for _, el := range g.elems {
			c.Entries = append(c.Entries, newEntry(el, c))
		}
	}
}

func (b *builder) direct(child *etree.Element) {
	c := b.fallback.get(child.Tag)
	c.Entries = append(c.Entries, newEntry(child, c))
}

func newEntry(el *etree.Element, c *Collection) *Entry {
	return &Entry{Key: entryKey(el), elem: el, collection: c}
}

// entryKey prefers the resolver in key mode, then a child named like an ID,
// then the element name with its position among same-named siblings.
func entryKey(el *etree.Element) string {
	if v, ok := Resolve(el, ModeKey); ok {
		return v
	}
	for _, c := range el.ChildElements() {
		if strings.HasSuffix(strings.ToUpper(c.Tag), "ID") {
			if v := strings.TrimSpace(c.Text()); v != "" {
				return v
			}
		}
	}
	return fmt.Sprintf("%s[%d]", el.Tag, siblingIndex(el))
}

// siblingIndex is the 1-based position of el among same-named siblings.
func siblingIndex(el *etree.Element) int {
	parent := el.Parent()
	if parent == nil {
		return 1
	}
	n := 0
	for _, s := range parent.ChildElements() {
		if strings.EqualFold(s.Tag, el.Tag) {
			n++
		}
		if s == el {
			return n
		}
	}
	return n + 1
}

func numberOccurrences(c *Collection) {
	seen := make(map[string]int, len(c.Entries))
	for _, e := range c.Entries {
		seen[e.Key]++
		e.Occurrence = seen[e.Key]
	}
}

func primary(cols []*Collection) string {
	var best *Collection
	for _, c := range cols {
		if best == nil || len(c.Entries) > len(best.Entries) {
			best = c
		}
	}
	if best == nil {
		return ""
	}
	return best.Title
}
