package friendly

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// FieldKind tells what a field is bound to in the live tree.
type FieldKind uint8

const (
	FieldAttr FieldKind = iota + 1
	FieldLeaf
)

func (k FieldKind) String() string {
	switch k {
	case FieldAttr:
		return "attr"
	case FieldLeaf:
		return "leaf"
	default:
		return "unknown"
	}
}

// Field is one flattened value. It reads and writes through to the element it
// is bound to, so its value always reflects the live tree.
type Field struct {
	Key  string
	Kind FieldKind

	elem *etree.Element
	attr string // full attribute key for FieldAttr
}

// Element returns the element that owns the value.
func (f *Field) Element() *etree.Element { return f.elem }

// Value returns the current, trimmed value.
func (f *Field) Value() string {
	if f == nil || f.elem == nil {
		return ""
	}
	switch f.Kind {
	case FieldAttr:
		return f.elem.SelectAttrValue(f.attr, "")
	case FieldLeaf:
		return strings.TrimSpace(f.elem.Text())
	}
	return ""
}

func (f *Field) set(value string) error {
	if f.elem == nil {
		return fmt.Errorf("%w: %s", ErrFieldNotUpdatable, f.Key)
	}
	switch f.Kind {
	case FieldAttr:
		f.elem.CreateAttr(f.attr, value)
		return nil
	case FieldLeaf:
		if len(f.elem.ChildElements()) > 0 {
			return fmt.Errorf("%w: %s has child elements", ErrFieldNotUpdatable, f.Key)
		}
		if leadingCData(f.elem) {
			f.elem.SetCData(value)
		} else {
			f.elem.SetText(value)
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrFieldNotUpdatable, f.Key)
}

func leadingCData(el *etree.Element) bool {
	for _, t := range el.Child {
		cd, ok := t.(*etree.CharData)
		if !ok {
			return false
		}
		if cd.IsCData() {
			return true
		}
	}
	return false
}

// Fields is an ordered map from field key to field. Lookups ignore case and
// iteration follows document order.
type Fields struct {
	list  []*Field
	index map[string]int
}

func newFields() *Fields {
	return &Fields{index: make(map[string]int)}
}

func foldKey(s string) string { return strings.ToUpper(s) }

// add keeps the first field registered under a key.
func (fs *Fields) add(f *Field) bool {
	k := foldKey(f.Key)
	if _, dup := fs.index[k]; dup {
		return false
	}
	fs.index[k] = len(fs.list)
	fs.list = append(fs.list, f)
	return true
}

// Get looks a field up by key, ignoring case.
func (fs *Fields) Get(key string) (*Field, bool) {
	if fs == nil {
		return nil, false
	}
	i, ok := fs.index[foldKey(key)]
	if !ok {
		return nil, false
	}
	return fs.list[i], true
}

func (fs *Fields) Len() int {
	if fs == nil {
		return 0
	}
	return len(fs.list)
}

// List returns the fields in document order. Do not modify it.
func (fs *Fields) List() []*Field {
	if fs == nil {
		return nil
	}
	return fs.list
}

// Keys returns the field keys in document order.
func (fs *Fields) Keys() []string {
	keys := make([]string, 0, fs.Len())
	for _, f := range fs.List() {
		keys = append(keys, f.Key)
	}
	return keys
}

// Flatten turns el into path-keyed fields. Attributes become "@name" keys,
// leaf elements are keyed by their path and repeated children are indexed
// from 1 as "name[n]". Attributes sharing a local name are indexed the same
// way ("@id[2]"); namespace declarations are not fields.
func Flatten(el *etree.Element) *Fields {
	fs := newFields()
	if el != nil {
		flatten(el, "", fs)
	}
	return fs
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

// isNamespaceDecl reports xmlns and xmlns:p attributes, which declare
// prefixes rather than carry values.
func isNamespaceDecl(a etree.Attr) bool {
	return a.Space == "xmlns" || (a.Space == "" && a.Key == "xmlns")
}

func flatten(el *etree.Element, prefix string, fs *Fields) {
	attrCounts := make(map[string]int, len(el.Attr))
	for _, a := range el.Attr {
		if !isNamespaceDecl(a) {
			attrCounts[foldKey(a.Key)]++
		}
	}
	attrSeen := make(map[string]int, len(el.Attr))
	for _, a := range el.Attr {
		if isNamespaceDecl(a) {
			continue
		}
		name := "@" + a.Key
		// a:id and b:id share a local name; index them like repeated children
		if k := foldKey(a.Key); attrCounts[k] > 1 {
			attrSeen[k]++
			name = fmt.Sprintf("@%s[%d]", a.Key, attrSeen[k])
		}
		fs.add(&Field{Key: joinPath(prefix, name), Kind: FieldAttr, elem: el, attr: a.FullKey()})
	}

	children := el.ChildElements()
	if len(children) == 0 {
		key := prefix
		if key == "" {
			key = el.Tag
		}
		fs.add(&Field{Key: key, Kind: FieldLeaf, elem: el})
		return
	}

	counts := make(map[string]int, len(children))
	for _, c := range children {
		counts[foldKey(c.Tag)]++
	}
	seen := make(map[string]int, len(children))
	for _, c := range children {
		k := foldKey(c.Tag)
		if counts[k] == 1 {
			flatten(c, joinPath(prefix, c.Tag), fs)
			continue
		}
		seen[k]++
		flatten(c, joinPath(prefix, fmt.Sprintf("%s[%d]", c.Tag, seen[k])), fs)
	}
}
