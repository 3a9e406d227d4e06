package friendly

import (
	"reflect"
	"strings"
	"testing"

	"github.com/beevik/etree"
)

// countValues counts attributes plus leaf elements reachable from el.
func countValues(el *etree.Element) int {
	n := 0
	for _, a := range el.Attr {
		if !isNamespaceDecl(a) {
			n++
		}
	}
	children := el.ChildElements()
	if len(children) == 0 {
		return n + 1
	}
	for _, c := range children {
		n += countValues(c)
	}
	return n
}

func TestFlattenKeys(t *testing.T) {
	el := element(t, `<Item id="1"><Address><City>Oslo</City><Zip>0150</Zip></Address><Tag>a</Tag><tag>b</tag><Items><Sub id="x"/></Items></Item>`)
	fs := Flatten(el)

	want := []string{"@id", "Address/City", "Address/Zip", "Tag[1]", "tag[2]", "Items/Sub/@id", "Items/Sub"}
	if got := fs.Keys(); !reflect.DeepEqual(got, want) {
		t.Fatalf("keys = %v\nwant %v", got, want)
	}

	f, ok := fs.Get("address/city")
	if !ok {
		t.Fatal("case-insensitive lookup failed")
	}
	if f.Value() != "Oslo" || f.Kind != FieldLeaf {
		t.Errorf("Address/City = %q (%s)", f.Value(), f.Kind)
	}
	if f, _ := fs.Get("TAG[2]"); f.Value() != "b" {
		t.Errorf("tag[2] = %q", f.Value())
	}
	if f, _ := fs.Get("Items/Sub/@id"); f.Kind != FieldAttr || f.Value() != "x" {
		t.Errorf("Items/Sub/@id = %q (%s)", f.Value(), f.Kind)
	}
}

func TestFlattenLeafRoot(t *testing.T) {
	fs := Flatten(element(t, `<Item a="1"> v </Item>`))
	if got := fs.Keys(); !reflect.DeepEqual(got, []string{"@a", "Item"}) {
		t.Fatalf("keys = %v", got)
	}
	if f, _ := fs.Get("Item"); f.Value() != "v" {
		t.Errorf("Item = %q", f.Value())
	}
}

func TestFlattenKeysAreUniqueAndCountLeaves(t *testing.T) {
	docs := []string{
		`<r><a/><A/><a x="1"><b>1</b><b>2</b><B>3</B></a></r>`,
		`<r k="v"><x><y><z>deep</z></y></x><x/></r>`,
		`<r><one>1</one></r>`,
		`<r xmlns="urn:d" xmlns:a="urn:a" xmlns:b="urn:b"><Item a:id="1" b:id="2" ID="3"><x>v</x></Item></r>`,
	}
	for _, text := range docs {
		el := element(t, text)
		fs := Flatten(el)

		seen := map[string]bool{}
		for _, k := range fs.Keys() {
			u := strings.ToUpper(k)
			if seen[u] {
				t.Errorf("%s: duplicate key %q", text, k)
			}
			seen[u] = true
		}

		want := countValues(el)
		if fs.Len() != want {
			t.Errorf("%s: %d fields, want %d", text, fs.Len(), want)
		}
	}
}

func TestFlattenCollidingAttributes(t *testing.T) {
	el := element(t, `<Item xmlns:a="urn:a" xmlns:b="urn:b" a:id="1" b:id="2" kind="k"><x>v</x></Item>`)
	fs := Flatten(el)

	want := []string{"@id[1]", "@id[2]", "@kind", "x"}
	if got := fs.Keys(); !reflect.DeepEqual(got, want) {
		t.Fatalf("keys = %v\nwant %v", got, want)
	}
	for key, value := range map[string]string{"@id[1]": "1", "@ID[2]": "2", "@kind": "k"} {
		f, ok := fs.Get(key)
		if !ok || f.Value() != value {
			t.Errorf("%s: got %v %q, want %q", key, ok, f.Value(), value)
		}
	}

	f, _ := fs.Get("@id[2]")
	if err := f.set("9"); err != nil {
		t.Fatal(err)
	}
	if got := el.SelectAttrValue("b:id", ""); got != "9" {
		t.Errorf("b:id = %q after edit", got)
	}
	if got := el.SelectAttrValue("a:id", ""); got != "1" {
		t.Errorf("a:id = %q after edit of b:id", got)
	}
}
