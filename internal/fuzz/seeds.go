package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const maxSeedBytes = 64 << 10

var builtinSeeds = []string{
	"",
	"<a/>",
	"<root>\n  <item id=\"1\"><name>Bolt</name></item>\n  <item id=\"2\"><name>Screw</name></item>\n</root>\n",
	"<root>\n  <a>\n</root>",
	"<r><a/>text<b/></r>",
	"<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><r/>",
	"<?xml version=\"1.0\" encoding=\"bogus\"?><r/>",
	"<!DOCTYPE r [<!ENTITY x \"y\">]><r>&x;</r>",
	"<r><![CDATA[<not a tag>]]><!-- <c> --><?pi <p>?></r>",
	"<r a='1' b=\"x>y\"\n   c='2'/>",
	"<r>\r\n<s>\r</s>\r\n</r>",
	"<Items><Item><Item>1</Item></Items>",
	"<root>\n  <a\n  <b/>\n</root>",
	"</stray><r/>",
	"<r>Kelvin</r>",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range builtinSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

// addTestdataSeeds adds every *.xml file under the repository testdata
// directory, when there is one.
func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".xml") {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
