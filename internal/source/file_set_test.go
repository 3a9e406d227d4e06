package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	f1 := fs.Add("test.xml", "<a/>", 0)
	if f1.ID != 0 {
		t.Errorf("Expected first FileID to be 0, got %d", f1.ID)
	}

	f2 := fs.Add("test.xml", "<b/>", 0)
	if f2.ID != 1 {
		t.Errorf("Expected second FileID to be 1, got %d", f2.ID)
	}

	latest, ok := fs.GetByPath("test.xml")
	if !ok {
		t.Fatal("Expected file to exist after Add")
	}
	if latest.ID != f2.ID {
		t.Errorf("Expected latest ID to be %d, got %d", f2.ID, latest.ID)
	}
	if got := fs.Get(f1.ID).Content; got != "<a/>" {
		t.Errorf("Expected first file content to survive, got %q", got)
	}
	if fs.Len() != 2 {
		t.Errorf("Expected 2 files, got %d", fs.Len())
	}
}

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()
	file := fs.AddVirtual("a.xml", "a\nb\n")

	expected := []uint32{1, 3}
	if len(file.LineIdx) != len(expected) {
		t.Fatalf("Expected LineIdx length %d, got %d", len(expected), len(file.LineIdx))
	}
	for i, val := range expected {
		if file.LineIdx[i] != val {
			t.Errorf("Expected LineIdx[%d] = %d, got %d", i, val, file.LineIdx[i])
		}
	}
	if file.Flags&FileVirtual == 0 {
		t.Error("Expected FileVirtual flag to be set")
	}
}

func TestLoadStripsBOMKeepsCRLF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bom.xml")
	if err := os.WriteFile(path, []byte("\xef\xbb\xbf<a>\r\n</a>"), 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	fs := NewFileSet()
	file, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if file.Content != "<a>\r\n</a>" {
		t.Errorf("unexpected content %q", file.Content)
	}
	if file.Flags&FileHadBOM == 0 {
		t.Error("Expected FileHadBOM flag")
	}
	if file.Flags&FileHasCR == 0 {
		t.Error("Expected FileHasCR flag")
	}
	if got := file.GetLine(1); got != "<a>" {
		t.Errorf("GetLine(1) = %q, want %q", got, "<a>")
	}
}

func TestLoadMissingFile(t *testing.T) {
	fs := NewFileSet()
	if _, err := fs.Load(filepath.Join(t.TempDir(), "missing.xml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFilePositionMatchesStringConversion(t *testing.T) {
	text := "<root>\n  <a>x</a>\n\n<b/>"
	file := NewFile("p.xml", text, 0)
	for off := 0; off <= len(text); off++ {
		line, col := OffsetToLineCol(text, off)
		pos := file.Position(off)
		if int(pos.Line) != line || int(pos.Col) != col {
			t.Fatalf("offset %d: File.Position=%d:%d, OffsetToLineCol=%d:%d", off, pos.Line, pos.Col, line, col)
		}
	}
}

func TestGetLineBounds(t *testing.T) {
	file := NewFile("g.xml", "one\ntwo\nthree", 0)
	cases := map[uint32]string{0: "", 1: "one", 2: "two", 3: "three", 4: ""}
	for n, want := range cases {
		if got := file.GetLine(n); got != want {
			t.Errorf("GetLine(%d) = %q, want %q", n, got, want)
		}
	}
	if file.LineCount() != 3 {
		t.Errorf("LineCount = %d, want 3", file.LineCount())
	}
}

func TestRelativePathOutsideBaseFallsBackToAbsolute(t *testing.T) {
	tmp := t.TempDir()
	baseDir := filepath.Join(tmp, "base")
	target := filepath.Join(tmp, "other", "file.xml")

	got, err := RelativePath(target, baseDir)
	if err != nil {
		t.Fatalf("RelativePath returned error: %v", err)
	}
	if want := normalizePath(target); got != want {
		t.Fatalf("expected absolute fallback %q, got %q", want, got)
	}
}

func TestRelativePathInsideBaseStaysRelative(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "sub", "file.xml")

	got, err := RelativePath(target, tmp)
	if err != nil {
		t.Fatalf("RelativePath returned error: %v", err)
	}
	if got != "sub/file.xml" {
		t.Fatalf("expected relative path, got %q", got)
	}
}
