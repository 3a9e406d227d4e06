package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"xmlscope/internal/project"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("<a/>"), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestExpandPaths(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b.xml"))
	touch(t, filepath.Join(dir, "a.XML"))
	touch(t, filepath.Join(dir, "app.config"))
	touch(t, filepath.Join(dir, "notes.txt"))
	touch(t, filepath.Join(dir, "sub", "c.xml"))
	touch(t, filepath.Join(dir, ".git", "d.xml"))

	cfg := project.Default().Search
	cfg.Extensions = []string{".xml", ".config"}
	extra := filepath.Join(dir, "notes.txt")

	got, err := expandPaths([]string{dir, extra, filepath.Join(dir, "b.xml")}, cfg)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(dir, "a.XML"),
		filepath.Join(dir, "app.config"),
		filepath.Join(dir, "b.xml"),
		filepath.Join(dir, "sub", "c.xml"),
		extra,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got  %v\nwant %v", got, want)
	}
}

func TestExpandPathsMissing(t *testing.T) {
	if _, err := expandPaths([]string{filepath.Join(t.TempDir(), "nope.xml")}, project.Default().Search); err == nil {
		t.Fatal("expected error")
	}
}
