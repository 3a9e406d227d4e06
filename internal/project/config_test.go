package project

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDiscoverWithoutFileReturnsDefaults(t *testing.T) {
	cfg, err := Discover(t.TempDir(), "")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("got %+v, want defaults", cfg)
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, root, "[search]\nmax_results = 5\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, err := Discover(nested, "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Path != path {
		t.Errorf("path = %q, want %q", cfg.Path, path)
	}
	if cfg.Search.MaxResults != 5 {
		t.Errorf("max_results = %d", cfg.Search.MaxResults)
	}
	if !cfg.Search.Parallel || cfg.Check.MaxLint != 50 {
		t.Errorf("unset keys lost their defaults: %+v", cfg)
	}

	dir, ok, err := FindRoot(nested)
	if err != nil || !ok || dir != root {
		t.Errorf("FindRoot = %q, %v, %v", dir, ok, err)
	}
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[search]
case_sensitive = true
max_results = 10
parallel = false
extensions = ["XML", ".config", ".xml"]

[check]
max_lint = 5
jobs = 2
disk_cache = true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want := Config{
		Search: SearchConfig{CaseSensitive: true, MaxResults: 10, Extensions: []string{".xml", ".config"}},
		Check:  CheckConfig{MaxLint: 5, Jobs: 2, DiskCache: true},
		Path:   path,
	}
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("got  %+v\nwant %+v", cfg, want)
	}
	if !cfg.Search.HasExtension("Data/App.CONFIG") || cfg.Search.HasExtension("notes.txt") {
		t.Error("HasExtension mismatch")
	}
}

func TestLoadRejectsBadConfigs(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown key", "[search]\nmax_result = 3\n", "unknown keys: search.max_result"},
		{"unknown table", "[index]\nroot = \"x\"\n", "index.root"},
		{"bad syntax", "[search\n", "failed to parse TOML"},
		{"zero results", "[search]\nmax_results = 0\n", "max_results"},
		{"negative jobs", "[check]\njobs = -1\n", "jobs"},
		{"empty extensions", "[search]\nextensions = []\n", "extensions"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.content)
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestDiscoverExplicitMissing(t *testing.T) {
	if _, err := Discover(".", filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}
