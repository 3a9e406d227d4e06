// Package project loads xmlscope.toml, the per-tree defaults for search and
// check commands.
package project

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the decoded xmlscope.toml.
type Config struct {
	Search SearchConfig `toml:"search"`
	Check  CheckConfig  `toml:"check"`

	// Path is the file the config was read from; empty for defaults.
	Path string `toml:"-"`
}

type SearchConfig struct {
	CaseSensitive bool     `toml:"case_sensitive"`
	MaxResults    int      `toml:"max_results"`
	Parallel      bool     `toml:"parallel"`
	Extensions    []string `toml:"extensions"`
}

type CheckConfig struct {
	MaxLint   int  `toml:"max_lint"`
	Jobs      int  `toml:"jobs"` // 0 means GOMAXPROCS
	DiskCache bool `toml:"disk_cache"`
}

// Default returns the configuration used when no file is found.
func Default() Config {
	return Config{
		Search: SearchConfig{
			MaxResults: 1000,
			Parallel:   true,
			Extensions: []string{".xml"},
		},
		Check: CheckConfig{
			MaxLint: 50,
		},
	}
}

// Load decodes path over the defaults. Keys the config does not know are an
// error so that typos do not go unnoticed.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("search", "extensions") && len(cfg.Search.Extensions) == 0 {
		return Config{}, fmt.Errorf("%s: [search].extensions must not be empty", path)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Search.Extensions = normalizeExtensions(cfg.Search.Extensions)
	cfg.Path = path
	return cfg, nil
}

// Discover loads explicit when set, otherwise the nearest xmlscope.toml above
// startDir. Without a file the defaults are returned.
func Discover(startDir, explicit string) (Config, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return Config{}, fmt.Errorf("config file: %w", err)
		}
		return Load(explicit)
	}
	path, ok, err := FindConfig(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

func (c Config) validate() error {
	if c.Search.MaxResults < 1 {
		return fmt.Errorf("[search].max_results must be at least 1, got %d", c.Search.MaxResults)
	}
	if c.Check.MaxLint < 1 {
		return fmt.Errorf("[check].max_lint must be at least 1, got %d", c.Check.MaxLint)
	}
	if c.Check.Jobs < 0 {
		return fmt.Errorf("[check].jobs must not be negative, got %d", c.Check.Jobs)
	}
	return nil
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	seen := make(map[string]bool, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if !seen[e] {
			seen[e] = true
			out = append(out, e)
		}
	}
	return out
}

// HasExtension reports whether path ends with one of the configured extensions.
func (c SearchConfig) HasExtension(path string) bool {
	lower := strings.ToLower(path)
	for _, e := range c.Extensions {
		if strings.HasSuffix(lower, e) {
			return true
		}
	}
	return false
}
