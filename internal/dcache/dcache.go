// Package dcache keeps check results on disk, keyed by a digest of the checked
// text and the options that shaped the result.
package dcache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"xmlscope/internal/diag"
	"xmlscope/internal/scope"
)

// bump when payload changes shape
const schemaVersion uint16 = 1

// Digest identifies a cached result.
type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// IsZero reports whether d was never computed.
func (d Digest) IsZero() bool { return d == Digest{} }

// Key hashes content followed by parts. Each part is length-prefixed so that
// ("ab", "c") and ("a", "bc") differ.
func Key(content string, parts ...string) Digest {
	h := sha256.New()
	_, _ = h.Write([]byte(content))
	for _, p := range parts {
		var n [8]byte
		for i, l := 0, uint64(len(p)); i < 8; i++ {
			n[i] = byte(l >> (8 * i))
		}
		_, _ = h.Write(n[:])
		_, _ = h.Write([]byte(p))
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Result is what one file check produces.
type Result struct {
	Problems  []diag.Problem
	Scopes    []scope.Range
	ScopeKind scope.Kind
}

// Cache stores results under a directory. Safe for concurrent use; a nil
// *Cache is a valid cache that never hits.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

type payload struct {
	Schema    uint16          `msgpack:"v"`
	Problems  []problemRecord `msgpack:"p"`
	Scopes    []scope.Range   `msgpack:"s"`
	ScopeKind uint8           `msgpack:"k"`
}

type problemRecord struct {
	Severity uint8  `msgpack:"sev"`
	Code     uint16 `msgpack:"code"`
	Message  string `msgpack:"msg"`
	Offset   int    `msgpack:"off"`
	Line     int    `msgpack:"line"`
	Column   int    `msgpack:"col"`
}

// Open returns the cache for app under XDG_CACHE_HOME, or ~/.cache.
func Open(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenAt(filepath.Join(base, app))
}

// OpenAt uses dir directly.
func OpenAt(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *Cache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "checks", key.String()+".mp")
}

// Put writes r under key. The file is replaced atomically.
func (c *Cache) Put(key Digest, r *Result) error {
	if c == nil || r == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		// after a successful rename the temp file is already gone
		_ = os.Remove(tmp)
	}()

	if err := msgpack.NewEncoder(f).Encode(toPayload(r)); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

// Get reads the result stored under key. A missing entry or one written by
// another schema version is a miss, not an error.
func (c *Cache) Get(key Digest) (*Result, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var pl payload
	if err := msgpack.NewDecoder(f).Decode(&pl); err != nil {
		return nil, false, err
	}
	if pl.Schema != schemaVersion {
		return nil, false, nil
	}
	return fromPayload(&pl), true, nil
}

// DropAll removes every entry.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return os.MkdirAll(c.dir, 0o755)
		}
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

func toPayload(r *Result) *payload {
	pl := &payload{
		Schema:    schemaVersion,
		Problems:  make([]problemRecord, len(r.Problems)),
		Scopes:    r.Scopes,
		ScopeKind: uint8(r.ScopeKind),
	}
	for i, p := range r.Problems {
		pl.Problems[i] = problemRecord{
			Severity: uint8(p.Severity),
			Code:     uint16(p.Code),
			Message:  p.Message,
			Offset:   p.Offset,
			Line:     p.Line,
			Column:   p.Column,
		}
	}
	return pl
}

func fromPayload(pl *payload) *Result {
	r := &Result{
		Scopes:    pl.Scopes,
		ScopeKind: scope.Kind(pl.ScopeKind),
	}
	if len(pl.Problems) > 0 {
		r.Problems = make([]diag.Problem, len(pl.Problems))
		for i, p := range pl.Problems {
			r.Problems[i] = diag.Problem{
				Severity: diag.Severity(p.Severity),
				Code:     diag.Code(p.Code),
				Message:  p.Message,
				Offset:   p.Offset,
				Line:     p.Line,
				Column:   p.Column,
			}
		}
	}
	return r
}
