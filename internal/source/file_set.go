package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"strings"
	"sync"

	"fortio.org/safecast"
)

// FileSet manages a collection of XML files loaded for one run.
// It is safe for concurrent use; search workers load files in parallel.
type FileSet struct {
	mu    sync.RWMutex
	files []*File
	index map[string]FileID // path -> id
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		index: make(map[string]FileID),
	}
}

// Add stores a file from text, computes LineIdx and Hash, and returns a new FileID.
// It always creates a new FileID even if a file with the same path already exists.
func (fileSet *FileSet) Add(path, content string, flags FileFlags) *File {
	f := NewFile(path, content, flags)

	fileSet.mu.Lock()
	defer fileSet.mu.Unlock()
	id, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	f.ID = FileID(id)
	fileSet.files = append(fileSet.files, f)
	fileSet.index[f.Path] = f.ID
	return f
}

// Load reads a file from disk, strips a UTF-8 BOM and calls Add.
func (fileSet *FileSet) Load(path string) (*File, error) {
	text, flags, err := ReadText(path)
	if err != nil {
		return nil, err
	}
	return fileSet.Add(path, text, flags), nil
}

// AddVirtual adds an in-memory document with the FileVirtual flag.
func (fileSet *FileSet) AddVirtual(name, content string) *File {
	return fileSet.Add(name, content, FileVirtual)
}

// Get returns the file for the given ID.
func (fileSet *FileSet) Get(id FileID) *File {
	fileSet.mu.RLock()
	defer fileSet.mu.RUnlock()
	if int(id) >= len(fileSet.files) {
		return nil
	}
	return fileSet.files[id]
}

// GetByPath returns the latest file loaded for path.
func (fileSet *FileSet) GetByPath(path string) (*File, bool) {
	fileSet.mu.RLock()
	defer fileSet.mu.RUnlock()
	if id, ok := fileSet.index[normalizePath(path)]; ok {
		return fileSet.files[id], true
	}
	return nil, false
}

// Len reports the number of loaded files.
func (fileSet *FileSet) Len() int {
	fileSet.mu.RLock()
	defer fileSet.mu.RUnlock()
	return len(fileSet.files)
}

// ReadText reads path as text. A leading UTF-8 BOM is removed; line endings are
// preserved so offsets match what the file actually contains.
func ReadText(path string) (string, FileFlags, error) {
	// #nosec G304 -- path is provided by the caller
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", 0, err
	}
	text, hadBOM := removeBOM(string(raw))
	var flags FileFlags
	if hadBOM {
		flags |= FileHadBOM
	}
	if strings.IndexByte(text, '\r') >= 0 {
		flags |= FileHasCR
	}
	return text, flags, nil
}

// NewFile builds a standalone File that does not belong to any FileSet.
func NewFile(path, content string, flags FileFlags) *File {
	return &File{
		Path:    normalizePath(path),
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256([]byte(content)),
		Flags:   flags,
	}
}

// Position converts a byte offset into a line/column pair. Offsets are clamped
// to the content bounds.
func (f *File) Position(offset int) LineCol {
	if offset < 0 {
		offset = 0
	}
	if offset > len(f.Content) {
		offset = len(f.Content)
	}
	off, err := safecast.Conv[uint32](offset)
	if err != nil {
		panic(fmt.Errorf("offset overflow: %w", err))
	}
	return toLineCol(f.LineIdx, off)
}

// LineCount returns the number of lines in the file.
func (f *File) LineCount() int {
	return len(f.LineIdx) + 1
}

// GetLine returns line lineNum (1-based) without its terminator.
// A trailing '\r' is dropped as well. Out of range lines yield "".
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 {
		return ""
	}
	n := int(lineNum)
	if n > len(f.LineIdx)+1 {
		return ""
	}

	start := 0
	if n > 1 {
		start = int(f.LineIdx[n-2]) + 1
	}
	end := len(f.Content)
	if n-1 < len(f.LineIdx) {
		end = int(f.LineIdx[n-1])
	}
	if start > end {
		return ""
	}
	return strings.TrimSuffix(f.Content[start:end], "\r")
}
