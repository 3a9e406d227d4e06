package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, editor buffer).
	FileVirtual FileFlags = 1 << iota
	// FileHadBOM indicates a UTF-8 byte order mark was stripped on load.
	FileHadBOM
	// FileHasCR indicates the content contains carriage returns.
	FileHasCR
)

// File captures metadata and content for a single XML document.
//
// Content is kept exactly as read (minus a leading BOM) so that offsets
// reported against it match the text an editor shows.
type File struct {
	ID      FileID
	Path    string
	Content string
	LineIdx []uint32 // offsets of every '\n'
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}
