package source

type (
	// FileID uniquely identifies an input file within a FileSet.
	FileID uint32
	// FileFlags encodes how the content was normalized on load.
	FileFlags uint8
)

const (
	// FileVirtual indicates the file was added from memory (stdin, test).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
	// FileFoldedWidth marks content that went through NFKC folding
	// (full-width digits become ASCII).
	FileFoldedWidth
)

// File captures metadata and content for a single input file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of '\n'
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol represents a human-readable position in a file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}

// LoadOptions tune how Load normalizes file content.
type LoadOptions struct {
	FoldWidth bool
}
