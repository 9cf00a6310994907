package source

import (
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// FileSet owns every program file loaded for one analysis run.
type FileSet struct {
	files []File
	index map[string]FileID // path -> id
}

// NewFileSet creates a new empty FileSet. ID 0 is reserved for "no file".
func NewFileSet() *FileSet {
	return &FileSet{
		files: []File{{}},
		index: make(map[string]FileID),
	}
}

// Add stores file content and returns a new FileID.
// It always creates a new FileID even if a file with the same path already exists.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	lenFiles, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(lenFiles)
	normalized := filepath.ToSlash(filepath.Clean(path))
	fileSet.files = append(fileSet.files, File{
		ID:      id,
		Path:    normalized,
		Content: content,
		Flags:   flags,
	})
	// всегда указываем на последнюю версию файла
	fileSet.index[normalized] = id
	return id
}

// Load reads a file from disk and calls Add.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return fileSet.Add(path, content, 0), nil
}

// AddVirtual adds an in-memory file with the FileVirtual flag.
func (fileSet *FileSet) AddVirtual(name string, content []byte, flags FileFlags) FileID {
	return fileSet.Add(name, content, flags|FileVirtual)
}

// Get returns the file metadata for the given ID, or nil.
func (fileSet *FileSet) Get(id FileID) *File {
	if id == 0 || int(id) >= len(fileSet.files) {
		return nil
	}
	return &fileSet.files[id]
}

// GetLatest returns the latest file ID for the given path, if it exists.
func (fileSet *FileSet) GetLatest(path string) (FileID, bool) {
	id, ok := fileSet.index[filepath.ToSlash(filepath.Clean(path))]
	return id, ok
}

// Len reports the number of loaded files.
func (fileSet *FileSet) Len() int {
	return len(fileSet.files) - 1
}

// Format renders span as "path:line:col" (or just the path when the position is unknown).
func (fileSet *FileSet) Format(span Span) string {
	f := fileSet.Get(span.File)
	path := "<unknown>"
	if f != nil {
		path = f.Path
	}
	if span.IsZero() {
		return path
	}
	return fmt.Sprintf("%s:%d:%d", path, span.Line, span.Col)
}
