package source

type (
	// FileID uniquely identifies a program file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a program file.
	FileFlags uint8
)

const (
	// FileVirtual indicates the file was added from memory (test, embedded stubs).
	FileVirtual FileFlags = 1 << iota
	// FileStub marks library stubs loaded before user modules.
	FileStub
)

// File captures metadata and content for a single program file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	Flags   FileFlags
}
