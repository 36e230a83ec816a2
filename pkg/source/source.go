// Package source abstracts where file content comes from so the analysis
// pipeline can run against the filesystem or against in-memory snippets.
package source

import "os"

// ContentSource provides file content for a path.
type ContentSource interface {
	// Read returns the content of the file at path.
	Read(path string) ([]byte, error)
}

// FilesystemSource reads files from the local filesystem.
type FilesystemSource struct{}

// NewFilesystem creates a source that reads from the filesystem.
func NewFilesystem() *FilesystemSource {
	return &FilesystemSource{}
}

// Read implements ContentSource.
func (f *FilesystemSource) Read(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// MemorySource serves content from a path-keyed map. It backs tests and the
// snippet analysis path, where content never touches disk.
type MemorySource struct {
	files map[string][]byte
}

// NewMemory creates a source over the given path to content map.
func NewMemory(files map[string][]byte) *MemorySource {
	return &MemorySource{files: files}
}

// Read implements ContentSource.
func (m *MemorySource) Read(path string) ([]byte, error) {
	content, ok := m.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return content, nil
}
