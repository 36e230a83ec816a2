// Package fileproc runs per-file analysis callbacks across worker pools.
package fileproc

import (
	"fmt"
	"sync"

	"github.com/panbanda/vestige/pkg/source"
)

// DefaultWorkerMultiplier is the multiplier applied to NumCPU for worker count.
// 2x is optimal for mixed I/O and CGO workloads.
const DefaultWorkerMultiplier = 2

// ContentSource is an alias for source.ContentSource so callers inside the
// processing layer don't need a second import.
type ContentSource = source.ContentSource

// ProcessingError records a failure for a single file.
type ProcessingError struct {
	Path string
	Err  error
}

func (e ProcessingError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// ProcessingErrors collects per-file failures from a parallel run.
type ProcessingErrors struct {
	Errors []ProcessingError
	mu     sync.Mutex
}

// Add appends an error to the collection (thread-safe).
func (e *ProcessingErrors) Add(path string, err error) {
	e.mu.Lock()
	e.Errors = append(e.Errors, ProcessingError{Path: path, Err: err})
	e.mu.Unlock()
}

// HasErrors returns true if any errors were collected.
func (e *ProcessingErrors) HasErrors() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.Errors) > 0
}

// Error implements the error interface.
func (e *ProcessingErrors) Error() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d files failed to process (first: %v)", len(e.Errors), e.Errors[0])
}

// fileWithContent holds a file path and its loaded content.
type fileWithContent struct {
	path    string
	content []byte
}

// readAll loads file content sequentially, dropping files that cannot be
// read or that exceed maxSize bytes. A maxSize of 0 means no limit.
// Sequential reads keep ContentSource implementations free of locking.
func readAll(files []string, src ContentSource, maxSize int64) []fileWithContent {
	loaded := make([]fileWithContent, 0, len(files))
	for _, path := range files {
		content, err := src.Read(path)
		if err != nil {
			continue
		}
		if maxSize > 0 && int64(len(content)) > maxSize {
			continue
		}
		loaded = append(loaded, fileWithContent{path: path, content: content})
	}
	return loaded
}
