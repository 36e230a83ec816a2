package fileproc

import (
	"context"
	"fmt"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/panbanda/vestige/pkg/parser"
	"github.com/panbanda/vestige/pkg/source"
)

func TestMapSourceFilesPooled(t *testing.T) {
	tmpDir := t.TempDir()

	fileCount := 50
	files := make([]string, fileCount)
	for i := range fileCount {
		files[i] = createTestFile(t, tmpDir, fmt.Sprintf("file%d.ts", i), "export const v = 1;")
	}

	results, errs := MapSourceFilesPooled(context.Background(), files, source.NewFilesystem(), 0,
		func(psr *parser.Parser, path string, content []byte) (string, error) {
			res, err := psr.Parse(content, parser.LangTypeScript, path)
			if err != nil {
				return "", err
			}
			if res.Tree == nil {
				return "", fmt.Errorf("nil tree for %s", path)
			}
			return filepath.Base(path), nil
		})

	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(results) != fileCount {
		t.Fatalf("got %d results, want %d", len(results), fileCount)
	}

	seen := make(map[string]bool)
	for _, r := range results {
		seen[r] = true
	}
	for i := range fileCount {
		name := fmt.Sprintf("file%d.ts", i)
		if !seen[name] {
			t.Errorf("missing result for %s", name)
		}
	}
}

func TestMapSourceFilesPooledReusesParsers(t *testing.T) {
	tmpDir := t.TempDir()

	fileCount := 100
	files := make([]string, fileCount)
	for i := range fileCount {
		files[i] = createTestFile(t, tmpDir, fmt.Sprintf("file%d.ts", i), "let x = 0;")
	}

	parserAddrs := make(map[uintptr]int)
	var mu sync.Mutex

	results, errs := MapSourceFilesPooled(context.Background(), files, source.NewFilesystem(), 0,
		func(psr *parser.Parser, path string, content []byte) (int, error) {
			addr := reflect.ValueOf(psr).Pointer()
			mu.Lock()
			parserAddrs[addr]++
			mu.Unlock()
			return 1, nil
		})

	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(results) != fileCount {
		t.Fatalf("got %d results, want %d", len(results), fileCount)
	}
	if len(parserAddrs) >= fileCount {
		t.Errorf("expected parser reuse: %d unique parsers for %d files", len(parserAddrs), fileCount)
	}
}

func TestMapSourceFilesPooledEmpty(t *testing.T) {
	results, errs := MapSourceFilesPooled(context.Background(), nil, source.NewFilesystem(), 0,
		func(_ *parser.Parser, path string, _ []byte) (int, error) {
			return 1, nil
		})
	if results != nil || errs != nil {
		t.Errorf("got (%v, %v), want (nil, nil)", results, errs)
	}
}

func TestParserPoolHandsBackSameParsers(t *testing.T) {
	pl := newParserPool(2)
	defer pl.close()

	a := pl.get()
	b := pl.get()
	if a == b {
		t.Fatal("pool handed out the same parser twice")
	}
	pl.put(a)
	pl.put(b)

	c := pl.get()
	if c != a && c != b {
		t.Error("pool returned a parser it never held")
	}
	pl.put(c)
}
