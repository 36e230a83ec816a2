package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ ContentSource = (*FilesystemSource)(nil)
	_ ContentSource = (*MemorySource)(nil)
)

func TestFilesystemSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.ts")
	require.NoError(t, os.WriteFile(path, []byte("const x = 1;\n"), 0644))

	src := NewFilesystem()

	content, err := src.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "const x = 1;\n", string(content))

	_, err = src.Read(filepath.Join(dir, "missing.ts"))
	assert.Error(t, err)
}

func TestMemorySource(t *testing.T) {
	src := NewMemory(map[string][]byte{
		"/virtual/app.ts": []byte("export const y = 2;\n"),
	})

	content, err := src.Read("/virtual/app.ts")
	require.NoError(t, err)
	assert.Equal(t, "export const y = 2;\n", string(content))

	_, err = src.Read("/virtual/other.ts")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
