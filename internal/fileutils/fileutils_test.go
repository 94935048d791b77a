package fileutils

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "invoice.pdf")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0600))

	assert.True(t, FileExists(file))
	assert.False(t, FileExists(dir))
	assert.False(t, FileExists(filepath.Join(dir, "missing.pdf")))
}

func TestWriteFile_CreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "2024", "01", "invoice.pdf")

	require.NoError(t, WriteFile(path, []byte("%PDF"), 0600))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data))
}

func TestWriteFile_ParentIsFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))

	err := WriteFile(filepath.Join(blocker, "out.pdf"), []byte("x"), 0600)
	assert.ErrorContains(t, err, "failed to create directory")
}

func TestCreateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "results.csv")

	f, err := CreateFile(path)
	require.NoError(t, err)
	_, err = io.WriteString(f, "seqnum\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	assert.True(t, FileExists(path))
}
