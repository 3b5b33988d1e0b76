package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteNamesFileFromURL(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir)
	require.NoError(t, err)

	path, err := w.Write("https://example.com/docs/intro", []byte("# Intro"), ".md")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "example_com_docs_intro.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Intro", string(data))
}

func TestWriteRootURL(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir)
	require.NoError(t, err)

	path, err := w.Write("https://example.com", []byte("x"), ".json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "example_com.json"), path)
}

func TestNewCreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "deep")

	_, err := New(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFilenameFromURLSanitizes(t *testing.T) {
	assert.Equal(t, "sub_example_com_a_b_c", filenameFromURL("https://sub.example.com/a-b/c"))
}
