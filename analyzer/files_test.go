package analyzer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListPythonFiles(t *testing.T) {
	dir := t.TempDir()

	files := map[string]string{
		"small.py":   "x = 1\n",
		"medium.py":  "x = 1\ny = 2\nz = 3\n",
		"large.py":   "# a much longer file\n" + "data = [1, 2, 3, 4, 5]\n" + "more = 'padding padding padding'\n",
		"README.md":  "not python\n",
		"notes.txt":  "also not python\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir.py"), 0o755), "a directory with a .py suffix must not be listed")

	listing, err := ListPythonFiles(dir)
	require.NoError(t, err)

	assert.Equal(t, dir, listing.Directory)
	assert.Equal(t, 3, listing.Count)
	require.Len(t, listing.PythonFiles, 3)

	// Largest first
	assert.Equal(t, "large.py", listing.PythonFiles[0].Name)
	assert.Equal(t, "medium.py", listing.PythonFiles[1].Name)
	assert.Equal(t, "small.py", listing.PythonFiles[2].Name)

	var total int64
	for _, f := range listing.PythonFiles {
		assert.Equal(t, filepath.Join(dir, f.Name), f.Path)
		assert.Positive(t, f.Size)
		total += f.Size
	}
	assert.Equal(t, total, listing.TotalSize)
}

func TestListPythonFilesEmptyDir(t *testing.T) {
	listing, err := ListPythonFiles(t.TempDir())
	require.NoError(t, err)
	assert.Zero(t, listing.Count)
	assert.NotNil(t, listing.PythonFiles, "empty listing still serializes as an array")
}

func TestListPythonFilesMissingDir(t *testing.T) {
	_, err := ListPythonFiles(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}
