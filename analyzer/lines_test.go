package analyzer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCountLines(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    LineStats
	}{
		{
			name:    "empty file",
			content: "",
			want:    LineStats{TotalLines: 0, NonEmptyLines: 0, CodeLines: 0, CommentLines: 0},
		},
		{
			name:    "all code",
			content: "a = 1\nb = 2\nc = 3\n",
			want:    LineStats{TotalLines: 3, NonEmptyLines: 3, CodeLines: 3, CommentLines: 0},
		},
		{
			name:    "mixed",
			content: "# header\n\nx = 1\n   # indented comment\n\ny = 2\n",
			want:    LineStats{TotalLines: 6, NonEmptyLines: 4, CodeLines: 2, CommentLines: 2},
		},
		{
			name:    "no trailing newline",
			content: "x = 1\ny = 2",
			want:    LineStats{TotalLines: 2, NonEmptyLines: 2, CodeLines: 2, CommentLines: 0},
		},
		{
			name:    "single blank line",
			content: "\n",
			want:    LineStats{TotalLines: 1, NonEmptyLines: 0, CodeLines: 0, CommentLines: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "sample.py", tt.content)
			tt.want.FilePath = path

			stats, err := CountLines(path)
			require.NoError(t, err)
			assert.Equal(t, &tt.want, stats)
		})
	}
}

func TestCountLinesMissingFile(t *testing.T) {
	_, err := CountLines(filepath.Join(t.TempDir(), "absent.py"))
	assert.True(t, os.IsNotExist(err))
}

func TestCountLinesDeterministic(t *testing.T) {
	path := writeFile(t, "same.py", "# comment\nx = 1\n")

	first, err := CountLines(path)
	require.NoError(t, err)
	second, err := CountLines(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
