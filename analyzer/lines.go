// Package analyzer computes the file statistics and Python structure
// reports served as tools. Every report is computed fresh from the
// filesystem; nothing is cached between invocations.
package analyzer

import (
	"os"
	"strings"
)

// LineStats holds the line counts for a single file.
type LineStats struct {
	FilePath      string `json:"file_path"`
	TotalLines    int    `json:"total_lines"`
	NonEmptyLines int    `json:"non_empty_lines"`
	CodeLines     int    `json:"code_lines"`
	CommentLines  int    `json:"comment_lines"`
}

// CountLines reads a file and counts its total, non-empty, code, and
// comment lines. A comment line starts with '#' after leading whitespace;
// a code line is any other non-blank line.
func CountLines(path string) (*LineStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	stats := &LineStats{FilePath: path}
	for _, line := range splitLines(string(data)) {
		stats.TotalLines++
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
		case strings.HasPrefix(trimmed, "#"):
			stats.NonEmptyLines++
			stats.CommentLines++
		default:
			stats.NonEmptyLines++
			stats.CodeLines++
		}
	}
	return stats, nil
}

// splitLines splits file content into lines without counting a trailing
// newline as an extra empty line. Empty content has zero lines.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	content = strings.TrimSuffix(content, "\n")
	return strings.Split(content, "\n")
}
