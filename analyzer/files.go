package analyzer

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileInfo is one entry in a directory listing.
type FileInfo struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// Listing is the result of listing the Python files in a directory.
type Listing struct {
	Directory   string     `json:"directory"`
	PythonFiles []FileInfo `json:"python_files"`
	Count       int        `json:"count"`
	TotalSize   int64      `json:"total_size"`
}

// ListPythonFiles lists the regular .py files at the top level of dir,
// largest first.
func ListPythonFiles(dir string) (*Listing, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	listing := &Listing{Directory: dir, PythonFiles: []FileInfo{}}
	for _, entry := range entries {
		if entry.IsDir() || !isPythonFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		listing.PythonFiles = append(listing.PythonFiles, FileInfo{
			Name: entry.Name(),
			Path: filepath.Join(dir, entry.Name()),
			Size: info.Size(),
		})
		listing.TotalSize += info.Size()
	}

	sort.SliceStable(listing.PythonFiles, func(i, j int) bool {
		return listing.PythonFiles[i].Size > listing.PythonFiles[j].Size
	})
	listing.Count = len(listing.PythonFiles)
	return listing, nil
}

func isPythonFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".py")
}
