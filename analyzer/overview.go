package analyzer

import (
	"os"
	"path/filepath"
	"sort"
)

// OverviewFile is the per-file entry in a project overview. Files whose
// structure cannot be read still appear, with zero counts and an error note.
type OverviewFile struct {
	Name      string `json:"name"`
	Lines     int    `json:"lines"`
	Functions int    `json:"functions"`
	Classes   int    `json:"classes"`
	Size      int64  `json:"size"`
	Error     string `json:"error,omitempty"`
}

// OverviewSummary aggregates the per-file counts.
type OverviewSummary struct {
	TotalFiles     int            `json:"total_files"`
	TotalLines     int            `json:"total_lines"`
	TotalFunctions int            `json:"total_functions"`
	TotalClasses   int            `json:"total_classes"`
	LargestFiles   []OverviewFile `json:"largest_files"`
}

// Overview is the aggregate report over the Python files in a project
// directory.
type Overview struct {
	ProjectDirectory string          `json:"project_directory"`
	Summary          OverviewSummary `json:"summary"`
	AllFiles         []OverviewFile  `json:"all_files"`
}

// ProjectOverview analyzes every Python file at the top level of root and
// aggregates the results, longest files first. A file that cannot be
// analyzed does not abort the scan.
func ProjectOverview(root string) (*Overview, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	overview := &Overview{ProjectDirectory: root, AllFiles: []OverviewFile{}}
	for _, entry := range entries {
		if entry.IsDir() || !isPythonFile(entry.Name()) {
			continue
		}

		path := filepath.Join(root, entry.Name())
		file := OverviewFile{Name: entry.Name()}
		if info, err := entry.Info(); err == nil {
			file.Size = info.Size()
		}

		report, err := AnalyzePython(path)
		switch {
		case err != nil:
			file.Error = err.Error()
		case report.SyntaxError != "":
			file.Error = report.SyntaxError
			file.Lines = report.TotalLines
			overview.Summary.TotalLines += report.TotalLines
		default:
			file.Lines = report.TotalLines
			file.Functions = report.FunctionsCount
			file.Classes = report.ClassesCount
			overview.Summary.TotalLines += report.TotalLines
			overview.Summary.TotalFunctions += report.FunctionsCount
			overview.Summary.TotalClasses += report.ClassesCount
		}
		overview.AllFiles = append(overview.AllFiles, file)
	}

	sort.SliceStable(overview.AllFiles, func(i, j int) bool {
		return overview.AllFiles[i].Lines > overview.AllFiles[j].Lines
	})

	overview.Summary.TotalFiles = len(overview.AllFiles)
	largest := overview.AllFiles
	if len(largest) > 5 {
		largest = largest[:5]
	}
	overview.Summary.LargestFiles = largest
	return overview, nil
}
