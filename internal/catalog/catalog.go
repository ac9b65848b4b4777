// Package catalog defines the tool surface: it binds the analyzer
// functions to tool descriptors and registers the greeting resource.
package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/loopwork-ai/codesight/analyzer"
	"github.com/loopwork-ai/codesight/internal/config"
	"github.com/loopwork-ai/codesight/tool"
)

// NewRegistry builds the tool registry served over both transports.
func NewRegistry(cfg config.AnalyzerConfig) (*tool.Registry, error) {
	c := &catalog{cfg: cfg}
	registry := tool.NewRegistry()

	tools := []tool.Tool{
		{
			Name:        "count_lines",
			Description: "Count the total, non-empty, code, and comment lines of a file",
			Params: []tool.Param{
				{Name: "file_path", Type: tool.TypeString, Description: "Path to the file to count", Required: true},
			},
			Handler: c.countLines,
		},
		{
			Name:        "analyze_python",
			Description: "Report the functions and classes defined in a Python file",
			Params: []tool.Param{
				{Name: "file_path", Type: tool.TypeString, Description: "Path to the Python file to analyze", Required: true},
			},
			Handler: c.analyzePython,
		},
		{
			Name:        "list_python_files",
			Description: "List the Python files in a directory, largest first",
			Params: []tool.Param{
				{Name: "directory", Type: tool.TypeString, Description: "Directory to list; defaults to the project root"},
			},
			Handler: c.listPythonFiles,
		},
		{
			Name:        "get_project_overview",
			Description: "Aggregate line, function, and class counts across the project's Python files",
			Handler:     c.projectOverview,
		},
	}

	for _, t := range tools {
		if err := registry.Register(t); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

type catalog struct {
	cfg config.AnalyzerConfig
}

// resolve joins relative tool paths against the configured root.
func (c *catalog) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(c.cfg.Root, path)
}

func (c *catalog) checkSize(path string) error {
	if c.cfg.MaxFileSize <= 0 {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Size() > c.cfg.MaxFileSize {
		return fmt.Errorf("file too large (max %d bytes): %s", c.cfg.MaxFileSize, path)
	}
	return nil
}

func (c *catalog) countLines(_ context.Context, args tool.Args) (interface{}, error) {
	path := c.resolve(args.String("file_path", ""))
	if err := c.checkSize(path); err != nil {
		return nil, err
	}
	return analyzer.CountLines(path)
}

func (c *catalog) analyzePython(_ context.Context, args tool.Args) (interface{}, error) {
	path := c.resolve(args.String("file_path", ""))
	if err := c.checkSize(path); err != nil {
		return nil, err
	}
	return analyzer.AnalyzePython(path)
}

func (c *catalog) listPythonFiles(_ context.Context, args tool.Args) (interface{}, error) {
	dir := args.String("directory", "")
	if dir == "" {
		dir = c.cfg.Root
	} else {
		dir = c.resolve(dir)
	}
	return analyzer.ListPythonFiles(dir)
}

func (c *catalog) projectOverview(_ context.Context, _ tool.Args) (interface{}, error) {
	return analyzer.ProjectOverview(c.cfg.Root)
}
