// Package export writes the highlighted lines of open buffers to files,
// one output file per buffer with at least one highlight.
package export

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/cheerioskun/textmarker/internal/buffer"
	"github.com/cheerioskun/textmarker/internal/utils"
)

// Service handles export operations with directory structure preservation
type Service struct {
	fs afero.Fs
}

// NewService creates a new export service
func NewService(fs afero.Fs) *Service {
	return &Service{
		fs: fs,
	}
}

// Options contains configuration for export operations
type Options struct {
	DestinationPath   string
	PreserveStructure bool   // Mirror paths relative to Root
	Root              string // Defaults to the common root of the exported buffers
	Overwrite         bool
}

// root returns the directory output paths are made relative to.
func (o Options) root(files []*buffer.FileBuffer) string {
	if o.Root != "" {
		return o.Root
	}
	return CommonRoot(paths(files))
}

// destination maps a source path to its output file.
func (o Options) destination(root, sourcePath string) string {
	rel := filepath.Base(sourcePath)
	if o.PreserveStructure && root != "" {
		if r, err := filepath.Rel(root, sourcePath); err == nil && isWithin(root, sourcePath) {
			rel = r
		}
	}
	return filepath.Join(o.DestinationPath, rel)
}

// Summary contains information about the export operation
type Summary struct {
	FileCount       int
	LineCount       int
	SourcePath      string // Common root of the exported buffers
	DestinationPath string
}

// Line is one highlighted line, numbered from 1.
type Line struct {
	Number int
	Text   string
}

// Summarize calculates what would be exported without actually exporting
func (s *Service) Summarize(files []*buffer.FileBuffer, destPath string) *Summary {
	summary := &Summary{
		SourcePath:      CommonRoot(paths(files)),
		DestinationPath: destPath,
	}
	for _, f := range files {
		if n := len(HighlightedLines(f)); n > 0 {
			summary.FileCount++
			summary.LineCount += n
		}
	}
	return summary
}

// Export writes the highlighted lines of every buffer under opts.DestinationPath
func (s *Service) Export(files []*buffer.FileBuffer, opts Options) (*Summary, error) {
	if err := s.fs.MkdirAll(opts.DestinationPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create destination directory: %w", err)
	}

	summary := &Summary{
		SourcePath:      opts.root(files),
		DestinationPath: opts.DestinationPath,
	}

	for _, f := range files {
		lines := HighlightedLines(f)
		if len(lines) == 0 {
			continue
		}
		destPath := opts.destination(summary.SourcePath, f.Path())
		if err := s.exportFile(destPath, lines, opts.Overwrite); err != nil {
			return nil, fmt.Errorf("failed to export file %s: %w", f.Path(), err)
		}
		summary.FileCount++
		summary.LineCount += len(lines)
	}

	utils.Info(utils.CatBuffer, "exported highlighted lines",
		"files", summary.FileCount, "lines", summary.LineCount, "dest", opts.DestinationPath)
	return summary, nil
}

// Conflicts lists the output files of an export that already exist.
func (s *Service) Conflicts(files []*buffer.FileBuffer, opts Options) ([]string, error) {
	root := opts.root(files)
	var existing []string
	for _, f := range files {
		if len(HighlightedLines(f)) == 0 {
			continue
		}
		destPath := opts.destination(root, f.Path())
		exists, err := afero.Exists(s.fs, destPath)
		if err != nil {
			return nil, fmt.Errorf("failed to check if destination exists: %w", err)
		}
		if exists {
			existing = append(existing, destPath)
		}
	}
	return existing, nil
}

// exportFile writes lines to destPath
func (s *Service) exportFile(destPath string, lines []Line, overwrite bool) error {
	// Create destination directory
	destDir := filepath.Dir(destPath)
	if err := s.fs.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", destDir, err)
	}

	// Check if destination exists and handle overwrite
	if !overwrite {
		if exists, err := afero.Exists(s.fs, destPath); err != nil {
			return fmt.Errorf("failed to check if destination exists: %w", err)
		} else if exists {
			return fmt.Errorf("destination file exists and overwrite is disabled: %s", destPath)
		}
	}

	destFile, err := s.fs.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer destFile.Close()

	w := bufio.NewWriter(destFile)
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%d:%s\n", l.Number, l.Text); err != nil {
			return fmt.Errorf("failed to write line: %w", err)
		}
	}
	return w.Flush()
}

// HighlightedLines returns every line touched by a painted range, in order.
func HighlightedLines(f *buffer.FileBuffer) []Line {
	spans := f.StyledRanges()
	if len(spans) == 0 {
		return nil
	}

	text := strings.Split(f.Text(), "\n")
	marked := make([]bool, len(text))
	for _, s := range spans {
		first, _ := f.PositionAt(s.Range.Start)
		last, _ := f.PositionAt(max(s.Range.End-1, s.Range.Start))
		for l := first; l <= last && l < len(marked); l++ {
			marked[l] = true
		}
	}

	var lines []Line
	for i, ok := range marked {
		if ok {
			lines = append(lines, Line{Number: i + 1, Text: text[i]})
		}
	}
	return lines
}

// CommonRoot returns the deepest directory containing every path.
func CommonRoot(paths []string) string {
	if len(paths) == 0 {
		return ""
	}
	root := filepath.Dir(paths[0])
	for _, p := range paths[1:] {
		for !isWithin(root, p) {
			parent := filepath.Dir(root)
			if parent == root {
				break
			}
			root = parent
		}
	}
	return root
}

func isWithin(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func paths(files []*buffer.FileBuffer) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Path())
	}
	return out
}

// GetDefaultExportPath generates a default export path based on current working directory
func GetDefaultExportPath(root string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}

	// Extract the last component of the path for the suffix
	baseName := filepath.Base(root)

	// Handle case where cwd is root
	if baseName == "/" || baseName == "." || baseName == "" {
		baseName = "textmarker"
	}

	return filepath.Join(cwd, baseName+"_highlights"), nil
}

// ValidateExportPath performs basic validation on the export path
func ValidateExportPath(fs afero.Fs, path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("export path cannot be empty")
	}

	// Check if path is absolute or relative
	if !filepath.IsAbs(path) {
		// Convert to absolute path for validation
		absPath, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("failed to resolve absolute path: %w", err)
		}
		path = absPath
	}

	// Check if parent directory exists
	parentDir := filepath.Dir(path)
	if exists, err := afero.DirExists(fs, parentDir); err != nil || !exists {
		return fmt.Errorf("parent directory does not exist: %s", parentDir)
	}

	return nil
}
