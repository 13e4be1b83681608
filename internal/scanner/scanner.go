// Package scanner expands the paths given on the command line into the text
// files that can be opened as buffers.
package scanner

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"

	"github.com/cheerioskun/textmarker/internal/utils"
)

// sniffSize is how much of a file is read to decide whether it is text.
const sniffSize = 8 * 1024

// FileInfo describes one discovered text file.
type FileInfo struct {
	Path      string
	Size      int64
	LineCount int64
}

// FileScanner discovers text files
type FileScanner struct {
	fs       afero.Fs
	maxDepth int
	maxSize  int64
	skipDirs map[string]bool
}

// NewFileScanner creates a new FileScanner with the given filesystem
func NewFileScanner(fs afero.Fs) *FileScanner {
	return &FileScanner{
		fs:       fs,
		maxDepth: 10,
		maxSize:  64 * 1024 * 1024,
		skipDirs: map[string]bool{
			".git":         true,
			".hg":          true,
			".svn":         true,
			"node_modules": true,
			".textmarker":  true,
		},
	}
}

// SetMaxDepth sets the maximum scanning depth
func (s *FileScanner) SetMaxDepth(depth int) {
	s.maxDepth = depth
}

// SetMaxSize sets the largest file size that is still opened
func (s *FileScanner) SetMaxSize(size int64) {
	s.maxSize = size
}

// Scan expands files and directories into text files, in path order and
// without duplicates. Files named explicitly are only rejected when they
// cannot be read; files found inside directories are also filtered for size
// and binary content.
func (s *FileScanner) Scan(paths ...string) ([]FileInfo, error) {
	seen := make(map[string]bool)
	var files []FileInfo

	add := func(info FileInfo) {
		if seen[info.Path] {
			return
		}
		seen[info.Path] = true
		files = append(files, info)
	}

	for _, path := range paths {
		info, err := s.fs.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to access path %s: %w", path, err)
		}

		if !info.IsDir() {
			fi, err := s.processFile(path, info)
			if err != nil {
				return nil, fmt.Errorf("failed to read file %s: %w", path, err)
			}
			add(fi)
			continue
		}

		found, err := s.scanDirectory(path, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to scan directory %s: %w", path, err)
		}
		for _, fi := range found {
			add(fi)
		}
	}

	return files, nil
}

// scanDirectory recursively collects text files below dir
func (s *FileScanner) scanDirectory(dir string, depth int) ([]FileInfo, error) {
	if depth > s.maxDepth {
		return nil, nil
	}

	entries, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var files []FileInfo
	for _, entry := range entries {
		full := filepath.Join(dir, entry.Name())

		if entry.IsDir() {
			if s.skipDirs[entry.Name()] {
				continue
			}
			nested, err := s.scanDirectory(full, depth+1)
			if err != nil {
				utils.Warning(utils.CatBuffer, "skipping directory", "path", full, "error", err)
				continue
			}
			files = append(files, nested...)
			continue
		}

		if !entry.Mode().IsRegular() || entry.Size() > s.maxSize {
			continue
		}
		text, err := s.isText(full)
		if err != nil {
			utils.Warning(utils.CatBuffer, "skipping file", "path", full, "error", err)
			continue
		}
		if !text {
			continue
		}

		fi, err := s.processFile(full, entry)
		if err != nil {
			utils.Warning(utils.CatBuffer, "skipping file", "path", full, "error", err)
			continue
		}
		files = append(files, fi)
	}

	return files, nil
}

// processFile processes a single file and returns FileInfo
func (s *FileScanner) processFile(path string, info os.FileInfo) (FileInfo, error) {
	lines, err := s.estimateLineCount(path)
	if err != nil {
		return FileInfo{}, err
	}
	return FileInfo{
		Path:      path,
		Size:      info.Size(),
		LineCount: lines,
	}, nil
}

// isText reports whether the start of the file is free of NUL bytes.
func (s *FileScanner) isText(path string) (bool, error) {
	file, err := s.fs.Open(path)
	if err != nil {
		return false, err
	}
	defer file.Close()

	head := make([]byte, sniffSize)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return false, err
	}
	return !bytes.Contains(head[:n], []byte{0}), nil
}

// estimateLineCount provides a rough estimate of lines in a file
func (s *FileScanner) estimateLineCount(path string) (int64, error) {
	file, err := s.fs.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	// Sample first 64KB to estimate line count
	const sampleSize = 64 * 1024
	buffer := make([]byte, sampleSize)

	n, err := io.ReadFull(file, buffer)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}

	lines := int64(bytes.Count(buffer[:n], []byte{'\n'}))
	if !bytes.HasSuffix(buffer[:n], []byte{'\n'}) {
		lines++
	}

	stat, err := file.Stat()
	if err != nil || int64(n) >= stat.Size() {
		return lines, nil
	}

	// Estimate total lines based on sample
	return (lines * stat.Size()) / int64(n), nil
}

// FormatBytes renders a byte count for humans.
func FormatBytes(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
