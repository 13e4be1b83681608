package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/cheerioskun/textmarker/internal/buffer"
	"github.com/cheerioskun/textmarker/internal/config"
	"github.com/cheerioskun/textmarker/internal/scanner"
	"github.com/cheerioskun/textmarker/internal/utils"
)

// newStore returns the saved highlight store. An explicit --config file
// takes the place of the workspace file.
func newStore(fs afero.Fs) *config.Store {
	workspace := config.WorkspaceConfigPath
	if cfgFile != "" {
		workspace = cfgFile
	}
	global, err := config.GlobalConfigPath()
	if err != nil {
		utils.Warning(utils.CatConfig, "global config disabled", "error", err)
		global = ""
	}
	return config.NewStore(fs, global, workspace)
}

// openBuffers scans paths for text files and opens each one by absolute path.
func openBuffers(fs afero.Fs, paths []string) (*buffer.Set, []scanner.FileInfo, error) {
	abs := make([]string, 0, len(paths))
	for _, p := range paths {
		a, err := filepath.Abs(p)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to resolve absolute path: %w", err)
		}
		abs = append(abs, a)
	}

	s := scanner.NewFileScanner(fs)
	s.SetMaxDepth(viper.GetInt("max_depth"))
	files, err := s.Scan(abs...)
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		return nil, nil, fmt.Errorf("no text files found in %v", paths)
	}

	buffers := buffer.NewSet(fs)
	for _, f := range files {
		if _, err := buffers.Open(f.Path); err != nil {
			return nil, nil, err
		}
	}
	// Start on the first file
	buffers.Activate(files[0].Path)

	utils.Debug(utils.CatBuffer, "opened buffers", "count", len(files))
	return buffers, files, nil
}
