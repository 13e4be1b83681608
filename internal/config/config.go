// Package config provides configuration types, defaults, and persistence for textmarker.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cheerioskun/textmarker/internal/style"
)

// Config is the full textmarker configuration as read by viper.
type Config struct {
	Matching        MatchingConfig   `mapstructure:"matching"`
	Watch           WatchConfig      `mapstructure:"watch"`
	Palette         []string         `mapstructure:"palette"`
	SavedHighlights []SavedHighlight `mapstructure:"savedHighlights"`
}

// MatchingConfig seeds the matching mode at startup.
type MatchingConfig struct {
	IgnoreCase bool `mapstructure:"ignore_case"`
	WholeMatch bool `mapstructure:"whole_match"`
}

// WatchConfig controls reloading of open files when they change on disk.
type WatchConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Debounce time.Duration `mapstructure:"debounce"`
}

// Defaults returns the configuration used when no file sets a value.
func Defaults() Config {
	return Config{
		Matching: MatchingConfig{},
		Watch: WatchConfig{
			Enabled:  true,
			Debounce: 100 * time.Millisecond,
		},
		Palette: append([]string(nil), style.DefaultPalette...),
	}
}

// Target selects which config file saved highlights are written to.
type Target int

const (
	Global    Target = iota + 1 // ~/.config/textmarker/config.yaml
	Workspace                   // .textmarker/config.yaml
)

// String returns a human-readable representation of the target
func (t Target) String() string {
	switch t {
	case Global:
		return "global"
	case Workspace:
		return "workspace"
	default:
		return "unknown"
	}
}

// ParseTarget parses "global" or "workspace".
func ParseTarget(s string) (Target, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "global":
		return Global, nil
	case "workspace":
		return Workspace, nil
	default:
		return 0, fmt.Errorf("unknown config target %q (want global or workspace)", s)
	}
}

// WorkspaceConfigPath is the per-directory config file, relative to the working directory.
const WorkspaceConfigPath = ".textmarker/config.yaml"

// GlobalConfigPath returns the per-user config file.
func GlobalConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".config", "textmarker", "config.yaml"), nil
}

// DefaultConfigYAML is written by `textmarker init`.
const DefaultConfigYAML = `# textmarker configuration

matching:
  # Build new highlights case-insensitively
  ignore_case: false
  # Only match phrases not touching a word character
  whole_match: false

watch:
  # Reload open files when they change on disk
  enabled: true
  debounce: 100ms

# Highlights restored on startup. Written by the save keys in the viewer.
savedHighlights: []
`
