package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/cheerioskun/textmarker/internal/utils"
)

// SavedHighlightsKey is the config key holding saved highlights.
const SavedHighlightsKey = "savedHighlights"

// Store reads and writes saved highlights in the global and workspace
// config files.
type Store struct {
	fs    afero.Fs
	paths map[Target]string
}

// NewStore creates a store over fs. An empty path disables that target.
func NewStore(fs afero.Fs, globalPath, workspacePath string) *Store {
	return &Store{
		fs: fs,
		paths: map[Target]string{
			Global:    globalPath,
			Workspace: workspacePath,
		},
	}
}

// Path returns the file backing target.
func (s *Store) Path(target Target) (string, error) {
	path := s.paths[target]
	if path == "" {
		return "", fmt.Errorf("no config file for %s target", target)
	}
	return path, nil
}

// Load reads the saved highlights of one target. The bool reports whether
// the file sets the key at all; a missing file is not an error.
func (s *Store) Load(target Target) ([]SavedHighlight, bool, error) {
	path, err := s.Path(target)
	if err != nil {
		return nil, false, err
	}

	exists, err := afero.Exists(s.fs, path)
	if err != nil {
		return nil, false, fmt.Errorf("checking config: %w", err)
	}
	if !exists {
		return nil, false, nil
	}

	v := viper.New()
	v.SetFs(s.fs)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, false, fmt.Errorf("reading config %s: %w", path, err)
	}
	if !v.IsSet(SavedHighlightsKey) {
		return nil, false, nil
	}

	var highlights []SavedHighlight
	if err := v.UnmarshalKey(SavedHighlightsKey, &highlights); err != nil {
		return nil, true, fmt.Errorf("decoding %s in %s: %w", SavedHighlightsKey, path, err)
	}
	return highlights, true, nil
}

// Effective returns the highlights to restore: the workspace list when the
// workspace file sets one, otherwise the global list.
func (s *Store) Effective() ([]SavedHighlight, error) {
	var errs []error
	for _, target := range []Target{Workspace, Global} {
		if s.paths[target] == "" {
			continue
		}
		highlights, ok, err := s.Load(target)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			return highlights, nil
		}
	}
	return nil, errors.Join(errs...)
}

// Save replaces the saved highlights of target. Comments and every other key
// of the file are preserved by editing it as a yaml.Node.
func (s *Store) Save(target Target, highlights []SavedHighlight) error {
	path, err := s.Path(target)
	if err != nil {
		return err
	}

	data, err := afero.ReadFile(s.fs, path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("reading config: %w", err)
	}

	var doc yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}

	if highlights == nil {
		highlights = []SavedHighlight{}
	}
	var listNode yaml.Node
	if err := listNode.Encode(highlights); err != nil {
		return fmt.Errorf("building %s node: %w", SavedHighlightsKey, err)
	}

	if err := setKey(&doc, SavedHighlightsKey, &listNode); err != nil {
		return err
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	if err := writeAtomic(s.fs, path, buf.Bytes()); err != nil {
		return err
	}

	utils.Info(utils.CatConfig, "saved highlights", "target", target.String(), "path", path, "count", len(highlights))
	return nil
}

// setKey replaces key in the document's root mapping, or appends it.
func setKey(doc *yaml.Node, key string, value *yaml.Node) error {
	if doc.Kind == 0 {
		*doc = yaml.Node{
			Kind: yaml.DocumentNode,
			Content: []*yaml.Node{
				{Kind: yaml.MappingNode},
			},
		}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return fmt.Errorf("config root is not a mapping")
	}

	root := doc.Content[0]
	for i := 0; i < len(root.Content)-1; i += 2 {
		if root.Content[i].Value == key {
			root.Content[i+1] = value
			return nil
		}
	}
	root.Content = append(root.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		value,
	)
	return nil
}

// WriteDefault writes DefaultConfigYAML to path unless a file already exists there.
func WriteDefault(fs afero.Fs, path string) (bool, error) {
	exists, err := afero.Exists(fs, path)
	if err != nil {
		return false, fmt.Errorf("checking config: %w", err)
	}
	if exists {
		return false, nil
	}
	if err := writeAtomic(fs, path, []byte(DefaultConfigYAML)); err != nil {
		return false, err
	}
	return true, nil
}

// writeAtomic writes to a temp file next to path, then renames it over path.
func writeAtomic(fs afero.Fs, path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := afero.TempFile(fs, dir, ".textmarker.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = fs.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = fs.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := fs.Rename(tempPath, path); err != nil {
		_ = fs.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
