package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testGlobalPath    = "/home/user/.config/textmarker/config.yaml"
	testWorkspacePath = "/work/.textmarker/config.yaml"
)

func newTestStore(t *testing.T) (*Store, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	return NewStore(fs, testGlobalPath, testWorkspacePath), fs
}

var sample = []SavedHighlight{
	{Pattern: SavedPattern{Type: TypeString, Expression: "ERROR", IgnoreCase: true}},
	{Pattern: SavedPattern{Type: TypeRegex, Expression: `\d+ms`, WholeMatch: true}},
}

func TestSave_CreatesNewFile(t *testing.T) {
	store, fs := newTestStore(t)

	require.NoError(t, store.Save(Workspace, sample))

	data, err := afero.ReadFile(fs, testWorkspacePath)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "savedHighlights:")
	assert.Contains(t, content, "type: string")
	assert.Contains(t, content, "expression: ERROR")
	assert.Contains(t, content, "ignoreCase: true")
	assert.Contains(t, content, "type: regex")
	assert.Contains(t, content, "wholeMatch: true")
}

func TestSave_PreservesOtherConfig(t *testing.T) {
	store, fs := newTestStore(t)
	initial := `# keep me
matching:
  ignore_case: true # inline
savedHighlights:
  - pattern:
      type: string
      expression: old
`
	require.NoError(t, afero.WriteFile(fs, testWorkspacePath, []byte(initial), 0644))

	require.NoError(t, store.Save(Workspace, sample))

	data, err := afero.ReadFile(fs, testWorkspacePath)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "# keep me")
	assert.Contains(t, content, "ignore_case: true # inline")
	assert.Contains(t, content, "expression: ERROR")
	assert.NotContains(t, content, "expression: old")
}

func TestSaveLoad_Roundtrip(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.Save(Global, sample))

	got, ok, err := store.Load(Global)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, sample, got)
}

func TestSave_EmptyListWritesKey(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.Save(Workspace, nil))

	got, ok, err := store.Load(Workspace)
	require.NoError(t, err)
	require.True(t, ok)
	require.Empty(t, got)
}

func TestLoad_MissingFile(t *testing.T) {
	store, _ := newTestStore(t)

	got, ok, err := store.Load(Workspace)
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, got)
}

func TestEffective_WorkspaceOverridesGlobal(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Save(Global, sample))

	got, err := store.Effective()
	require.NoError(t, err)
	require.Equal(t, sample, got)

	workspace := sample[:1]
	require.NoError(t, store.Save(Workspace, workspace))

	got, err = store.Effective()
	require.NoError(t, err)
	require.Equal(t, workspace, got)
}

func TestEffective_IgnoresWorkspaceWithoutKey(t *testing.T) {
	store, fs := newTestStore(t)
	require.NoError(t, store.Save(Global, sample))
	require.NoError(t, afero.WriteFile(fs, testWorkspacePath, []byte("matching:\n  whole_match: true\n"), 0644))

	got, err := store.Effective()
	require.NoError(t, err)
	require.Equal(t, sample, got)
}

func TestSave_UnconfiguredTarget(t *testing.T) {
	store := NewStore(afero.NewMemMapFs(), "", testWorkspacePath)

	require.Error(t, store.Save(Global, sample))
}

func TestWriteDefault(t *testing.T) {
	fs := afero.NewMemMapFs()

	created, err := WriteDefault(fs, testWorkspacePath)
	require.NoError(t, err)
	require.True(t, created)

	created, err = WriteDefault(fs, testWorkspacePath)
	require.NoError(t, err)
	require.False(t, created)

	store := NewStore(fs, "", testWorkspacePath)
	got, ok, err := store.Load(Workspace)
	require.NoError(t, err)
	require.True(t, ok)
	require.Empty(t, got)
}
