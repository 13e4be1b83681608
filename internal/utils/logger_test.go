package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatEntry(t *testing.T) {
	tests := []struct {
		name   string
		fields []any
		want   string
	}{
		{name: "no fields", fields: nil, want: "[pattern] compiled"},
		{name: "pairs", fields: []any{"phrase", "cat", "matches", 3}, want: "[pattern] compiled phrase=cat matches=3"},
		{name: "orphan key", fields: []any{"phrase"}, want: "[pattern] compiled phrase="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, formatEntry(CatPattern, "compiled", tt.fields))
		})
	}
}

func TestSetOutput_WritesLeveledLines(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(&bytes.Buffer{}) })

	Warning(CatRegistry, "duplicate pattern", "phrase", "foo")
	Debug(CatOperator, "applied")

	out := buf.String()
	require.Contains(t, out, "[WARN] ")
	require.Contains(t, out, "[registry] duplicate pattern phrase=foo")
	require.Contains(t, out, "[DEBUG] ")
	require.Contains(t, out, "[operator] applied")
}

func TestInit_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "textmarker.out")

	cleanup, err := Init(path)
	require.NoError(t, err)

	Error(CatConfig, "save failed", "target", "workspace")
	cleanup()
	SetOutput(&bytes.Buffer{})

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "[ERROR] ")
	require.Contains(t, string(data), "[config] save failed target=workspace")
}
