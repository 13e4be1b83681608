package config

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cheerioskun/textmarker/internal/decoration"
	"github.com/cheerioskun/textmarker/internal/pattern"
	"github.com/cheerioskun/textmarker/internal/style"
)

func TestExportHighlights_MapsKindToType(t *testing.T) {
	decorations := []*decoration.Decoration{
		{ID: "ID1", Colour: "COLOUR1", Pattern: pattern.NewString("PHRASE", true, false)},
		{ID: "ID2", Colour: "COLOUR2", Pattern: pattern.NewRegex("PHRASE", false, true)},
	}

	got := ExportHighlights(decorations)

	require.Equal(t, []SavedHighlight{
		{Pattern: SavedPattern{Type: "string", Expression: "PHRASE", IgnoreCase: true, WholeMatch: false}},
		{Pattern: SavedPattern{Type: "regex", Expression: "PHRASE", IgnoreCase: false, WholeMatch: true}},
	}, got)
}

func TestImportPattern(t *testing.T) {
	tests := []struct {
		name    string
		saved   SavedPattern
		want    pattern.Pattern
		wantErr error
	}{
		{
			name:  "string",
			saved: SavedPattern{Type: "string", Expression: "foo", IgnoreCase: true},
			want:  pattern.NewString("foo", true, false),
		},
		{
			name:  "regex",
			saved: SavedPattern{Type: "regex", Expression: `fo+`, WholeMatch: true},
			want:  pattern.NewRegex(`fo+`, false, true),
		},
		{
			name:    "unknown type",
			saved:   SavedPattern{Type: "glob", Expression: "*.go"},
			wantErr: ErrUnknownPatternType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ImportPattern(SavedHighlight{Pattern: tt.saved})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestExportImport_ReconstructsEffectivePatterns(t *testing.T) {
	registry := decoration.NewRegistry(style.NewRegistry())
	patterns := []pattern.Pattern{
		pattern.NewString("cat", true, false),
		pattern.NewRegex(`\d+ms`, false, false),
		pattern.NewString("cat", true, true),
	}
	for _, p := range patterns {
		_, ok := registry.Issue(p)
		require.True(t, ok)
	}

	var restored []pattern.Pattern
	for _, h := range ExportHighlights(registry.RetrieveAll()) {
		p, err := ImportPattern(h)
		require.NoError(t, err)
		restored = append(restored, p)
	}

	require.Equal(t, patterns, restored)
}

func TestParseTarget(t *testing.T) {
	target, err := ParseTarget("Workspace")
	require.NoError(t, err)
	require.Equal(t, Workspace, target)

	target, err = ParseTarget(" global ")
	require.NoError(t, err)
	require.Equal(t, Global, target)

	_, err = ParseTarget("folder")
	require.Error(t, err)
}
