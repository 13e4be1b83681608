package engine

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/cheerioskun/textmarker/internal/buffer"
	"github.com/cheerioskun/textmarker/internal/command"
	"github.com/cheerioskun/textmarker/internal/config"
	"github.com/cheerioskun/textmarker/internal/pattern"
)

func TestNew_UsesConfiguredModeAndPalette(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/w/a.txt", []byte("Cat cat"), 0644))
	buffers := buffer.NewSet(fs)
	buf, err := buffers.Open("/w/a.txt")
	require.NoError(t, err)

	cfg := config.Defaults()
	cfg.Matching.IgnoreCase = true
	cfg.Palette = []string{"#112233"}
	e := New(cfg, buffers, config.NewStore(fs, "", "/w/.textmarker/config.yaml"))
	t.Cleanup(e.Close)

	buf.Select(pattern.Range{Start: 4, End: 7})
	res := e.Commands.Toggle.Execute(buf)

	require.Equal(t, command.Added, res.Action)
	require.True(t, res.Decoration.Pattern.IgnoreCase)
	require.Equal(t, "#112233", res.Decoration.Colour)
	require.Len(t, buf.StyledRanges(), 2)
}
