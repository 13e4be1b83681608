package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/cheerioskun/textmarker/internal/buffer"
	"github.com/cheerioskun/textmarker/internal/config"
	"github.com/cheerioskun/textmarker/internal/engine"
	"github.com/cheerioskun/textmarker/internal/pattern"
)

func newMatchEngine(t *testing.T, files map[string]string, order ...string) (*engine.Engine, *buffer.Set) {
	t.Helper()
	fs := afero.NewMemMapFs()
	buffers := buffer.NewSet(fs)
	for _, path := range order {
		require.NoError(t, afero.WriteFile(fs, path, []byte(files[path]), 0644))
		_, err := buffers.Open(path)
		require.NoError(t, err)
	}

	e := engine.New(config.Defaults(), buffers, config.NewStore(fs, "", "/w/.textmarker/config.yaml"))
	t.Cleanup(e.Close)
	return e, buffers
}

func TestWriteMatches_OrdersByFileThenOffset(t *testing.T) {
	e, buffers := newMatchEngine(t, map[string]string{
		"/w/a.log": "ERROR disk\nWARN cpu\nERROR net",
		"/w/b.log": "ok",
	}, "/w/a.log", "/w/b.log")

	e.Operator.AddDecoration(pattern.NewString("WARN", false, false))
	e.Operator.AddDecoration(pattern.NewRegex(`ERROR \w+`, false, false))

	var out bytes.Buffer
	require.NoError(t, writeMatches(&out, buffers.Files(), e.Locations, e.Operator.Decorations()))

	require.Equal(t, "/w/a.log:1:1: ERROR disk\n/w/a.log:2:1: WARN\n/w/a.log:3:1: ERROR net\n", out.String())
}

func TestWriteCounts(t *testing.T) {
	e, buffers := newMatchEngine(t, map[string]string{
		"/w/a.log": "cat Cat cat",
		"/w/b.log": "dog",
	}, "/w/a.log", "/w/b.log")

	e.Operator.AddDecoration(pattern.NewString("cat", true, true))
	e.Operator.AddDecoration(pattern.NewString("dog", false, false))

	var out bytes.Buffer
	require.NoError(t, writeCounts(&out, buffers.Files(), e.Locations, e.Operator.Decorations()))

	require.Equal(t, "/w/a.log\tcat [iw]\t3\n/w/b.log\tdog\t1\n", out.String())
}

func TestWriteHighlights(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, writeHighlights(&out, nil))
	require.Equal(t, "No saved highlights\n", out.String())

	out.Reset()
	require.NoError(t, writeHighlights(&out, []config.SavedHighlight{
		{Pattern: config.SavedPattern{Type: config.TypeRegex, Expression: `\d+`, IgnoreCase: true}},
	}))
	require.Contains(t, out.String(), "TYPE")
	require.Contains(t, out.String(), `regex  \d+`)
	require.Contains(t, out.String(), "true")
}
