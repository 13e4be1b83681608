package overview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cheerioskun/textmarker/internal/pattern"
)

func TestBuild_OneBinPerLineForShortText(t *testing.T) {
	text := "cat\ndog\ncat cat"
	ranges := []pattern.Range{{Start: 0, End: 3}, {Start: 8, End: 11}, {Start: 12, End: 15}}

	bins := Build(text, ranges, 10)

	require.Equal(t, []Bin{
		{StartLine: 0, EndLine: 1, Count: 1},
		{StartLine: 1, EndLine: 2, Count: 0},
		{StartLine: 2, EndLine: 3, Count: 2},
	}, bins)
	require.Equal(t, 2, Peak(bins))
}

func TestBuild_GroupsLines(t *testing.T) {
	text := strings.Repeat("x\n", 9) + "x"
	// One range on each of lines 0, 4, 5 and 9
	ranges := []pattern.Range{{Start: 0, End: 1}, {Start: 8, End: 9}, {Start: 10, End: 11}, {Start: 18, End: 19}}

	bins := Build(text, ranges, 2)

	require.Equal(t, []Bin{
		{StartLine: 0, EndLine: 5, Count: 2},
		{StartLine: 5, EndLine: 10, Count: 2},
	}, bins)
}

func TestBuild_DefaultsAndEmptyText(t *testing.T) {
	require.Equal(t, []Bin{{StartLine: 0, EndLine: 1}}, Build("", nil, 0))
	require.Len(t, Build(strings.Repeat("\n", 99), nil, 0), DefaultBinCount)
}

func TestBuild_CountsEveryRangeOnce(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lines := rapid.IntRange(1, 200).Draw(t, "lines")
		binCount := rapid.IntRange(1, 50).Draw(t, "bins")
		text := strings.Repeat("ab\n", lines-1) + "ab"

		var ranges []pattern.Range
		for _, line := range rapid.SliceOf(rapid.IntRange(0, lines-1)).Draw(t, "rangeLines") {
			ranges = append(ranges, pattern.Range{Start: line * 3, End: line*3 + 2})
		}

		bins := Build(text, ranges, binCount)
		total := 0
		for i, b := range bins {
			if b.StartLine >= b.EndLine {
				t.Fatalf("bin %d is empty: %+v", i, b)
			}
			total += b.Count
		}
		if total != len(ranges) {
			t.Fatalf("counted %d ranges, want %d", total, len(ranges))
		}
		if bins[len(bins)-1].EndLine != lines {
			t.Fatalf("last bin ends at %d, want %d", bins[len(bins)-1].EndLine, lines)
		}
	})
}
