package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const catText = "Concatenate cat CATapult"

func TestMatch_IgnoreCaseWithoutWholeMatch(t *testing.T) {
	p := NewString("cat", true, false)

	got := p.Match(catText)

	require.Equal(t, []Range{{3, 6}, {12, 15}, {16, 19}}, got)
	for _, r := range got {
		assert.Equal(t, "cat", lowerRunes(catText, r))
	}
}

func TestMatch_WholeMatchOnlyStandalone(t *testing.T) {
	p := NewString("cat", true, true)

	require.Equal(t, []Range{{12, 15}}, p.Match(catText))
}

func TestMatch_CaseSensitive(t *testing.T) {
	p := NewString("CAT", false, false)

	require.Equal(t, []Range{{16, 19}}, p.Match(catText))
}

func TestMatch_StringEscapesRegexSyntax(t *testing.T) {
	p := NewString("a.b", false, false)

	require.Equal(t, []Range{{4, 7}}, p.Match("axb a.b"))
}

func TestMatch_Regex(t *testing.T) {
	tests := []struct {
		name    string
		pattern Pattern
		text    string
		want    []Range
	}{
		{
			name:    "digits",
			pattern: NewRegex(`\d+`, false, false),
			text:    "took 120ms and 7ms",
			want:    []Range{{5, 8}, {15, 16}},
		},
		{
			name:    "whole match regex",
			pattern: NewRegex(`err\w*`, false, true),
			text:    "error xerr errs",
			want:    []Range{{0, 5}, {11, 15}},
		},
		{
			name:    "ignore case regex",
			pattern: NewRegex(`warn(ing)?`, true, false),
			text:    "WARN Warning",
			want:    []Range{{0, 4}, {5, 12}},
		},
		{
			name:    "zero length matches are dropped",
			pattern: NewRegex(`x*`, false, false),
			text:    "axxb",
			want:    []Range{{1, 3}},
		},
		{
			name:    "invalid regex matches nothing",
			pattern: NewRegex(`(unclosed`, false, false),
			text:    "(unclosed",
			want:    nil,
		},
		{
			name:    "empty phrase matches nothing",
			pattern: NewRegex("", false, false),
			text:    "anything",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.pattern.Match(tt.text))
		})
	}
}

func TestMatch_RuneOffsets(t *testing.T) {
	p := NewString("naïve", false, true)

	require.Equal(t, []Range{{5, 10}}, p.Match("über naïve"))
}

func TestMatch_WholeMatchTreatsUnicodeLettersAsWordChars(t *testing.T) {
	p := NewString("cat", false, true)

	require.Empty(t, p.Match("écat catö"))
}

func TestValid(t *testing.T) {
	require.True(t, NewRegex(`a+`, false, false).Valid())
	require.False(t, NewRegex(`a(`, false, false).Valid())
	require.False(t, NewString("", false, false).Valid())
	require.True(t, NewString("a(", false, false).Valid())
}

func TestEqual(t *testing.T) {
	base := NewString("foo", false, false)

	require.True(t, base.Equal(NewString("foo", false, false)))
	require.False(t, base.Equal(NewRegex("foo", false, false)))
	require.False(t, base.Equal(base.WithIgnoreCase(true)))
	require.False(t, base.Equal(base.WithWholeMatch(true)))
	require.False(t, base.Equal(base.WithPhrase("bar")))
}

func TestPatternString(t *testing.T) {
	require.Equal(t, "foo", NewString("foo", false, false).String())
	require.Equal(t, "/fo+/ [iw]", NewRegex("fo+", true, true).String())
}

// Matches are ordered, non-overlapping, non-empty and, for literal
// patterns, always cover text equal to the phrase.
func TestMatch_RangesAreOrderedAndDisjoint(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.StringMatching(`[abc _]{0,40}`).Draw(t, "text")
		phrase := rapid.StringMatching(`[abc]{1,3}`).Draw(t, "phrase")
		wholeMatch := rapid.Bool().Draw(t, "wholeMatch")

		ranges := NewString(phrase, false, wholeMatch).Match(text)
		runes := []rune(text)

		prevEnd := 0
		for _, r := range ranges {
			if r.IsEmpty() {
				t.Fatalf("empty range %v", r)
			}
			if r.Start < prevEnd {
				t.Fatalf("range %v overlaps previous end %d", r, prevEnd)
			}
			if got := string(runes[r.Start:r.End]); got != phrase {
				t.Fatalf("range %v covers %q, want %q", r, got, phrase)
			}
			prevEnd = r.End
		}
	})
}

func lowerRunes(text string, r Range) string {
	runes := []rune(text)[r.Start:r.End]
	out := make([]rune, len(runes))
	for i, c := range runes {
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}
