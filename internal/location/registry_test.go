package location

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cheerioskun/textmarker/internal/pattern"
)

func TestLookup_FindsRegisteredRange(t *testing.T) {
	r := NewRegistry()
	r.Register("EDITOR_ID", "DECORATION_ID", []pattern.Range{{Start: 10, End: 20}})

	tests := []struct {
		name  string
		pos   int
		found bool
	}{
		{name: "start is inside", pos: 10, found: true},
		{name: "middle is inside", pos: 15, found: true},
		{name: "end is outside", pos: 20, found: false},
		{name: "before", pos: 0, found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := r.Lookup("EDITOR_ID", tt.pos)
			require.Equal(t, tt.found, ok)
			if tt.found {
				require.Equal(t, "DECORATION_ID", id)
			}
		})
	}
}

func TestLookup_IsPerBuffer(t *testing.T) {
	r := NewRegistry()
	r.Register("a", "D1", []pattern.Range{{Start: 0, End: 5}})

	_, ok := r.Lookup("b", 2)
	require.False(t, ok)
}

func TestLookup_MostRecentRegistrationWins(t *testing.T) {
	r := NewRegistry()
	r.Register("buf", "older", []pattern.Range{{Start: 0, End: 10}})
	r.Register("buf", "newer", []pattern.Range{{Start: 5, End: 8}})

	id, ok := r.Lookup("buf", 6)
	require.True(t, ok)
	require.Equal(t, "newer", id)

	id, _ = r.Lookup("buf", 2)
	require.Equal(t, "older", id)

	// Re-registering bumps recency.
	r.Register("buf", "older", []pattern.Range{{Start: 0, End: 10}})
	id, _ = r.Lookup("buf", 6)
	require.Equal(t, "older", id)
}

func TestRegister_ReplacesPriorEntry(t *testing.T) {
	r := NewRegistry()
	r.Register("buf", "D1", []pattern.Range{{Start: 0, End: 3}})
	r.Register("buf", "D1", []pattern.Range{{Start: 10, End: 13}})

	_, ok := r.Lookup("buf", 1)
	require.False(t, ok)
	require.Equal(t, []pattern.Range{{Start: 10, End: 13}}, r.Ranges("buf", "D1"))
}

func TestUnregister_RemovesAcrossBuffers(t *testing.T) {
	r := NewRegistry()
	r.Register("a", "D1", []pattern.Range{{Start: 0, End: 3}})
	r.Register("b", "D1", []pattern.Range{{Start: 0, End: 3}})
	r.Register("b", "D2", []pattern.Range{{Start: 5, End: 6}})

	r.Unregister("D1")

	_, ok := r.Lookup("a", 1)
	require.False(t, ok)
	_, ok = r.Lookup("b", 1)
	require.False(t, ok)
	require.Equal(t, []string{"D2"}, r.decorationIDs())
}

func TestPruneBuffer(t *testing.T) {
	r := NewRegistry()
	r.Register("a", "D1", []pattern.Range{{Start: 0, End: 3}})

	r.PruneBuffer("a")

	require.Empty(t, r.decorationIDs())
}

func TestCurrent_RequiresMatchingDigest(t *testing.T) {
	r := NewRegistry()
	ranges := []pattern.Range{{Start: 1, End: 2}}
	digest := Digest("abc")
	r.Track("buf", "D1", digest, ranges)

	got, ok := r.Current("buf", "D1", digest)
	require.True(t, ok)
	require.Equal(t, ranges, got)

	_, ok = r.Current("buf", "D1", Digest("abcd"))
	require.False(t, ok)

	r.Register("buf", "D2", ranges)
	_, ok = r.Current("buf", "D2", 0)
	require.False(t, ok)
}

func TestRegister_CopiesRanges(t *testing.T) {
	r := NewRegistry()
	ranges := []pattern.Range{{Start: 0, End: 3}}
	r.Register("buf", "D1", ranges)

	ranges[0].Start = 99

	require.Equal(t, 0, r.Ranges("buf", "D1")[0].Start)
}
