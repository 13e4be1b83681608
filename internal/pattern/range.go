package pattern

import "fmt"

// Range is a half-open [Start, End) span of rune offsets.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of runes covered.
func (r Range) Len() int {
	return r.End - r.Start
}

// IsEmpty reports whether the range covers nothing.
func (r Range) IsEmpty() bool {
	return r.End <= r.Start
}

// Contains reports whether pos falls inside the range.
func (r Range) Contains(pos int) bool {
	return pos >= r.Start && pos < r.End
}

// Overlaps reports whether the two ranges share at least one rune.
func (r Range) Overlaps(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}

// String returns a human-readable representation of the range
func (r Range) String() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}
