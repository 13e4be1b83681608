// Package overview bins the highlighted ranges of a buffer by line so a
// panel can show where in a file the highlights fall.
package overview

import (
	"github.com/cheerioskun/textmarker/internal/pattern"
)

// DefaultBinCount is used when a caller asks for zero or fewer bins.
const DefaultBinCount = 20

// Bin counts the highlighted ranges starting in lines [StartLine, EndLine).
type Bin struct {
	StartLine int
	EndLine   int
	Count     int
}

// Build splits text into at most binCount equal line bins and counts the
// ranges whose start falls in each. A text with fewer lines than binCount
// gets one bin per line.
func Build(text string, ranges []pattern.Range, binCount int) []Bin {
	if binCount <= 0 {
		binCount = DefaultBinCount
	}

	// Step 1: Find the first rune of every line
	starts := lineStarts(text)
	lines := len(starts)
	if binCount > lines {
		binCount = lines
	}

	// Step 2: Create line bins
	bins := make([]Bin, binCount)
	for i := range bins {
		bins[i] = Bin{
			StartLine: i * lines / binCount,
			EndLine:   (i + 1) * lines / binCount,
		}
	}

	// Step 3: Populate by locating each range's line
	for _, r := range ranges {
		line := lineOf(starts, r.Start)
		bins[binIndex(line, lines, binCount)].Count++
	}

	return bins
}

// Peak returns the largest count among bins.
func Peak(bins []Bin) int {
	peak := 0
	for _, b := range bins {
		peak = max(peak, b.Count)
	}
	return peak
}

func lineStarts(text string) []int {
	starts := []int{0}
	i := 0
	for _, r := range text {
		i++
		if r == '\n' {
			starts = append(starts, i)
		}
	}
	return starts
}

// lineOf binary searches starts for the line holding offset.
func lineOf(starts []int, offset int) int {
	lo, hi := 0, len(starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if starts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// binIndex inverts the StartLine formula of Build.
func binIndex(line, lines, binCount int) int {
	i := (line*binCount + binCount - 1) / lines
	for i > 0 && (i*lines)/binCount > line {
		i--
	}
	for i < binCount-1 && ((i+1)*lines)/binCount <= line {
		i++
	}
	return i
}
