// Package pattern turns a highlight rule into the concrete rune ranges it
// covers in a piece of text.
//
// A Pattern is a comparable value: two patterns with the same kind, phrase
// and flags are the same rule, which is what the decoration registry relies
// on to refuse duplicates.
//
// Evaluation is fail-soft. A regular expression that does not compile, an
// empty phrase, or an expression that exceeds the match timeout never
// produces an error; it simply yields no (further) ranges, so a bad
// user-entered rule highlights nothing instead of breaking the engine.
package pattern

import (
	"fmt"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/cheerioskun/textmarker/internal/utils"
)

// Kind selects how the phrase of a Pattern is interpreted.
type Kind int

const (
	String Kind = iota // Phrase is literal text
	Regex              // Phrase is a regular expression
)

// String returns a human-readable representation of the kind
func (k Kind) String() string {
	switch k {
	case String:
		return "String"
	case Regex:
		return "Regex"
	default:
		return "Unknown"
	}
}

// expression converts a phrase into the regular expression source for this kind.
func (k Kind) expression(phrase string) string {
	switch k {
	case String:
		return regexp2.Escape(phrase)
	default:
		return phrase
	}
}

// MatchTimeout bounds a single evaluation of a pattern against a buffer.
var MatchTimeout = 2 * time.Second

// wordChar is the character class a whole match must not touch on either side.
const wordChar = `\w`

// Pattern is an immutable highlight rule.
type Pattern struct {
	Kind       Kind
	Phrase     string
	IgnoreCase bool
	WholeMatch bool
}

// NewString creates a literal pattern.
func NewString(phrase string, ignoreCase, wholeMatch bool) Pattern {
	return Pattern{Kind: String, Phrase: phrase, IgnoreCase: ignoreCase, WholeMatch: wholeMatch}
}

// NewRegex creates a regular expression pattern.
func NewRegex(phrase string, ignoreCase, wholeMatch bool) Pattern {
	return Pattern{Kind: Regex, Phrase: phrase, IgnoreCase: ignoreCase, WholeMatch: wholeMatch}
}

// Equal reports whether p and other describe the same rule.
func (p Pattern) Equal(other Pattern) bool {
	return p == other
}

// WithPhrase returns a copy of p with a different phrase.
func (p Pattern) WithPhrase(phrase string) Pattern {
	p.Phrase = phrase
	return p
}

// WithIgnoreCase returns a copy of p with the case flag set to v.
func (p Pattern) WithIgnoreCase(v bool) Pattern {
	p.IgnoreCase = v
	return p
}

// WithWholeMatch returns a copy of p with the whole match flag set to v.
func (p Pattern) WithWholeMatch(v bool) Pattern {
	p.WholeMatch = v
	return p
}

// String renders the pattern the way the highlight list displays it.
func (p Pattern) String() string {
	text := p.Phrase
	if p.Kind == Regex {
		text = "/" + text + "/"
	}
	flags := ""
	if p.IgnoreCase {
		flags += "i"
	}
	if p.WholeMatch {
		flags += "w"
	}
	if flags != "" {
		return fmt.Sprintf("%s [%s]", text, flags)
	}
	return text
}

// Valid reports whether the pattern compiles. Invalid patterns are still
// accepted everywhere; this only lets a UI flag them.
func (p Pattern) Valid() bool {
	if p.Phrase == "" {
		return false
	}
	_, err := p.compile()
	return err == nil
}

func (p Pattern) compile() (*regexp2.Regexp, error) {
	expr := p.Kind.expression(p.Phrase)
	if p.WholeMatch {
		expr = fmt.Sprintf(`(?<!%s)(?:%s)(?!%s)`, wordChar, expr, wordChar)
	}

	opts := regexp2.None
	if p.IgnoreCase {
		opts |= regexp2.IgnoreCase
	}

	re, err := regexp2.Compile(expr, opts)
	if err != nil {
		return nil, err
	}
	re.MatchTimeout = MatchTimeout
	return re, nil
}

// Match returns the ranges of text covered by p, ordered and non-overlapping.
// Offsets are in runes.
func (p Pattern) Match(text string) []Range {
	if p.Phrase == "" || text == "" {
		return nil
	}

	re, err := p.compile()
	if err != nil {
		utils.Warning(utils.CatPattern, "pattern does not compile, matching nothing",
			"pattern", p.String(), "error", err)
		return nil
	}

	var ranges []Range
	m, err := re.FindStringMatch(text)
	for m != nil && err == nil {
		if m.Length > 0 {
			ranges = append(ranges, Range{Start: m.Index, End: m.Index + m.Length})
		}
		m, err = re.FindNextMatch(m)
	}
	if err != nil {
		utils.Warning(utils.CatPattern, "pattern evaluation aborted",
			"pattern", p.String(), "matches", len(ranges), "error", err)
	}

	return ranges
}
