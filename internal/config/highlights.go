package config

import (
	"errors"
	"fmt"

	"github.com/cheerioskun/textmarker/internal/decoration"
	"github.com/cheerioskun/textmarker/internal/pattern"
)

// Pattern types as written to config files.
const (
	TypeString = "string"
	TypeRegex  = "regex"
)

// ErrUnknownPatternType is returned when a saved highlight names a type
// other than "string" or "regex".
var ErrUnknownPatternType = errors.New("unknown pattern type")

// SavedPattern is the persisted form of a pattern.
type SavedPattern struct {
	Type       string `yaml:"type" mapstructure:"type"`
	Expression string `yaml:"expression" mapstructure:"expression"`
	IgnoreCase bool   `yaml:"ignoreCase" mapstructure:"ignoreCase"`
	WholeMatch bool   `yaml:"wholeMatch" mapstructure:"wholeMatch"`
}

// SavedHighlight is one entry of the savedHighlights list.
type SavedHighlight struct {
	Pattern SavedPattern `yaml:"pattern" mapstructure:"pattern"`
}

// ExportHighlights maps live decorations to their persisted form, keeping order.
func ExportHighlights(decorations []*decoration.Decoration) []SavedHighlight {
	saved := make([]SavedHighlight, 0, len(decorations))
	for _, d := range decorations {
		saved = append(saved, SavedHighlight{Pattern: exportPattern(d.Pattern)})
	}
	return saved
}

func exportPattern(p pattern.Pattern) SavedPattern {
	typ := TypeString
	if p.Kind == pattern.Regex {
		typ = TypeRegex
	}
	return SavedPattern{
		Type:       typ,
		Expression: p.Phrase,
		IgnoreCase: p.IgnoreCase,
		WholeMatch: p.WholeMatch,
	}
}

// ImportPattern rebuilds the pattern of a saved highlight.
func ImportPattern(h SavedHighlight) (pattern.Pattern, error) {
	sp := h.Pattern
	switch sp.Type {
	case TypeString:
		return pattern.NewString(sp.Expression, sp.IgnoreCase, sp.WholeMatch), nil
	case TypeRegex:
		return pattern.NewRegex(sp.Expression, sp.IgnoreCase, sp.WholeMatch), nil
	default:
		return pattern.Pattern{}, fmt.Errorf("%w: %q", ErrUnknownPatternType, sp.Type)
	}
}
