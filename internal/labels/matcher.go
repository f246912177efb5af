// Package labels maps free-form model output onto the fixed label vocabulary.
//
// Labels are tested in priority order (types.Labels) and the first one present
// in the text wins, regardless of where in the text it appears. Because
// "light rain" precedes "rain" in that order, a response of "light rain" is
// never reported as "rain".
package labels

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"rainwatch/internal/types"
)

// Mode selects how a label is located in the response text.
type Mode string

const (
	// ModePhrase requires the label to be bounded by a non-alphanumeric rune
	// or the edge of the text, so "rain" does not match "rainbow".
	ModePhrase Mode = "phrase"
	// ModeSubstring accepts any occurrence of the label.
	ModeSubstring Mode = "substring"
)

// ParseMode converts a configuration value into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModePhrase, ModeSubstring:
		return Mode(s), nil
	case "":
		return ModePhrase, nil
	default:
		return "", fmt.Errorf("labels: unknown match mode %q", s)
	}
}

// Matcher finds the highest-priority label in a response. The zero value
// matches in phrase mode.
type Matcher struct {
	Mode Mode
}

// Match returns the first label, in priority order, that occurs in text.
// Matching is case-sensitive. ok is false when no label occurs.
func (m Matcher) Match(text string) (label types.Label, ok bool) {
	for _, l := range types.Labels() {
		if m.contains(text, string(l)) {
			return l, true
		}
	}
	return "", false
}

func (m Matcher) contains(text, label string) bool {
	if m.Mode == ModeSubstring {
		return strings.Contains(text, label)
	}
	for offset := 0; offset <= len(text)-len(label); {
		i := strings.Index(text[offset:], label)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(label)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		offset = start + size
	}
	return false
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !isWordRune(r)
}

func boundaryAfter(text string, i int) bool {
	if i == len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Match is shorthand for Matcher{Mode: ModePhrase}.Match.
func Match(text string) (types.Label, bool) {
	return Matcher{Mode: ModePhrase}.Match(text)
}
