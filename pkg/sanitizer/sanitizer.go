package sanitizer

import (
	"regexp"
	"strings"
	"unicode"
)

// Strategy is a single text normalization step. Strategies compose into
// Pipelines so callers can declare what a field needs instead of chaining
// string calls inline.
type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reStringLiteral  = regexp.MustCompile(`'(?:[^']|'')*'`)
	reNumberLiteral  = regexp.MustCompile(`\b\d+(?:\.\d+)?\b`)
	reDollarQuoted   = regexp.MustCompile(`\$[A-Za-z0-9_]*\$.*?\$[A-Za-z0-9_]*\$`)
	reValidClientOct = regexp.MustCompile(`^[0-9a-fA-F.:%]+$`)
)

func trimSpace(s string) string {
	return strings.TrimSpace(s)
}

func collapseWhitespace(s string) string {
	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}
	return result.String()
}

func truncate(limit int) Strategy {
	return func(s string) string {
		if len(s) <= limit {
			return s
		}
		// Cut on a rune boundary so truncation never produces invalid UTF-8.
		cut := limit
		for cut > 0 && !utf8RuneStart(s[cut]) {
			cut--
		}
		return s[:cut] + "..."
	}
}

func utf8RuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
