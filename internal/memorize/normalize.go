// Package memorize holds the text algorithms behind verse practice:
// normalizing answers, breaking a verse into fragments, hiding words for
// fill-in-the-blank, scoring recall, and mapping a mastered-verse count to
// a rank tier. Everything here is pure and safe for concurrent use.
package memorize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// lowerCaser is stateless for language.Und, so sharing it is fine.
var lowerCaser = cases.Lower(language.Und)

// Normalize canonicalizes text for forgiving comparison. It lower-cases,
// drops everything except letters, digits, underscores, apostrophes and
// whitespace, collapses whitespace runs to a single space and trims. The
// result is NFC, composed after filtering so that letters left adjacent by
// dropped punctuation compose the same way on every pass.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	lowered := lowerCaser.String(norm.NFC.String(text))

	var b strings.Builder
	b.Grow(len(lowered))
	pendingSpace := false

	for _, r := range lowered {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = b.Len() > 0
		case isApostrophe(r):
			writeRune(&b, '\'', &pendingSpace)
		case isWordRune(r):
			writeRune(&b, r, &pendingSpace)
		}
	}

	return norm.NFC.String(b.String())
}

func writeRune(b *strings.Builder, r rune, pendingSpace *bool) {
	if *pendingSpace {
		b.WriteByte(' ')
		*pendingSpace = false
	}
	b.WriteRune(r)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// isApostrophe accepts the straight apostrophe and the typographic ones
// that phone keyboards substitute for it.
func isApostrophe(r rune) bool {
	switch r {
	case '\'', '‘', '’', 'ʼ':
		return true
	}
	return false
}
