package memorize

import "strings"

// quoteGlyphs are stripped from both ends of every fragment.
const quoteGlyphs = "\"“”‘’«»"

// Fragment splits verse text into the punctuation-delimited pieces used for
// step-wise reading. Each of , ; . : ends a fragment and is discarded.
// Fragments are trimmed and quote-stripped; empty ones are dropped.
func Fragment(verseText string) []string {
	pieces := strings.FieldsFunc(verseText, isFragmentBoundary)

	fragments := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		piece = strings.TrimSpace(piece)
		piece = strings.Trim(piece, quoteGlyphs)
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		fragments = append(fragments, piece)
	}

	return fragments
}

func isFragmentBoundary(r rune) bool {
	switch r {
	case ',', ';', '.', ':':
		return true
	}
	return false
}
