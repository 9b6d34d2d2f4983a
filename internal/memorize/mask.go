package memorize

import "strings"

const (
	// DefaultInterval hides every fourth word.
	DefaultInterval = 4

	// BlankMarker replaces a hidden word in MaskedVerse.Tokens.
	BlankMarker = "_____"

	// NoAnswer marks a visible position in MaskedVerse.AnswerIndex.
	NoAnswer = -1
)

// MaskedVerse is a verse with some words replaced by BlankMarker.
// Answers holds the hidden words left to right, and AnswerIndex maps each
// position in Tokens to its index in Answers (NoAnswer when visible).
type MaskedVerse struct {
	Tokens      []string `json:"tokens"`
	Answers     []string `json:"answers"`
	AnswerIndex []int    `json:"answer_index"`
	Interval    int      `json:"interval"`
}

// Blanks returns the number of hidden words.
func (m MaskedVerse) Blanks() int {
	return len(m.Answers)
}

// EffectiveInterval returns the masking interval actually applied to a verse
// with tokenCount words. Verses shorter than two full intervals use half
// their length (at least 2) so they still get a couple of blanks.
func EffectiveInterval(tokenCount, interval int) int {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if tokenCount < 2*interval {
		return max(2, tokenCount/2)
	}
	return interval
}

// MaskWords hides every interval-th word of the verse, starting with the
// first. A non-positive interval means DefaultInterval. The result is
// deterministic for a given verse and interval.
func MaskWords(verseText string, interval int) MaskedVerse {
	tokens := strings.Fields(verseText)
	if len(tokens) == 0 {
		return MaskedVerse{
			Tokens:      []string{},
			Answers:     []string{},
			AnswerIndex: []int{},
		}
	}

	effective := EffectiveInterval(len(tokens), interval)

	masked := MaskedVerse{
		Tokens:      make([]string, len(tokens)),
		Answers:     make([]string, 0, len(tokens)/effective+1),
		AnswerIndex: make([]int, len(tokens)),
		Interval:    effective,
	}

	for i, token := range tokens {
		if i%effective != 0 {
			masked.Tokens[i] = token
			masked.AnswerIndex[i] = NoAnswer
			continue
		}
		masked.AnswerIndex[i] = len(masked.Answers)
		masked.Answers = append(masked.Answers, token)
		masked.Tokens[i] = BlankMarker
	}

	return masked
}
