package memorize

import "strings"

// BlankResult is the outcome of checking fill-in-the-blank answers.
type BlankResult struct {
	Results      []bool `json:"results"`
	CorrectCount int    `json:"correct_count"`
	AllCorrect   bool   `json:"all_correct"`
}

// RecallResult is the word-by-word outcome of a whole-verse recall.
// CandidateWords is padded with "" up to the expected length so the two
// slices line up for display.
type RecallResult struct {
	WordResults    []bool   `json:"word_results"`
	ExpectedWords  []string `json:"expected_words"`
	CandidateWords []string `json:"candidate_words"`
	CorrectCount   int      `json:"correct_count"`
	ExtraWords     int      `json:"extra_words"`
	AllCorrect     bool     `json:"all_correct"`
}

// Accuracy returns the share of expected words answered correctly, 0..100.
func (r RecallResult) Accuracy() float64 {
	if len(r.ExpectedWords) == 0 {
		return 0
	}
	return float64(r.CorrectCount) / float64(len(r.ExpectedWords)) * 100
}

// IsBlankCorrect reports whether candidate matches expected after
// normalization.
func IsBlankCorrect(expected, candidate string) bool {
	return Normalize(expected) == Normalize(candidate)
}

// AllBlanksCorrect reports whether every expected blank was answered
// correctly. A candidate list shorter than expected is never fully
// correct, and neither is an empty expected list.
func AllBlanksCorrect(expected, candidates []string) bool {
	return ScoreBlanks(expected, candidates).AllCorrect
}

// ScoreBlanks checks each expected blank against the candidate at the same
// index. Missing candidates count as empty answers.
func ScoreBlanks(expected, candidates []string) BlankResult {
	result := BlankResult{Results: make([]bool, len(expected))}

	for i, want := range expected {
		if IsBlankCorrect(want, at(candidates, i)) {
			result.Results[i] = true
			result.CorrectCount++
		}
	}

	result.AllCorrect = len(expected) > 0 &&
		len(candidates) >= len(expected) &&
		result.CorrectCount == len(expected)

	return result
}

// ScoreRecall compares recalled text against the verse word by word after
// normalizing both. It is strict about length: extra or missing words mean
// the recall is not all correct even when every overlapping word matches.
func ScoreRecall(expectedVerse, candidateText string) RecallResult {
	expectedWords := strings.Fields(Normalize(expectedVerse))
	candidateWords := strings.Fields(Normalize(candidateText))

	result := RecallResult{
		WordResults:    make([]bool, len(expectedWords)),
		ExpectedWords:  expectedWords,
		CandidateWords: make([]string, len(expectedWords)),
	}

	for i, want := range expectedWords {
		got := at(candidateWords, i)
		result.CandidateWords[i] = got
		if got == want {
			result.WordResults[i] = true
			result.CorrectCount++
		}
	}

	if extra := len(candidateWords) - len(expectedWords); extra > 0 {
		result.ExtraWords = extra
	}

	result.AllCorrect = len(expectedWords) > 0 &&
		len(candidateWords) == len(expectedWords) &&
		result.CorrectCount == len(expectedWords)

	return result
}

func at(words []string, i int) string {
	if i < len(words) {
		return words[i]
	}
	return ""
}
