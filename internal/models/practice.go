package models

import "time"

// PracticeStep names the exercise an attempt belongs to.
type PracticeStep string

const (
	StepRead      PracticeStep = "read"
	StepBreakdown PracticeStep = "breakdown"
	StepFillIn    PracticeStep = "fill_in"
	StepRecall    PracticeStep = "recall"
)

// Valid reports whether the step is one of the known practice steps.
func (s PracticeStep) Valid() bool {
	switch s {
	case StepRead, StepBreakdown, StepFillIn, StepRecall:
		return true
	}
	return false
}

// PracticeAttempt represents one scored answer for a verse
type PracticeAttempt struct {
	ID           int64        `json:"id"`
	UserID       int64        `json:"user_id"`
	VerseID      int64        `json:"verse_id"`
	Step         PracticeStep `json:"step"`
	AttemptText  string       `json:"attempt_text"`
	IsCorrect    bool         `json:"is_correct"`
	CorrectCount int          `json:"correct_count"`
	TotalCount   int          `json:"total_count"`
	AttemptedAt  time.Time    `json:"attempted_at"`
}

// Accuracy returns the percentage of units answered correctly.
func (a PracticeAttempt) Accuracy() float64 {
	if a.TotalCount == 0 {
		return 0
	}
	return float64(a.CorrectCount) / float64(a.TotalCount) * 100
}

// UserStats summarizes a user's practice history
type UserStats struct {
	TotalAttempts   int     `json:"total_attempts"`
	CorrectAttempts int     `json:"correct_attempts"`
	VersesMastered  int     `json:"verses_mastered"`
	VersesPracticed int     `json:"verses_practiced"`
	Accuracy        float64 `json:"accuracy"`
}
