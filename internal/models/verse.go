package models

import "time"

// Verse is a passage of scripture to memorize. Text is kept exactly as it
// came from the content source.
type Verse struct {
	ID            int64     `json:"id"`
	Reference     string    `json:"reference"`
	Text          string    `json:"text"`
	Context       string    `json:"context,omitempty"`
	Translation   string    `json:"translation"`
	AudioFilename string    `json:"audio_filename,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// MasteredVerse records that a user recalled a verse word-perfectly.
type MasteredVerse struct {
	UserID     int64     `json:"user_id"`
	VerseID    int64     `json:"verse_id"`
	Reference  string    `json:"reference"`
	MasteredAt time.Time `json:"mastered_at"`
}
