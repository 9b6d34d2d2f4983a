package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"versequest/internal/database"
	"versequest/internal/models"
)

const verseColumns = `id, reference, text, context, translation, audio_filename, created_at`

// VerseRepository handles database operations for the verse catalog
type VerseRepository struct {
	db database.DBTX
}

// NewVerseRepository creates a new verse repository
func NewVerseRepository(db database.DBTX) *VerseRepository {
	return &VerseRepository{db: db}
}

// CreateVerse stores a verse and returns it with its new ID
func (r *VerseRepository) CreateVerse(reference, text, context, translation string) (*models.Verse, error) {
	query := `
		INSERT INTO verses (reference, text, context, translation, audio_filename)
		VALUES (?, ?, ?, ?, '')
	`
	id, err := r.db.ExecReturningID(query, reference, text, context, translation)
	if err != nil {
		return nil, fmt.Errorf("failed to create verse: %w", err)
	}

	return &models.Verse{
		ID:          id,
		Reference:   reference,
		Text:        text,
		Context:     context,
		Translation: translation,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// GetVerseByID retrieves a verse by ID, or nil when there is none
func (r *VerseRepository) GetVerseByID(id int64) (*models.Verse, error) {
	return r.getVerse("SELECT "+verseColumns+" FROM verses WHERE id = ?", id)
}

// GetVerseByReference retrieves a verse by reference within a translation.
// The reference match ignores case, so "Song Of Solomon 1:1" finds the row
// stored as "Song of Solomon 1:1".
func (r *VerseRepository) GetVerseByReference(reference, translation string) (*models.Verse, error) {
	return r.getVerse("SELECT "+verseColumns+" FROM verses WHERE LOWER(reference) = LOWER(?) AND translation = ?", reference, translation)
}

func (r *VerseRepository) getVerse(query string, args ...interface{}) (*models.Verse, error) {
	verse, err := scanVerse(r.db.QueryRow(query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get verse: %w", err)
	}
	return verse, nil
}

func scanVerse(row rowScanner) (*models.Verse, error) {
	verse := &models.Verse{}
	err := row.Scan(
		&verse.ID,
		&verse.Reference,
		&verse.Text,
		&verse.Context,
		&verse.Translation,
		&verse.AudioFilename,
		&verse.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return verse, nil
}

// ListVerses returns every verse in catalog order
func (r *VerseRepository) ListVerses() ([]models.Verse, error) {
	rows, err := r.db.Query("SELECT " + verseColumns + " FROM verses ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query verses: %w", err)
	}
	defer rows.Close()

	verses := []models.Verse{}
	for rows.Next() {
		verse, err := scanVerse(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan verse: %w", err)
		}
		verses = append(verses, *verse)
	}

	return verses, rows.Err()
}

// ListVersesWithoutAudio returns verses that still need an audio file
func (r *VerseRepository) ListVersesWithoutAudio() ([]models.Verse, error) {
	rows, err := r.db.Query("SELECT " + verseColumns + " FROM verses WHERE audio_filename = '' ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query verses without audio: %w", err)
	}
	defer rows.Close()

	var verses []models.Verse
	for rows.Next() {
		verse, err := scanVerse(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan verse: %w", err)
		}
		verses = append(verses, *verse)
	}

	return verses, rows.Err()
}

// UpdateAudioFilename records the generated audio file for a verse
func (r *VerseRepository) UpdateAudioFilename(id int64, filename string) error {
	if _, err := r.db.Exec("UPDATE verses SET audio_filename = ? WHERE id = ?", filename, id); err != nil {
		return fmt.Errorf("failed to update verse audio: %w", err)
	}
	return nil
}

// RestoreVerse inserts a verse with an explicit ID, as read from a backup.
func (r *VerseRepository) RestoreVerse(verse models.Verse) error {
	query := `
		INSERT INTO verses (id, reference, text, context, translation, audio_filename, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(r.db.GetDialect().InsertIgnore(query),
		verse.ID, verse.Reference, verse.Text, verse.Context, verse.Translation, verse.AudioFilename, verse.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to restore verse %d: %w", verse.ID, err)
	}
	return nil
}
