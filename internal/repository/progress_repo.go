package repository

import (
	"fmt"
	"time"

	"versequest/internal/database"
	"versequest/internal/models"
)

// ProgressRepository tracks which verses each user has mastered
type ProgressRepository struct {
	db database.DBTX
}

// NewProgressRepository creates a new progress repository
func NewProgressRepository(db database.DBTX) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// LockUser row-locks the user until the surrounding transaction ends, so
// concurrent mastery updates for one user run one after another.
func (r *ProgressRepository) LockUser(userID int64) error {
	var id int64
	query := r.db.GetDialect().LockForUpdate("SELECT id FROM users WHERE id = ?")
	if err := r.db.QueryRow(query, userID).Scan(&id); err != nil {
		return fmt.Errorf("failed to lock user %d: %w", userID, err)
	}
	return nil
}

// MarkMastered records a mastered verse. It reports false when the user had
// already mastered it, leaving the original record untouched.
func (r *ProgressRepository) MarkMastered(userID, verseID int64) (bool, error) {
	return r.insertMastered(userID, verseID, time.Now().UTC())
}

func (r *ProgressRepository) insertMastered(userID, verseID int64, at time.Time) (bool, error) {
	query := r.db.GetDialect().InsertIgnore(`
		INSERT INTO mastered_verses (user_id, verse_id, mastered_at)
		VALUES (?, ?, ?)
	`)
	result, err := r.db.Exec(query, userID, verseID, at)
	if err != nil {
		return false, fmt.Errorf("failed to mark verse mastered: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read mastered result: %w", err)
	}
	return n > 0, nil
}

// CountMastered returns the number of distinct verses a user has mastered
func (r *ProgressRepository) CountMastered(userID int64) (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM mastered_verses WHERE user_id = ?", userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count mastered verses: %w", err)
	}
	return count, nil
}

// IsMastered reports whether the user has mastered the verse
func (r *ProgressRepository) IsMastered(userID, verseID int64) (bool, error) {
	var count int
	query := "SELECT COUNT(*) FROM mastered_verses WHERE user_id = ? AND verse_id = ?"
	if err := r.db.QueryRow(query, userID, verseID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check mastered verse: %w", err)
	}
	return count > 0, nil
}

// ListMastered returns a user's mastered verses, most recent first
func (r *ProgressRepository) ListMastered(userID int64) ([]models.MasteredVerse, error) {
	query := `
		SELECT m.user_id, m.verse_id, v.reference, m.mastered_at
		FROM mastered_verses m
		JOIN verses v ON v.id = m.verse_id
		WHERE m.user_id = ?
		ORDER BY m.mastered_at DESC, m.verse_id DESC
	`
	return r.queryMastered(query, userID)
}

// ListAllMastered returns every mastered record, for backups
func (r *ProgressRepository) ListAllMastered() ([]models.MasteredVerse, error) {
	query := `
		SELECT m.user_id, m.verse_id, v.reference, m.mastered_at
		FROM mastered_verses m
		JOIN verses v ON v.id = m.verse_id
		ORDER BY m.user_id ASC, m.verse_id ASC
	`
	return r.queryMastered(query)
}

func (r *ProgressRepository) queryMastered(query string, args ...interface{}) ([]models.MasteredVerse, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query mastered verses: %w", err)
	}
	defer rows.Close()

	mastered := []models.MasteredVerse{}
	for rows.Next() {
		var m models.MasteredVerse
		if err := rows.Scan(&m.UserID, &m.VerseID, &m.Reference, &m.MasteredAt); err != nil {
			return nil, fmt.Errorf("failed to scan mastered verse: %w", err)
		}
		mastered = append(mastered, m)
	}

	return mastered, rows.Err()
}

// RestoreMastered inserts a mastered record read from a backup
func (r *ProgressRepository) RestoreMastered(m models.MasteredVerse) error {
	_, err := r.insertMastered(m.UserID, m.VerseID, m.MasteredAt.UTC())
	return err
}
