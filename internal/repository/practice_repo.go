package repository

import (
	"fmt"
	"time"

	"versequest/internal/database"
	"versequest/internal/models"
)

// PracticeRepository handles practice attempt database operations
type PracticeRepository struct {
	db database.DBTX
}

// NewPracticeRepository creates a new practice repository
func NewPracticeRepository(db database.DBTX) *PracticeRepository {
	return &PracticeRepository{db: db}
}

// RecordAttempt stores one scored answer
func (r *PracticeRepository) RecordAttempt(attempt models.PracticeAttempt) (*models.PracticeAttempt, error) {
	if attempt.AttemptedAt.IsZero() {
		attempt.AttemptedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO practice_attempts (user_id, verse_id, step, attempt_text, is_correct, correct_count, total_count, attempted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		attempt.UserID,
		attempt.VerseID,
		string(attempt.Step),
		attempt.AttemptText,
		attempt.IsCorrect,
		attempt.CorrectCount,
		attempt.TotalCount,
		attempt.AttemptedAt.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record attempt: %w", err)
	}

	attempt.ID = id
	return &attempt, nil
}

// GetRecentAttempts returns a user's latest attempts, newest first
func (r *PracticeRepository) GetRecentAttempts(userID int64, limit int) ([]models.PracticeAttempt, error) {
	query := `
		SELECT id, user_id, verse_id, step, attempt_text, is_correct, correct_count, total_count, attempted_at
		FROM practice_attempts
		WHERE user_id = ?
		ORDER BY attempted_at DESC, id DESC
		LIMIT ?
	`
	return r.queryAttempts(query, userID, limit)
}

// GetAllAttempts returns every attempt, for backups
func (r *PracticeRepository) GetAllAttempts() ([]models.PracticeAttempt, error) {
	query := `
		SELECT id, user_id, verse_id, step, attempt_text, is_correct, correct_count, total_count, attempted_at
		FROM practice_attempts
		ORDER BY id ASC
	`
	return r.queryAttempts(query)
}

func (r *PracticeRepository) queryAttempts(query string, args ...interface{}) ([]models.PracticeAttempt, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attempts: %w", err)
	}
	defer rows.Close()

	attempts := []models.PracticeAttempt{}
	for rows.Next() {
		var a models.PracticeAttempt
		var step string
		err := rows.Scan(
			&a.ID,
			&a.UserID,
			&a.VerseID,
			&step,
			&a.AttemptText,
			&a.IsCorrect,
			&a.CorrectCount,
			&a.TotalCount,
			&a.AttemptedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		a.Step = models.PracticeStep(step)
		attempts = append(attempts, a)
	}

	return attempts, rows.Err()
}

// GetUserStats summarizes a user's practice history
func (r *PracticeRepository) GetUserStats(userID int64) (*models.UserStats, error) {
	stats := &models.UserStats{}

	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN is_correct THEN 1 ELSE 0 END), 0),
		       COUNT(DISTINCT verse_id)
		FROM practice_attempts
		WHERE user_id = ?
	`
	err := r.db.QueryRow(query, userID).Scan(&stats.TotalAttempts, &stats.CorrectAttempts, &stats.VersesPracticed)
	if err != nil {
		return nil, fmt.Errorf("failed to get practice stats: %w", err)
	}

	err = r.db.QueryRow("SELECT COUNT(*) FROM mastered_verses WHERE user_id = ?", userID).Scan(&stats.VersesMastered)
	if err != nil {
		return nil, fmt.Errorf("failed to count mastered verses: %w", err)
	}

	if stats.TotalAttempts > 0 {
		stats.Accuracy = float64(stats.CorrectAttempts) / float64(stats.TotalAttempts) * 100
	}

	return stats, nil
}

// RestoreAttempt inserts an attempt with its original ID, as read from a backup.
func (r *PracticeRepository) RestoreAttempt(a models.PracticeAttempt) error {
	query := `
		INSERT INTO practice_attempts (id, user_id, verse_id, step, attempt_text, is_correct, correct_count, total_count, attempted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(r.db.GetDialect().InsertIgnore(query),
		a.ID, a.UserID, a.VerseID, string(a.Step), a.AttemptText, a.IsCorrect, a.CorrectCount, a.TotalCount, a.AttemptedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to restore attempt %d: %w", a.ID, err)
	}
	return nil
}
