package service

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"versequest/internal/database"
	"versequest/internal/logger"
	"versequest/internal/models"
	"versequest/internal/repository"
)

const backupVersion = "1"

// BackupData is the JSON snapshot written by Export and read by Import
type BackupData struct {
	Version      string                   `json:"version"`
	ExportedAt   time.Time                `json:"exported_at"`
	Users        []UserBackup             `json:"users"`
	Verses       []models.Verse           `json:"verses"`
	Mastered     []models.MasteredVerse   `json:"mastered_verses"`
	Attempts     []models.PracticeAttempt `json:"practice_attempts"`
	MaskInterval *int                     `json:"mask_interval,omitempty"`
}

// UserBackup carries the credential fields models.User keeps out of JSON.
type UserBackup struct {
	models.User
	PasswordHash string `json:"password_hash"`
	OAuthSubject string `json:"oauth_subject"`
}

// BackupService exports and restores the whole database as JSON
type BackupService struct {
	db  *database.DB
	log *logger.Logger
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB, log *logger.Logger) *BackupService {
	return &BackupService{db: db, log: log}
}

// Export writes a backup to the file at outputPath
func (s *BackupService) Export(outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := s.ExportToWriter(file); err != nil {
		return err
	}
	return file.Close()
}

// ExportToWriter writes a backup to w
func (s *BackupService) ExportToWriter(w io.Writer) error {
	backup, err := s.snapshot()
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	s.log.Info("database exported",
		"users", len(backup.Users),
		"verses", len(backup.Verses),
		"mastered", len(backup.Mastered),
		"attempts", len(backup.Attempts))
	return nil
}

func (s *BackupService) snapshot() (*BackupData, error) {
	backup := &BackupData{
		Version:    backupVersion,
		ExportedAt: time.Now().UTC(),
	}

	users, err := repository.NewUserRepository(s.db).GetAllUsers()
	if err != nil {
		return nil, fmt.Errorf("failed to export users: %w", err)
	}
	for _, u := range users {
		backup.Users = append(backup.Users, UserBackup{User: u, PasswordHash: u.PasswordHash, OAuthSubject: u.OAuthSubject})
	}

	if backup.Verses, err = repository.NewVerseRepository(s.db).ListVerses(); err != nil {
		return nil, fmt.Errorf("failed to export verses: %w", err)
	}
	if backup.Mastered, err = repository.NewProgressRepository(s.db).ListAllMastered(); err != nil {
		return nil, fmt.Errorf("failed to export mastered verses: %w", err)
	}
	if backup.Attempts, err = repository.NewPracticeRepository(s.db).GetAllAttempts(); err != nil {
		return nil, fmt.Errorf("failed to export practice attempts: %w", err)
	}

	settings := repository.NewSettingsRepository(s.db)
	if _, ok, err := settings.GetSetting(repository.SettingMaskInterval); err != nil {
		return nil, fmt.Errorf("failed to export settings: %w", err)
	} else if ok {
		interval := settings.GetMaskInterval(0)
		backup.MaskInterval = &interval
	}

	return backup, nil
}

// Import restores a backup from the file at inputPath
func (s *BackupService) Import(inputPath string) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(file)
}

// ImportFromReader restores a backup read from r inside one transaction.
// Rows whose keys already exist are left as they are.
func (s *BackupService) ImportFromReader(r io.Reader) error {
	var backup BackupData
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}
	if backup.Version != backupVersion {
		return fmt.Errorf("unsupported backup version %q", backup.Version)
	}

	s.log.Info("importing backup", "exported_at", backup.ExportedAt)

	err := s.db.WithTx(func(tx *database.Tx) error {
		users := repository.NewUserRepository(tx)
		for _, u := range backup.Users {
			user := u.User
			user.PasswordHash = u.PasswordHash
			user.OAuthSubject = u.OAuthSubject
			if err := users.RestoreUser(user); err != nil {
				return err
			}
		}

		verses := repository.NewVerseRepository(tx)
		for _, v := range backup.Verses {
			if err := verses.RestoreVerse(v); err != nil {
				return err
			}
		}

		progress := repository.NewProgressRepository(tx)
		for _, m := range backup.Mastered {
			if err := progress.RestoreMastered(m); err != nil {
				return err
			}
		}

		practice := repository.NewPracticeRepository(tx)
		for _, a := range backup.Attempts {
			if err := practice.RestoreAttempt(a); err != nil {
				return err
			}
		}

		if backup.MaskInterval != nil {
			return repository.NewSettingsRepository(tx).SetMaskInterval(*backup.MaskInterval)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to import backup: %w", err)
	}

	s.log.Info("database import completed",
		"users", len(backup.Users),
		"verses", len(backup.Verses),
		"mastered", len(backup.Mastered),
		"attempts", len(backup.Attempts))
	return nil
}

// clearOrder lists tables children first so foreign keys never block a delete.
var clearOrder = []string{
	"practice_attempts",
	"mastered_verses",
	"sessions",
	"verses",
	"users",
	"settings",
}

// Clear deletes every row the backup covers, in one transaction
func (s *BackupService) Clear() error {
	err := s.db.WithTx(func(tx *database.Tx) error {
		for _, table := range clearOrder {
			if _, err := tx.Exec("DELETE FROM " + table); err != nil {
				return fmt.Errorf("failed to clear table %s: %w", table, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Warn("database cleared", "tables", len(clearOrder))
	return nil
}
