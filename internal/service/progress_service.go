package service

import (
	"fmt"

	"versequest/internal/memorize"
	"versequest/internal/models"
	"versequest/internal/repository"
)

// ProgressReport is a user's standing on the tier ladder.
type ProgressReport struct {
	memorize.Progression
	CanAdvance bool                   `json:"can_advance"`
	NextTier   string                 `json:"next_tier,omitempty"`
	Mastered   []models.MasteredVerse `json:"mastered"`
	Stats      *models.UserStats      `json:"stats"`
}

// ProgressService reports mastery progress against the tier table
type ProgressService struct {
	progressRepo *repository.ProgressRepository
	practiceRepo *repository.PracticeRepository
	tiers        memorize.TierTable
}

// NewProgressService creates a progress service over a validated tier table
func NewProgressService(progressRepo *repository.ProgressRepository, practiceRepo *repository.PracticeRepository, tiers memorize.TierTable) *ProgressService {
	return &ProgressService{
		progressRepo: progressRepo,
		practiceRepo: practiceRepo,
		tiers:        tiers,
	}
}

// Tiers returns the tier table in ascending order
func (s *ProgressService) Tiers() memorize.TierTable {
	return s.tiers
}

// GetProgress builds the progress report for a user
func (s *ProgressService) GetProgress(userID int64) (*ProgressReport, error) {
	mastered, err := s.progressRepo.ListMastered(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get mastered verses: %w", err)
	}

	stats, err := s.practiceRepo.GetUserStats(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get practice stats: %w", err)
	}

	count := len(mastered)
	p := memorize.CalculateRank(s.tiers, count)
	return &ProgressReport{
		Progression: p,
		CanAdvance:  memorize.CanAdvance(s.tiers, count),
		NextTier:    p.Tier.Next,
		Mastered:    mastered,
		Stats:       stats,
	}, nil
}
