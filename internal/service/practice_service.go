package service

import (
	"context"
	"fmt"
	"strings"

	"versequest/internal/database"
	"versequest/internal/logger"
	"versequest/internal/memorize"
	"versequest/internal/metrics"
	"versequest/internal/models"
	"versequest/internal/repository"
	"versequest/internal/validation"
)

// RankUpNotifier is told when a user moves into a new tier.
type RankUpNotifier interface {
	SendRankUpEmail(ctx context.Context, toEmail, toName, tierName string, versesMastered int) error
}

// Breakdown is the phrase-by-phrase view of a verse.
type Breakdown struct {
	VerseID   int64    `json:"verse_id"`
	Reference string   `json:"reference"`
	Fragments []string `json:"fragments"`
}

// FillInExercise is a masked verse with its answers withheld.
type FillInExercise struct {
	VerseID   int64    `json:"verse_id"`
	Reference string   `json:"reference"`
	Tokens    []string `json:"tokens"`
	Blanks    int      `json:"blanks"`
	Interval  int      `json:"interval"`
}

// BlankCheck is a scored fill-in attempt.
type BlankCheck struct {
	memorize.BlankResult
	Expected []string `json:"expected"`
	Interval int      `json:"interval"`
}

// RecallOutcome is a scored whole-verse recall and its effect on progress.
type RecallOutcome struct {
	Result        memorize.RecallResult `json:"result"`
	Accuracy      float64               `json:"accuracy"`
	NewlyMastered bool                  `json:"newly_mastered"`
	RankedUp      bool                  `json:"ranked_up"`
	PreviousTier  string                `json:"previous_tier,omitempty"`
	Progression   memorize.Progression  `json:"progression"`
}

// PracticeService runs the read, breakdown, fill-in and recall steps and
// records every scored attempt.
type PracticeService struct {
	db              *database.DB
	verseRepo       *repository.VerseRepository
	practiceRepo    *repository.PracticeRepository
	settingsRepo    *repository.SettingsRepository
	tiers           memorize.TierTable
	defaultInterval int
	notifier        RankUpNotifier
	metrics         *metrics.Metrics
	log             *logger.Logger
}

// NewPracticeService creates a practice service. notifier may be nil.
func NewPracticeService(
	db *database.DB,
	verseRepo *repository.VerseRepository,
	practiceRepo *repository.PracticeRepository,
	settingsRepo *repository.SettingsRepository,
	tiers memorize.TierTable,
	defaultInterval int,
	notifier RankUpNotifier,
	m *metrics.Metrics,
	log *logger.Logger,
) *PracticeService {
	return &PracticeService{
		db:              db,
		verseRepo:       verseRepo,
		practiceRepo:    practiceRepo,
		settingsRepo:    settingsRepo,
		tiers:           tiers,
		defaultInterval: defaultInterval,
		notifier:        notifier,
		metrics:         m,
		log:             log,
	}
}

func (s *PracticeService) getVerse(verseID int64) (*models.Verse, error) {
	verse, err := s.verseRepo.GetVerseByID(verseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get verse: %w", err)
	}
	if verse == nil {
		return nil, ErrVerseNotFound
	}
	return verse, nil
}

// MaskInterval returns the masking interval used when a request names none
func (s *PracticeService) MaskInterval() int {
	return s.settingsRepo.GetMaskInterval(s.defaultInterval)
}

// SetMaskInterval changes the default masking interval
func (s *PracticeService) SetMaskInterval(interval int) error {
	if err := validation.ValidateMaskInterval(interval); err != nil {
		return err
	}
	if err := s.settingsRepo.SetMaskInterval(interval); err != nil {
		return err
	}
	s.log.Info("mask interval changed", "interval", interval)
	return nil
}

// resolveInterval picks the stored interval for 0 and validates any other value.
func (s *PracticeService) resolveInterval(interval int) (int, error) {
	if interval == 0 {
		return s.MaskInterval(), nil
	}
	if err := validation.ValidateMaskInterval(interval); err != nil {
		return 0, err
	}
	return interval, nil
}

// Breakdown splits a verse into its phrases
func (s *PracticeService) Breakdown(verseID int64) (*Breakdown, error) {
	verse, err := s.getVerse(verseID)
	if err != nil {
		return nil, err
	}
	return &Breakdown{
		VerseID:   verse.ID,
		Reference: verse.Reference,
		Fragments: memorize.Fragment(verse.Text),
	}, nil
}

// FillIn builds the fill-in exercise for a verse. interval 0 means the
// configured default.
func (s *PracticeService) FillIn(verseID int64, interval int) (*FillInExercise, error) {
	interval, err := s.resolveInterval(interval)
	if err != nil {
		return nil, err
	}
	verse, err := s.getVerse(verseID)
	if err != nil {
		return nil, err
	}

	masked := memorize.MaskWords(verse.Text, interval)
	return &FillInExercise{
		VerseID:   verse.ID,
		Reference: verse.Reference,
		Tokens:    masked.Tokens,
		Blanks:    masked.Blanks(),
		Interval:  masked.Interval,
	}, nil
}

// CheckBlanks scores answers against the blanks of the same exercise that
// FillIn produced for interval, and records the attempt.
func (s *PracticeService) CheckBlanks(userID, verseID int64, interval int, answers []string) (*BlankCheck, error) {
	interval, err := s.resolveInterval(interval)
	if err != nil {
		return nil, err
	}
	verse, err := s.getVerse(verseID)
	if err != nil {
		return nil, err
	}

	masked := memorize.MaskWords(verse.Text, interval)
	result := memorize.ScoreBlanks(masked.Answers, answers)

	if err := s.recordAttempt(models.PracticeAttempt{
		UserID:       userID,
		VerseID:      verse.ID,
		Step:         models.StepFillIn,
		AttemptText:  strings.Join(answers, " | "),
		IsCorrect:    result.AllCorrect,
		CorrectCount: result.CorrectCount,
		TotalCount:   len(masked.Answers),
	}); err != nil {
		return nil, err
	}

	return &BlankCheck{
		BlankResult: result,
		Expected:    masked.Answers,
		Interval:    masked.Interval,
	}, nil
}

// CheckRecall scores a whole-verse recall. A word-perfect recall marks the
// verse mastered; if that moves the user into a new tier the rank-up is
// logged and the user is emailed.
func (s *PracticeService) CheckRecall(ctx context.Context, user *models.User, verseID int64, text string) (*RecallOutcome, error) {
	verse, err := s.getVerse(verseID)
	if err != nil {
		return nil, err
	}

	result := memorize.ScoreRecall(verse.Text, text)
	outcome := &RecallOutcome{Result: result, Accuracy: result.Accuracy()}

	attempt := models.PracticeAttempt{
		UserID:       user.ID,
		VerseID:      verse.ID,
		Step:         models.StepRecall,
		AttemptText:  text,
		IsCorrect:    result.AllCorrect,
		CorrectCount: result.CorrectCount,
		TotalCount:   len(result.ExpectedWords),
	}

	var mastered int
	err = s.db.WithTx(func(tx *database.Tx) error {
		progress := repository.NewProgressRepository(tx)
		// Mastery counts for one user are taken one transaction at a time.
		if result.AllCorrect {
			if err := progress.LockUser(user.ID); err != nil {
				return err
			}
		}

		if _, err := repository.NewPracticeRepository(tx).RecordAttempt(attempt); err != nil {
			return err
		}

		if result.AllCorrect {
			added, err := progress.MarkMastered(user.ID, verse.ID)
			if err != nil {
				return err
			}
			outcome.NewlyMastered = added
		}

		mastered, err = progress.CountMastered(user.ID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save recall: %w", err)
	}
	s.metrics.ObserveAttempt(string(models.StepRecall), result.AllCorrect)

	outcome.Progression = memorize.CalculateRank(s.tiers, mastered)
	if !outcome.NewlyMastered {
		return outcome, nil
	}

	s.metrics.VersesMastered.Inc()
	s.log.Info("verse mastered", "user_id", user.ID, "verse_id", verse.ID, "verses_mastered", mastered)

	previous := memorize.CalculateRank(s.tiers, mastered-1).Tier
	if previous.Name != outcome.Progression.Tier.Name {
		outcome.RankedUp = true
		outcome.PreviousTier = previous.Name
		s.rankUp(ctx, user, previous.Name, outcome.Progression)
	}

	return outcome, nil
}

func (s *PracticeService) rankUp(ctx context.Context, user *models.User, previous string, p memorize.Progression) {
	s.metrics.RankUps.WithLabelValues(p.Tier.Name).Inc()
	s.log.Info("rank up", "user_id", user.ID, "from", previous, "to", p.Tier.Name, "verses_mastered", p.VersesMastered)

	if s.notifier == nil {
		return
	}
	if err := s.notifier.SendRankUpEmail(ctx, user.Email, user.Name, p.Tier.Name, p.VersesMastered); err != nil {
		s.log.Warn("failed to send rank-up email", "user_id", user.ID, "error", err)
	}
}

func (s *PracticeService) recordAttempt(attempt models.PracticeAttempt) error {
	if _, err := s.practiceRepo.RecordAttempt(attempt); err != nil {
		return err
	}
	s.metrics.ObserveAttempt(string(attempt.Step), attempt.IsCorrect)
	return nil
}

// RecordRead notes that the user read a verse through
func (s *PracticeService) RecordRead(userID, verseID int64) error {
	verse, err := s.getVerse(verseID)
	if err != nil {
		return err
	}
	return s.recordAttempt(models.PracticeAttempt{
		UserID:       userID,
		VerseID:      verse.ID,
		Step:         models.StepRead,
		IsCorrect:    true,
		CorrectCount: 1,
		TotalCount:   1,
	})
}
