package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"versequest/internal/logger"
	"versequest/internal/metrics"
	"versequest/internal/models"
	"versequest/internal/repository"
	"versequest/internal/validation"
	"versequest/internal/verseapi"
)

var (
	ErrVerseNotFound    = errors.New("verse not found")
	ErrInvalidReference = errors.New("invalid verse reference")
)

// VerseLookup fetches verse text that is not yet in the catalog.
type VerseLookup interface {
	Lookup(ctx context.Context, reference string) (*verseapi.Result, error)
}

// AudioGenerator produces a spoken recording of a verse.
type AudioGenerator interface {
	GenerateVerseAudio(ctx context.Context, verseID int64, text string) (string, error)
}

// VerseService manages the verse catalog
type VerseService struct {
	verseRepo   *repository.VerseRepository
	lookup      VerseLookup
	audio       AudioGenerator
	translation string
	metrics     *metrics.Metrics
	log         *logger.Logger
}

// NewVerseService creates a verse service. lookup may be nil, in which case
// only verses already in the catalog can be found.
func NewVerseService(verseRepo *repository.VerseRepository, lookup VerseLookup, translation string, m *metrics.Metrics, log *logger.Logger) *VerseService {
	return &VerseService{
		verseRepo:   verseRepo,
		lookup:      lookup,
		translation: translation,
		metrics:     m,
		log:         log,
	}
}

// SetAudioGenerator enables verse audio generation
func (s *VerseService) SetAudioGenerator(audio AudioGenerator) {
	s.audio = audio
}

// GetVerse returns a catalog verse by ID
func (s *VerseService) GetVerse(id int64) (*models.Verse, error) {
	verse, err := s.verseRepo.GetVerseByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get verse: %w", err)
	}
	if verse == nil {
		return nil, ErrVerseNotFound
	}
	return verse, nil
}

// ListVerses returns the whole catalog
func (s *VerseService) ListVerses() ([]models.Verse, error) {
	verses, err := s.verseRepo.ListVerses()
	if err != nil {
		return nil, fmt.Errorf("failed to list verses: %w", err)
	}
	return verses, nil
}

// canonicalReference normalizes spacing and capitalizes each word, so
// "john  3:16" and "John 3:16" share a catalog entry.
func canonicalReference(reference string) string {
	return cases.Title(language.English).String(validation.NormalizeReference(reference))
}

// Lookup returns the verse for reference from the catalog, fetching and
// caching it from the verse service on a miss.
func (s *VerseService) Lookup(ctx context.Context, reference string) (*models.Verse, error) {
	if err := validation.ValidateReference(reference); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidReference, err)
	}
	ref := canonicalReference(reference)

	cached, err := s.verseRepo.GetVerseByReference(ref, s.translation)
	if err != nil {
		return nil, fmt.Errorf("failed to check verse cache: %w", err)
	}
	if cached != nil {
		s.metrics.VerseLookups.WithLabelValues("cache").Inc()
		return cached, nil
	}

	if s.lookup == nil {
		return nil, ErrVerseNotFound
	}

	result, err := s.lookup.Lookup(ctx, ref)
	if errors.Is(err, verseapi.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrVerseNotFound, ref)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up %s: %w", ref, err)
	}
	s.metrics.VerseLookups.WithLabelValues("remote").Inc()

	// The service may spell the reference differently, e.g. "Song of Solomon".
	if result.Reference != "" && result.Reference != ref {
		ref = result.Reference
		existing, err := s.verseRepo.GetVerseByReference(ref, s.translation)
		if err != nil {
			return nil, fmt.Errorf("failed to check verse cache: %w", err)
		}
		if existing != nil {
			return existing, nil
		}
	}

	verse, err := s.verseRepo.CreateVerse(ref, result.Text, "", s.translation)
	if err != nil {
		return nil, fmt.Errorf("failed to cache verse: %w", err)
	}
	s.log.Info("verse cached", "reference", ref, "verse_id", verse.ID)
	return verse, nil
}

// SeedDefaultVerses adds the built-in verses missing from the catalog and
// returns how many were added.
func (s *VerseService) SeedDefaultVerses() (int, error) {
	added := 0
	for _, seed := range defaultVerses {
		existing, err := s.verseRepo.GetVerseByReference(seed.Reference, s.translation)
		if err != nil {
			return added, fmt.Errorf("failed to check verse %s: %w", seed.Reference, err)
		}
		if existing != nil {
			continue
		}
		if _, err := s.verseRepo.CreateVerse(seed.Reference, seed.Text, seed.Context, s.translation); err != nil {
			return added, fmt.Errorf("failed to seed verse %s: %w", seed.Reference, err)
		}
		added++
	}

	if added > 0 {
		s.log.Info("seeded verses", "count", added)
	}
	return added, nil
}

// GenerateMissingAudio records audio for every verse without any. Failures
// are logged and skipped; the number of files generated is returned.
func (s *VerseService) GenerateMissingAudio(ctx context.Context) (int, error) {
	if s.audio == nil {
		return 0, nil
	}

	verses, err := s.verseRepo.ListVersesWithoutAudio()
	if err != nil {
		return 0, fmt.Errorf("failed to list verses without audio: %w", err)
	}

	generated := 0
	for _, verse := range verses {
		if err := ctx.Err(); err != nil {
			return generated, err
		}

		filename, err := s.audio.GenerateVerseAudio(ctx, verse.ID, verse.Text)
		if err != nil {
			s.log.Warn("failed to generate verse audio", "verse_id", verse.ID, "error", err)
			continue
		}
		if err := s.verseRepo.UpdateAudioFilename(verse.ID, filename); err != nil {
			return generated, err
		}
		generated++
	}

	return generated, nil
}
