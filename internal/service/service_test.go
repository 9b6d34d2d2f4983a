package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"versequest/internal/database"
	"versequest/internal/logger"
	"versequest/internal/memorize"
	"versequest/internal/metrics"
	"versequest/internal/repository"
	"versequest/migrations"
)

type testEnv struct {
	db       *database.DB
	log      *logger.Logger
	metrics  *metrics.Metrics
	users    *repository.UserRepository
	verses   *repository.VerseRepository
	practice *repository.PracticeRepository
	progress *repository.ProgressRepository
	settings *repository.SettingsRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Initialize(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.RunMigrations(migrations.FS)
	require.NoError(t, err)

	return &testEnv{
		db:       db,
		log:      logger.NewNop(),
		metrics:  metrics.New(),
		users:    repository.NewUserRepository(db),
		verses:   repository.NewVerseRepository(db),
		practice: repository.NewPracticeRepository(db),
		progress: repository.NewProgressRepository(db),
		settings: repository.NewSettingsRepository(db),
	}
}

func (e *testEnv) practiceService(tiers memorize.TierTable, notifier RankUpNotifier) *PracticeService {
	return NewPracticeService(e.db, e.verses, e.practice, e.settings, tiers, memorize.DefaultInterval, notifier, e.metrics, e.log)
}
