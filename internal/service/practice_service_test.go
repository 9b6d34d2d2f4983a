package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"versequest/internal/memorize"
	"versequest/internal/models"
	"versequest/internal/validation"
)

const john316 = "For God so loved the world, that he gave his only begotten Son, that whosoever believeth in him should not perish, but have everlasting life."

type rankUpCall struct {
	email string
	tier  string
	count int
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []rankUpCall
	err   error
}

func (f *fakeNotifier) SendRankUpEmail(ctx context.Context, toEmail, toName, tierName string, versesMastered int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, rankUpCall{toEmail, tierName, versesMastered})
	return f.err
}

func seedUserAndVerse(t *testing.T, env *testEnv) (*models.User, *models.Verse) {
	t.Helper()
	user, err := env.users.CreateUser("nicodemus@example.com", "hash", "Nicodemus")
	require.NoError(t, err)
	verse, err := env.verses.CreateVerse("John 3:16", john316, "", "kjv")
	require.NoError(t, err)
	return user, verse
}

func TestPracticeService_Breakdown(t *testing.T) {
	env := newTestEnv(t)
	_, verse := seedUserAndVerse(t, env)
	svc := env.practiceService(memorize.DefaultTiers(), nil)

	b, err := svc.Breakdown(verse.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"For God so loved the world",
		"that he gave his only begotten Son",
		"that whosoever believeth in him should not perish",
		"but have everlasting life",
	}, b.Fragments)

	_, err = svc.Breakdown(404)
	assert.ErrorIs(t, err, ErrVerseNotFound)
}

func TestPracticeService_FillInAndCheckBlanks(t *testing.T) {
	env := newTestEnv(t)
	user, verse := seedUserAndVerse(t, env)
	svc := env.practiceService(memorize.DefaultTiers(), nil)

	exercise, err := svc.FillIn(verse.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, memorize.DefaultInterval, exercise.Interval)
	assert.Equal(t, 7, exercise.Blanks)
	assert.Equal(t, memorize.BlankMarker, exercise.Tokens[0])

	answers := []string{"for", "the", "gave", "son", "in", "perish", "life"}
	check, err := svc.CheckBlanks(user.ID, verse.ID, 0, answers)
	require.NoError(t, err)
	assert.True(t, check.AllCorrect)
	assert.Equal(t, 7, check.CorrectCount)

	check, err = svc.CheckBlanks(user.ID, verse.ID, 0, answers[:3])
	require.NoError(t, err)
	assert.False(t, check.AllCorrect)
	assert.Equal(t, 3, check.CorrectCount)

	stats, err := env.practice.GetUserStats(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalAttempts)
	assert.Equal(t, 1, stats.CorrectAttempts)

	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.PracticeAttempts.WithLabelValues("fill_in", "correct")))
}

func TestPracticeService_MaskIntervalSetting(t *testing.T) {
	env := newTestEnv(t)
	_, verse := seedUserAndVerse(t, env)
	svc := env.practiceService(memorize.DefaultTiers(), nil)

	var ve validation.ValidationError
	require.ErrorAs(t, svc.SetMaskInterval(1), &ve)
	require.ErrorAs(t, svc.SetMaskInterval(11), &ve)

	require.NoError(t, svc.SetMaskInterval(6))
	assert.Equal(t, 6, svc.MaskInterval())

	exercise, err := svc.FillIn(verse.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 6, exercise.Interval)

	exercise, err = svc.FillIn(verse.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, exercise.Interval)

	_, err = svc.FillIn(verse.ID, 50)
	require.ErrorAs(t, err, &ve)
}

func TestPracticeService_CheckRecallMastersOnce(t *testing.T) {
	env := newTestEnv(t)
	user, verse := seedUserAndVerse(t, env)
	svc := env.practiceService(memorize.DefaultTiers(), nil)

	miss, err := svc.CheckRecall(context.Background(), user, verse.ID, "For God so loved the world")
	require.NoError(t, err)
	assert.False(t, miss.Result.AllCorrect)
	assert.False(t, miss.NewlyMastered)
	assert.Equal(t, 0, miss.Progression.VersesMastered)

	hit, err := svc.CheckRecall(context.Background(), user, verse.ID, john316)
	require.NoError(t, err)
	assert.True(t, hit.Result.AllCorrect)
	assert.True(t, hit.NewlyMastered)
	assert.False(t, hit.RankedUp)
	assert.Equal(t, "Saul", hit.Progression.Tier.Name)
	assert.Equal(t, 1, hit.Progression.VersesMastered)
	assert.Equal(t, 100.0, hit.Accuracy)

	again, err := svc.CheckRecall(context.Background(), user, verse.ID, john316)
	require.NoError(t, err)
	assert.False(t, again.NewlyMastered)
	assert.Equal(t, 1, again.Progression.VersesMastered)

	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.VersesMastered))
}

func TestPracticeService_RankUpNotifies(t *testing.T) {
	env := newTestEnv(t)
	user, err := env.users.CreateUser("timothy@example.com", "hash", "Timothy")
	require.NoError(t, err)

	tiers := memorize.TierTable{
		{Name: "Seeker", MinCount: 1, MaxCount: 1, Next: "Disciple"},
		{Name: "Disciple", MinCount: 2, MaxCount: memorize.Unbounded},
	}
	notifier := &fakeNotifier{err: errors.New("ses throttled")}
	svc := env.practiceService(tiers, notifier)

	texts := []string{"Jesus wept.", "Rejoice evermore."}
	var last *RecallOutcome
	for i, text := range texts {
		verse, err := env.verses.CreateVerse([]string{"John 11:35", "1 Thessalonians 5:16"}[i], text, "", "kjv")
		require.NoError(t, err)
		last, err = svc.CheckRecall(context.Background(), user, verse.ID, text)
		require.NoError(t, err, "a failed email does not fail the recall")
	}

	assert.True(t, last.RankedUp)
	assert.Equal(t, "Seeker", last.PreviousTier)
	assert.Equal(t, "Disciple", last.Progression.Tier.Name)
	assert.Equal(t, []rankUpCall{{"timothy@example.com", "Disciple", 2}}, notifier.calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.RankUps.WithLabelValues("Disciple")))
}

func TestPracticeService_ConcurrentRecallsReportOneRankUp(t *testing.T) {
	env := newTestEnv(t)
	user, err := env.users.CreateUser("silas@example.com", "hash", "Silas")
	require.NoError(t, err)

	tiers := memorize.TierTable{
		{Name: "Seeker", MinCount: 1, MaxCount: 1, Next: "Disciple"},
		{Name: "Disciple", MinCount: 2, MaxCount: memorize.Unbounded},
	}
	notifier := &fakeNotifier{}
	svc := env.practiceService(tiers, notifier)

	refs := []string{"John 11:35", "1 Thessalonians 5:16"}
	texts := []string{"Jesus wept.", "Rejoice evermore."}
	outcomes := make([]*RecallOutcome, len(texts))
	errs := make([]error, len(texts))

	var wg sync.WaitGroup
	for i := range texts {
		verse, err := env.verses.CreateVerse(refs[i], texts[i], "", "kjv")
		require.NoError(t, err)
		wg.Add(1)
		go func(i int, verseID int64) {
			defer wg.Done()
			outcomes[i], errs[i] = svc.CheckRecall(context.Background(), user, verseID, texts[i])
		}(i, verse.ID)
	}
	wg.Wait()

	rankUps := 0
	counts := map[int]bool{}
	for i := range texts {
		require.NoError(t, errs[i])
		counts[outcomes[i].Progression.VersesMastered] = true
		if outcomes[i].RankedUp {
			rankUps++
		}
	}
	assert.Equal(t, map[int]bool{1: true, 2: true}, counts)
	assert.Equal(t, 1, rankUps)
	assert.Equal(t, []rankUpCall{{"silas@example.com", "Disciple", 2}}, notifier.calls)
}

func TestPracticeService_RecordRead(t *testing.T) {
	env := newTestEnv(t)
	user, verse := seedUserAndVerse(t, env)
	svc := env.practiceService(memorize.DefaultTiers(), nil)

	require.NoError(t, svc.RecordRead(user.ID, verse.ID))
	assert.ErrorIs(t, svc.RecordRead(user.ID, 404), ErrVerseNotFound)

	recent, err := env.practice.GetRecentAttempts(user.ID, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, models.StepRead, recent[0].Step)
}
