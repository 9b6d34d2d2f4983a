package service

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"versequest/internal/memorize"
)

func TestBackupService_RoundTrip(t *testing.T) {
	src := newTestEnv(t)
	auth := NewAuthService(src.users, time.Hour, src.log)
	user, err := auth.Register("priscilla@example.com", "tentmakers", "Priscilla")
	require.NoError(t, err)

	verses := NewVerseService(src.verses, nil, "kjv", src.metrics, src.log)
	_, err = verses.SeedDefaultVerses()
	require.NoError(t, err)
	wept, err := verses.Lookup(context.Background(), "John 11:35")
	require.NoError(t, err)

	practice := src.practiceService(memorize.DefaultTiers(), nil)
	_, err = practice.CheckRecall(context.Background(), user, wept.ID, "Jesus wept.")
	require.NoError(t, err)
	require.NoError(t, practice.SetMaskInterval(5))

	var buf bytes.Buffer
	require.NoError(t, NewBackupService(src.db, src.log).ExportToWriter(&buf))

	var snapshot BackupData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &snapshot))
	require.Len(t, snapshot.Users, 1)
	assert.NotEmpty(t, snapshot.Users[0].PasswordHash, "credentials survive the snapshot")

	dst := newTestEnv(t)
	require.NoError(t, NewBackupService(dst.db, dst.log).ImportFromReader(&buf))

	restored, _, err := NewAuthService(dst.users, time.Hour, dst.log).Login("priscilla@example.com", "tentmakers")
	require.NoError(t, err)
	assert.Equal(t, user.ID, restored.UserID)

	count, err := dst.progress.CountMastered(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	all, err := dst.verses.ListVerses()
	require.NoError(t, err)
	assert.Len(t, all, len(defaultVerses))

	assert.Equal(t, 5, dst.settings.GetMaskInterval(4))
}

func TestBackupService_FileExportAndIdempotentImport(t *testing.T) {
	env := newTestEnv(t)
	_, err := NewVerseService(env.verses, nil, "kjv", env.metrics, env.log).SeedDefaultVerses()
	require.NoError(t, err)

	backup := NewBackupService(env.db, env.log)
	path := filepath.Join(t.TempDir(), "backup.json")
	require.NoError(t, backup.Export(path))

	// Importing onto the same data keeps existing rows.
	require.NoError(t, backup.Import(path))
	all, err := env.verses.ListVerses()
	require.NoError(t, err)
	assert.Len(t, all, len(defaultVerses))
}

func TestBackupService_RejectsUnknownVersion(t *testing.T) {
	env := newTestEnv(t)
	err := NewBackupService(env.db, env.log).ImportFromReader(strings.NewReader(`{"version":"99"}`))
	assert.ErrorContains(t, err, "unsupported backup version")
}

func TestBackupService_ClearThenRestore(t *testing.T) {
	env := newTestEnv(t)
	_, err := NewAuthService(env.users, time.Hour, env.log).Register("aquila@example.com", "tentmakers", "Aquila")
	require.NoError(t, err)
	_, err = NewVerseService(env.verses, nil, "kjv", env.metrics, env.log).SeedDefaultVerses()
	require.NoError(t, err)

	backup := NewBackupService(env.db, env.log)
	var buf bytes.Buffer
	require.NoError(t, backup.ExportToWriter(&buf))

	require.NoError(t, backup.Clear())
	users, err := env.users.GetAllUsers()
	require.NoError(t, err)
	assert.Empty(t, users)
	verses, err := env.verses.ListVerses()
	require.NoError(t, err)
	assert.Empty(t, verses)

	require.NoError(t, backup.ImportFromReader(&buf))
	users, err = env.users.GetAllUsers()
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
