package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"versequest/internal/validation"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	auth := NewAuthService(env.users, time.Hour, env.log)

	user, err := auth.Register(" Ruth@Example.com ", "gleaning-barley", "Ruth")
	require.NoError(t, err)
	assert.Equal(t, "ruth@example.com", user.Email)
	assert.True(t, user.IsAdmin)

	_, err = auth.Register("ruth@example.com", "another-pass", "Ruth Again")
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, _, err = auth.Login("ruth@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = auth.Login("naomi@example.com", "gleaning-barley")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	session, loggedIn, err := auth.Login("RUTH@example.com", "gleaning-barley")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	validated, err := auth.ValidateSession(session.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, validated.ID)

	require.NoError(t, auth.Logout(session.ID))
	_, err = auth.ValidateSession(session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	auth := NewAuthService(env.users, time.Hour, env.log)

	_, err := auth.Register("not-an-email", "long-enough", "Name")
	var ve validation.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "email", ve.Field)

	_, err = auth.Register("a@example.com", "short", "Name")
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "password", ve.Field)
}

func TestAuthService_ExpiredSession(t *testing.T) {
	env := newTestEnv(t)
	auth := NewAuthService(env.users, time.Hour, env.log)

	user, err := auth.Register("eli@example.com", "samuel-listens", "Eli")
	require.NoError(t, err)

	_, err = env.users.CreateSession("old", user.ID, time.Now().Add(-time.Minute))
	require.NoError(t, err)

	_, err = auth.ValidateSession("old")
	assert.ErrorIs(t, err, ErrSessionExpired)

	// Validation removed it already.
	removed, err := auth.CleanupExpiredSessions()
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestAuthService_OAuthLogin(t *testing.T) {
	env := newTestEnv(t)
	auth := NewAuthService(env.users, time.Hour, env.log)

	existing, err := auth.Register("anna@example.com", "prophetess", "Anna")
	require.NoError(t, err)

	// Same email links to the password account.
	_, linked, err := auth.OAuthLogin("google", "g-1", "anna@example.com", "Anna G")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, linked.ID)

	// A second provider for the same email is refused.
	_, _, err = auth.OAuthLogin("facebook", "f-1", "anna@example.com", "")
	assert.ErrorIs(t, err, ErrEmailTaken)

	// New identity creates an account named after the mailbox.
	_, created, err := auth.OAuthLogin("apple", "a-1", "simeon@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, "simeon", created.Name)
	assert.Equal(t, "apple", created.OAuthProvider)
	assert.Empty(t, created.PasswordHash)

	_, again, err := auth.OAuthLogin("apple", "a-1", "simeon@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)

	_, _, err = auth.OAuthLogin("", "a-1", "simeon@example.com", "")
	assert.ErrorIs(t, err, ErrOAuthIdentity)
}
