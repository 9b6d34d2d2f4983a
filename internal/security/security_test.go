package security

import (
	"crypto/tls"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSigner_CSRFToken(t *testing.T) {
	s := NewSigner("secret")

	token, err := s.CSRFToken("session-1")
	require.NoError(t, err)

	assert.True(t, s.ValidCSRFToken("session-1", token))
	assert.False(t, s.ValidCSRFToken("session-2", token))
	assert.False(t, s.ValidCSRFToken("session-1", ""))
	assert.False(t, NewSigner("other").ValidCSRFToken("session-1", token))

	_, err = s.CSRFToken("")
	assert.ErrorIs(t, err, ErrEmptySession)
}

func TestSigner_OAuthState(t *testing.T) {
	s := NewSigner("secret")

	state, err := s.NewOAuthState("google")
	require.NoError(t, err)

	assert.NoError(t, s.VerifyOAuthState("google", state))
	assert.ErrorIs(t, s.VerifyOAuthState("facebook", state), ErrInvalidState)
	assert.ErrorIs(t, s.VerifyOAuthState("google", "nonce-only"), ErrInvalidState)
	assert.ErrorIs(t, s.VerifyOAuthState("google", state+"x"), ErrInvalidState)

	other, err := s.NewOAuthState("google")
	require.NoError(t, err)
	assert.NotEqual(t, state, other)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "correct horse"))
	assert.False(t, CheckPassword(hash, "wrong horse"))
	assert.False(t, CheckPassword("", ""))
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(3)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("10.0.0.1"), "request %d should pass", i+1)
	}
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"), "limits are per client")

	assert.Equal(t, 0, rl.Cleanup())
	rl.idleTTL = -1
	assert.Equal(t, 2, rl.Cleanup())
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded chain", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "10.0.0.1:5000", "203.0.113.7"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.4"}, "10.0.0.1:5000", "198.51.100.4"},
		{"remote addr", nil, "192.0.2.1:443", "192.0.2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, GetClientIP(r))
		})
	}
}

func TestIsSecureRequest(t *testing.T) {
	plain := httptest.NewRequest("GET", "http://example.com/", nil)
	assert.False(t, IsSecureRequest(plain))

	proxied := httptest.NewRequest("GET", "http://example.com/", nil)
	proxied.Header.Set("X-Forwarded-Proto", "https")
	assert.True(t, IsSecureRequest(proxied))

	direct := httptest.NewRequest("GET", "https://example.com/", nil)
	direct.TLS = &tls.ConnectionState{}
	assert.True(t, IsSecureRequest(direct))

	expires := time.Now().Add(time.Hour)
	cookie := CreateSessionCookie(proxied, SessionCookieName, "abc", expires)
	assert.True(t, cookie.Secure)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "abc", cookie.Value)

	cleared := CreateDeleteCookie(plain, SessionCookieName)
	assert.False(t, cleared.Secure)
	assert.Equal(t, -1, cleared.MaxAge)
}
