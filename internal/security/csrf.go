package security

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// CSRFHeader is the request header carrying the CSRF token on writes.
const CSRFHeader = "X-CSRF-Token"

var (
	ErrEmptySession = errors.New("session ID is required")
	ErrInvalidState = errors.New("invalid oauth state")
)

// Signer derives CSRF tokens and OAuth state values with HMAC-SHA256 so
// replicas sharing the secret agree without shared storage.
type Signer struct {
	secret []byte
}

// NewSigner creates a signer keyed by secret.
func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

func (s *Signer) mac(parts ...string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(mac.Sum(nil))
}

// CSRFToken returns the CSRF token bound to sessionID.
func (s *Signer) CSRFToken(sessionID string) (string, error) {
	if sessionID == "" {
		return "", ErrEmptySession
	}
	return s.mac("csrf", sessionID), nil
}

// ValidCSRFToken reports whether token matches sessionID.
func (s *Signer) ValidCSRFToken(sessionID, token string) bool {
	if sessionID == "" || token == "" {
		return false
	}
	expected := s.mac("csrf", sessionID)
	return hmac.Equal([]byte(expected), []byte(token))
}

// NewOAuthState returns a random nonce signed for provider, in the form
// "nonce.signature".
func (s *Signer) NewOAuthState(provider string) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	nonce := hex.EncodeToString(buf)
	return nonce + "." + s.mac("oauth", provider, nonce), nil
}

// VerifyOAuthState checks a state value produced by NewOAuthState.
func (s *Signer) VerifyOAuthState(provider, state string) error {
	nonce, sig, ok := strings.Cut(state, ".")
	if !ok || nonce == "" || sig == "" {
		return ErrInvalidState
	}
	if !hmac.Equal([]byte(s.mac("oauth", provider, nonce)), []byte(sig)) {
		return ErrInvalidState
	}
	return nil
}
