package handlers

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"versequest/internal/security"
)

// fakeProvider serves a token endpoint and a user info endpoint.
func fakeProvider(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.PostForm.Get("code") != "good-code" {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("GET /userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"g-42","email":"Priscilla@Example.com","name":"Priscilla"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func withGoogle(srv *testServer, provider *httptest.Server) {
	srv.auth.oauthProviders = map[string]OAuthProvider{
		"google": {
			Name:  "google",
			Label: "Google",
			Config: &oauth2.Config{
				ClientID:     "client-id",
				ClientSecret: "client-secret",
				Endpoint: oauth2.Endpoint{
					AuthURL:   provider.URL + "/auth",
					TokenURL:  provider.URL + "/token",
					AuthStyle: oauth2.AuthStyleInParams,
				},
				Scopes: []string{"openid", "email", "profile"},
			},
			UserInfoURL: provider.URL + "/userinfo",
		},
		"facebook": {Name: "facebook", Label: "Facebook"},
	}
}

func TestStartOAuthUnconfigured(t *testing.T) {
	srv := newTestServer(t, 100)
	c := &client{t: t, srv: srv}

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodGet, "/auth/google/start", nil).Code)
}

func TestOAuthProvidersListsConfiguredOnly(t *testing.T) {
	srv := newTestServer(t, 100)
	withGoogle(srv, fakeProvider(t))
	c := &client{t: t, srv: srv}

	rec := c.do(http.MethodGet, "/api/oauth/providers", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var views []OAuthProviderView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	assert.Equal(t, []OAuthProviderView{{Name: "google", Label: "Google", URL: "/auth/google/start"}}, views)
}

func TestOAuthFlow(t *testing.T) {
	srv := newTestServer(t, 100)
	withGoogle(srv, fakeProvider(t))
	c := &client{t: t, srv: srv}

	rec := c.do(http.MethodGet, "/auth/google/start", nil)
	require.Equal(t, http.StatusFound, rec.Code)

	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	state := location.Query().Get("state")
	require.NotEmpty(t, state)
	assert.Equal(t, "http://example.com/auth/google/callback", location.Query().Get("redirect_uri"))

	var stateCookie *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == security.OAuthStateCookieName {
			stateCookie = ck
		}
	}
	require.NotNil(t, stateCookie)
	assert.Equal(t, state, stateCookie.Value)

	c.cookie = stateCookie
	rec = c.do(http.MethodGet, "/auth/google/callback?code=good-code&state="+url.QueryEscape(state), nil)
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())

	var session *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == security.SessionCookieName {
			session = ck
		}
	}
	require.NotNil(t, session)

	c.cookie = session
	rec = c.do(http.MethodGet, "/api/session", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "priscilla@example.com", resp.User.Email)
	assert.Equal(t, "google", resp.User.OAuthProvider)
}

func TestOAuthCallbackRejectsBadState(t *testing.T) {
	srv := newTestServer(t, 100)
	withGoogle(srv, fakeProvider(t))
	c := &client{t: t, srv: srv}

	// Missing cookie.
	rec := c.do(http.MethodGet, "/auth/google/callback?code=good-code&state=abc.def", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Matching cookie but a forged signature.
	c.cookie = &http.Cookie{Name: security.OAuthStateCookieName, Value: "abc.def"}
	rec = c.do(http.MethodGet, "/auth/google/callback?code=good-code&state=abc.def", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// A state signed for another provider.
	other, err := srv.auth.signer.NewOAuthState("facebook")
	require.NoError(t, err)
	c.cookie = &http.Cookie{Name: security.OAuthStateCookieName, Value: other}
	rec = c.do(http.MethodGet, "/auth/google/callback?code=good-code&state="+url.QueryEscape(other), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOAuthCallbackExchangeFailure(t *testing.T) {
	srv := newTestServer(t, 100)
	withGoogle(srv, fakeProvider(t))
	c := &client{t: t, srv: srv}

	state, err := srv.auth.signer.NewOAuthState("google")
	require.NoError(t, err)
	c.cookie = &http.Cookie{Name: security.OAuthStateCookieName, Value: state}

	rec := c.do(http.MethodGet, "/auth/google/callback?code=bad-code&state="+url.QueryEscape(state), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Failed to exchange OAuth code", decodeError(t, rec).Error)
}

func appleKeyServer(t *testing.T, key *rsa.PublicKey, kid string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(appleJWK{Keys: []appleJWKKey{{
			Kid: kid,
			Kty: "RSA",
			N:   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
			E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
		}}})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func signAppleToken(t *testing.T, key *rsa.PrivateKey, kid string, claims appleTokenClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func TestParseAppleIDToken(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	keys := appleKeyServer(t, &key.PublicKey, "k1")

	claims := func(aud, nonce string) appleTokenClaims {
		return appleTokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    appleIssuer,
				Subject:   "apple-sub",
				Audience:  jwt.ClaimStrings{aud},
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
				IssuedAt:  jwt.NewNumericDate(time.Now()),
			},
			Email: "phoebe@example.com",
			Nonce: nonce,
		}
	}
	ctx := context.Background()

	info, err := parseAppleIDToken(ctx, keys.URL, signAppleToken(t, key, "k1", claims("com.example.app", "n1")), "com.example.app", "n1")
	require.NoError(t, err)
	assert.Equal(t, oauthUserInfo{Subject: "apple-sub", Email: "phoebe@example.com"}, info)

	_, err = parseAppleIDToken(ctx, keys.URL, signAppleToken(t, key, "k1", claims("someone.else", "n1")), "com.example.app", "n1")
	assert.Error(t, err)

	_, err = parseAppleIDToken(ctx, keys.URL, signAppleToken(t, key, "k1", claims("com.example.app", "n2")), "com.example.app", "n1")
	assert.EqualError(t, err, "invalid Apple nonce")

	_, err = parseAppleIDToken(ctx, keys.URL, signAppleToken(t, key, "unknown", claims("com.example.app", "n1")), "com.example.app", "n1")
	assert.Error(t, err)

	other, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	_, err = parseAppleIDToken(ctx, keys.URL, signAppleToken(t, other, "k1", claims("com.example.app", "n1")), "com.example.app", "n1")
	assert.Error(t, err)
}
