package handlers

import (
	"context"
	"net/http"

	"versequest/internal/logger"
	"versequest/internal/models"
	"versequest/internal/security"
	"versequest/internal/service"
)

// WelcomeSender greets newly registered users
type WelcomeSender interface {
	SendWelcomeEmail(ctx context.Context, toEmail, toName string) error
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService          *service.AuthService
	signer               *security.Signer
	welcome              WelcomeSender
	oauthProviders       map[string]OAuthProvider
	oauthRedirectBaseURL string
	appleKeysURL         string
	log                  *logger.Logger
}

// NewAuthHandler creates a new auth handler. welcome may be nil.
func NewAuthHandler(
	authService *service.AuthService,
	signer *security.Signer,
	welcome WelcomeSender,
	oauthProviders map[string]OAuthProvider,
	oauthRedirectBaseURL string,
	log *logger.Logger,
) *AuthHandler {
	return &AuthHandler{
		authService:          authService,
		signer:               signer,
		welcome:              welcome,
		oauthProviders:       oauthProviders,
		oauthRedirectBaseURL: oauthRedirectBaseURL,
		appleKeysURL:         defaultAppleKeysURL,
		log:                  log,
	}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	User      *models.User `json:"user"`
	CSRFToken string       `json:"csrf_token"`
}

// Register creates a password account
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(h.log, w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	user, err := h.authService.Register(req.Email, req.Password, req.Name)
	if err != nil {
		respondWithServiceError(h.log, w, "failed to register user", err)
		return
	}

	if h.welcome != nil {
		if err := h.welcome.SendWelcomeEmail(r.Context(), user.Email, user.Name); err != nil {
			h.log.Warn("failed to send welcome email", "user_id", user.ID, "error", err)
		}
	}

	writeJSON(w, http.StatusCreated, user)
}

// Login starts a session and returns the CSRF token bound to it
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(h.log, w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	session, user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		respondWithServiceError(h.log, w, "failed to log in", err)
		return
	}

	h.startSession(w, r, session, user)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, session *models.Session, user *models.User) {
	token, err := h.signer.CSRFToken(session.ID)
	if err != nil {
		respondWithError(h.log, w, http.StatusInternalServerError, ErrInternalServerError, "failed to derive csrf token", err)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, security.SessionCookieName, session.ID, session.ExpiresAt))
	writeJSON(w, http.StatusOK, sessionResponse{User: user, CSRFToken: token})
}

// Logout ends the current session, if any
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(security.SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.authService.Logout(cookie.Value); err != nil {
			h.log.Warn("failed to delete session", "error", err)
		}
	}

	http.SetCookie(w, security.CreateDeleteCookie(r, security.SessionCookieName))
	w.WriteHeader(http.StatusNoContent)
}

// Session returns the signed-in user with a fresh copy of the CSRF token
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	token, err := h.signer.CSRFToken(GetSessionFromContext(r.Context()))
	if err != nil {
		respondWithError(h.log, w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{User: user, CSRFToken: token})
}

// Providers lists the configured OAuth providers
func (h *AuthHandler) Providers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.oauthProviderViews())
}
