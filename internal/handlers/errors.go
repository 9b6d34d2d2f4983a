package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"versequest/internal/logger"
	"versequest/internal/service"
	"versequest/internal/validation"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondWithError(log *logger.Logger, w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.Error(logMsg, "status", status, "error", err)
	}

	writeJSON(w, status, errorResponse{Error: userMsg})
}

// respondWithServiceError maps service sentinels onto HTTP statuses. Anything
// unrecognized is logged and reported as a 500.
func respondWithServiceError(log *logger.Logger, w http.ResponseWriter, logMsg string, err error) {
	var verr validation.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Message, Field: verr.Field})
	case errors.Is(err, service.ErrOAuthIdentity):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: service.ErrOAuthIdentity.Error()})
	case errors.Is(err, service.ErrInvalidReference):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: service.ErrInvalidReference.Error(), Field: "reference"})
	case errors.Is(err, service.ErrVerseNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: service.ErrVerseNotFound.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: service.ErrInvalidCredentials.Error()})
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrSessionExpired):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: ErrUnauthorized})
	case errors.Is(err, service.ErrEmailTaken):
		writeJSON(w, http.StatusConflict, errorResponse{Error: service.ErrEmailTaken.Error(), Field: "email"})
	default:
		respondWithError(log, w, http.StatusInternalServerError, ErrInternalServerError, logMsg, err)
	}
}

// decodeJSON reads a size-limited JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
