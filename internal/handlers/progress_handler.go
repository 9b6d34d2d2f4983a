package handlers

import (
	"net/http"

	"versequest/internal/logger"
	"versequest/internal/service"
)

// ProgressHandler reports rank and mastery
type ProgressHandler struct {
	progressService *service.ProgressService
	log             *logger.Logger
}

func NewProgressHandler(progressService *service.ProgressService, log *logger.Logger) *ProgressHandler {
	return &ProgressHandler{progressService: progressService, log: log}
}

// Progress returns the signed-in user's progress report
func (h *ProgressHandler) Progress(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	report, err := h.progressService.GetProgress(user.ID)
	if err != nil {
		respondWithServiceError(h.log, w, "failed to get progress", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Tiers returns the tier table
func (h *ProgressHandler) Tiers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.progressService.Tiers())
}
