package handlers

import (
	"fmt"
	"net/http"
	"time"

	"versequest/internal/logger"
	"versequest/internal/repository"
	"versequest/internal/service"
)

// AdminHandler handles admin-specific routes
type AdminHandler struct {
	practiceService *service.PracticeService
	verseService    *service.VerseService
	backupService   *service.BackupService
	userRepo        *repository.UserRepository
	log             *logger.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(practiceService *service.PracticeService, verseService *service.VerseService, backupService *service.BackupService, userRepo *repository.UserRepository, log *logger.Logger) *AdminHandler {
	return &AdminHandler{
		practiceService: practiceService,
		verseService:    verseService,
		backupService:   backupService,
		userRepo:        userRepo,
		log:             log,
	}
}

type settingsPayload struct {
	MaskInterval int `json:"mask_interval"`
}

// GetSettings returns the admin-tunable settings
func (h *AdminHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, settingsPayload{MaskInterval: h.practiceService.MaskInterval()})
}

// UpdateSettings changes the default masking interval
func (h *AdminHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsPayload
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(h.log, w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	if err := h.practiceService.SetMaskInterval(req.MaskInterval); err != nil {
		respondWithServiceError(h.log, w, "failed to update settings", err)
		return
	}

	user := GetUserFromContext(r.Context())
	h.log.Info("settings updated by admin", "admin_id", user.ID, "mask_interval", req.MaskInterval)
	writeJSON(w, http.StatusOK, settingsPayload{MaskInterval: h.practiceService.MaskInterval()})
}

// SeedVerses adds any missing built-in verses
func (h *AdminHandler) SeedVerses(w http.ResponseWriter, r *http.Request) {
	added, err := h.verseService.SeedDefaultVerses()
	if err != nil {
		respondWithServiceError(h.log, w, "failed to seed verses", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"added": added})
}

// GenerateAudio records audio for verses that have none
func (h *AdminHandler) GenerateAudio(w http.ResponseWriter, r *http.Request) {
	generated, err := h.verseService.GenerateMissingAudio(r.Context())
	if err != nil {
		respondWithServiceError(h.log, w, "failed to generate audio", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"generated": generated})
}

// ListUsers returns every account
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userRepo.GetAllUsers()
	if err != nil {
		respondWithServiceError(h.log, w, "failed to list users", err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// ExportBackup streams a JSON backup as a download
func (h *AdminHandler) ExportBackup(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	timestamp := time.Now().Format("20060102_150405")
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=versequest_backup_%s.json", timestamp))

	if err := h.backupService.ExportToWriter(w); err != nil {
		respondWithError(h.log, w, http.StatusInternalServerError, "Failed to export database", "error exporting database", err)
		return
	}

	h.log.Info("database exported by admin", "admin_id", user.ID)
}

// ImportBackup restores a JSON backup sent as the request body
func (h *AdminHandler) ImportBackup(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 50<<20)
	if err := h.backupService.ImportFromReader(r.Body); err != nil {
		respondWithError(h.log, w, http.StatusBadRequest, "Failed to import database", "error importing database", err)
		return
	}

	h.log.Info("database imported by admin", "admin_id", user.ID)
	w.WriteHeader(http.StatusNoContent)
}
