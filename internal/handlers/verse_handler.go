package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"versequest/internal/logger"
	"versequest/internal/service"
)

// VerseHandler serves the verse catalog and the four practice steps
type VerseHandler struct {
	verseService    *service.VerseService
	practiceService *service.PracticeService
	log             *logger.Logger
}

// NewVerseHandler creates a new verse handler
func NewVerseHandler(verseService *service.VerseService, practiceService *service.PracticeService, log *logger.Logger) *VerseHandler {
	return &VerseHandler{
		verseService:    verseService,
		practiceService: practiceService,
		log:             log,
	}
}

type blanksRequest struct {
	Answers  []string `json:"answers"`
	Interval int      `json:"interval"`
}

type recallRequest struct {
	Text string `json:"text"`
}

// verseID parses the {id} path value. It writes the 400 itself on failure.
func (h *VerseHandler) verseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		respondWithError(h.log, w, http.StatusBadRequest, ErrInvalidVerseID, "", nil)
		return 0, false
	}
	return id, true
}

// ListVerses returns the verse catalog
func (h *VerseHandler) ListVerses(w http.ResponseWriter, r *http.Request) {
	verses, err := h.verseService.ListVerses()
	if err != nil {
		respondWithServiceError(h.log, w, "failed to list verses", err)
		return
	}
	writeJSON(w, http.StatusOK, verses)
}

// LookupVerse finds a verse by reference, fetching it on a catalog miss
func (h *VerseHandler) LookupVerse(w http.ResponseWriter, r *http.Request) {
	ref := strings.TrimSpace(r.URL.Query().Get("ref"))
	if ref == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "reference is required", Field: "ref"})
		return
	}

	verse, err := h.verseService.Lookup(r.Context(), ref)
	if err != nil {
		respondWithServiceError(h.log, w, "failed to look up verse", err)
		return
	}
	writeJSON(w, http.StatusOK, verse)
}

// GetVerse returns one verse for the read step
func (h *VerseHandler) GetVerse(w http.ResponseWriter, r *http.Request) {
	id, ok := h.verseID(w, r)
	if !ok {
		return
	}

	verse, err := h.verseService.GetVerse(id)
	if err != nil {
		respondWithServiceError(h.log, w, "failed to get verse", err)
		return
	}
	writeJSON(w, http.StatusOK, verse)
}

// MarkRead records that the user finished reading a verse
func (h *VerseHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, ok := h.verseID(w, r)
	if !ok {
		return
	}

	user := GetUserFromContext(r.Context())
	if err := h.practiceService.RecordRead(user.ID, id); err != nil {
		respondWithServiceError(h.log, w, "failed to record read", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Fragments returns the phrase breakdown of a verse
func (h *VerseHandler) Fragments(w http.ResponseWriter, r *http.Request) {
	id, ok := h.verseID(w, r)
	if !ok {
		return
	}

	breakdown, err := h.practiceService.Breakdown(id)
	if err != nil {
		respondWithServiceError(h.log, w, "failed to break down verse", err)
		return
	}
	writeJSON(w, http.StatusOK, breakdown)
}

// Blanks returns the fill-in exercise. The answers are never sent.
func (h *VerseHandler) Blanks(w http.ResponseWriter, r *http.Request) {
	id, ok := h.verseID(w, r)
	if !ok {
		return
	}

	interval := 0
	if raw := r.URL.Query().Get("interval"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "interval must be a number", Field: "interval"})
			return
		}
		interval = n
	}

	exercise, err := h.practiceService.FillIn(id, interval)
	if err != nil {
		respondWithServiceError(h.log, w, "failed to build fill-in exercise", err)
		return
	}
	writeJSON(w, http.StatusOK, exercise)
}

// CheckBlanks scores a fill-in attempt
func (h *VerseHandler) CheckBlanks(w http.ResponseWriter, r *http.Request) {
	id, ok := h.verseID(w, r)
	if !ok {
		return
	}

	var req blanksRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(h.log, w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	user := GetUserFromContext(r.Context())
	result, err := h.practiceService.CheckBlanks(user.ID, id, req.Interval, req.Answers)
	if err != nil {
		respondWithServiceError(h.log, w, "failed to check blanks", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Recall scores a whole-verse recall
func (h *VerseHandler) Recall(w http.ResponseWriter, r *http.Request) {
	id, ok := h.verseID(w, r)
	if !ok {
		return
	}

	var req recallRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(h.log, w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	user := GetUserFromContext(r.Context())
	outcome, err := h.practiceService.CheckRecall(r.Context(), user, id, req.Text)
	if err != nil {
		respondWithServiceError(h.log, w, "failed to check recall", err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}
