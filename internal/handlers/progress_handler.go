package handlers

import (
	"encoding/json"
	"net/http"

	"talktalk/internal/models"
	"talktalk/internal/service"
)

// ProgressHandler handles streak, topic, settings and result HTTP requests
type ProgressHandler struct {
	progressService *service.ProgressService
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(progressService *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// Status returns the current streak and daily progress.
func (h *ProgressHandler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.progressService.Status(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load progress", "Progress lookup failed", err)
		return
	}

	respondWithJSON(w, http.StatusOK, status)
}

// RecordPractice marks today's practice as completed.
func (h *ProgressHandler) RecordPractice(w http.ResponseWriter, r *http.Request) {
	streak, err := h.progressService.RecordPractice(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to record practice", "Practice recording failed", err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]int{"streak": streak})
}

// TodayTopic returns the practice topic for the current day.
func (h *ProgressHandler) TodayTopic(w http.ResponseWriter, r *http.Request) {
	topic, err := h.progressService.TodayTopic(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load topic", "Topic lookup failed", err)
		return
	}

	respondWithJSON(w, http.StatusOK, topic)
}

// SaveResult appends one answered-question record.
func (h *ProgressHandler) SaveResult(w http.ResponseWriter, r *http.Request) {
	var result models.TestResult
	if err := json.NewDecoder(r.Body).Decode(&result); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "Failed to decode test result", err)
		return
	}

	if err := h.progressService.SaveResult(result); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to save result", "Result save failed", err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]string{"status": "saved"})
}

// RecentResults returns the most recently answered questions.
func (h *ProgressHandler) RecentResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.progressService.RecentResults(0)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load results", "Result lookup failed", err)
		return
	}
	if results == nil {
		results = []models.TestResult{}
	}

	respondWithJSON(w, http.StatusOK, map[string][]models.TestResult{"results": results})
}

// VoiceSetting returns whether automatic speech playback is enabled.
func (h *ProgressHandler) VoiceSetting(w http.ResponseWriter, r *http.Request) {
	enabled, err := h.progressService.VoiceEnabled(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load settings", "Voice setting lookup failed", err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"voiceEnabled": enabled})
}

// UpdateVoiceSetting persists the automatic speech playback flag.
func (h *ProgressHandler) UpdateVoiceSetting(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VoiceEnabled bool `json:"voiceEnabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "Failed to decode voice setting", err)
		return
	}

	if err := h.progressService.SetVoiceEnabled(r.Context(), req.VoiceEnabled); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to save settings", "Voice setting save failed", err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"voiceEnabled": req.VoiceEnabled})
}
