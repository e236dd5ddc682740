package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"talktalk/internal/models"
	"talktalk/internal/service"
)

// ToeicHandler handles TOEIC practice HTTP requests
type ToeicHandler struct {
	toeicService *service.ToeicService
}

// NewToeicHandler creates a new TOEIC handler
func NewToeicHandler(toeicService *service.ToeicService) *ToeicHandler {
	return &ToeicHandler{toeicService: toeicService}
}

// Generate produces a set of TOEIC-style multiple choice questions.
func (h *ToeicHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Level         string `json:"level"`
		QuestionCount int    `json:"questionCount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing required parameters: level and questionCount", "", nil)
		return
	}

	questions, err := h.toeicService.Generate(r.Context(), req.Level, req.QuestionCount)
	if err != nil {
		if errors.Is(err, service.ErrMissingParameters) {
			respondWithError(w, http.StatusBadRequest, "Missing required parameters: level and questionCount", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to generate questions", "TOEIC generation failed", err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string][]models.Question{"questions": questions})
}
