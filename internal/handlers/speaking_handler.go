package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"talktalk/internal/models"
	"talktalk/internal/service"
)

// SpeakingHandler handles speaking practice HTTP requests
type SpeakingHandler struct {
	speakingService *service.SpeakingService
}

// NewSpeakingHandler creates a new speaking handler
func NewSpeakingHandler(speakingService *service.SpeakingService) *SpeakingHandler {
	return &SpeakingHandler{speakingService: speakingService}
}

// Question generates the next practice question, either a conversation
// starter or a follow-up to the learner's last response.
func (h *SpeakingHandler) Question(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Context             string         `json:"context"`
		ConversationHistory models.History `json:"conversationHistory"`
		LastUserResponse    string         `json:"lastUserResponse"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Context) == "" {
		respondWithError(w, http.StatusBadRequest, "Missing context parameter", "", nil)
		return
	}

	question, err := h.speakingService.NextQuestion(r.Context(), req.Context, req.ConversationHistory, req.LastUserResponse)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to process request", "Failed to generate speaking question", err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"question": question})
}

// Evaluate scores the learner's response and returns structured feedback.
func (h *SpeakingHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserResponse        string         `json:"userResponse"`
		ConversationHistory models.History `json:"conversationHistory"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.UserResponse) == "" {
		respondWithError(w, http.StatusBadRequest, "Missing or invalid userResponse parameter", "", nil)
		return
	}

	feedback, err := h.speakingService.Evaluate(r.Context(), req.UserResponse, req.ConversationHistory)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to process request", "Failed to evaluate response", err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]*models.Feedback{"feedback": feedback})
}
