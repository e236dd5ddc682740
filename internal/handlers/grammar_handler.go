package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"talktalk/internal/service"
)

// GrammarHandler handles grammar analysis HTTP requests
type GrammarHandler struct {
	grammarService *service.GrammarService
}

// NewGrammarHandler creates a new grammar handler
func NewGrammarHandler(grammarService *service.GrammarService) *GrammarHandler {
	return &GrammarHandler{grammarService: grammarService}
}

// Analyze translates a Vietnamese sentence and explains its grammar.
func (h *GrammarHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		respondWithError(w, http.StatusBadRequest, "Missing or invalid text parameter", "", nil)
		return
	}

	analysis, err := h.grammarService.Analyze(r.Context(), req.Text)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to process request", "Grammar analysis failed", err)
		return
	}

	respondWithJSON(w, http.StatusOK, analysis)
}

// FollowUp answers a question about a previous analysis.
func (h *GrammarHandler) FollowUp(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OriginalText string `json:"originalText"`
		Translation  string `json:"translation"`
		Question     string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
		req.OriginalText == "" || req.Translation == "" || req.Question == "" {
		respondWithError(w, http.StatusBadRequest, "Missing required parameters", "", nil)
		return
	}

	answer, err := h.grammarService.FollowUp(r.Context(), req.OriginalText, req.Translation, req.Question)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to process request", "Grammar follow-up failed", err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

// SuggestQuestions proposes three follow-up questions for an analysis.
func (h *GrammarHandler) SuggestQuestions(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OriginalText string `json:"originalText"`
		Translation  string `json:"translation"`
		Explanation  string `json:"explanation"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
		req.OriginalText == "" || req.Translation == "" || req.Explanation == "" {
		respondWithError(w, http.StatusBadRequest, "Missing required parameters", "", nil)
		return
	}

	questions, err := h.grammarService.SuggestQuestions(r.Context(), req.OriginalText, req.Translation, req.Explanation)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to process request", "Question suggestion failed", err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string][]string{"questions": questions})
}

// TranslateExplanation renders a grammar explanation in Vietnamese.
func (h *GrammarHandler) TranslateExplanation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Explanation  string `json:"explanation"`
		OriginalText string `json:"originalText"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Explanation == "" {
		respondWithError(w, http.StatusBadRequest, "Missing explanation parameter", "", nil)
		return
	}

	translation, err := h.grammarService.TranslateExplanation(r.Context(), req.Explanation, req.OriginalText)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to generate translation", "Explanation translation failed", err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"vietnameseExplanation": translation})
}

// Recent returns the last analyzed texts, newest first.
func (h *GrammarHandler) Recent(w http.ResponseWriter, r *http.Request) {
	questions, err := h.grammarService.RecentQuestions(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to process request", "Failed to load recent questions", err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string][]string{"questions": questions})
}
