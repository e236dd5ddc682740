package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"talktalk/internal/game"
	"talktalk/internal/service"
)

// GameHandler handles board-run session HTTP requests
type GameHandler struct {
	gameService *service.GameService
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameService *service.GameService) *GameHandler {
	return &GameHandler{gameService: gameService}
}

type gameSessionResponse struct {
	SessionID string       `json:"sessionId"`
	Session   game.Session `json:"session"`
}

// CreateSession starts a fresh board run.
func (h *GameHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	id, session := h.gameService.CreateSession()
	respondWithJSON(w, http.StatusCreated, gameSessionResponse{SessionID: id, Session: session})
}

// GetSession returns the current state of a board run.
func (h *GameHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	session, err := h.gameService.GetSession(id)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Session not found", "", nil)
		return
	}

	respondWithJSON(w, http.StatusOK, gameSessionResponse{SessionID: id, Session: session})
}

// SubmitAnswer applies one answered question to a board run.
func (h *GameHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req struct {
		Correct bool `json:"correct"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "Failed to decode answer", err)
		return
	}

	session, err := h.gameService.SubmitAnswer(id, req.Correct)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			respondWithError(w, http.StatusNotFound, "Session not found", "", nil)
			return
		}
		if errors.Is(err, game.ErrSessionComplete) {
			respondWithError(w, http.StatusConflict, "Session is already complete", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to submit answer", "Answer submission failed", err)
		return
	}

	respondWithJSON(w, http.StatusOK, gameSessionResponse{SessionID: id, Session: session})
}

// ResetSession restarts a board run on the same board.
func (h *GameHandler) ResetSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	session, err := h.gameService.ResetSession(id)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Session not found", "", nil)
		return
	}

	respondWithJSON(w, http.StatusOK, gameSessionResponse{SessionID: id, Session: session})
}
