package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"talktalk/internal/models"
	"talktalk/internal/relay"
	"talktalk/internal/service"
)

// ChatHandler handles tutor chat and role-play HTTP requests
type ChatHandler struct {
	chatService *service.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

type chatRequest struct {
	Message string         `json:"message"`
	History models.History `json:"history"`
}

// Chat streams the tutor's reply as plain text chunks in arrival order.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "Failed to decode chat request", err)
		return
	}

	chunks, err := h.chatService.StreamReply(r.Context(), req.Message, req.History)
	if err != nil {
		if errors.Is(err, service.ErrEmptyMessage) {
			respondWithError(w, http.StatusBadRequest, "Message is required", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "An error occurred during the conversation", "Failed to start chat stream", err)
		return
	}

	// Headers must be committed before the first chunk; provider errors
	// after this point end the stream but cannot change the status.
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	if _, err := relay.Forward(w, chunks); err != nil {
		// Already logged by the relay; nothing more to send.
		return
	}
}

type rolePlayRequest struct {
	Topic        *models.Topic  `json:"topic"`
	UserMessage  string         `json:"userMessage"`
	Conversation models.History `json:"conversation"`
}

// RolePlay returns the next in-character line for a scenario conversation.
func (h *ChatHandler) RolePlay(w http.ResponseWriter, r *http.Request) {
	var req rolePlayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "Failed to decode role-play request", err)
		return
	}

	if req.Topic == nil || req.UserMessage == "" {
		respondWithError(w, http.StatusBadRequest, "Missing required parameters", "", nil)
		return
	}

	response, err := h.chatService.RolePlayReply(r.Context(), *req.Topic, req.UserMessage, req.Conversation)
	if err != nil {
		if errors.Is(err, service.ErrEmptyMessage) {
			respondWithError(w, http.StatusBadRequest, "Missing required parameters", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "An error occurred during the conversation", "Failed to generate role-play reply", err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"response": response})
}
