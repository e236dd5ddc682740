package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"talktalk/internal/models"
)

func TestHistoryMessages(t *testing.T) {
	history := models.History{
		{Role: models.RoleUser, Content: "Hello"},
		{Role: models.RoleAssistant, Content: "Hi! How can I help?"},
		{Role: models.RoleSystem, Content: "internal note"},
		{Role: models.RoleAssistant, Content: ""},
		{Role: models.RoleUser, Content: "  "},
	}

	messages := historyMessages(history)
	if len(messages) != 2 {
		t.Fatalf("historyMessages() returned %d messages, want 2", len(messages))
	}
	if messages[0].Role != models.RoleUser || messages[0].Content != "Hello" {
		t.Errorf("first message = %+v", messages[0])
	}
	if messages[1].Role != models.RoleAssistant {
		t.Errorf("second message role = %s", messages[1].Role)
	}
}

func TestStreamReplyEmptyMessage(t *testing.T) {
	svc := NewChatService(fakeAI(t, "unused"), "gpt-3.5-turbo")

	_, err := svc.StreamReply(context.Background(), "   ", nil)
	if !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("StreamReply() error = %v, want ErrEmptyMessage", err)
	}
}

func TestRolePlayReply(t *testing.T) {
	var captured struct {
		Messages  []struct{ Role, Content string } `json:"messages"`
		MaxTokens int                              `json:"max_tokens"`
	}
	client := fakeAIFunc(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &captured)
		writeCompletion(w, "Welcome! Are you looking for anything in particular today?")
	})
	svc := NewChatService(client, "gpt-3.5-turbo")

	topic := models.Topic{Title: "Shopping for Clothes", Description: "Practice shopping phrases."}
	conversation := models.History{
		{Role: models.RoleAssistant, Content: "Hello, welcome to our store!"},
		{Role: models.RoleUser, Content: "Hi, I need a jacket."},
	}

	reply, err := svc.RolePlayReply(context.Background(), topic, "Do you have it in blue?", conversation)
	if err != nil {
		t.Fatalf("RolePlayReply() error = %v", err)
	}
	if reply == "" {
		t.Fatal("RolePlayReply() returned empty reply")
	}

	// system prompt + 2 turns + new user message
	if len(captured.Messages) != 4 {
		t.Fatalf("request carried %d messages, want 4", len(captured.Messages))
	}
	if captured.Messages[0].Role != models.RoleSystem {
		t.Errorf("first message should be the system prompt, got role %s", captured.Messages[0].Role)
	}
	if captured.MaxTokens != rolePlayMaxTokens {
		t.Errorf("max_tokens = %d, want %d", captured.MaxTokens, rolePlayMaxTokens)
	}

	_, err = svc.RolePlayReply(context.Background(), topic, "", conversation)
	if !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("RolePlayReply() with empty message error = %v, want ErrEmptyMessage", err)
	}
}
