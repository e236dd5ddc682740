package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"talktalk/internal/models"
)

func TestNextQuestionStartingConversation(t *testing.T) {
	var systemPrompt string
	client := fakeAIFunc(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct{ Role, Content string } `json:"messages"`
		}
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &req)
		if len(req.Messages) > 0 {
			systemPrompt = req.Messages[0].Content
		}
		writeCompletion(w, "  What's your favorite food?  ")
	})
	svc := NewSpeakingService(client, "gpt-4o")

	question, err := svc.NextQuestion(context.Background(), ContextStartingConversation, nil, "")
	if err != nil {
		t.Fatalf("NextQuestion() error = %v", err)
	}
	if question != "What's your favorite food?" {
		t.Errorf("NextQuestion() = %q, want trimmed question", question)
	}
	if !strings.Contains(systemPrompt, "conversation starter") {
		t.Errorf("starting context should use the starter prompt, got %q", systemPrompt)
	}
}

func TestNextQuestionFollowUp(t *testing.T) {
	var userPrompt string
	client := fakeAIFunc(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct{ Role, Content string } `json:"messages"`
		}
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &req)
		if len(req.Messages) > 1 {
			userPrompt = req.Messages[1].Content
		}
		writeCompletion(w, "What did you cook last weekend?")
	})
	svc := NewSpeakingService(client, "gpt-4o")

	history := models.History{
		{Role: models.RoleAssistant, Content: "What's your favorite food?"},
		{Role: models.RoleUser, Content: "I love cooking pasta."},
	}

	question, err := svc.NextQuestion(context.Background(), "continuing", history, "I love cooking pasta.")
	if err != nil {
		t.Fatalf("NextQuestion() error = %v", err)
	}
	if question == "" {
		t.Fatal("NextQuestion() returned empty question")
	}
	if !strings.Contains(userPrompt, "I love cooking pasta.") {
		t.Errorf("follow-up prompt should include the last response, got %q", userPrompt)
	}
	if !strings.Contains(userPrompt, "ai: What's your favorite food?") {
		t.Errorf("follow-up prompt should include the transcript, got %q", userPrompt)
	}
}

func TestNextQuestionMissingContext(t *testing.T) {
	svc := NewSpeakingService(fakeAI(t, "unused"), "gpt-4o")

	_, err := svc.NextQuestion(context.Background(), "", nil, "")
	if !errors.Is(err, ErrMissingParameters) {
		t.Errorf("NextQuestion() error = %v, want ErrMissingParameters", err)
	}
}

func TestEvaluate(t *testing.T) {
	content := `{"feedback":{"corrections":[{"original":"I go yesterday","corrected":"I went yesterday","explanation":"Past tense."}],"tips":["Practice irregular verbs"],"overall":"Good effort!"}}`
	svc := NewSpeakingService(fakeAI(t, content), "gpt-4o")

	history := models.History{
		{Role: models.RoleAssistant, Content: "What did you do yesterday?"},
	}

	feedback, err := svc.Evaluate(context.Background(), "I go to the park yesterday", history)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if len(feedback.Corrections) != 1 {
		t.Fatalf("Corrections len = %d, want 1", len(feedback.Corrections))
	}
	if feedback.Corrections[0].Corrected != "I went yesterday" {
		t.Errorf("Corrected = %q", feedback.Corrections[0].Corrected)
	}
	if feedback.Overall != "Good effort!" {
		t.Errorf("Overall = %q", feedback.Overall)
	}
}

func TestEvaluateNormalizesMissingFields(t *testing.T) {
	// Provider omitted corrections and tips entirely
	svc := NewSpeakingService(fakeAI(t, `{"feedback":{"overall":"Nice answer!"}}`), "gpt-4o")

	feedback, err := svc.Evaluate(context.Background(), "I like pho", nil)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if feedback.Corrections == nil {
		t.Error("Corrections should be an empty slice, not nil")
	}
	if feedback.Tips == nil {
		t.Error("Tips should be an empty slice, not nil")
	}
}

func TestEvaluateMissingResponse(t *testing.T) {
	svc := NewSpeakingService(fakeAI(t, "unused"), "gpt-4o")

	_, err := svc.Evaluate(context.Background(), "  ", nil)
	if !errors.Is(err, ErrMissingParameters) {
		t.Errorf("Evaluate() error = %v, want ErrMissingParameters", err)
	}
}
