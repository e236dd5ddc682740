package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"talktalk/internal/ai"
	"talktalk/internal/models"
)

// ErrEmptyMessage is returned when a chat request has no message text.
var ErrEmptyMessage = errors.New("message is required")

const tutorSystemPrompt = "You are a helpful English tutor. Your name is TalkTutor. " +
	"Your primary goal is to help the user practice and improve their English skills " +
	"through natural conversation. Provide corrections gently when appropriate, and " +
	"encourage the user."

// rolePlayMaxTokens keeps scenario replies short (1-3 sentences).
const rolePlayMaxTokens = 100

// ChatService handles tutor chat and role-play conversations
type ChatService struct {
	ai    *ai.Client
	model string
}

// NewChatService creates a new chat service
func NewChatService(client *ai.Client, model string) *ChatService {
	return &ChatService{ai: client, model: model}
}

// StreamReply sends the conversation to the tutor model and returns the
// token stream. The caller owns draining the channel.
func (s *ChatService) StreamReply(ctx context.Context, message string, history models.History) (<-chan ai.StreamChunk, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}

	messages := make([]ai.Message, 0, len(history)+2)
	messages = append(messages, ai.Message{Role: models.RoleSystem, Content: tutorSystemPrompt})
	messages = append(messages, historyMessages(history)...)
	messages = append(messages, ai.Message{Role: models.RoleUser, Content: message})

	return s.ai.CompleteStream(ctx, ai.Request{Model: s.model, Messages: messages})
}

// RolePlayReply generates the next in-character line for a scenario
// conversation.
func (s *ChatService) RolePlayReply(ctx context.Context, topic models.Topic, userMessage string, conversation models.History) (string, error) {
	if strings.TrimSpace(userMessage) == "" {
		return "", ErrEmptyMessage
	}

	systemPrompt := fmt.Sprintf(`You are a helpful AI assistant helping a non-native English speaker practice their speaking skills in a role-play scenario about "%s".

The scenario is: %s

Your role: Based on the topic, you should play the appropriate role (e.g., store clerk, restaurant server, interviewer, etc.).
Use simple vocabulary and clear, grammatically correct sentences appropriate for an English learner.
Keep responses short (1-3 sentences).
Be encouraging and helpful, but also realistic for the scenario.
Do not explicitly mention that this is a language practice session.
Respond naturally as if this were a real conversation in the given scenario.`, topic.Title, topic.Description)

	messages := make([]ai.Message, 0, len(conversation)+2)
	messages = append(messages, ai.Message{Role: models.RoleSystem, Content: systemPrompt})
	messages = append(messages, historyMessages(conversation)...)
	messages = append(messages, ai.Message{Role: models.RoleUser, Content: userMessage})

	return s.ai.Complete(ctx, ai.Request{
		Model:       s.model,
		Messages:    messages,
		MaxTokens:   rolePlayMaxTokens,
		Temperature: 0.7,
	})
}

// historyMessages converts a conversation transcript to provider messages,
// dropping system turns and empty placeholders still being streamed.
func historyMessages(history models.History) []ai.Message {
	messages := make([]ai.Message, 0, len(history))
	for _, turn := range history {
		if turn.Role != models.RoleUser && turn.Role != models.RoleAssistant {
			continue
		}
		if strings.TrimSpace(turn.Content) == "" {
			continue
		}
		messages = append(messages, ai.Message{Role: turn.Role, Content: turn.Content})
	}
	return messages
}
