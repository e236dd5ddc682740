package service

import (
	"context"
	"fmt"
	"strings"

	"talktalk/internal/ai"
	"talktalk/internal/models"
)

// ContextStartingConversation asks for a conversation opener rather than a
// follow-up question.
const ContextStartingConversation = "starting_conversation"

// questionMaxTokens keeps practice questions to a single short sentence.
const questionMaxTokens = 100

// SpeakingService drives the question/answer speaking practice loop
type SpeakingService struct {
	ai    *ai.Client
	model string
}

// NewSpeakingService creates a new speaking practice service
func NewSpeakingService(client *ai.Client, model string) *SpeakingService {
	return &SpeakingService{ai: client, model: model}
}

// NextQuestion generates either a conversation starter or a follow-up
// question grounded in the conversation so far.
func (s *SpeakingService) NextQuestion(ctx context.Context, practiceContext string, history models.History, lastUserResponse string) (string, error) {
	if practiceContext == "" {
		return "", ErrMissingParameters
	}

	var systemPrompt, userPrompt string

	if practiceContext == ContextStartingConversation {
		systemPrompt = `You are an English conversation practice AI. Your role is to:
1. Ask engaging, natural questions that encourage conversation
2. Keep questions simple and appropriate for language learning
3. Focus on everyday topics like daily activities, hobbies, work, food, travel, etc.
4. Ask only ONE question at a time

Generate a friendly, natural conversation starter question.`

		userPrompt = "Please generate a conversation starter question for English practice."
	} else {
		systemPrompt = `You are an English conversation practice AI. Your role is to:
1. Continue the conversation naturally based on what the user just said
2. Ask follow-up questions that relate to their response
3. Keep the conversation flowing and engaging
4. Ask only ONE question at a time
5. Encourage the user to elaborate or share more details
6. Sometimes introduce related topics to keep the conversation interesting

Based on the conversation history and the user's last response, generate an appropriate follow-up question.`

		userPrompt = fmt.Sprintf(`Conversation so far:
%s

The user just said: "%s"

Please generate a natural follow-up question to continue the conversation.`, transcript(history), lastUserResponse)
	}

	question, err := s.ai.Complete(ctx, ai.Request{
		Model: s.model,
		Messages: []ai.Message{
			{Role: models.RoleSystem, Content: systemPrompt},
			{Role: models.RoleUser, Content: userPrompt},
		},
		MaxTokens:   questionMaxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(question), nil
}

// Evaluate grades a learner's answer against the question that prompted it
// and returns structured feedback.
func (s *SpeakingService) Evaluate(ctx context.Context, userResponse string, history models.History) (*models.Feedback, error) {
	if strings.TrimSpace(userResponse) == "" {
		return nil, ErrMissingParameters
	}

	// The question being answered is the most recent assistant turn
	contextQuestion := ""
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == models.RoleAssistant {
			contextQuestion = history[i].Content
			break
		}
	}

	systemPrompt := `You are an expert English language teacher providing feedback on a student's spoken/written response. Your task is to:

1. **Grammar Analysis**: Identify any grammar mistakes, tense errors, or structural issues
2. **Natural Phrasing**: Evaluate if the response sounds natural and suggest improvements
3. **Context Appropriateness**: Check if the response appropriately answers the question
4. **Constructive Feedback**: Provide encouraging, helpful corrections and tips

**Important Guidelines**:
- Be encouraging and positive
- Focus on 1-3 main issues (don't overwhelm with too many corrections)
- Provide clear explanations for corrections
- Suggest alternative phrasings when helpful
- If the response is good, acknowledge it positively
- Give practical tips for improvement

**Response Format**: Return a JSON object with this exact structure:
{
  "feedback": {
    "corrections": [
      {
        "original": "exact phrase that needs correction",
        "corrected": "the corrected version",
        "explanation": "why this is better"
      }
    ],
    "tips": [
      "helpful tip 1",
      "helpful tip 2"
    ],
    "overall": "overall encouraging feedback summary"
  }
}

If there are no major issues, corrections array can be empty but still provide positive feedback and maybe one small tip.`

	userPrompt := fmt.Sprintf(`Question context: "%s"

Student's response: "%s"

Please evaluate this response and provide helpful feedback.`, contextQuestion, userResponse)

	var parsed struct {
		Feedback models.Feedback `json:"feedback"`
	}
	err := s.ai.CompleteJSON(ctx, ai.Request{
		Model: s.model,
		Messages: []ai.Message{
			{Role: models.RoleSystem, Content: systemPrompt},
			{Role: models.RoleUser, Content: userPrompt},
		},
		Temperature: 0.3,
	}, &parsed)
	if err != nil {
		return nil, err
	}

	feedback := parsed.Feedback
	feedback.Normalize()
	return &feedback, nil
}

// transcript renders a history as "sender: text" lines for prompt context.
func transcript(history models.History) string {
	var b strings.Builder
	for i, turn := range history {
		if i > 0 {
			b.WriteByte('\n')
		}
		sender := turn.Role
		if sender == models.RoleAssistant {
			sender = "ai"
		}
		b.WriteString(sender + ": " + turn.Content)
	}
	return b.String()
}
