package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"talktalk/internal/ai"
	"talktalk/internal/models"
	"talktalk/internal/repository"
)

// ErrMissingParameters is returned when a required request field is empty.
var ErrMissingParameters = errors.New("missing required parameters")

const (
	grammarQuestionsKey = "grammarQuestions"

	// recentQuestionsLimit bounds the ring buffer of analyzed sentences.
	recentQuestionsLimit = 10

	// suggestedQuestionCount is the fixed number of follow-up suggestions.
	suggestedQuestionCount = 3
)

// GrammarService translates Vietnamese text and explains English grammar
type GrammarService struct {
	ai            *ai.Client
	analysisModel string
	suggestModel  string
	store         repository.Store
}

// NewGrammarService creates a new grammar service
func NewGrammarService(client *ai.Client, analysisModel, suggestModel string, store repository.Store) *GrammarService {
	return &GrammarService{
		ai:            client,
		analysisModel: analysisModel,
		suggestModel:  suggestModel,
		store:         store,
	}
}

// Analyze translates Vietnamese text to English and explains the grammar
// used in the translation. Successful analyses are recorded in the recent
// questions ring buffer.
func (s *GrammarService) Analyze(ctx context.Context, text string) (*models.GrammarAnalysis, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrMissingParameters
	}

	systemPrompt := `You are a helpful English language assistant. Translate the provided Vietnamese text to English and explain the grammar rules used in the English translation. The response should include:
1. Accurate English translation
2. Explanation of grammar tenses, structures, or patterns used in the English translation.

Format your response as JSON with the following structure:
{
  "translation": "The English translation",
  "explanation": "Detailed grammar explanation"
}`

	var analysis models.GrammarAnalysis
	err := s.ai.CompleteJSON(ctx, ai.Request{
		Model: s.analysisModel,
		Messages: []ai.Message{
			{Role: models.RoleSystem, Content: systemPrompt},
			{Role: models.RoleUser, Content: text},
		},
	}, &analysis)
	if err != nil {
		return nil, err
	}

	if err := s.recordQuestion(ctx, text); err != nil {
		// History is a convenience; the analysis itself still succeeded
		log.Printf("Failed to record grammar question: %v", err)
	}

	return &analysis, nil
}

// FollowUp answers a free-form question about a previous analysis.
func (s *GrammarService) FollowUp(ctx context.Context, originalText, translation, question string) (string, error) {
	if originalText == "" || translation == "" || question == "" {
		return "", ErrMissingParameters
	}

	systemPrompt := fmt.Sprintf(`You are a helpful English language assistant specialized in grammar explanations.
A user has translated a Vietnamese sentence to English and now has a follow-up question about the grammar.

Original Vietnamese text: "%s"
English translation: "%s"

Please provide a clear, concise explanation that answers their grammar question.`, originalText, translation)

	return s.ai.Complete(ctx, ai.Request{
		Model: s.analysisModel,
		Messages: []ai.Message{
			{Role: models.RoleSystem, Content: systemPrompt},
			{Role: models.RoleUser, Content: question},
		},
	})
}

// SuggestQuestions generates exactly three follow-up questions a learner
// might ask about the analyzed grammar point.
func (s *GrammarService) SuggestQuestions(ctx context.Context, originalText, translation, explanation string) ([]string, error) {
	if originalText == "" || translation == "" || explanation == "" {
		return nil, ErrMissingParameters
	}

	systemPrompt := fmt.Sprintf(`You are a helpful English language assistant.
A user is learning English grammar and has received a translation and explanation.

Original Vietnamese text: "%s"
English translation: "%s"
Grammar explanation: "%s"

Generate 3 relevant follow-up questions that the learner might want to ask about this grammar point.
The questions should be clear, concise, and focused on understanding this specific grammar structure better.

Format your response as a JSON object with a "questions" array. Example:
{
  "questions": ["Why is the past tense used here?", "Can I use present perfect instead?", "How would I make this negative?"]
}`, originalText, translation, explanation)

	var parsed struct {
		Questions []string `json:"questions"`
	}
	err := s.ai.CompleteJSON(ctx, ai.Request{
		Model:       s.suggestModel,
		Messages:    []ai.Message{{Role: models.RoleSystem, Content: systemPrompt}},
		Temperature: 0.7,
	}, &parsed)
	if err != nil {
		return nil, err
	}

	return normalizeQuestionCount(parsed.Questions), nil
}

// TranslateExplanation renders an English grammar explanation in Vietnamese.
func (s *GrammarService) TranslateExplanation(ctx context.Context, explanation, originalText string) (string, error) {
	if explanation == "" {
		return "", ErrMissingParameters
	}

	systemPrompt := `You are a Vietnamese language assistant. Translate the provided English grammar explanation to Vietnamese.
Keep the explanation clear and educational. Maintain any formatting, including numbered points, bold text, etc.

Remember that this is a grammar explanation for a Vietnamese speaker learning English, so be sure to use appropriate Vietnamese grammar terminology.

Format your response as JSON with the following structure:
{
  "vietnameseExplanation": "The Vietnamese translation of the grammar explanation"
}`

	userPrompt := fmt.Sprintf(`Original Vietnamese text: %s

English Grammar Explanation: %s

Please translate this grammar explanation to Vietnamese.`, originalText, explanation)

	var parsed struct {
		VietnameseExplanation string `json:"vietnameseExplanation"`
	}
	err := s.ai.CompleteJSON(ctx, ai.Request{
		Model: s.analysisModel,
		Messages: []ai.Message{
			{Role: models.RoleSystem, Content: systemPrompt},
			{Role: models.RoleUser, Content: userPrompt},
		},
	}, &parsed)
	if err != nil {
		return "", err
	}

	return parsed.VietnameseExplanation, nil
}

// RecentQuestions returns the most recently analyzed sentences, oldest
// first, at most ten.
func (s *GrammarService) RecentQuestions(ctx context.Context) ([]string, error) {
	value, err := s.store.Get(ctx, grammarQuestionsKey)
	if errors.Is(err, repository.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	var questions []string
	if err := json.Unmarshal([]byte(value), &questions); err != nil {
		return nil, fmt.Errorf("corrupt grammar question history: %w", err)
	}
	return questions, nil
}

// recordQuestion appends a sentence to the ring buffer, keeping the last ten.
func (s *GrammarService) recordQuestion(ctx context.Context, text string) error {
	questions, err := s.RecentQuestions(ctx)
	if err != nil {
		return err
	}

	questions = append(questions, text)
	if len(questions) > recentQuestionsLimit {
		questions = questions[len(questions)-recentQuestionsLimit:]
	}

	data, err := json.Marshal(questions)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, grammarQuestionsKey, string(data))
}

// normalizeQuestionCount pads or truncates to exactly three questions.
func normalizeQuestionCount(questions []string) []string {
	trimmed := make([]string, 0, suggestedQuestionCount)
	for _, q := range questions {
		if strings.TrimSpace(q) == "" {
			continue
		}
		trimmed = append(trimmed, q)
		if len(trimmed) == suggestedQuestionCount {
			break
		}
	}

	defaults := []string{
		"Why is this tense used here?",
		"Can this sentence be phrased another way?",
		"How would I make this sentence negative?",
	}
	for i := len(trimmed); i < suggestedQuestionCount; i++ {
		trimmed = append(trimmed, defaults[i])
	}

	return trimmed
}
