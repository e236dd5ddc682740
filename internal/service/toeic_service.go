package service

import (
	"context"
	"fmt"
	"log"

	"talktalk/internal/ai"
	"talktalk/internal/models"
)

// toeicMaxTokens leaves room for a full ten-question set with explanations.
const toeicMaxTokens = 4000

// ToeicService generates TOEIC-style practice questions
type ToeicService struct {
	ai     *ai.Client
	model  string
	policy ParseFailurePolicy
}

// NewToeicService creates a new TOEIC question service. Generation failures
// are handled per the given policy; Fallback serves the built-in set.
func NewToeicService(client *ai.Client, model string, policy ParseFailurePolicy) *ToeicService {
	return &ToeicService{ai: client, model: model, policy: policy}
}

// Generate produces a validated set of multiple-choice questions at the
// requested level. With the Fallback policy any provider or parse failure
// yields the built-in question set instead of an error.
func (s *ToeicService) Generate(ctx context.Context, level string, questionCount int) ([]models.Question, error) {
	if level == "" || questionCount <= 0 {
		return nil, ErrMissingParameters
	}

	questions, err := s.generate(ctx, level, questionCount)
	if err != nil {
		if s.policy == Fallback {
			log.Printf("TOEIC generation failed, serving fallback questions: %v", err)
			return FallbackQuestions(), nil
		}
		return nil, err
	}

	return questions, nil
}

func (s *ToeicService) generate(ctx context.Context, level string, questionCount int) ([]models.Question, error) {
	systemPrompt := fmt.Sprintf(`You are an expert TOEIC test creator specialized in generating high-quality practice questions for %[2]s level English learners.

Create %[1]d multiple-choice TOEIC practice questions at exactly %[2]s level difficulty. Focus on:

**Content Areas:**
- Grammar: verb tenses, conditionals, passive voice, modal verbs, relative clauses
- Vocabulary: business English, academic words, collocations, phrasal verbs
- Sentence Structure: complex sentences, word order, connectors

**Level Requirements:**
- Vocabulary and grammatical structures matching %[2]s (CEFR) difficulty
- Business and professional contexts
- Academic and formal language
- Real-world scenarios

**Question Format:**
Each question must have:
- A clear, complete sentence with one blank or a grammar/vocabulary question
- Exactly 4 multiple choice options (A, B, C, D)
- Only ONE clearly correct answer
- Plausible distractors that test common mistakes
- A detailed explanation of why the correct answer is right and why others are wrong

**Categories:** Mix questions across these categories:
- "grammar" (50%%)
- "vocabulary" (30%%)
- "sentence_structure" (20%%)

Return a JSON object with this exact structure:
{
  "questions": [
    {
      "id": 1,
      "question": "Complete sentence with blank or question about grammar/vocab",
      "options": ["option A", "option B", "option C", "option D"],
      "correctAnswer": 0,
      "explanation": "Detailed explanation of the correct answer and why other options are incorrect",
      "category": "grammar"
    }
  ]
}

Make questions authentic, practical, and exactly at %[2]s difficulty level.`, questionCount, level)

	var parsed struct {
		Questions []models.Question `json:"questions"`
	}
	err := s.ai.CompleteJSON(ctx, ai.Request{
		Model: s.model,
		Messages: []ai.Message{
			{Role: models.RoleSystem, Content: systemPrompt},
			{Role: models.RoleUser, Content: fmt.Sprintf("Generate %d TOEIC practice questions at %s level. Ensure variety in topics and question types.", questionCount, level)},
		},
		MaxTokens:   toeicMaxTokens,
		Temperature: 0.7,
	}, &parsed)
	if err != nil {
		return nil, err
	}

	if len(parsed.Questions) == 0 {
		return nil, fmt.Errorf("provider returned no questions")
	}

	return validateQuestions(parsed.Questions), nil
}

// validateQuestions normalizes each generated question: sequential IDs,
// exactly four options, an answer index in range and a known category.
func validateQuestions(questions []models.Question) []models.Question {
	validated := make([]models.Question, len(questions))
	for i, q := range questions {
		v := models.Question{
			ID:            i + 1,
			Question:      q.Question,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
			Category:      q.Category,
		}

		if len(v.Options) != models.QuestionOptionCount {
			v.Options = []string{"Option A", "Option B", "Option C", "Option D"}
		}
		if v.CorrectAnswer < 0 || v.CorrectAnswer >= models.QuestionOptionCount {
			v.CorrectAnswer = 0
		}
		if v.Explanation == "" {
			v.Explanation = "Explanation not provided."
		}
		if !models.ValidCategory(v.Category) {
			v.Category = models.CategoryGrammar
		}

		validated[i] = v
	}
	return validated
}

// FallbackQuestions returns the built-in ten-question set served when
// generation fails.
func FallbackQuestions() []models.Question {
	return []models.Question{
		{
			ID:            1,
			Question:      "The company's new policy will _______ all employees starting next month.",
			Options:       []string{"effect", "affect", "affects", "effects"},
			CorrectAnswer: 1,
			Explanation:   "'Affect' is a verb meaning to influence or make a change. 'Effect' is a noun meaning a result or consequence. Here we need a verb, so 'affect' is correct.",
			Category:      models.CategoryVocabulary,
		},
		{
			ID:            2,
			Question:      "If I _______ you yesterday, I would have told you about the meeting.",
			Options:       []string{"saw", "had seen", "have seen", "would see"},
			CorrectAnswer: 1,
			Explanation:   "This is a third conditional sentence expressing a hypothetical past situation. The structure is: If + past perfect, would have + past participle.",
			Category:      models.CategoryGrammar,
		},
		{
			ID:            3,
			Question:      "The project must be completed _______ the deadline to avoid penalties.",
			Options:       []string{"until", "by", "during", "through"},
			CorrectAnswer: 1,
			Explanation:   "'By' indicates a deadline - something must happen before or at that time. 'Until' means continuing up to that point, 'during' means within a period, and 'through' means from beginning to end.",
			Category:      models.CategoryVocabulary,
		},
		{
			ID:            4,
			Question:      "_______ the weather was terrible, we decided to continue with our outdoor event.",
			Options:       []string{"Despite", "Although", "Because", "Since"},
			CorrectAnswer: 1,
			Explanation:   "'Although' introduces a contrast between two clauses. 'Despite' would need a noun/gerund, not a full clause. 'Because' and 'Since' show cause, not contrast.",
			Category:      models.CategorySentenceStructure,
		},
		{
			ID:            5,
			Question:      "The manager asked her assistant _______ the reports before the meeting.",
			Options:       []string{"prepare", "to prepare", "preparing", "prepared"},
			CorrectAnswer: 1,
			Explanation:   "After 'ask someone', we use the infinitive form 'to + base verb'. This is the standard pattern: ask + object + to + infinitive.",
			Category:      models.CategoryGrammar,
		},
		{
			ID:            6,
			Question:      "Our sales figures have improved _______ since we launched the new marketing campaign.",
			Options:       []string{"dramatically", "dramatic", "drama", "dramatical"},
			CorrectAnswer: 0,
			Explanation:   "'Dramatically' is an adverb modifying the verb 'improved'. We need an adverb to describe how the improvement happened. 'Dramatic' is an adjective, and the other options are incorrect forms.",
			Category:      models.CategoryVocabulary,
		},
		{
			ID:            7,
			Question:      "The conference room _______ for the board meeting at 2 PM tomorrow.",
			Options:       []string{"will reserve", "is reserving", "has been reserved", "reserves"},
			CorrectAnswer: 2,
			Explanation:   "We need the passive voice here because the room receives the action. 'Has been reserved' indicates the reservation was completed in the past with present relevance.",
			Category:      models.CategoryGrammar,
		},
		{
			ID:            8,
			Question:      "_______ working overtime, she still couldn't finish the project on time.",
			Options:       []string{"Despite", "Although", "Because of", "In spite"},
			CorrectAnswer: 0,
			Explanation:   "'Despite' is followed by a gerund or noun phrase. 'Despite working' is correct. 'Although' needs a full clause, 'Because of' shows cause (not contrast), and 'In spite' needs 'of'.",
			Category:      models.CategorySentenceStructure,
		},
		{
			ID:            9,
			Question:      "The client expressed his _______ with the quality of our service.",
			Options:       []string{"satisfaction", "satisfactory", "satisfy", "satisfied"},
			CorrectAnswer: 0,
			Explanation:   "We need a noun after the possessive 'his'. 'Satisfaction' is the noun form. 'Satisfactory' is an adjective, 'satisfy' is a verb, and 'satisfied' is an adjective/past participle.",
			Category:      models.CategoryVocabulary,
		},
		{
			ID:            10,
			Question:      "_______ carefully you plan, unexpected problems may still arise.",
			Options:       []string{"However", "Whatever", "Wherever", "Whenever"},
			CorrectAnswer: 0,
			Explanation:   "'However' + adjective/adverb means 'no matter how'. The sentence means 'No matter how carefully you plan'. The other options don't fit grammatically or semantically.",
			Category:      models.CategorySentenceStructure,
		},
	}
}
