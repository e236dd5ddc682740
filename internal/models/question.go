package models

import "time"

// Question categories generated for TOEIC practice.
const (
	CategoryGrammar           = "grammar"
	CategoryVocabulary        = "vocabulary"
	CategorySentenceStructure = "sentence_structure"
)

// QuestionOptionCount is the fixed number of choices per question.
const QuestionOptionCount = 4

// Question is one TOEIC-style multiple choice question
type Question struct {
	ID            int      `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
	Category      string   `json:"category"`
}

// TestResult is an immutable record of one submitted answer
type TestResult struct {
	QuestionID     int       `json:"questionId"`
	SelectedOption int       `json:"selectedOptionIndex"`
	IsCorrect      bool      `json:"isCorrect"`
	TimeSpentMs    int       `json:"timeSpentMillis"`
	AnsweredAt     time.Time `json:"answeredAt"`
}

// ValidCategory reports whether c is a known question category.
func ValidCategory(c string) bool {
	switch c {
	case CategoryGrammar, CategoryVocabulary, CategorySentenceStructure:
		return true
	}
	return false
}
