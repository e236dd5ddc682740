package repository

import (
	"time"

	"talktalk/internal/database"
	"talktalk/internal/models"
)

// ResultRepository handles test result database operations
type ResultRepository struct {
	db *database.DB
}

// NewResultRepository creates a new result repository
func NewResultRepository(db *database.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// SaveResult appends a completed test answer to the results log
func (r *ResultRepository) SaveResult(result models.TestResult) error {
	query := `
		INSERT INTO test_results (question_id, selected_option, is_correct, time_spent_ms, answered_at)
		VALUES (?, ?, ?, ?, ?)
	`

	answeredAt := result.AnsweredAt
	if answeredAt.IsZero() {
		answeredAt = time.Now()
	}

	_, err := r.db.Exec(query, result.QuestionID, result.SelectedOption, result.IsCorrect, result.TimeSpentMs, answeredAt)
	return err
}

// RecentResults returns the most recent test answers, newest first
func (r *ResultRepository) RecentResults(limit int) ([]models.TestResult, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT question_id, selected_option, is_correct, time_spent_ms, answered_at
		FROM test_results
		ORDER BY answered_at DESC, id DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []models.TestResult
	for rows.Next() {
		var result models.TestResult
		err := rows.Scan(
			&result.QuestionID,
			&result.SelectedOption,
			&result.IsCorrect,
			&result.TimeSpentMs,
			&result.AnsweredAt,
		)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	return results, rows.Err()
}
