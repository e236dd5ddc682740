package repository

import (
	"sync"

	"talktalk/internal/models"
)

// ResultLog is an append-only record of submitted test answers.
// *ResultRepository is the database-backed implementation; MemoryResultLog
// serves tests and store backends without a SQL database.
type ResultLog interface {
	SaveResult(result models.TestResult) error
	RecentResults(limit int) ([]models.TestResult, error)
}

// MemoryResultLog keeps results in memory.
type MemoryResultLog struct {
	mu      sync.Mutex
	results []models.TestResult
}

// NewMemoryResultLog creates an empty in-memory result log
func NewMemoryResultLog() *MemoryResultLog {
	return &MemoryResultLog{}
}

func (l *MemoryResultLog) SaveResult(result models.TestResult) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.results = append(l.results, result)
	return nil
}

func (l *MemoryResultLog) RecentResults(limit int) ([]models.TestResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if limit <= 0 {
		limit = 50
	}

	start := len(l.results) - limit
	if start < 0 {
		start = 0
	}

	// Newest first, matching the database-backed query
	recent := make([]models.TestResult, 0, len(l.results)-start)
	for i := len(l.results) - 1; i >= start; i-- {
		recent = append(recent, l.results[i])
	}
	return recent, nil
}
