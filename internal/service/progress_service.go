package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"talktalk/internal/models"
	"talktalk/internal/repository"
)

// Store keys for learner progress state.
const (
	keyStreak           = "streak"
	keyLastPracticeDate = "lastPracticeDate"
	keyDailyProgress    = "dailyProgress"
	keyCurrentTopic     = "currentTopic"
	keyTopicDate        = "topicDate"
	keyVoiceEnabled     = "voiceEnabled"
)

// dateLayout is the canonical stored form of a practice date.
const dateLayout = "2006-01-02"

// ProgressStatus is the daily progress summary shown on the home screen.
type ProgressStatus struct {
	Streak         int  `json:"streak"`
	DailyProgress  int  `json:"dailyProgress"`
	PracticedToday bool `json:"practicedToday"`
}

// ProgressService keeps streaks, daily goals and the topic of the day in
// the injected store.
type ProgressService struct {
	store   repository.Store
	results repository.ResultLog
	now     func() time.Time
}

// NewProgressService creates a new progress service
func NewProgressService(store repository.Store, results repository.ResultLog) *ProgressService {
	return &ProgressService{store: store, results: results, now: time.Now}
}

// Status returns the current streak and daily goal state. A streak broken
// by a missed day is reset in the store as a side effect.
func (s *ProgressService) Status(ctx context.Context) (ProgressStatus, error) {
	streak, err := s.getInt(ctx, keyStreak)
	if err != nil {
		return ProgressStatus{}, err
	}

	lastPractice, err := s.getString(ctx, keyLastPracticeDate)
	if err != nil {
		return ProgressStatus{}, err
	}

	today := s.now().Format(dateLayout)
	yesterday := s.now().AddDate(0, 0, -1).Format(dateLayout)

	status := ProgressStatus{Streak: streak}

	switch lastPractice {
	case today:
		status.PracticedToday = true
		status.DailyProgress = 100
	case yesterday:
		// Streak carries over, nothing practiced yet today
	default:
		if lastPractice != "" && streak > 0 {
			status.Streak = 0
			if err := s.store.Set(ctx, keyStreak, "0"); err != nil {
				return ProgressStatus{}, fmt.Errorf("failed to reset streak: %w", err)
			}
		}
	}

	return status, nil
}

// RecordPractice registers a completed practice: streak increments, the
// daily goal is met and the practice date moves to today. Returns the new
// streak.
func (s *ProgressService) RecordPractice(ctx context.Context) (int, error) {
	streak, err := s.getInt(ctx, keyStreak)
	if err != nil {
		return 0, err
	}

	streak++
	today := s.now().Format(dateLayout)

	if err := s.store.Set(ctx, keyStreak, strconv.Itoa(streak)); err != nil {
		return 0, err
	}
	if err := s.store.Set(ctx, keyLastPracticeDate, today); err != nil {
		return 0, err
	}
	if err := s.store.Set(ctx, keyDailyProgress, "100"); err != nil {
		return 0, err
	}

	return streak, nil
}

// TodayTopic returns the topic of the day, drawing a new random one when
// the cached topic is stale.
func (s *ProgressService) TodayTopic(ctx context.Context) (models.Topic, error) {
	today := s.now().Format(dateLayout)

	topicDate, err := s.getString(ctx, keyTopicDate)
	if err != nil {
		return models.Topic{}, err
	}

	if topicDate == today {
		saved, err := s.getString(ctx, keyCurrentTopic)
		if err != nil {
			return models.Topic{}, err
		}
		var topic models.Topic
		if saved != "" && json.Unmarshal([]byte(saved), &topic) == nil {
			return topic, nil
		}
		// Stale or corrupt cache, fall through and redraw
	}

	topic := models.DefaultTopics[rand.Intn(len(models.DefaultTopics))]

	data, err := json.Marshal(topic)
	if err != nil {
		return models.Topic{}, err
	}
	if err := s.store.Set(ctx, keyCurrentTopic, string(data)); err != nil {
		return models.Topic{}, err
	}
	if err := s.store.Set(ctx, keyTopicDate, today); err != nil {
		return models.Topic{}, err
	}

	return topic, nil
}

// VoiceEnabled reports whether spoken playback is turned on. Off until the
// learner opts in.
func (s *ProgressService) VoiceEnabled(ctx context.Context) (bool, error) {
	value, err := s.getString(ctx, keyVoiceEnabled)
	if err != nil {
		return false, err
	}
	return value == "true", nil
}

// SetVoiceEnabled stores the voice playback preference.
func (s *ProgressService) SetVoiceEnabled(ctx context.Context, enabled bool) error {
	return s.store.Set(ctx, keyVoiceEnabled, strconv.FormatBool(enabled))
}

// SaveResult appends a completed test answer to the results log.
func (s *ProgressService) SaveResult(result models.TestResult) error {
	if s.results == nil {
		return errors.New("results log not configured")
	}
	if result.AnsweredAt.IsZero() {
		result.AnsweredAt = s.now()
	}
	return s.results.SaveResult(result)
}

// RecentResults returns the most recent test answers, newest first.
func (s *ProgressService) RecentResults(limit int) ([]models.TestResult, error) {
	if s.results == nil {
		return nil, errors.New("results log not configured")
	}
	return s.results.RecentResults(limit)
}

// getString reads a key, treating a missing key as empty.
func (s *ProgressService) getString(ctx context.Context, key string) (string, error) {
	value, err := s.store.Get(ctx, key)
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// getInt reads an integer key, treating a missing or malformed value as 0.
func (s *ProgressService) getInt(ctx context.Context, key string) (int, error) {
	value, err := s.getString(ctx, key)
	if err != nil {
		return 0, err
	}
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, nil
	}
	return n, nil
}
