// Package game implements the practice-session board run: a bounded
// linear progression driven by one input per answer, with combo scoring
// and obstacle bonuses.
package game

import "errors"

// Status of a practice session.
type Status string

const (
	StatusActive Status = "active"
	StatusWon    Status = "won"
	StatusLost   Status = "lost"
)

// Obstacle kinds.
const (
	ObstacleDoor     = "door"
	ObstacleTrap     = "trap"
	ObstacleTreasure = "treasure"
)

// ErrSessionComplete is returned when an answer is submitted after the
// session has already been won or lost.
var ErrSessionComplete = errors.New("session already complete")

// Scoring constants.
const (
	basePoints    = 100
	maxComboBonus = 5
	treasureBonus = 500

	// A run is lost once 15 answers have been given with fewer than
	// 7 correct.
	lossAnswerThreshold  = 15
	lossCorrectThreshold = 7
)

// Obstacle is a fixed board position with a special effect, unlocked on
// arrival. Unlocked never reverts to false within a session.
type Obstacle struct {
	Position int    `json:"position"`
	Kind     string `json:"kind"`
	Unlocked bool   `json:"unlocked"`
}

// Session tracks one practice run across the board.
type Session struct {
	Position       int        `json:"position"`
	MaxPosition    int        `json:"maxPosition"`
	Score          int        `json:"score"`
	Combo          int        `json:"combo"`
	TotalAnswers   int        `json:"totalAnswers"`
	CorrectAnswers int        `json:"correctAnswers"`
	Status         Status     `json:"status"`
	Obstacles      []Obstacle `json:"obstacles"`
}

// defaultObstacles is the board template every session starts from.
func defaultObstacles() []Obstacle {
	return []Obstacle{
		{Position: 2, Kind: ObstacleDoor},
		{Position: 4, Kind: ObstacleTrap},
		{Position: 6, Kind: ObstacleTreasure},
		{Position: 8, Kind: ObstacleDoor},
		{Position: 10, Kind: ObstacleTreasure},
	}
}

// DefaultMaxPosition is the standard board length.
const DefaultMaxPosition = 10

// NewSession creates a session with the default board.
func NewSession() *Session {
	return NewSessionWithBoard(DefaultMaxPosition, defaultObstacles())
}

// NewSessionWithBoard creates a session with a custom board layout.
func NewSessionWithBoard(maxPosition int, obstacles []Obstacle) *Session {
	obs := make([]Obstacle, len(obstacles))
	copy(obs, obstacles)
	return &Session{
		MaxPosition: maxPosition,
		Status:      StatusActive,
		Obstacles:   obs,
	}
}

// SubmitAnswer applies one answer result to the session. Calling it on a
// won or lost session returns ErrSessionComplete and changes nothing.
func (s *Session) SubmitAnswer(correct bool) error {
	if s.Status != StatusActive {
		return ErrSessionComplete
	}

	s.TotalAnswers++

	if correct {
		s.CorrectAnswers++
		s.Combo++

		multiplier := s.Combo
		if multiplier > maxComboBonus {
			multiplier = maxComboBonus
		}
		s.Score += basePoints * multiplier

		if s.Position < s.MaxPosition {
			s.Position++
			if obs := s.obstacleAt(s.Position); obs != nil {
				obs.Unlocked = true
				if obs.Kind == ObstacleTreasure {
					s.Score += treasureBonus
				}
			}
		}

		if s.Position >= s.MaxPosition {
			s.Status = StatusWon
		}
	} else {
		s.Combo = 0
	}

	// The loss check runs regardless of correctness, so a correct answer
	// that brings the total to 15 without 7 correct still ends the run.
	if s.TotalAnswers >= lossAnswerThreshold && s.CorrectAnswers < lossCorrectThreshold {
		s.Status = StatusLost
	}

	return nil
}

// Reset returns a fresh session with the same board template, discarding
// all progress.
func (s *Session) Reset() *Session {
	template := make([]Obstacle, len(s.Obstacles))
	for i, obs := range s.Obstacles {
		template[i] = Obstacle{Position: obs.Position, Kind: obs.Kind}
	}
	return NewSessionWithBoard(s.MaxPosition, template)
}

// Accuracy returns the fraction of correct answers, 0 when none given.
func (s *Session) Accuracy() float64 {
	if s.TotalAnswers == 0 {
		return 0
	}
	return float64(s.CorrectAnswers) / float64(s.TotalAnswers)
}

// obstacleAt returns the obstacle at a board position, or nil.
func (s *Session) obstacleAt(position int) *Obstacle {
	for i := range s.Obstacles {
		if s.Obstacles[i].Position == position {
			return &s.Obstacles[i]
		}
	}
	return nil
}
