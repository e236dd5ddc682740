package service

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"talktalk/internal/game"
)

// ErrSessionNotFound is returned for an unknown game session ID.
var ErrSessionNotFound = errors.New("game session not found")

// GameService keeps the in-flight board-run sessions. Sessions live in
// memory only; a run is short and abandoning one costs nothing.
type GameService struct {
	mu       sync.Mutex
	sessions map[string]*game.Session
}

// NewGameService creates a new game service
func NewGameService() *GameService {
	return &GameService{sessions: make(map[string]*game.Session)}
}

// CreateSession starts a fresh board run and returns its ID and state.
func (s *GameService) CreateSession() (string, game.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	session := game.NewSession()
	s.sessions[id] = session
	return id, snapshot(session)
}

// GetSession returns the current state of a session.
func (s *GameService) GetSession(id string) (game.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return game.Session{}, ErrSessionNotFound
	}
	return snapshot(session), nil
}

// SubmitAnswer applies one answer to a session and returns the new state.
// A completed session returns game.ErrSessionComplete unchanged.
func (s *GameService) SubmitAnswer(id string, correct bool) (game.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return game.Session{}, ErrSessionNotFound
	}

	if err := session.SubmitAnswer(correct); err != nil {
		return snapshot(session), err
	}
	return snapshot(session), nil
}

// ResetSession replaces a session with a fresh run on the same board.
func (s *GameService) ResetSession(id string) (game.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return game.Session{}, ErrSessionNotFound
	}

	fresh := session.Reset()
	s.sessions[id] = fresh
	return snapshot(fresh), nil
}

// snapshot copies a session so callers can marshal it outside the lock.
func snapshot(session *game.Session) game.Session {
	copied := *session
	copied.Obstacles = make([]game.Obstacle, len(session.Obstacles))
	copy(copied.Obstacles, session.Obstacles)
	return copied
}
