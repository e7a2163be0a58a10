package service

import (
	"errors"
	"sync"

	"chessmancer/internal/oracle"
)

var ErrGameNotFound = errors.New("game not found")

// GameManager is the registry of live sessions. It hands out *Session and
// otherwise stays out of the way; per-game locking lives in the session.
type GameManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	orc      *oracle.Oracle
}

func NewGameManager(orc *oracle.Oracle) *GameManager {
	return &GameManager{
		sessions: make(map[string]*Session),
		orc:      orc,
	}
}

func (gm *GameManager) CreateGame(gameID string, vsOracle bool) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.sessions[gameID]; exists {
		return errors.New("game already exists")
	}
	gm.sessions[gameID] = NewSession(gameID, gm.orc, vsOracle)
	return nil
}

func (gm *GameManager) GetGame(gameID string) (*Session, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	session, exists := gm.sessions[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}
	return session, nil
}

func (gm *GameManager) RemoveGame(gameID string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	delete(gm.sessions, gameID)
}
