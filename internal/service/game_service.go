package service

import (
	"fmt"

	"chessmancer/internal/meta"
	"chessmancer/internal/model"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// Gold and XP awarded when a game a player participated in ends.
const (
	goldPerWin  = 50
	goldPerDraw = 20
)

// GameService is the application facade the controllers talk to. It owns
// game lifecycle and, when an inventory is configured, pays out rewards
// when games end.
type GameService struct {
	gameManager *GameManager
	inventory   *meta.Inventory
}

func NewGameService(gameManager *GameManager, inventory *meta.Inventory) *GameService {
	return &GameService{
		gameManager: gameManager,
		inventory:   inventory,
	}
}

func (gs *GameService) CreateGame(vsOracle bool) (string, error) {
	gameID := uuid.New().String()
	if err := gs.gameManager.CreateGame(gameID, vsOracle); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}
	return gameID, nil
}

func (gs *GameService) JoinGame(gameID string, playerID string) (model.Color, error) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return "", err
	}
	return session.AddPlayer(playerID)
}

func (gs *GameService) GetGameState(gameID string) (SessionState, error) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return SessionState{}, err
	}
	return session.GetState(), nil
}

func (gs *GameService) HandleMove(gameID string, playerID string, mv model.SimpleMove) error {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	if err := session.MakeMove(playerID, mv.From, mv.To); err != nil {
		return err
	}
	gs.awardRewards(session, playerID)
	return nil
}

func (gs *GameService) ResetGame(gameID string) error {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	session.Reset()
	return nil
}

func (gs *GameService) LoadHistory(gameID string, moves []model.SimpleMove) ([]model.ReplayWarning, error) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return session.LoadHistory(moves), nil
}

func (gs *GameService) LegalMoves(gameID string, from model.Square) ([]model.Square, error) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return session.LegalMoves(from), nil
}

func (gs *GameService) Inventory() *meta.Inventory {
	return gs.inventory
}

// awardRewards pays gold into the configured inventory when the move just
// made ended the game. Oracle replies settle asynchronously, so a win by
// the engine pays nothing here; only the outcome visible right now counts.
func (gs *GameService) awardRewards(session *Session, playerID string) {
	if gs.inventory == nil {
		return
	}
	state := session.GetState()
	if !state.Status.GameOver() {
		return
	}

	switch state.Status.Outcome {
	case model.OutcomeCheckmate:
		winner := state.Players.White
		if state.Status.Winner == model.Black {
			winner = state.Players.Black
		}
		if winner.ID == playerID {
			gs.inventory.AddGold(goldPerWin)
		}
	default:
		gs.inventory.AddGold(goldPerDraw)
	}
	if err := gs.inventory.Save(); err != nil {
		log.Warn("failed to persist inventory", "error", err)
	}
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn *websocket.Conn) error {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return session.RegisterConnection(playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return
	}
	session.UnregisterConnection(playerID)
}
